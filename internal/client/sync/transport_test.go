package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dmitrijs2005/tickit/internal/protocol"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportExchange(t *testing.T) {
	serverTime, err := timex.Parse("2024-01-01T00:00:05.000Z")
	require.NoError(t, err)

	var gotAuth, gotPath, gotContentType string
	var gotReq protocol.Request

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(protocol.Response{ServerTime: serverTime})
	}))
	defer srv.Close()

	tr := NewHTTPTransport()
	resp, err := tr.Exchange(context.Background(), srv.URL+"/", "tok", &protocol.Request{
		DeviceID: "dev-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, SyncPath, gotPath, "trailing slash in server URL is tolerated")
	assert.Equal(t, "dev-1", gotReq.DeviceID)
	assert.Nil(t, gotReq.LastSync)
	assert.True(t, resp.ServerTime.Equal(serverTime.Time))
}

func TestHTTPTransportNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	tr := NewHTTPTransport()
	_, err := tr.Exchange(context.Background(), srv.URL, "bad", &protocol.Request{})
	require.Error(t, err)

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusUnauthorized, te.Status)
}

func TestHTTPTransportMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	tr := NewHTTPTransport()
	_, err := tr.Exchange(context.Background(), srv.URL, "tok", &protocol.Request{})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusOK, te.Status)
}

func TestHTTPTransportConnectionRefused(t *testing.T) {
	tr := NewHTTPTransport()
	_, err := tr.Exchange(context.Background(), "http://127.0.0.1:1", "tok", &protocol.Request{})

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Zero(t, te.Status)
	assert.NotNil(t, te.Unwrap())
}
