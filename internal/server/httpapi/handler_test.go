package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/dmitrijs2005/tickit/internal/protocol"
	"github.com/dmitrijs2005/tickit/internal/server/auth"
	servermodels "github.com/dmitrijs2005/tickit/internal/server/models"
	"github.com/dmitrijs2005/tickit/internal/server/services"
	"github.com/dmitrijs2005/tickit/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRecordRepo struct {
	rows map[string]*servermodels.Record
}

func (m *memRecordRepo) Upsert(ctx context.Context, rec *servermodels.Record) (bool, error) {
	if existing, ok := m.rows[rec.ID]; ok && !rec.UpdatedAt.After(existing.UpdatedAt.Time) {
		return false, nil
	}
	m.rows[rec.ID] = rec
	return true, nil
}

func (m *memRecordRepo) MarkDeleted(ctx context.Context, rec *servermodels.Record) error {
	m.rows[rec.ID] = rec
	return nil
}

func (m *memRecordRepo) UpdatedSince(ctx context.Context, accountID string, since *timex.Time, excludeDeviceID string) ([]*servermodels.Record, error) {
	var result []*servermodels.Record
	for _, row := range m.rows {
		if row.AccountID != accountID || row.DeviceID == excludeDeviceID {
			continue
		}
		if since != nil && !row.UpdatedAt.After(since.Time) {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

type memDeviceRepo struct{}

func (memDeviceRepo) Touch(ctx context.Context, accountID, deviceID string, now timex.Time) error {
	return nil
}

func (memDeviceRepo) ListByAccount(ctx context.Context, accountID string) ([]*servermodels.Device, error) {
	return nil, nil
}

var secret = []byte("test-secret")

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := services.NewSyncService(
		&memRecordRepo{rows: make(map[string]*servermodels.Record)},
		memDeviceRepo{}, logging.Discard())
	h := NewHandler(svc, logging.Discard())
	srv := httptest.NewServer(h.Routes(secret))
	t.Cleanup(srv.Close)
	return srv
}

func postSync(t *testing.T, srv *httptest.Server, token string, body []byte) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/sync", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func mintToken(t *testing.T) string {
	t.Helper()
	tok, err := auth.GenerateToken("acc-1", secret, time.Hour)
	require.NoError(t, err)
	return tok
}

func TestSyncRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp := postSync(t, srv, "", []byte(`{}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postSync(t, srv, "garbage", []byte(`{}`))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSyncRejectsBadBody(t *testing.T) {
	srv := newTestServer(t)
	token := mintToken(t)

	resp := postSync(t, srv, token, []byte(`{not json`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postSync(t, srv, token, []byte(`{"last_sync": null, "changes": []}`))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "device_id is required")
}

func TestSyncRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	token := mintToken(t)

	push := []byte(`{
		"device_id": "dev-a",
		"last_sync": null,
		"changes": [
			{"type": "task", "id": "t1", "title": "hello", "description": null,
			 "url": null, "priority": "medium", "completed": false, "list_id": "l1",
			 "due_date": null, "created_at": "2024-01-01T10:00:00.000Z",
			 "updated_at": "2024-01-01T10:00:00.000Z"}
		]
	}`)

	resp := postSync(t, srv, token, push)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var first protocol.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&first))
	assert.Empty(t, first.Changes)
	assert.False(t, first.ServerTime.IsZero())

	// A second device pulls what the first pushed.
	resp = postSync(t, srv, token, []byte(`{"device_id": "dev-b", "last_sync": null, "changes": []}`))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var second protocol.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&second))
	require.Len(t, second.Changes, 1)
	assert.Equal(t, protocol.TypeTask, second.Changes[0].Type)
	assert.Equal(t, "hello", second.Changes[0].Task.Title)
}

func TestSyncMethodRouting(t *testing.T) {
	srv := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/v1/sync")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
