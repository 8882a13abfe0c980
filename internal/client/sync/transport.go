package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/tickit/internal/protocol"
)

// SyncPath is the single endpoint the client talks to.
const SyncPath = "/api/v1/sync"

// TransportError reports a failed exchange: a network error (Status 0) or a
// non-2xx response.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("sync request failed with status %d", e.Status)
	}
	return fmt.Sprintf("sync request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Transport performs one request/response exchange with the sync server.
type Transport interface {
	Exchange(ctx context.Context, server, token string, req *protocol.Request) (*protocol.Response, error)
}

// HTTPTransport implements Transport over a single JSON POST.
type HTTPTransport struct {
	client *http.Client
}

func NewHTTPTransport() *HTTPTransport {
	return &HTTPTransport{client: &http.Client{Timeout: 30 * time.Second}}
}

func (t *HTTPTransport) Exchange(ctx context.Context, server, token string, req *protocol.Request) (*protocol.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sync request: %w", err)
	}

	url := strings.TrimRight(server, "/") + SyncPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build sync request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096))
		return nil, &TransportError{Status: httpResp.StatusCode}
	}

	var resp protocol.Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, &TransportError{Status: httpResp.StatusCode, Err: fmt.Errorf("malformed response body: %w", err)}
	}
	return &resp, nil
}
