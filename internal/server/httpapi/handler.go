package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/tickit/internal/logging"
	"github.com/dmitrijs2005/tickit/internal/protocol"
	"github.com/dmitrijs2005/tickit/internal/server/services"
)

// maxRequestBody bounds a sync request; a full snapshot of a large store
// still fits comfortably.
const maxRequestBody = 16 << 20

// Handler serves the sync endpoint.
type Handler struct {
	syncService *services.SyncService
	logger      logging.Logger
}

func NewHandler(syncService *services.SyncService, logger logging.Logger) *Handler {
	return &Handler{syncService: syncService, logger: logger.With("module", "http_handler")}
}

// Routes returns the routed, authenticated handler tree.
func (h *Handler) Routes(secretKey []byte) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/sync", BearerAuth(secretKey, http.HandlerFunc(h.sync)))
	return mux
}

func (h *Handler) sync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	accountID := AccountID(ctx)

	var req protocol.Request
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "malformed request body", http.StatusBadRequest)
		return
	}
	if req.DeviceID == "" {
		http.Error(w, "device_id is required", http.StatusBadRequest)
		return
	}

	resp, err := h.syncService.Exchange(ctx, accountID, &req)
	if err != nil {
		h.logger.Error(ctx, "exchange failed",
			"account_id", accountID, "device_id", req.DeviceID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error(ctx, "failed to encode response", "error", err)
	}
}
