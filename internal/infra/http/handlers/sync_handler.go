package handlers

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/infra/http/middleware"
	"github.com/nickppf/nickppf-api/internal/usecase"
)

type SyncHandler struct {
	SyncOrdersUC *usecase.SyncOrdersUseCase
	Token        string
	Logger       *zap.Logger
}

func NewSyncHandler(uc *usecase.SyncOrdersUseCase, token string, logger *zap.Logger) *SyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncHandler{SyncOrdersUC: uc, Token: token, Logger: logger}
}

type SyncResponse struct {
	Success bool `json:"success"`
	*usecase.SyncOrdersOutput
}

// Handle (GET|POST /api/sync)
func (h *SyncHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	out, err := h.SyncOrdersUC.Execute(r.Context())
	switch {
	case err == nil:
	case usecase.IsConfigError(err):
		writeError(w, http.StatusInternalServerError, "Server configuration error: "+err.Error())
		return
	default:
		middleware.RecordIntegrationError("sync")
		h.Logger.Error("❌ sync falhou", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to execute sync",
			Details: err.Error(),
		})
		return
	}

	middleware.RecordSync(out.Synced, out.Skipped, len(out.Errors))
	writeJSON(w, http.StatusOK, SyncResponse{Success: true, SyncOrdersOutput: out})
}

func (h *SyncHandler) authorized(r *http.Request) bool {
	if h.Token == "" {
		return true
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	return ok && subtle.ConstantTimeCompare([]byte(token), []byte(h.Token)) == 1
}
