package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/nickppf/nickppf-api/internal/infra/http/middleware"
	"github.com/nickppf/nickppf-api/internal/usecase"
)

type ContactHandler struct {
	SubmitLeadUC *usecase.SubmitLeadUseCase
	RateLimiter  *RateLimiter
	Logger       *zap.Logger
}

func NewContactHandler(uc *usecase.SubmitLeadUseCase, limiter *RateLimiter, logger *zap.Logger) *ContactHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactHandler{
		SubmitLeadUC: uc,
		RateLimiter:  limiter,
		Logger:       logger,
	}
}

type ContactResponse struct {
	Success bool `json:"success"`
}

// Handle (POST /api/contact)
func (h *ContactHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.RateLimiter != nil && !h.RateLimiter.Allow(getClientIP(r)) {
		writeError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	var input usecase.SubmitLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	out, err := h.SubmitLeadUC.Execute(r.Context(), input)
	switch {
	case err == nil:
	case usecase.IsDomainError(err):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case usecase.IsConfigError(err):
		middleware.RecordIntegrationError("google_sheets")
		writeError(w, http.StatusInternalServerError, "Server configuration error")
		return
	default:
		middleware.RecordIntegrationError("google_sheets")
		h.Logger.Error("❌ erro ao enviar formulário", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to submit form",
			Details: err.Error(),
		})
		return
	}

	middleware.RecordLeadsSubmitted(len(out.LeadIDs))
	writeJSON(w, http.StatusOK, ContactResponse{Success: true})
}
