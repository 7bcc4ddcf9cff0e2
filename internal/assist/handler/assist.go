package handler

import (
	"net/http"

	"github.com/craftline/craftline-backend/internal/assist"
	"github.com/craftline/craftline-backend/pkg/httputil"
	"github.com/craftline/craftline-backend/pkg/logger"
)

// AssistHandler handles content generation and referral endpoints
type AssistHandler struct {
	content   *assist.ContentClient
	referrals *assist.ReferralClient
	logger    *logger.Logger
}

// NewAssistHandler creates a new assist handler
func NewAssistHandler(content *assist.ContentClient, referrals *assist.ReferralClient, log *logger.Logger) *AssistHandler {
	return &AssistHandler{
		content:   content,
		referrals: referrals,
		logger:    log,
	}
}

// GenerateRequest is the input shape for content generation
type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,min=1,max=2000"`
}

// ReferralRequest is the input shape for referral tracking
type ReferralRequest struct {
	Code string `json:"code" validate:"required,min=1,max=64"`
}

func (h *AssistHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.content.Generate(r.Context(), req.Prompt)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}

func (h *AssistHandler) TrackReferral(w http.ResponseWriter, r *http.Request) {
	var req ReferralRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.referrals.Track(r.Context(), req.Code)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, result)
}
