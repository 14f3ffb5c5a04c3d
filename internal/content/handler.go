package content

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

// DraftRequest describes the copy an admin wants generated.
type DraftRequest struct {
	Channel  string `json:"channel" validate:"required,oneof=email sms"`
	Audience string `json:"audience" validate:"required,max=500"`
	Goal     string `json:"goal" validate:"required,max=500"`
}

// Handler handles content drafting HTTP requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new content handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Draft generates message copy for review.
// POST /api/v1/admin/content/draft
func (h *Handler) Draft(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	text, err := h.svc.Draft(c.Request.Context(), req.Channel, req.Audience, req.Goal)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true, "draft": text})
}
