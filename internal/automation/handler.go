package automation

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

// TriggerRequest is the body of a manual or form-backend trigger call.
type TriggerRequest struct {
	ID          string `json:"id" validate:"required"`
	BookingLink string `json:"bookingLink" validate:"omitempty,url"`
}

// Handler handles HTTP requests for the automation trigger.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new automation handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Trigger launches the engagement pipeline for a lead.
// POST /api/v1/automation/trigger
func (h *Handler) Trigger(c *gin.Context) {
	var req TriggerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	leadID, err := uuid.Parse(req.ID)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead ID", nil)
		return
	}

	result, err := h.svc.Trigger(c.Request.Context(), leadID, req.BookingLink)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{
		"success":   true,
		"triggered": result.Triggered,
		"email":     result.Email,
		"sms":       result.SMS,
	})
}
