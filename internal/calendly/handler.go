package calendly

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

// webhookEnvelope is the provider's event wrapper. Payload stays untyped:
// the shape varies between provider versions and the extractor walks it
// generically.
type webhookEnvelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// MarkBookedRequest is the manual booking body; at least one identifier is
// expected.
type MarkBookedRequest struct {
	LeadID string `json:"leadId" validate:"omitempty"`
	Email  string `json:"email" validate:"omitempty,email"`
}

// Handler handles scheduling webhook HTTP requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new calendly handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Webhook ingests a provider event.
// POST /api/v1/calendly/webhook
func (h *Handler) Webhook(c *gin.Context) {
	var envelope webhookEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}

	result, err := h.svc.HandleEvent(c.Request.Context(), envelope.Event, envelope.Payload)
	if httpkit.HandleError(c, err) {
		return
	}
	body := gin.H{"success": true, "matched": result.Matched, "ignored": result.Ignored}
	if result.LeadID != "" {
		body["id"] = result.LeadID
	}
	httpkit.OK(c, body)
}

// MarkBooked records a booking outside the webhook flow.
// POST /api/v1/calendly/mark-booked
func (h *Handler) MarkBooked(c *gin.Context) {
	var req MarkBookedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}
	if req.LeadID == "" && req.Email == "" {
		httpkit.Error(c, http.StatusBadRequest, "leadId or email is required", nil)
		return
	}

	result, err := h.svc.MarkBooked(c.Request.Context(), req.LeadID, req.Email)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true, "matched": result.Matched, "id": result.LeadID})
}
