package subscriptions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"leadflow_backend/platform/httpkit"
	"leadflow_backend/platform/validator"
)

// SubscribeRequest is the public opt-in body.
type SubscribeRequest struct {
	Email    string  `json:"email" validate:"required,email"`
	Name     *string `json:"name" validate:"omitempty,max=200"`
	Language string  `json:"language" validate:"omitempty,oneof=en es"`
	Source   *string `json:"source" validate:"omitempty,max=200"`
}

// Handler handles subscription HTTP requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new subscriptions handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Subscribe records a newsletter opt-in.
// POST /api/v1/subscribe
func (h *Handler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	sub, err := h.svc.Subscribe(c.Request.Context(), req.Email, req.Name, req.Language, req.Source)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, gin.H{"success": true, "id": sub.ID.String()})
}

// Broadcast enrolls pending subscribers into the nurture sequence.
// POST /api/v1/admin/subscriptions/broadcast
func (h *Handler) Broadcast(c *gin.Context) {
	result, err := h.svc.Broadcast(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"success": true, "enrolled": result.Enrolled, "failed": result.Failed})
}
