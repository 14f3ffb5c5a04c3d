package calendly

import (
	"github.com/gin-gonic/gin"

	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

// Module is the scheduling-webhook bounded context module implementing
// http.Module.
type Module struct {
	handler       *Handler
	log           *logger.Logger
	webhookSecret string
}

// NewModule wires the webhook ingest against the shared lead store.
func NewModule(leads repository.Repository, val *validator.Validator, log *logger.Logger, webhookSecret string) *Module {
	svc := New(leads, log)
	return &Module{
		handler:       NewHandler(svc, val),
		log:           log,
		webhookSecret: webhookSecret,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "calendly"
}

// RegisterRoutes mounts webhook routes on the provided router context. The
// test endpoint skips signature verification so integrations can be checked
// without the provider secret. The provider subscription points at the bare
// paths, so those stay registered alongside the /api/v1 ones.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	for _, g := range []gin.IRoutes{ctx.V1, ctx.Engine} {
		g.POST("/calendly/webhook", VerifySignature(m.webhookSecret, m.log), m.handler.Webhook)
		g.POST("/calendly/webhook-test", m.handler.Webhook)
		g.POST("/calendly/mark-booked", m.handler.MarkBooked)
	}
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
