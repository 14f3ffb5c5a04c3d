package automation

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/email"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/sequence"
	"leadflow_backend/internal/sms"
	"leadflow_backend/internal/storage"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

// Module is the automation bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule wires the automation trigger against the shared lead store,
// outbound senders, and the sequence scheduler.
func NewModule(
	leads repository.LeadReader,
	emailSender email.Sender,
	smsSender sms.Sender,
	scheduler *sequence.Scheduler,
	resources *storage.Service,
	clock sequence.Clock,
	val *validator.Validator,
	log *logger.Logger,
	bookingBase string,
) *Module {
	svc := New(leads, emailSender, smsSender, scheduler, resources, clock, log, bookingBase)
	return &Module{handler: NewHandler(svc, val), service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "automation"
}

// Service exposes the trigger for cross-module consumers.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts automation routes on the provided router context,
// with a bare-path alias for callers that predate the /api/v1 prefix.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/automation/trigger", ctx.PublicRateLimiter.RateLimit(), m.handler.Trigger)
	ctx.Engine.POST("/automation/trigger", ctx.PublicRateLimiter.RateLimit(), m.handler.Trigger)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
