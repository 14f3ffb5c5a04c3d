package subscriptions

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/email"
	"leadflow_backend/internal/sequence"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"
)

// Module is the subscriptions bounded context module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates and initializes the subscriptions module.
func NewModule(pool *pgxpool.Pool, sender email.Sender, scheduler *sequence.Scheduler, val *validator.Validator, log *logger.Logger, bookingBase string) *Module {
	repo := NewRepo(pool)
	svc := NewService(repo, sender, scheduler, log, bookingBase)
	return &Module{handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "subscriptions"
}

// RegisterRoutes mounts subscription routes on the provided router context,
// with a bare-path alias for the opt-in form.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/subscribe", ctx.PublicRateLimiter.RateLimit(), m.handler.Subscribe)
	ctx.Engine.POST("/subscribe", ctx.PublicRateLimiter.RateLimit(), m.handler.Subscribe)
	ctx.Admin.POST("/subscriptions/broadcast", m.handler.Broadcast)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
