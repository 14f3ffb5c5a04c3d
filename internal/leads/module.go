// Package leads provides the lead lifecycle bounded context module.
package leads

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Repository returns the lead store for cross-module consumers
// (automation trigger, webhook matcher).
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context. The
// hosted form posts to the bare paths, so those stay registered alongside
// the /api/v1 ones.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public prequalification form endpoints (rate limited, no auth)
	for _, g := range []gin.IRoutes{ctx.V1, ctx.Engine} {
		g.POST("/prequal", ctx.PublicRateLimiter.RateLimit(), m.handler.Create)
		g.GET("/prequal/:id", m.handler.GetByID)
		g.PATCH("/prequal/:id", m.handler.Update)
	}

	// Administrative escape hatch on its historical path
	resetHandlers := append([]gin.HandlerFunc{}, ctx.AdminMiddleware...)
	resetHandlers = append(resetHandlers, m.handler.ResetBooking)
	ctx.V1.POST("/debug/reset-booking/:id", resetHandlers...)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
