package content

import (
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/platform/validator"
)

// Module is the content drafting module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the content module around an already-built service.
func NewModule(svc *Service, val *validator.Validator) *Module {
	return &Module{handler: NewHandler(svc, val)}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "content"
}

// RegisterRoutes mounts content routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Admin.POST("/content/draft", m.handler.Draft)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
