// Package http provides HTTP server infrastructure including the Module interface
// that all domain modules must implement for route registration.
package http

import (
	"leadflow_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module represents a bounded context that can register its HTTP routes.
// Each domain module implements this interface to encapsulate its own
// route setup, keeping the main router decoupled from specific endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the provided router group.
	// The RouterContext provides access to shared middleware and configuration.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext provides shared dependencies for module route registration.
// This avoids passing many parameters to each module's RegisterRoutes method.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group. Public form and webhook endpoints mount here.
	V1 *gin.RouterGroup
	// Admin is the admin-only route group under /api/v1/admin (JWT + admin role).
	Admin *gin.RouterGroup
	// AdminMiddleware guards individual routes that must stay on their
	// original path (e.g. the debug booking reset) but still need admin auth.
	AdminMiddleware []gin.HandlerFunc
	// PublicRateLimiter throttles unauthenticated form submissions by IP.
	PublicRateLimiter *httpkit.IPRateLimiter
}
