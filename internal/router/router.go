package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/theater-billing/internal/handler"
	"github.com/iliyamo/theater-billing/internal/middleware"
)

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPlays registers the play catalog.  Reads are public and go
// through cache; writes require a MANAGER token.
func RegisterPlays(e *echo.Echo, p *handler.PlayHandler, jwtSecret string, cache echo.MiddlewareFunc) {
	e.GET("/v1/plays", p.List, cache)
	e.GET("/v1/plays/:id", p.Get, cache)

	g := e.Group("/v1/plays",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleManager),
	)
	g.PUT("/:id", p.Put)
	g.DELETE("/:id", p.Delete)
}

// RegisterStatements registers statement generation for MANAGER and CLERK
// tokens.  The limiter runs after authentication so per-user keys work.
func RegisterStatements(e *echo.Echo, s *handler.StatementHandler, jwtSecret string, limiter echo.MiddlewareFunc) {
	g := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleManager, middleware.RoleClerk),
		limiter,
	)
	g.POST("/statements", s.Create)
}
