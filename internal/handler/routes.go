package handler

import (
	"github.com/labstack/echo/v4"

	"blobs-proxy/internal/config"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, relay *RelayHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	e.Any(cfg.Server.RoutePrefix+"/*", relay.Handle)
}
