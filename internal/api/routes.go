// routes.go - Route registration
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nickcecere/barnsbot/internal/web"
)

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/", web.HandleIndex)
	e.GET("/health", h.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Store identity
	e.GET("/store/id", h.HandleStoreID)
	e.POST("/store/use", h.HandleStoreUse)
	e.GET("/status", h.HandleStatus)

	// Documents and questions
	e.POST("/ingest", h.HandleIngest)
	e.POST("/ask", h.HandleAsk)
}
