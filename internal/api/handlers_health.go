// handlers_health.go - Liveness
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleHealth reports that the process is serving.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"ok": true})
}
