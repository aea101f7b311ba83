// Package web provides the embedded landing page.
package web

import (
	"embed"
	"net/http"

	"github.com/labstack/echo/v4"
)

//go:embed static/index.html
var staticFiles embed.FS

// IndexHTML returns the landing page.
func IndexHTML() ([]byte, error) {
	return staticFiles.ReadFile("static/index.html")
}

// HandleIndex serves the landing page.
func HandleIndex(c echo.Context) error {
	content, err := IndexHTML()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to read index.html")
	}
	return c.HTMLBlob(http.StatusOK, content)
}
