// Package api exposes the knowledge-base HTTP surface: ingestion, questions,
// store status and switching.
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer builds the Echo instance with middleware and routes.
func NewServer(deps *Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler

	e.Use(middleware.Recover())
	e.Use(Metrics())
	e.Use(RequestLogger())
	e.Use(CORS())
	if deps.BodyLimit != "" {
		e.Use(middleware.BodyLimit(deps.BodyLimit))
	}

	RegisterRoutes(e, NewHandler(deps))
	return e
}
