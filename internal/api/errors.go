// errors.go - JSON error envelope shared by every handler
package api

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/nickcecere/barnsbot/internal/upstream"
)

// APIError is rendered as {ok:false, error, code?, detail?}.
type APIError struct {
	Status  int    `json:"-"`
	OK      bool   `json:"ok"`
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
	Detail  any    `json:"detail,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Message: message,
	}
}

// NewUpstreamError reports a failed provider call with the given status,
// passing the provider's message, code and detail through.
func NewUpstreamError(status int, err error) *APIError {
	message, code, detail := upstream.Describe(err)
	return &APIError{
		Status:  status,
		Message: message,
		Code:    code,
		Detail:  detail,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Message: message,
	}
	if cause != nil {
		err.Detail = cause.Error()
	}
	return err
}

// ErrorHandler renders errors returned by handlers and middleware.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError

	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{
			Status:  e.Code,
			Message: fmt.Sprintf("%v", e.Message),
		}
	default:
		log.Error("Unhandled error", "path", c.Request().URL.Path, "error", err)
		apiErr = NewInternalError("An unexpected error occurred", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(apiErr.Status)
		return
	}
	_ = c.JSON(apiErr.Status, apiErr)
}
