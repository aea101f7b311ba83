// handlers_store.go - Vector store status and switching
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nickcecere/barnsbot/internal/store"
	"github.com/nickcecere/barnsbot/internal/upstream"
)

// SwitchedMessage tells the caller the new store only applies after a restart.
const SwitchedMessage = "Switched vector store. Restart server to apply."

type storeIDResponse struct {
	OK      bool   `json:"ok"`
	StoreID string `json:"vectorStoreId"`
}

type storeUseRequest struct {
	ID string `json:"id"`
}

type storeUseResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

type statusResponse struct {
	OK bool `json:"ok"`
	*store.Status
}

// HandleStoreID returns the store this process serves.
func (h *Handler) HandleStoreID(c echo.Context) error {
	return c.JSON(http.StatusOK, storeIDResponse{OK: true, StoreID: h.admin.ActiveID()})
}

// HandleStoreUse validates and persists a different store for the next start.
func (h *Handler) HandleStoreUse(c echo.Context) error {
	var req storeUseRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid JSON body")
	}

	id, err := h.admin.Switch(c.Request().Context(), req.ID)
	if errors.Is(err, store.ErrEmptyID) {
		return NewBadRequestError("No id provided")
	}
	if err != nil {
		message, _, _ := upstream.Describe(err)
		return NewBadRequestError(message)
	}

	return c.JSON(http.StatusOK, storeUseResponse{OK: true, Message: SwitchedMessage, ID: id})
}

// HandleStatus lists the files attached to the active store.
func (h *Handler) HandleStatus(c echo.Context) error {
	status, err := h.admin.Status(c.Request().Context())
	if err != nil {
		return NewUpstreamError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, statusResponse{OK: true, Status: status})
}
