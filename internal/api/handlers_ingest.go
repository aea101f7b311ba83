// handlers_ingest.go - Multipart document ingestion
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"github.com/nickcecere/barnsbot/internal/ingest"
	"github.com/nickcecere/barnsbot/internal/metrics"
)

// ingestField is the multipart field carrying the files.
const ingestField = "files"

type ingestResponse struct {
	OK      bool            `json:"ok"`
	Message string          `json:"message,omitempty"`
	Error   string          `json:"error,omitempty"`
	Detail  any             `json:"detail,omitempty"`
	StoreID string          `json:"vectorStoreId"`
	Results []ingest.Record `json:"results"`
}

// HandleIngest uploads every file in the request to the active store.
func (h *Handler) HandleIngest(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return NewBadRequestError("No files uploaded")
		}
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Error:   "Failed to read upload",
			Detail:  err.Error(),
			StoreID: h.pipeline.StoreID(),
			Results: []ingest.Record{},
		})
	}
	defer form.RemoveAll()

	files := form.File[ingestField]
	if len(files) == 0 {
		return NewBadRequestError("No files uploaded")
	}
	if len(files) > h.maxFiles {
		return NewBadRequestError(fmt.Sprintf("Too many files (max %d)", h.maxFiles))
	}

	artifacts, err := h.spool.SaveAll(files)
	if err != nil {
		log.Error("Ingest fatal error", "error", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Error:   err.Error(),
			Detail:  err.Error(),
			StoreID: h.pipeline.StoreID(),
			Results: []ingest.Record{},
		})
	}

	sources := make([]ingest.Source, 0, len(artifacts))
	for _, a := range artifacts {
		sources = append(sources, ingest.Source{
			OriginalName: a.OriginalName,
			Path:         a.Path,
			Temporary:    true,
		})
	}

	report, err := h.pipeline.Ingest(c.Request().Context(), sources)
	if err != nil {
		log.Error("Ingest fatal error", "error", err)
		return c.JSON(http.StatusInternalServerError, ingestResponse{
			Error:   err.Error(),
			Detail:  err.Error(),
			StoreID: h.pipeline.StoreID(),
			Results: []ingest.Record{},
		})
	}

	metrics.RecordIngest(report.Added, report.Failed)

	if report.AllFailed() {
		return c.JSON(http.StatusBadRequest, ingestResponse{
			Error:   "All uploads failed",
			StoreID: report.StoreID,
			Results: report.Results,
		})
	}

	return c.JSON(http.StatusOK, ingestResponse{
		OK:      true,
		Message: report.Message(),
		StoreID: report.StoreID,
		Results: report.Results,
	})
}
