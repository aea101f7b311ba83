// handlers.go - Handler wiring
package api

import (
	"github.com/nickcecere/barnsbot/internal/ingest"
	"github.com/nickcecere/barnsbot/internal/llm"
	"github.com/nickcecere/barnsbot/internal/store"
	"github.com/nickcecere/barnsbot/internal/upload"
)

// Dependencies holds everything the handlers need. All of them are bound to
// the store id resolved at startup.
type Dependencies struct {
	Admin    *store.Admin
	Pipeline *ingest.Pipeline
	Relay    *llm.Relay
	Spool    *upload.Spool

	// MaxFiles caps files per ingest request.
	MaxFiles int

	// BodyLimit is an echo size string such as "64M". Empty disables the limit.
	BodyLimit string
}

// Handler serves the HTTP API.
type Handler struct {
	admin    *store.Admin
	pipeline *ingest.Pipeline
	relay    *llm.Relay
	spool    *upload.Spool
	maxFiles int
}

// NewHandler creates a Handler from deps.
func NewHandler(deps *Dependencies) *Handler {
	return &Handler{
		admin:    deps.Admin,
		pipeline: deps.Pipeline,
		relay:    deps.Relay,
		spool:    deps.Spool,
		maxFiles: deps.MaxFiles,
	}
}
