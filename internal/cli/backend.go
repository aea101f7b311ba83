package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/barnsbot/internal/config"
	"github.com/nickcecere/barnsbot/internal/fs"
	"github.com/nickcecere/barnsbot/internal/ingest"
	"github.com/nickcecere/barnsbot/internal/llm"
	"github.com/nickcecere/barnsbot/internal/store"
)

// backend is the set of services bound to the resolved vector store.
type backend struct {
	cfg     *config.Config
	storeID string
	source  store.Source

	admin    *store.Admin
	pipeline *ingest.Pipeline
	relay    *llm.Relay
}

// openBackend validates cfg, resolves the active store (creating and
// persisting one if needed) and wires the services to it.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	svc, err := store.NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create vector store client: %w", err)
	}
	model, err := llm.NewService(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create model client: %w", err)
	}

	state := store.NewStateFile(cfg.Store.IDFile)
	resolver := store.NewResolver(svc, state, cfg.Store.ID, cfg.Store.Name)

	id, source, err := resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve vector store: %w", err)
	}
	log.Info("Using vector store", "id", id, "source", source)

	return &backend{
		cfg:      cfg,
		storeID:  id,
		source:   source,
		admin:    store.NewAdmin(svc, state, id),
		pipeline: ingest.NewPipeline(svc, id, ""),
		relay:    llm.NewRelay(model, id, cfg.LLM.MaxResults),
	}, nil
}

// walkOptions builds directory walk options for document discovery.
func walkOptions(cfg *config.Config) fs.WalkOptions {
	opts := fs.DefaultWalkOptions()
	opts.Extensions = ingest.Extensions()
	opts.IgnorePatterns = cfg.Ingest.Ignore
	if cfg.Ingest.MaxFileSize > 0 {
		opts.MaxFileSize = cfg.Ingest.MaxFileSize
	}
	return opts
}
