package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

// Resolver decides which vector store the process serves. The first match
// wins: the override, then the state file, then a newly created store whose
// id is persisted. The override is never written to the state file.
type Resolver struct {
	svc      Service
	state    *StateFile
	override string
	name     string

	mu     sync.Mutex
	id     string
	source Source
}

// NewResolver creates a Resolver. name is used when a store has to be created.
func NewResolver(svc Service, state *StateFile, override, name string) *Resolver {
	return &Resolver{
		svc:      svc,
		state:    state,
		override: strings.TrimSpace(override),
		name:     name,
	}
}

// Resolve returns the active store id and where it came from. The result is
// cached so repeated calls never create a second store.
func (r *Resolver) Resolve(ctx context.Context) (string, Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != "" {
		return r.id, r.source, nil
	}

	if r.override != "" {
		r.id, r.source = r.override, SourceEnv
		return r.id, r.source, nil
	}

	stored, err := r.state.Read()
	if err != nil {
		return "", "", err
	}
	if stored != "" {
		r.id, r.source = stored, SourceFile
		return r.id, r.source, nil
	}

	log.Info("No vector store configured, creating one", "name", r.name)
	id, err := r.svc.CreateStore(ctx, r.name)
	if err != nil {
		return "", "", err
	}
	if err := r.state.Write(id); err != nil {
		return "", "", fmt.Errorf("created vector store %s but could not persist it: %w", id, err)
	}

	r.id, r.source = id, SourceCreated
	return r.id, r.source, nil
}
