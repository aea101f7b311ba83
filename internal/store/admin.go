package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrEmptyID is returned by Switch when no candidate id is given.
var ErrEmptyID = errors.New("no id provided")

// Admin reports on the active store and records a different store for the
// next start. It never changes the store the running process uses.
type Admin struct {
	svc    Service
	state  *StateFile
	active string
}

// NewAdmin creates an Admin for the store identified by active.
func NewAdmin(svc Service, state *StateFile, active string) *Admin {
	return &Admin{svc: svc, state: state, active: active}
}

// ActiveID returns the store id this process serves.
func (a *Admin) ActiveID() string {
	return a.active
}

// Status lists every file attached to the active store.
func (a *Admin) Status(ctx context.Context) (*Status, error) {
	files, err := a.svc.ListFiles(ctx, a.active, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to read vector store status: %w", err)
	}
	if files == nil {
		files = []File{}
	}
	return &Status{
		StoreID: a.active,
		Count:   len(files),
		Files:   files,
	}, nil
}

// Switch validates candidate by listing its files and, when it exists,
// persists it as the store to use after a restart. A rejected candidate
// leaves the state file untouched.
func (a *Admin) Switch(ctx context.Context, candidate string) (string, error) {
	id := strings.TrimSpace(candidate)
	if id == "" {
		return "", ErrEmptyID
	}

	if _, err := a.svc.ListFiles(ctx, id, 1); err != nil {
		return "", fmt.Errorf("vector store %s rejected: %w", id, err)
	}

	if err := a.state.Write(id); err != nil {
		return "", err
	}

	log.Info("Persisted vector store for next start", "id", id, "file", a.state.Path())
	return id, nil
}
