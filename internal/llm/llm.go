// Package llm answers questions from the knowledge base using a hosted model
// with file search over the active vector store.
package llm

import (
	"context"

	"github.com/nickcecere/barnsbot/internal/config"
)

// Request is a single grounded question for the model.
type Request struct {
	Instructions string
	Question     string
	StoreID      string

	// MaxResults caps file search hits. Zero leaves it to the provider.
	MaxResults int
}

// Reply is the model output for a Request.
type Reply struct {
	// Text is the concatenated output text. It is empty when the model
	// produced no text content.
	Text string

	// Sources lists the cited file names in citation order, without repeats.
	Sources []string
}

// Service defines the interface for the hosted model.
type Service interface {
	// Respond runs req against the model with file search bound to req.StoreID.
	Respond(ctx context.Context, req Request) (*Reply, error)

	// ModelName returns the model name.
	ModelName() string
}

// NewService creates the OpenAI-backed Service from the configuration.
func NewService(cfg *config.Config) (Service, error) {
	return NewOpenAIService(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.BaseURL)
}
