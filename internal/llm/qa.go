package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// ErrEmptyQuestion is returned by Ask when the question is blank.
var ErrEmptyQuestion = errors.New("no question")

// Outcome classifies an answer.
type Outcome string

const (
	OutcomeAnswered         Outcome = "answered"
	OutcomeNotFound         Outcome = "not_found"
	OutcomeExtractionFailed Outcome = "extraction_failed"
)

const (
	// NotFoundReply is the exact sentence the model is told to use when the
	// files do not contain the answer.
	NotFoundReply = "Not found in data."

	// ExtractionFailedReply is shown when the model returned no text.
	ExtractionFailedReply = "Could not extract text from the response."
)

// Answer is the result of a question.
type Answer struct {
	Outcome Outcome  `json:"outcome"`
	Text    string   `json:"text"`
	Sources []string `json:"sources,omitempty"`
}

// Reply flattens the answer into the text shown to the user.
func (a Answer) Reply() string {
	switch a.Outcome {
	case OutcomeNotFound:
		return NotFoundReply
	case OutcomeExtractionFailed:
		return ExtractionFailedReply
	default:
		return a.Text
	}
}

// Relay forwards questions to the model grounded on one vector store.
type Relay struct {
	llm        Service
	storeID    string
	maxResults int
}

// NewRelay creates a Relay for storeID. maxResults of zero uses the provider default.
func NewRelay(svc Service, storeID string, maxResults int) *Relay {
	return &Relay{llm: svc, storeID: storeID, maxResults: maxResults}
}

// Ask answers question from the store's files. A blank question fails with
// ErrEmptyQuestion before any call is made.
func (r *Relay) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, ErrEmptyQuestion
	}

	log.Debug("Asking model", "store", r.storeID, "question_len", len(question))

	reply, err := r.llm.Respond(ctx, Request{
		Instructions: systemPrompt,
		Question:     question,
		StoreID:      r.storeID,
		MaxResults:   r.maxResults,
	})
	if err != nil {
		return Answer{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	return classify(reply), nil
}

func classify(reply *Reply) Answer {
	text := strings.TrimSpace(reply.Text)
	switch {
	case text == "":
		return Answer{Outcome: OutcomeExtractionFailed, Text: ExtractionFailedReply}
	case isNotFound(text):
		return Answer{Outcome: OutcomeNotFound, Text: NotFoundReply}
	default:
		return Answer{Outcome: OutcomeAnswered, Text: text, Sources: reply.Sources}
	}
}

func isNotFound(text string) bool {
	trimmed := strings.Trim(text, " \"'.")
	return strings.EqualFold(trimmed, strings.TrimSuffix(NotFoundReply, "."))
}

// System prompt for grounded answers.
const systemPrompt = `- Answer only from the files uploaded to the knowledge base. Do not make anything up.
- Cite the source file name in parentheses when there is one.
- If the answer is not in the files, reply exactly: "Not found in data."`
