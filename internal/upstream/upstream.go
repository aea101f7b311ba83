// Package upstream builds the OpenAI client and normalizes the failures it
// returns so callers can report a message, an error code and the raw detail.
package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Error is a failed call to the hosted service.
type Error struct {
	// Op names the call that failed, e.g. "upload file".
	Op      string
	Message string
	Code    string
	Status  int
	// Detail is the provider's error body. It holds a json.RawMessage when the
	// provider answered with JSON and a string otherwise.
	Detail any
	Err    error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Message
	}
	return fmt.Sprintf("failed to %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap converts err into an *Error tagged with op. Errors that are already
// wrapped are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		return err
	}

	e := &Error{Op: op, Message: err.Error(), Err: err}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		e.Status = apiErr.StatusCode
		e.Code = apiErr.Code
		switch {
		case apiErr.Message != "":
			e.Message = apiErr.Message
		case apiErr.StatusCode != 0:
			e.Message = http.StatusText(apiErr.StatusCode)
		}
		if raw := apiErr.RawJSON(); raw != "" {
			if json.Valid([]byte(raw)) {
				e.Detail = json.RawMessage(raw)
			} else {
				e.Detail = raw
			}
		}
	}

	return e
}

// Describe extracts the human message, provider code and detail from err.
// Non-upstream errors yield their text and no code or detail.
func Describe(err error) (message, code string, detail any) {
	if err == nil {
		return "", "", nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message, e.Code, e.Detail
	}
	return err.Error(), "", nil
}

// NewClient builds an OpenAI client for apiKey. Automatic retries are disabled;
// a failed call is reported to the caller as-is.
func NewClient(apiKey, baseURL string) (openai.Client, error) {
	if apiKey == "" {
		return openai.Client{}, fmt.Errorf("OpenAI API key is required")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return openai.NewClient(opts...), nil
}
