// handlers_ask.go - Question answering
package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nickcecere/barnsbot/internal/llm"
	"github.com/nickcecere/barnsbot/internal/metrics"
)

// askRequest accepts the question under any of the names the dashboard has
// used. Values are decoded loosely so a numeric question still counts.
type askRequest struct {
	Question any `json:"question"`
	Prompt   any `json:"prompt"`
	Message  any `json:"message"`
}

// text returns the first non-blank field.
func (r askRequest) text() string {
	for _, v := range []any{r.Question, r.Prompt, r.Message} {
		if s := strings.TrimSpace(scalarText(v)); s != "" {
			return s
		}
	}
	return ""
}

// scalarText formats strings, numbers and true. Everything else, including
// false and zero, reads as absent.
func scalarText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
	}
	return ""
}

type askResponse struct {
	OK      bool        `json:"ok"`
	Reply   string      `json:"reply"`
	Outcome llm.Outcome `json:"outcome"`
	Sources []string    `json:"sources,omitempty"`
}

// HandleAsk answers a question from the active store.
func (h *Handler) HandleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("Invalid JSON body")
	}

	answer, err := h.relay.Ask(c.Request().Context(), req.text())
	if errors.Is(err, llm.ErrEmptyQuestion) {
		return NewBadRequestError("No question")
	}
	if err != nil {
		return NewUpstreamError(http.StatusInternalServerError, err)
	}

	metrics.RecordAnswer(string(answer.Outcome))

	return c.JSON(http.StatusOK, askResponse{
		OK:      true,
		Reply:   answer.Reply(),
		Outcome: answer.Outcome,
		Sources: answer.Sources,
	})
}
