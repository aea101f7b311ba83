package ui

import "github.com/charmbracelet/glamour"

// RenderMarkdown renders content for the terminal, falling back to the raw
// text when rendering fails.
func RenderMarkdown(content string) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
