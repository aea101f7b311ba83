package ingest

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// SupportedExtensions are uploaded unchanged.
var SupportedExtensions = []string{".pdf", ".txt", ".md", ".docx", ".html", ".json"}

// ConvertedExtensions are rewritten to plain text before upload.
var ConvertedExtensions = []string{".csv"}

// Extensions returns every extension the pipeline accepts.
func Extensions() []string {
	exts := make([]string, 0, len(SupportedExtensions)+len(ConvertedExtensions))
	exts = append(exts, SupportedExtensions...)
	return append(exts, ConvertedExtensions...)
}

type handling int

const (
	handleUnsupported handling = iota
	handleDirect
	handleConvert
)

func classify(name string) (handling, string) {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return handleDirect, ext
		}
	}
	for _, e := range ConvertedExtensions {
		if ext == e {
			return handleConvert, ext
		}
	}
	return handleUnsupported, ext
}

func unsupportedMessage(ext string) string {
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("Unsupported file extension: %s", ext)
}

// csvHeader is prepended to converted CSV files so the indexed text names
// its source.
func csvHeader(originalName string) string {
	return fmt.Sprintf("# CSV: %s\n# NOTE: Converted to .txt for semantic indexing.\n\n", originalName)
}

// convertCSV writes a text copy of src into dir and returns its path. The
// CSV bytes are copied verbatim after the header.
func convertCSV(dir, src, originalName string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open CSV: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, "csv-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create converted file: %w", err)
	}

	_, err = io.WriteString(out, csvHeader(originalName))
	if err == nil {
		_, err = io.Copy(out, in)
	}
	if err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to convert CSV: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("failed to convert CSV: %w", err)
	}
	return out.Name(), nil
}
