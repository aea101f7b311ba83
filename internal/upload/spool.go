// Package upload spools incoming multipart files to a scratch directory so
// they can be handed to the ingest pipeline.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Artifact is an uploaded file written to the spool directory.
type Artifact struct {
	Path         string
	OriginalName string
	Size         int64
}

// Spool writes uploads under a single directory using random names.
type Spool struct {
	dir string
}

// NewSpool creates the spool directory if needed.
func NewSpool(dir string) (*Spool, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &Spool{dir: dir}, nil
}

// Dir returns the spool directory.
func (s *Spool) Dir() string {
	return s.dir
}

// Save copies r into a new spool file. name is kept as metadata only.
func (s *Spool) Save(name string, r io.Reader) (*Artifact, error) {
	path := filepath.Join(s.dir, uuid.New().String()+strings.ToLower(filepath.Ext(name)))

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	return &Artifact{Path: path, OriginalName: name, Size: size}, nil
}

// SaveMultipart spools a single multipart file.
func (s *Spool) SaveMultipart(fh *multipart.FileHeader) (*Artifact, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	return s.Save(filepath.Base(fh.Filename), src)
}

// SaveAll spools every file. On failure the files already written are removed.
func (s *Spool) SaveAll(files []*multipart.FileHeader) ([]*Artifact, error) {
	artifacts := make([]*Artifact, 0, len(files))
	for _, fh := range files {
		a, err := s.SaveMultipart(fh)
		if err != nil {
			Discard(artifacts)
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// Discard removes spooled files, ignoring failures.
func Discard(artifacts []*Artifact) {
	for _, a := range artifacts {
		RemoveQuietly(a.Path)
	}
}

// RemoveQuietly deletes path. A missing file is not an error and other
// failures are only logged.
func RemoveQuietly(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debug("Failed to remove temporary file", "path", path, "error", err)
	}
}
