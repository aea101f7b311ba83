// Package ingest uploads documents into the active vector store, one file at
// a time, and reports the outcome of each.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nickcecere/barnsbot/internal/fs"
	"github.com/nickcecere/barnsbot/internal/store"
	"github.com/nickcecere/barnsbot/internal/upload"
	"github.com/nickcecere/barnsbot/internal/upstream"
)

// ErrNoFiles is returned when a batch is empty.
var ErrNoFiles = errors.New("no files uploaded")

// Source is one file to ingest.
type Source struct {
	// OriginalName is the client-visible name. Its extension decides handling.
	OriginalName string

	// Path is where the bytes live on disk.
	Path string

	// Temporary marks Path as owned by the pipeline. It is removed once the
	// file has been processed, whatever the outcome.
	Temporary bool

	// Hash is the content hash if the caller already computed it.
	Hash string
}

// Record is the per-file outcome.
type Record struct {
	OriginalName string `json:"originalName"`
	FileID       string `json:"fileId,omitempty"`
	OK           bool   `json:"ok"`
	Error        string `json:"error,omitempty"`
	Code         string `json:"code,omitempty"`
	Detail       any    `json:"detail,omitempty"`
	Hash         string `json:"hash,omitempty"`
}

// Report aggregates a batch.
type Report struct {
	StoreID string   `json:"vectorStoreId"`
	Added   int      `json:"added"`
	Failed  int      `json:"failed"`
	Results []Record `json:"results"`
}

// Message summarizes the batch for humans.
func (r *Report) Message() string {
	return fmt.Sprintf("Added %d file(s), failed %d.", r.Added, r.Failed)
}

// AllFailed reports whether no file in the batch was added.
func (r *Report) AllFailed() bool {
	return r.Added == 0
}

// Pipeline uploads files and attaches them to a single vector store.
type Pipeline struct {
	svc        store.Service
	storeID    string
	scratchDir string
}

// NewPipeline creates a Pipeline for storeID. Converted files are written to
// scratchDir, or the system temp directory when it is empty.
func NewPipeline(svc store.Service, storeID, scratchDir string) *Pipeline {
	if scratchDir == "" {
		scratchDir = os.TempDir()
	}
	return &Pipeline{svc: svc, storeID: storeID, scratchDir: scratchDir}
}

// StoreID returns the store files are attached to.
func (p *Pipeline) StoreID() string {
	return p.storeID
}

// Ingest processes sources sequentially. A failing file never stops the
// batch; its reason is recorded and the next file is processed.
func (p *Pipeline) Ingest(ctx context.Context, sources []Source) (*Report, error) {
	if len(sources) == 0 {
		return nil, ErrNoFiles
	}

	report := &Report{
		StoreID: p.storeID,
		Results: make([]Record, 0, len(sources)),
	}

	for _, src := range sources {
		rec := p.ingestOne(ctx, src)
		if rec.OK {
			report.Added++
			log.Info("Added file", "name", rec.OriginalName, "file_id", rec.FileID)
		} else {
			report.Failed++
			log.Warn("Failed to add file", "name", rec.OriginalName, "error", rec.Error)
		}
		report.Results = append(report.Results, rec)
	}

	return report, nil
}

func (p *Pipeline) ingestOne(ctx context.Context, src Source) Record {
	rec := Record{OriginalName: src.OriginalName, Hash: src.Hash}
	if src.Temporary {
		defer upload.RemoveQuietly(src.Path)
	}

	uploadPath, uploadName := src.Path, src.OriginalName

	how, ext := classify(src.OriginalName)
	switch how {
	case handleDirect:
	case handleConvert:
		derived, err := convertCSV(p.scratchDir, src.Path, src.OriginalName)
		if err != nil {
			rec.Error = err.Error()
			return rec
		}
		defer upload.RemoveQuietly(derived)
		uploadPath, uploadName = derived, src.OriginalName+".txt"
	default:
		rec.Error = unsupportedMessage(ext)
		return rec
	}

	if rec.Hash == "" {
		if hash, err := fs.HashFile(src.Path); err == nil {
			rec.Hash = hash
		}
	}

	f, err := os.Open(uploadPath)
	if err != nil {
		rec.Error = fmt.Sprintf("failed to open file: %v", err)
		return rec
	}
	defer f.Close()

	fileID, err := p.svc.UploadFile(ctx, uploadName, f)
	if err != nil {
		fail(&rec, err)
		return rec
	}
	rec.FileID = fileID

	if err := p.svc.AttachFile(ctx, p.storeID, fileID); err != nil {
		fail(&rec, err)
		return rec
	}

	rec.OK = true
	return rec
}

// Remove detaches fileID from the store and deletes the upload. Both steps
// are attempted even if the first fails.
func (p *Pipeline) Remove(ctx context.Context, fileID string) error {
	detachErr := p.svc.DetachFile(ctx, p.storeID, fileID)
	deleteErr := p.svc.DeleteFile(ctx, fileID)
	if err := errors.Join(detachErr, deleteErr); err != nil {
		return fmt.Errorf("failed to remove file %s: %w", fileID, err)
	}
	log.Info("Removed file", "file_id", fileID)
	return nil
}

func fail(rec *Record, err error) {
	rec.Error, rec.Code, rec.Detail = upstream.Describe(err)
}
