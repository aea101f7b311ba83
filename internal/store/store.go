package store

import (
	"context"
	"io"
)

// Service defines the vector store and file operations barnsbot needs from
// the hosted provider.
type Service interface {
	// CreateStore creates an empty vector store and returns its identifier.
	CreateStore(ctx context.Context, name string) (string, error)

	// UploadFile uploads r under name for retrieval use and returns the file id.
	UploadFile(ctx context.Context, name string, r io.Reader) (string, error)

	// AttachFile adds an uploaded file to a vector store.
	AttachFile(ctx context.Context, storeID, fileID string) error

	// DetachFile removes a file from a vector store. The uploaded file remains.
	DetachFile(ctx context.Context, storeID, fileID string) error

	// DeleteFile deletes an uploaded file.
	DeleteFile(ctx context.Context, fileID string) error

	// ListFiles lists files attached to storeID. A limit of zero lists every page.
	ListFiles(ctx context.Context, storeID string, limit int) ([]File, error)
}
