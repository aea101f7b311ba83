// Package store manages the hosted vector store behind the knowledge base.
// It resolves which store is active, talks to the OpenAI vector store and
// file endpoints, and implements the status and switch operations.
package store

// Source records where the active store identifier came from.
type Source string

const (
	SourceEnv     Source = "env"
	SourceFile    Source = "file"
	SourceCreated Source = "created"
)

// File is a file attached to a vector store, in the provider's field naming.
type File struct {
	ID            string     `json:"id"`
	Object        string     `json:"object"`
	CreatedAt     int64      `json:"created_at"`
	Status        string     `json:"status"`
	UsageBytes    int64      `json:"usage_bytes"`
	VectorStoreID string     `json:"vector_store_id"`
	LastError     *FileError `json:"last_error"`
}

// FileError is the provider's reason a file failed to index.
type FileError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Status summarizes the files attached to the active store.
type Status struct {
	StoreID string `json:"vectorStoreId"`
	Count   int    `json:"count"`
	Files   []File `json:"files"`
}
