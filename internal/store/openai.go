package store

import (
	"context"
	"io"
	"mime"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/openai/openai-go/v3"

	"github.com/nickcecere/barnsbot/internal/upstream"
)

// listPageSize is the largest page the vector store files endpoint accepts.
const listPageSize = 100

// OpenAIService implements Service against the OpenAI API.
type OpenAIService struct {
	client openai.Client
}

// NewOpenAIService creates a new OpenAI-backed vector store service.
func NewOpenAIService(apiKey, baseURL string) (*OpenAIService, error) {
	client, err := upstream.NewClient(apiKey, baseURL)
	if err != nil {
		return nil, err
	}
	return &OpenAIService{client: client}, nil
}

// CreateStore creates a vector store named name.
func (s *OpenAIService) CreateStore(ctx context.Context, name string) (string, error) {
	log.Debug("Creating vector store", "name", name)

	vs, err := s.client.VectorStores.New(ctx, openai.VectorStoreNewParams{
		Name: openai.String(name),
	})
	if err != nil {
		return "", upstream.Wrap("create vector store", err)
	}
	return vs.ID, nil
}

// UploadFile uploads r with the assistants purpose.
func (s *OpenAIService) UploadFile(ctx context.Context, name string, r io.Reader) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	log.Debug("Uploading file", "name", name, "content_type", contentType)

	f, err := s.client.Files.New(ctx, openai.FileNewParams{
		File:    openai.File(r, name, contentType),
		Purpose: openai.FilePurposeAssistants,
	})
	if err != nil {
		return "", upstream.Wrap("upload file", err)
	}
	return f.ID, nil
}

// AttachFile attaches fileID to storeID.
func (s *OpenAIService) AttachFile(ctx context.Context, storeID, fileID string) error {
	log.Debug("Attaching file to vector store", "store", storeID, "file", fileID)

	_, err := s.client.VectorStores.Files.New(ctx, storeID, openai.VectorStoreFileNewParams{
		FileID: fileID,
	})
	if err != nil {
		return upstream.Wrap("attach file to vector store", err)
	}
	return nil
}

// DetachFile removes fileID from storeID.
func (s *OpenAIService) DetachFile(ctx context.Context, storeID, fileID string) error {
	log.Debug("Detaching file from vector store", "store", storeID, "file", fileID)

	if _, err := s.client.VectorStores.Files.Delete(ctx, storeID, fileID); err != nil {
		return upstream.Wrap("detach file from vector store", err)
	}
	return nil
}

// DeleteFile deletes the uploaded file fileID.
func (s *OpenAIService) DeleteFile(ctx context.Context, fileID string) error {
	log.Debug("Deleting file", "file", fileID)

	if _, err := s.client.Files.Delete(ctx, fileID); err != nil {
		return upstream.Wrap("delete file", err)
	}
	return nil
}

// ListFiles lists files attached to storeID.
func (s *OpenAIService) ListFiles(ctx context.Context, storeID string, limit int) ([]File, error) {
	if limit > 0 {
		page, err := s.client.VectorStores.Files.List(ctx, storeID, openai.VectorStoreFileListParams{
			Limit: openai.Int(int64(limit)),
		})
		if err != nil {
			return nil, upstream.Wrap("list vector store files", err)
		}
		files := make([]File, 0, len(page.Data))
		for _, f := range page.Data {
			files = append(files, fromVectorStoreFile(f))
		}
		return files, nil
	}

	iter := s.client.VectorStores.Files.ListAutoPaging(ctx, storeID, openai.VectorStoreFileListParams{
		Limit: openai.Int(listPageSize),
	})
	files := []File{}
	for iter.Next() {
		files = append(files, fromVectorStoreFile(iter.Current()))
	}
	if err := iter.Err(); err != nil {
		return nil, upstream.Wrap("list vector store files", err)
	}
	return files, nil
}

func fromVectorStoreFile(f openai.VectorStoreFile) File {
	file := File{
		ID:            f.ID,
		Object:        string(f.Object),
		CreatedAt:     f.CreatedAt,
		Status:        string(f.Status),
		UsageBytes:    f.UsageBytes,
		VectorStoreID: f.VectorStoreID,
	}
	if f.LastError.Code != "" || f.LastError.Message != "" {
		file.LastError = &FileError{
			Code:    string(f.LastError.Code),
			Message: f.LastError.Message,
		}
	}
	return file
}
