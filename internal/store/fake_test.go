package store

import (
	"context"
	"errors"
	"io"
	"sync"
)

// fakeService is an in-memory Service for resolver and admin tests.
type fakeService struct {
	mu sync.Mutex

	createID  string
	createErr error
	creates   int

	files    map[string][]File
	listErr  map[string]error
	listings []string
}

func newFakeService() *fakeService {
	return &fakeService{
		createID: "vs_created",
		files:    map[string][]File{},
		listErr:  map[string]error{},
	}
}

func (f *fakeService) CreateStore(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}

func (f *fakeService) UploadFile(ctx context.Context, name string, r io.Reader) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeService) AttachFile(ctx context.Context, storeID, fileID string) error {
	return errors.New("not implemented")
}

func (f *fakeService) DetachFile(ctx context.Context, storeID, fileID string) error {
	return errors.New("not implemented")
}

func (f *fakeService) DeleteFile(ctx context.Context, fileID string) error {
	return errors.New("not implemented")
}

func (f *fakeService) ListFiles(ctx context.Context, storeID string, limit int) ([]File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listings = append(f.listings, storeID)
	if err := f.listErr[storeID]; err != nil {
		return nil, err
	}
	files := f.files[storeID]
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, nil
}
