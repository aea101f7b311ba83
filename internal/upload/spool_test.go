package upload

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// multipartFiles builds file headers the way echo hands them to handlers.
func multipartFiles(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/ingest", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["files"]
}

func TestNewSpoolCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads", "nested")
	s, err := NewSpool(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSave(t *testing.T) {
	s, err := NewSpool(t.TempDir())
	require.NoError(t, err)

	a, err := s.Save("Policy.PDF", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "Policy.PDF", a.OriginalName)
	assert.Equal(t, int64(8), a.Size)
	assert.Equal(t, ".pdf", filepath.Ext(a.Path))
	assert.NotContains(t, a.Path, "Policy")

	data, err := os.ReadFile(a.Path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(data))
}

func TestSaveAll(t *testing.T) {
	s, err := NewSpool(t.TempDir())
	require.NoError(t, err)

	headers := multipartFiles(t, map[string]string{"a.txt": "alpha", "b.md": "# beta"})
	artifacts, err := s.SaveAll(headers)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	names := []string{artifacts[0].OriginalName, artifacts[1].OriginalName}
	assert.ElementsMatch(t, []string{"a.txt", "b.md"}, names)

	Discard(artifacts)
	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveAllStripsClientPath(t *testing.T) {
	s, err := NewSpool(t.TempDir())
	require.NoError(t, err)

	headers := multipartFiles(t, map[string]string{"report.txt": "x"})
	headers[0].Filename = "../../etc/report.txt"

	artifacts, err := s.SaveAll(headers)
	require.NoError(t, err)
	assert.Equal(t, "report.txt", artifacts[0].OriginalName)
	assert.Equal(t, s.Dir(), filepath.Dir(artifacts[0].Path))
}

func TestRemoveQuietly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	RemoveQuietly(path)
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Already gone and empty path are both fine
	RemoveQuietly(path)
	RemoveQuietly("")
}
