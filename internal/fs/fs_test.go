package fs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentExts = []string{".pdf", ".txt", ".md", ".docx", ".html", ".json", ".csv"}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	}
}

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(b, []byte("hello"), 0644))

	ha, err := HashFile(a)
	require.NoError(t, err)
	hb, err := HashFile(b)
	require.NoError(t, err)

	assert.Len(t, ha, 16)
	assert.Equal(t, ha, hb)

	require.NoError(t, os.WriteFile(b, []byte("hello!"), 0644))
	hb, err = HashFile(b)
	require.NoError(t, err)
	assert.NotEqual(t, ha, hb)

	_, err = HashFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"report.pdf", true},
		{"REPORT.PDF", true},
		{"notes.md", true},
		{"data.csv", true},
		{"image.png", false},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, HasExtension(tt.path, documentExts))
		})
	}

	assert.True(t, HasExtension("anything.bin", nil), "no filter accepts everything")
	assert.True(t, HasExtension("x.MD", []string{"md"}), "leading dot is optional")
}

func TestFileWalker(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"handbook.pdf":           "%PDF-1.4 binary\x00data",
		"policies/leave.md":      "# Leave\n",
		"policies/holidays.docx": "PK\x03\x04",
		"data/prices.csv":        "sku,price\n1,2\n",
		"drafts/wip.txt":         "draft",
		"logo.png":               "\x89PNG",
		".hidden.md":             "hidden",
		"node_modules/pkg/a.md":  "dependency",
	})
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("drafts/\n"), 0644))

	t.Run("finds documents including binary formats", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:         tmpDir,
			UseGitignore: true,
			Extensions:   documentExts,
		})
		require.NoError(t, err)

		var found []string
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			found = append(found, info.RelPath)
			return nil
		}))

		assert.ElementsMatch(t, []string{
			"handbook.pdf",
			filepath.Join("policies", "leave.md"),
			filepath.Join("policies", "holidays.docx"),
			filepath.Join("data", "prices.csv"),
		}, found)
	})

	t.Run("gitignore can be disabled", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:       tmpDir,
			Extensions: []string{".txt"},
		})
		require.NoError(t, err)

		var found []string
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			found = append(found, info.RelPath)
			return nil
		}))
		assert.Equal(t, []string{filepath.Join("drafts", "wip.txt")}, found)
	})

	t.Run("custom ignore patterns", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:           tmpDir,
			Extensions:     documentExts,
			IgnorePatterns: []string{"*.csv", "policies/"},
			UseGitignore:   true,
		})
		require.NoError(t, err)

		var found []string
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			found = append(found, info.RelPath)
			return nil
		}))
		assert.Equal(t, []string{"handbook.pdf"}, found)
	})

	t.Run("respects max file count", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:         tmpDir,
			MaxFileCount: 2,
			Extensions:   documentExts,
		})
		require.NoError(t, err)

		count := 0
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			count++
			return nil
		}))
		assert.Equal(t, 2, count)
	})

	t.Run("respects max file size", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:        tmpDir,
			MaxFileSize: 10,
			Extensions:  []string{".csv", ".md"},
		})
		require.NoError(t, err)

		var found []string
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			found = append(found, info.RelPath)
			return nil
		}))
		assert.Equal(t, []string{filepath.Join("policies", "leave.md")}, found)
		assert.Equal(t, int64(14), walker.Stats().SkippedBytes)
	})

	t.Run("includes hidden files when configured", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:          tmpDir,
			IncludeHidden: true,
			Extensions:    []string{".md"},
		})
		require.NoError(t, err)

		var found []string
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			found = append(found, info.RelPath)
			return nil
		}))
		assert.Contains(t, found, ".hidden.md")
	})

	t.Run("computes hashes and stats", func(t *testing.T) {
		walker, err := NewFileWalker(WalkOptions{
			Root:       tmpDir,
			Extensions: []string{".md"},
		})
		require.NoError(t, err)

		var infos []FileInfo
		require.NoError(t, walker.Walk(func(info FileInfo) error {
			infos = append(infos, info)
			return nil
		}))
		require.Len(t, infos, 1)
		assert.Len(t, infos[0].Hash, 16)
		assert.True(t, filepath.IsAbs(infos[0].Path))

		stats := walker.Stats()
		assert.Equal(t, 1, stats.FilesFound)
		assert.Equal(t, int64(len("# Leave\n")), stats.TotalBytes)
		assert.Positive(t, stats.DirsSkipped, "node_modules is skipped")
	})
}

func TestFileWalkerErrors(t *testing.T) {
	t.Run("non-existent root", func(t *testing.T) {
		_, err := NewFileWalker(WalkOptions{Root: "/nonexistent/path"})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("root is file not directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

		_, err := NewFileWalker(WalkOptions{Root: path})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})
}

func TestGather(t *testing.T) {
	tmpDir := t.TempDir()
	writeTree(t, tmpDir, map[string]string{
		"docs/a.md":      "a",
		"docs/b.txt":     "b",
		"docs/skip.exe":  "MZ",
		"loose/note.xyz": "odd extension",
	})

	opts := DefaultWalkOptions()
	opts.Extensions = documentExts

	files, err := Gather([]string{
		filepath.Join(tmpDir, "docs"),
		filepath.Join(tmpDir, "loose", "note.xyz"),
	}, opts)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.RelPath)
		assert.NotEmpty(t, f.Hash)
	}
	// Explicit files bypass the extension filter
	assert.ElementsMatch(t, []string{"a.md", "b.txt", "note.xyz"}, names)

	_, err = Gather([]string{filepath.Join(tmpDir, "missing")}, opts)
	assert.Error(t, err)
}

func TestDefaultWalkOptions(t *testing.T) {
	opts := DefaultWalkOptions()
	assert.True(t, opts.UseGitignore)
	assert.Positive(t, opts.MaxFileSize)
	assert.Positive(t, opts.MaxFileCount)
}
