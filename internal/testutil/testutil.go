// Package testutil provides shared test helpers for setting up content trees
// and output directories.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starford/syllabus/internal/storage"
)

// WriteFile writes content to rel under root, creating parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

// TestContent writes the fixture content tree into a temporary directory and
// returns its root with a storage.Provider over it.
func TestContent(t *testing.T) (string, storage.Provider) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range Fixture() {
		WriteFile(t, root, rel, content)
	}
	store, err := storage.NewFS(root)
	require.NoError(t, err)
	return root, store
}

// TestDir creates a temporary directory with a storage.Provider over it.
func TestDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	require.NoError(t, err)
	return dir, store
}

// TestDBPath returns a path for a temporary SQLite database.
func TestDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "syllabus-test.db")
}
