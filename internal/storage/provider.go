// Package storage defines the content and artifact file-system abstraction.
package storage

import "github.com/starford/syllabus/internal/models"

// Provider is the interface for file operations relative to a root directory.
type Provider interface {
	// Root returns the absolute root directory.
	Root() string
	// List returns metadata for every file under dir whose name ends with
	// suffix, sorted by path. A missing dir yields an empty list.
	List(dir, suffix string) ([]models.FileMeta, error)
	// Dirs returns the names of the immediate subdirectories of dir, sorted.
	// A missing dir yields an empty list.
	Dirs(dir string) ([]string, error)
	// Exists reports whether path exists.
	Exists(path string) (bool, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
}
