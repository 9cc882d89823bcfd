// Package search derives per-locale search indexes from a manifest and
// computes the content hash that names published index files.
package search

import (
	"github.com/starford/syllabus/internal/models"
)

// FormatVersion is the version of the index file format.
const FormatVersion = 1

// Artifact file names inside the build artifacts directory.
const (
	ManifestFile = "manifest.json"
	MetaFile     = "search-meta.json"
)

// IndexFile returns the artifact name of the index for l.
func IndexFile(l models.Locale) string {
	return "search-index-" + string(l) + ".json"
}

// Document is one locale-specific, flattened representation of an entity.
type Document struct {
	Slug     string            `json:"slug"`
	Kind     models.EntityKind `json:"kind"`
	Title    string            `json:"title"`
	Keywords []string          `json:"keywords"`
	Excerpt  string            `json:"excerpt"`
	Route    string            `json:"route"`
}

// Index is the ordered document list of one locale.
type Index struct {
	Version   int           `json:"version"`
	Locale    models.Locale `json:"locale"`
	Documents []Document    `json:"documents"`
}

// LocaleMeta records sanity-check figures for one index file.
type LocaleMeta struct {
	Documents int `json:"documents"`
	Bytes     int `json:"bytes"`
}

// Meta names the content hash of an index set.
type Meta struct {
	Hash    string                       `json:"hash"`
	Version int                          `json:"version"`
	Locales map[models.Locale]LocaleMeta `json:"locales"`
}

// Result is a built index set: the decoded indexes, their serialized
// bytes, and the meta record describing them.
type Result struct {
	Indexes map[models.Locale]Index
	Files   map[models.Locale][]byte
	Meta    Meta
}
