// Package publish copies a built index set into the static-asset root under
// content-hashed names.
package publish

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/checksum"
	"github.com/starford/syllabus/internal/logfields"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/search"
	"github.com/starford/syllabus/internal/storage"
)

// MetaFile is the published meta file naming the current hash.
const MetaFile = "meta.json"

// DefaultPrefix is the sub-directory of the public root holding published files.
const DefaultPrefix = "search"

var hashedRe = regexp.MustCompile(`^index-([a-z]+)-([0-9a-f]{64})\.json$`)

// IndexFile returns the published name of the index for l under hash.
func IndexFile(l models.Locale, hash string) string {
	return fmt.Sprintf("index-%s-%s.json", l, hash)
}

// Options configures a Publisher.
type Options struct {
	// Prefix is the sub-directory of the public root; DefaultPrefix if empty.
	Prefix string
	// PruneStale removes hashed index files of other hashes.
	PruneStale bool
}

// Report describes one publish run.
type Report struct {
	Hash   string   `json:"hash"`
	Files  []string `json:"files"`
	Pruned []string `json:"pruned,omitempty"`
}

// Publisher copies artifacts from the build directory to the public root.
type Publisher struct {
	artifactsDir string
	publicDir    string
	opts         Options
	logger       *slog.Logger
}

// New creates a Publisher.
func New(artifactsDir, publicDir string, opts Options, logger *slog.Logger) *Publisher {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{artifactsDir: artifactsDir, publicDir: publicDir, opts: opts, logger: logger}
}

// Publish verifies the artifacts against their meta record and writes the
// hashed index files, then meta.json. Re-publishing unchanged artifacts
// rewrites identical bytes at the same paths.
//
// It returns apperr.ErrPublishSkipped when the artifacts directory does not
// exist.
func (p *Publisher) Publish() (*Report, error) {
	src, err := storage.NewFS(p.artifactsDir)
	if errors.Is(err, fs.ErrNotExist) {
		p.logger.Info("publish skipped", logfields.Path(p.artifactsDir), logfields.Error(apperr.ErrPublishSkipped))
		return nil, apperr.ErrPublishSkipped
	}
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}

	meta, err := search.ReadMeta(src)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	files, err := verify(src, meta)
	if err != nil {
		return nil, err
	}

	dst, err := storage.EnsureFS(filepath.Join(p.publicDir, filepath.FromSlash(p.opts.Prefix)))
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}

	report := &Report{Hash: meta.Hash}
	for _, l := range sortedLocales(meta) {
		name := IndexFile(l, meta.Hash)
		if err := dst.Write(name, files[l]); err != nil {
			return nil, fmt.Errorf("publish: %w", err)
		}
		report.Files = append(report.Files, path.Join(p.opts.Prefix, name))
	}

	metaBytes, err := src.Read(search.MetaFile)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	if err := dst.Write(MetaFile, metaBytes); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	report.Files = append(report.Files, path.Join(p.opts.Prefix, MetaFile))

	if p.opts.PruneStale {
		pruned, err := prune(dst, meta.Hash)
		if err != nil {
			return nil, err
		}
		for _, name := range pruned {
			report.Pruned = append(report.Pruned, path.Join(p.opts.Prefix, name))
		}
	}

	p.logger.Info("published search indexes",
		logfields.Hash(meta.Hash),
		logfields.Count(len(files)),
		slog.Int("pruned", len(report.Pruned)),
	)
	return report, nil
}

// Current reads the published meta record from the public root.
func Current(publicDir, prefix string) (search.Meta, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	dst, err := storage.NewFS(filepath.Join(publicDir, filepath.FromSlash(prefix)))
	if err != nil {
		return search.Meta{}, fmt.Errorf("publish: %w", err)
	}
	data, err := dst.Read(MetaFile)
	if err != nil {
		return search.Meta{}, fmt.Errorf("publish: %w", err)
	}
	meta, err := search.DecodeMeta(data)
	if err != nil {
		return search.Meta{}, fmt.Errorf("publish: %s: %w", MetaFile, err)
	}
	return meta, nil
}

// verify reads every index named by meta and checks sizes and the hash.
func verify(src storage.Provider, meta search.Meta) (map[models.Locale][]byte, error) {
	if meta.Hash == "" || len(meta.Locales) == 0 {
		return nil, fmt.Errorf("publish: %s names no indexes", search.MetaFile)
	}
	files := make(map[models.Locale][]byte, len(meta.Locales))
	parts := make([][]byte, 0, 2*len(meta.Locales))
	for _, l := range sortedLocales(meta) {
		data, err := src.Read(search.IndexFile(l))
		if err != nil {
			return nil, fmt.Errorf("publish: %w", err)
		}
		if want := meta.Locales[l].Bytes; len(data) != want {
			return nil, fmt.Errorf("publish: %s is %d bytes, meta records %d", search.IndexFile(l), len(data), want)
		}
		files[l] = data
		parts = append(parts, []byte(l), data)
	}
	if sum := checksum.SumParts(parts...); sum != meta.Hash {
		return nil, fmt.Errorf("publish: index content hash %s does not match meta hash %s", sum, meta.Hash)
	}
	return files, nil
}

// prune deletes hashed index files that belong to a hash other than keep.
func prune(dst storage.Provider, keep string) ([]string, error) {
	existing, err := dst.List("", ".json")
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	var pruned []string
	for _, f := range existing {
		m := hashedRe.FindStringSubmatch(f.Path)
		if m == nil || m[2] == keep {
			continue
		}
		if err := dst.Delete(f.Path); err != nil {
			return pruned, fmt.Errorf("publish: prune: %w", err)
		}
		pruned = append(pruned, f.Path)
	}
	return pruned, nil
}

func sortedLocales(meta search.Meta) []models.Locale {
	out := make([]models.Locale, 0, len(meta.Locales))
	for l := range meta.Locales {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
