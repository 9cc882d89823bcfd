package publish

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/compiler"
	"github.com/starford/syllabus/internal/manifest"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/search"
	"github.com/starford/syllabus/internal/storage"
	"github.com/starford/syllabus/internal/testutil"
)

// buildArtifacts runs a full build of the fixture tree into a fresh
// artifacts directory and returns it with the built result.
func buildArtifacts(t *testing.T) (string, *search.Result) {
	t.Helper()
	_, content := testutil.TestContent(t)
	dir, out := testutil.TestDir(t)

	m, err := manifest.NewBuilder(content, compiler.New(compiler.Options{})).Build(context.Background())
	require.NoError(t, err)
	res, err := search.NewBuilder(0).Build(m)
	require.NoError(t, err)
	require.NoError(t, search.WriteArtifacts(out, m, res))
	return dir, res
}

func TestPublish(t *testing.T) {
	artifacts, res := buildArtifacts(t)
	public := t.TempDir()

	report, err := New(artifacts, public, Options{}, nil).Publish()
	require.NoError(t, err)
	require.Equal(t, res.Meta.Hash, report.Hash)
	require.Len(t, report.Files, len(models.Locales)+1)
	require.Equal(t, "search/meta.json", report.Files[len(report.Files)-1])

	for _, l := range models.Locales {
		data, err := os.ReadFile(filepath.Join(public, "search", IndexFile(l, res.Meta.Hash)))
		require.NoError(t, err)
		require.Equal(t, res.Files[l], data)
	}

	meta, err := Current(public, "")
	require.NoError(t, err)
	require.Equal(t, res.Meta, meta)
}

func TestPublish_Idempotent(t *testing.T) {
	artifacts, res := buildArtifacts(t)
	public := t.TempDir()
	p := New(artifacts, public, Options{Prefix: "assets/search"}, nil)

	_, err := p.Publish()
	require.NoError(t, err)
	first := snapshot(t, filepath.Join(public, "assets", "search"))

	_, err = p.Publish()
	require.NoError(t, err)
	second := snapshot(t, filepath.Join(public, "assets", "search"))

	require.Equal(t, first, second)
	require.Len(t, second, len(models.Locales)+1)
	require.Contains(t, second, IndexFile(models.LocaleEN, res.Meta.Hash))
}

func TestPublish_SkippedWithoutArtifacts(t *testing.T) {
	public := t.TempDir()
	_, err := New(filepath.Join(t.TempDir(), "missing"), public, Options{}, nil).Publish()
	require.ErrorIs(t, err, apperr.ErrPublishSkipped)

	entries, err := os.ReadDir(public)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestPublish_Prune(t *testing.T) {
	artifacts, res := buildArtifacts(t)
	public := t.TempDir()
	stale := IndexFile(models.LocaleEN, "0000000000000000000000000000000000000000000000000000000000000000")
	testutil.WriteFile(t, public, "search/"+stale, "{}")
	testutil.WriteFile(t, public, "search/unrelated.json", "{}")

	report, err := New(artifacts, public, Options{PruneStale: true}, nil).Publish()
	require.NoError(t, err)
	require.Equal(t, []string{"search/" + stale}, report.Pruned)

	files := snapshot(t, filepath.Join(public, "search"))
	require.NotContains(t, files, stale)
	require.Contains(t, files, "unrelated.json")
	require.Contains(t, files, IndexFile(models.LocaleRU, res.Meta.Hash))
}

func TestPublish_KeepsStaleByDefault(t *testing.T) {
	artifacts, _ := buildArtifacts(t)
	public := t.TempDir()
	stale := IndexFile(models.LocaleEN, "1111111111111111111111111111111111111111111111111111111111111111")
	testutil.WriteFile(t, public, "search/"+stale, "{}")

	report, err := New(artifacts, public, Options{}, nil).Publish()
	require.NoError(t, err)
	require.Empty(t, report.Pruned)
	require.Contains(t, snapshot(t, filepath.Join(public, "search")), stale)
}

func TestPublish_SizeMismatch(t *testing.T) {
	artifacts, _ := buildArtifacts(t)
	testutil.WriteFile(t, artifacts, search.IndexFile(models.LocaleCZ), `{"version":1}`)
	public := t.TempDir()

	_, err := New(artifacts, public, Options{}, nil).Publish()
	require.Error(t, err)
	require.Contains(t, err.Error(), "meta records")

	_, err = os.Stat(filepath.Join(public, "search", MetaFile))
	require.True(t, os.IsNotExist(err))
}

func TestPublish_HashMismatch(t *testing.T) {
	artifacts, res := buildArtifacts(t)
	store, err := storage.NewFS(artifacts)
	require.NoError(t, err)

	// Same length, different content.
	data := append([]byte(nil), res.Files[models.LocaleEN]...)
	data[len(data)-2] = ' '
	require.NoError(t, store.Write(search.IndexFile(models.LocaleEN), data))

	_, err = New(artifacts, t.TempDir(), Options{}, nil).Publish()
	require.Error(t, err)
	require.Contains(t, err.Error(), "does not match meta hash")
}

func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		out[e.Name()] = string(data)
	}
	return out
}
