package search

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/starford/syllabus/internal/checksum"
	"github.com/starford/syllabus/internal/compiler"
	"github.com/starford/syllabus/internal/manifest"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/storage"
	"github.com/starford/syllabus/internal/testutil"
)

func buildManifest(t *testing.T, store storage.Provider) *manifest.Manifest {
	t.Helper()
	m, err := manifest.NewBuilder(store, compiler.New(compiler.Options{AutoHeadingID: true})).Build(context.Background())
	require.NoError(t, err)
	return m
}

func TestBuild_Idempotent(t *testing.T) {
	_, store := testutil.TestContent(t)

	r1, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)
	r2, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)

	require.Equal(t, r1.Meta.Hash, r2.Meta.Hash)
	for _, l := range models.Locales {
		require.Equal(t, r1.Files[l], r2.Files[l])
	}
}

func TestBuild_HashSensitivity(t *testing.T) {
	root, store := testutil.TestContent(t)
	before, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)

	fixture := testutil.Fixture()["system/config.json"]
	testutil.WriteFile(t, root, "system/config.json", strings.Replace(fixture, `"cz": "Kontakty"`, `"cz": "Kontakt"`, 1))

	after, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)
	require.NotEqual(t, before.Meta.Hash, after.Meta.Hash)
	require.Equal(t, before.Files[models.LocaleEN], after.Files[models.LocaleEN])
}

func TestBuild_HashCoversTeacherSections(t *testing.T) {
	root, store := testutil.TestContent(t)
	before, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)

	fixture := testutil.Fixture()["teachers/jan-novak/config.json"]
	testutil.WriteFile(t, root, "teachers/jan-novak/config.json", strings.Replace(fixture, `"ru": "Консультации"`, `"ru": "Приёмные часы"`, 1))

	after, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)
	require.NotEqual(t, before.Meta.Hash, after.Meta.Hash)
	require.NotEqual(t, before.Files[models.LocaleRU], after.Files[models.LocaleRU])
	require.Equal(t, before.Files[models.LocaleEN], after.Files[models.LocaleEN])
}

func TestBuild_HashCoversEveryLocale(t *testing.T) {
	_, store := testutil.TestContent(t)
	res, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)

	want := checksum.SumParts(
		[]byte("cz"), res.Files[models.LocaleCZ],
		[]byte("en"), res.Files[models.LocaleEN],
		[]byte("ru"), res.Files[models.LocaleRU],
	)
	require.Equal(t, want, res.Meta.Hash)
	require.Equal(t, FormatVersion, res.Meta.Version)
	for _, l := range models.Locales {
		require.Equal(t, LocaleMeta{Documents: 12, Bytes: len(res.Files[l])}, res.Meta.Locales[l])
	}
}

func TestBuild_DocumentOrderAndContent(t *testing.T) {
	_, store := testutil.TestContent(t)
	res, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)

	idx := res.Indexes[models.LocaleCZ]
	require.Equal(t, models.LocaleCZ, idx.Locale)

	var order []string
	for _, d := range idx.Documents {
		order = append(order, string(d.Kind)+":"+d.Slug)
	}
	require.Equal(t, []string{
		"subject:calculus", "subject:linear-algebra",
		"teacher:eva-svobodova", "teacher:jan-novak",
		"article:limits", "article:matrices", "article:office_hours", "article:vectors_intro",
		"system:about", "system:contacts", "system:faq", "system:privacy",
	}, order)

	la := idx.Documents[1]
	require.Equal(t, "Lineární algebra", la.Title)
	require.Equal(t, "/subjects/linear-algebra", la.Route)
	require.Equal(t, []string{"základy", "zaklady"}, la.Keywords)
	require.Equal(t, "Vektory a matice", la.Excerpt)

	jan := idx.Documents[3]
	require.Equal(t, []string{"algebra", "konzultace"}, jan.Keywords)

	vectors := idx.Documents[7]
	require.Equal(t, "Úvod do vektorů", vectors.Title)
	require.True(t, strings.HasPrefix(vectors.Excerpt, "A vector is an element"))

	var decoded Index
	require.NoError(t, json.Unmarshal(res.Files[models.LocaleCZ], &decoded))
	require.Equal(t, idx, decoded)
}

func TestKeywordsFolding(t *testing.T) {
	f := newFolder()
	require.Equal(t, []string{"algebra", "vectors"}, f.keywords([]string{"Algebra", "vectors", " ALGEBRA ", ""}))
	require.Equal(t, []string{"матрица"}, f.keywords([]string{"Матрица", "матрица"}))
	require.Equal(t, []string{"přednášky", "prednasky"}, f.keywords([]string{"Přednášky"}))
	require.Equal(t, []string{}, f.keywords(nil))
}

func TestExcerpt(t *testing.T) {
	b := NewBuilder(40)

	require.Equal(t, "short text", b.excerpt("  short\n text "))

	long := "The limit of a sequence describes the value its terms approach as the index grows."
	got := b.excerpt(long)
	require.True(t, strings.HasSuffix(got, ellipsis))
	require.LessOrEqual(t, utf8.RuneCountInString(got), 41)
	require.Equal(t, "The limit of a sequence describes the…", got)

	require.Equal(t, got, b.excerpt(long))
}

func TestBuild_EmptyContentTree(t *testing.T) {
	_, store := testutil.TestDir(t)
	res, err := NewBuilder(0).Build(buildManifest(t, store))
	require.NoError(t, err)

	for _, l := range models.Locales {
		require.NotNil(t, res.Indexes[l].Documents)
		require.Empty(t, res.Indexes[l].Documents)
		require.Contains(t, string(res.Files[l]), `"documents":[]`)
		require.Equal(t, 0, res.Meta.Locales[l].Documents)
	}
}
