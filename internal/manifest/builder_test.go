package manifest

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/compiler"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/storage"
	"github.com/starford/syllabus/internal/testutil"
)

func build(t *testing.T, root string) (*Manifest, error) {
	t.Helper()
	store, err := storage.NewFS(root)
	require.NoError(t, err)
	return NewBuilder(store, compiler.New(compiler.Options{AutoHeadingID: true}), WithWorkers(2)).Build(context.Background())
}

func TestBuild_Fixture(t *testing.T) {
	root, _ := testutil.TestContent(t)

	m, err := build(t, root)
	require.NoError(t, err)
	require.Equal(t, Stats{Subjects: 2, Teachers: 2, Articles: 4, SystemArticles: 4}, m.Stats())

	la, ok := m.Subject("linear-algebra")
	require.True(t, ok)
	require.Equal(t, "/subjects/linear-algebra", la.Route)
	require.Len(t, la.Teachers, 1)
	require.Equal(t, "jan-novak", la.Teachers[0].Record.Slug)
	require.Len(t, la.Categories, 1)
	require.Equal(t, []string{"vectors_intro", "matrices"}, slugs(la.Categories[0].Articles))
	require.Equal(t, []string{"matrices", "vectors_intro"}, slugs(la.Articles))

	jan, ok := m.Teacher("jan-novak")
	require.True(t, ok)
	require.Len(t, jan.Subjects, 1)
	require.Same(t, la, jan.Subjects[0])
	require.Len(t, jan.Sections, 1)
	require.Equal(t, []string{"office_hours"}, slugs(jan.Sections[0].Articles))

	matrices, ok := m.Article("matrices")
	require.True(t, ok)
	require.Same(t, jan, matrices.Author)
	require.Len(t, matrices.Tutors, 1)
	require.Equal(t, "eva-svobodova", matrices.Tutors[0].Record.Slug)
	require.Len(t, matrices.Prerequisites, 1)
	require.Equal(t, "vectors_intro", matrices.Prerequisites[0].Record.Slug)
	require.Equal(t, 12, matrices.Record.ReadTime)
	require.Equal(t, []string{"linear-algebra"}, matrices.Refs.Subjects)

	vectors, _ := m.Article("vectors_intro")
	require.Equal(t, "/subjects/linear-algebra/vectors_intro", vectors.Route)
	require.Equal(t, models.Owner{Kind: models.KindSubject, Slug: "linear-algebra"}, vectors.Owner)
	require.Equal(t, []models.TOCEntry{
		{Depth: 1, Text: "Vectors", ID: "vectors"},
		{Depth: 2, Text: "Basis", ID: "basis"},
	}, vectors.Document.TOC)
	require.Equal(t, 1, vectors.Record.ReadTime)
	require.Contains(t, vectors.Document.LeadText, "A vector is an element")

	office, _ := m.Article("office_hours")
	require.Equal(t, "/teachers/jan-novak/office_hours", office.Route)
	require.Equal(t, []string{"jan-novak"}, office.Refs.Teachers)
}

func TestBuild_EveryReferenceResolves(t *testing.T) {
	root, _ := testutil.TestContent(t)
	m, err := build(t, root)
	require.NoError(t, err)

	for _, s := range m.Subjects() {
		for _, tc := range s.Teachers {
			_, ok := m.Teacher(tc.Record.Slug)
			require.True(t, ok)
		}
		for i, c := range s.Categories {
			require.Len(t, c.Articles, len(s.Record.Categories[i].Articles))
		}
	}
	for _, tc := range m.Teachers() {
		require.Len(t, tc.Subjects, len(tc.Record.Subjects))
	}
	for _, a := range m.Articles() {
		require.Len(t, a.Prerequisites, len(a.Record.Prerequisites))
		require.Len(t, a.Tutors, len(a.Record.Tutors))
		if a.Record.Author != "" {
			require.NotNil(t, a.Author)
		}
		ref, ok := m.ByRoute(a.Route)
		require.True(t, ok)
		require.Equal(t, EntityRef{Kind: models.KindArticle, Slug: a.Record.Slug}, ref)
	}
}

func TestBuild_AsymmetryIsWarning(t *testing.T) {
	root, _ := testutil.TestContent(t)
	m, err := build(t, root)
	require.NoError(t, err)

	warnings := m.Warnings()
	require.Len(t, warnings, 1)
	require.Equal(t, "subjects/calculus/config.json", warnings[0].Path)
	require.Contains(t, warnings[0].Message, `"eva-svobodova"`)
}

func TestBuild_PinnedOrder(t *testing.T) {
	root, _ := testutil.TestContent(t)
	m, err := build(t, root)
	require.NoError(t, err)

	var pinned []string
	for _, p := range m.Pinned() {
		pinned = append(pinned, p.Slug)
	}
	require.Equal(t, []string{"contacts", "faq", "about"}, pinned)

	privacy, ok := m.SystemArticle("privacy")
	require.True(t, ok)
	require.False(t, privacy.Pinned)
	ref, ok := m.ByRoute("/privacy")
	require.True(t, ok)
	require.Equal(t, EntityRef{Kind: models.KindSystem, Slug: "privacy"}, ref)
}

func TestSortPinned(t *testing.T) {
	one, two := 1, 2
	entries := []models.SystemArticle{
		{Slug: "a", Order: &two},
		{Slug: "b", Order: &one},
		{Slug: "c"},
	}
	SortPinned(entries)
	require.Equal(t, "c", entries[0].Slug)
	require.Equal(t, "b", entries[1].Slug)
	require.Equal(t, "a", entries[2].Slug)
}

func TestBuild_UnknownTeacher(t *testing.T) {
	root, _ := testutil.TestContent(t)
	testutil.WriteFile(t, root, "subjects/calculus/config.json", `{
  "slug": "calculus",
  "name": {"en": "Calculus", "ru": "Анализ", "cz": "Analýza"},
  "description": {"en": "", "ru": "", "cz": ""},
  "teachers": ["eva-svobodova", "ghost-teacher"],
  "categories": [{"name": {"en": "L", "ru": "L", "cz": "L"}, "articles": ["limits", "missing_article", "matrices"]}]
}`)

	_, err := build(t, root)
	require.Error(t, err)
	require.True(t, apperr.IsIntegrity(err))

	require.Equal(t, []apperr.Problem{
		{Kind: apperr.KindReference, Path: "subjects/calculus/config.json", Field: "categories[0].articles[1]", Message: `unknown article "missing_article"`},
		{Kind: apperr.KindOwnership, Path: "subjects/calculus/config.json", Field: "categories[0].articles[2]", Message: `article "matrices" belongs to subject "linear-algebra"`},
		{Kind: apperr.KindReference, Path: "subjects/calculus/config.json", Field: "teachers[1]", Message: `unknown teacher "ghost-teacher"`},
	}, apperr.Problems(err))
	require.Contains(t, err.Error(), "ghost-teacher")
}

func TestBuild_CollectsProblemsAcrossFiles(t *testing.T) {
	root, _ := testutil.TestContent(t)
	testutil.WriteFile(t, root, "teachers/jan-novak/config.json", `{
  "slug": "jan-novak",
  "name": {"en": "Jan", "ru": "Ян"},
  "description": {"en": "", "ru": "", "cz": ""},
  "ratings": {"overall": 7, "quality": 4, "difficulty": 3, "helpfulness": 4, "reviews": -1},
  "keywords": {"en": [], "ru": [], "cz": []}
}`)
	testutil.WriteFile(t, root, "subjects/calculus/articles/broken.mdx", "---\ntitle: {en: B, ru: B, cz: B}\nslug: broken\nkeywords: {en: [], ru: [], cz: []}\n")
	testutil.WriteFile(t, root, "system/config.json", `{"articles": [{"slug": "x", "route": "x", "name": {"en": "X", "ru": "X", "cz": "X"}, "keywords": {"en": [], "ru": [], "cz": []}}]}`)

	_, err := build(t, root)
	require.True(t, apperr.IsIntegrity(err))

	got := map[string]bool{}
	for _, p := range apperr.Problems(err) {
		got[p.Path+"#"+p.Field] = true
	}
	require.True(t, got["teachers/jan-novak/config.json#name.cz"])
	require.True(t, got["teachers/jan-novak/config.json#ratings.overall"])
	require.True(t, got["teachers/jan-novak/config.json#ratings.reviews"])
	require.True(t, got["subjects/calculus/articles/broken.mdx#frontmatter"])
	require.True(t, got["system/config.json#articles[0].route"])
}

func TestBuild_ProblemsAreSorted(t *testing.T) {
	root, _ := testutil.TestContent(t)
	testutil.WriteFile(t, root, "teachers/eva-svobodova/config.json", `{"slug": "eva-svobodova", "bogus": 1}`)
	testutil.WriteFile(t, root, "subjects/calculus/config.json", `{"slug": "calculus", "bogus": 1}`)

	for i := 0; i < 3; i++ {
		_, err := build(t, root)
		problems := apperr.Problems(err)
		require.Len(t, problems, 2)
		require.Equal(t, "subjects/calculus/config.json", problems[0].Path)
		require.Equal(t, "teachers/eva-svobodova/config.json", problems[1].Path)
	}
}

func TestBuild_DuplicateAndLocation(t *testing.T) {
	root, _ := testutil.TestContent(t)
	// Same article slug in a second owner directory.
	testutil.WriteFile(t, root, "subjects/calculus/articles/matrices.mdx",
		"---\ntitle: {en: M, ru: M, cz: M}\nslug: matrices\nkeywords: {en: [], ru: [], cz: []}\ncreated: 2024-01-01\n---\nBody\n")
	// Slug that does not match the file stem.
	testutil.WriteFile(t, root, "subjects/calculus/articles/series.mdx",
		"---\ntitle: {en: S, ru: S, cz: S}\nslug: sequences\nkeywords: {en: [], ru: [], cz: []}\ncreated: 2024-01-01\n---\nBody\n")
	testutil.WriteFile(t, root, "system/config.json", `{"articles": [
  {"slug": "a", "route": "/a", "name": {"en": "A", "ru": "A", "cz": "A"}, "keywords": {"en": [], "ru": [], "cz": []}},
  {"slug": "a", "route": "/b", "name": {"en": "A", "ru": "A", "cz": "A"}, "keywords": {"en": [], "ru": [], "cz": []}},
  {"slug": "c", "route": "/a", "name": {"en": "C", "ru": "C", "cz": "C"}, "keywords": {"en": [], "ru": [], "cz": []}}
]}`)

	_, err := build(t, root)
	require.True(t, apperr.IsIntegrity(err))

	kinds := map[string]apperr.ProblemKind{}
	for _, p := range apperr.Problems(err) {
		kinds[p.Path+"#"+p.Field] = p.Kind
	}
	require.Equal(t, apperr.KindDuplicate, kinds["subjects/linear-algebra/articles/matrices.mdx#slug"])
	require.Equal(t, apperr.KindOwnership, kinds["subjects/calculus/articles/series.mdx#slug"])
	require.Equal(t, apperr.KindDuplicate, kinds["system/config.json#articles[1].slug"])
	require.Equal(t, apperr.KindDuplicate, kinds["system/config.json#articles[2].route"])
}

func TestBuild_CompileErrorIsReported(t *testing.T) {
	root, _ := testutil.TestContent(t)
	testutil.WriteFile(t, root, "subjects/calculus/articles/limits.mdx",
		"---\ntitle: {en: L, ru: L, cz: L}\nslug: limits\nkeywords: {en: [], ru: [], cz: []}\ncreated: 2024-01-01\n---\n# Limits\n\n<Aside>\nunterminated\n")

	_, err := build(t, root)
	require.True(t, apperr.IsIntegrity(err))
	problems := apperr.Problems(err)
	require.Len(t, problems, 1)
	require.Equal(t, apperr.KindCompile, problems[0].Kind)
	require.Equal(t, "subjects/calculus/articles/limits.mdx", problems[0].Path)
	require.Equal(t, "line 9", problems[0].Field)
}

func TestBuild_SelfPrerequisite(t *testing.T) {
	root, _ := testutil.TestContent(t)
	testutil.WriteFile(t, root, "subjects/calculus/articles/limits.mdx",
		"---\ntitle: {en: L, ru: L, cz: L}\nslug: limits\nkeywords: {en: [], ru: [], cz: []}\ncreated: 2024-01-01\nprerequisites: [limits]\nauthor: nobody\n---\nBody\n")

	_, err := build(t, root)
	fields := map[string]string{}
	for _, p := range apperr.Problems(err) {
		fields[p.Field] = p.Message
	}
	require.Equal(t, "article cannot be its own prerequisite", fields["prerequisites[0]"])
	require.Equal(t, `unknown teacher "nobody"`, fields["author"])
}

func TestBuild_Canceled(t *testing.T) {
	_, store := testutil.TestContent(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewBuilder(store, compiler.New(compiler.Options{})).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDisplay(t *testing.T) {
	root, _ := testutil.TestContent(t)
	m, err := build(t, root)
	require.NoError(t, err)

	d, ok := m.Display(models.KindSubject, "linear-algebra", "cz")
	require.True(t, ok)
	require.Equal(t, "Lineární algebra", d.Title)
	require.Equal(t, models.LocaleCZ, d.Locale)

	d, ok = m.Display(models.KindTeacher, "jan-novak", "fr")
	require.True(t, ok)
	require.Equal(t, "Jan Novak", d.Title)
	require.Equal(t, models.LocaleEN, d.Locale)
	require.Equal(t, []string{"Algebra", "vectors", "algebra"}, d.Keywords)

	d, ok = m.Display(models.KindSystem, "about", "ru")
	require.True(t, ok)
	require.Equal(t, "О портале", d.Title)
	require.Equal(t, "/about", d.Route)

	_, ok = m.Display(models.KindArticle, "nope", "en")
	require.False(t, ok)
}

func TestMarshalJSON_Stable(t *testing.T) {
	root, _ := testutil.TestContent(t)
	m1, err := build(t, root)
	require.NoError(t, err)
	m2, err := build(t, root)
	require.NoError(t, err)

	b1, err := json.Marshal(m1)
	require.NoError(t, err)
	b2, err := json.Marshal(m2)
	require.NoError(t, err)
	require.Equal(t, string(b1), string(b2))

	var decoded struct {
		Version  int      `json:"version"`
		Pinned   []string `json:"pinned"`
		Articles []struct {
			Slug  string `json:"slug"`
			Route string `json:"route"`
		} `json:"articles"`
	}
	require.NoError(t, json.Unmarshal(b1, &decoded))
	require.Equal(t, FormatVersion, decoded.Version)
	require.Equal(t, []string{"contacts", "faq", "about"}, decoded.Pinned)
	require.Len(t, decoded.Articles, 4)
	require.Equal(t, "limits", decoded.Articles[0].Slug)
}
