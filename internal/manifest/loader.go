package manifest

import (
	"fmt"
	"path"
	"strings"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/parser"
	"github.com/starford/syllabus/internal/schema"
	"github.com/starford/syllabus/internal/storage"
)

// Content tree layout.
const (
	SubjectsDir      = "subjects"
	TeachersDir      = "teachers"
	SystemConfig     = "system/config.json"
	configFile       = "config.json"
	articlesDir      = "articles"
	articleExtension = ".mdx"
)

// SubjectRoute returns the route of a subject page.
func SubjectRoute(slug string) string { return "/subjects/" + slug }

// TeacherRoute returns the route of a teacher page.
func TeacherRoute(slug string) string { return "/teachers/" + slug }

// ArticleRoute returns the route of an article under its owner.
func ArticleRoute(owner models.Owner, slug string) string {
	if owner.Kind == models.KindTeacher {
		return TeacherRoute(owner.Slug) + "/" + slug
	}
	return SubjectRoute(owner.Slug) + "/" + slug
}

type subjectEntry struct {
	path string
	rec  models.Subject
}

type teacherEntry struct {
	path string
	rec  models.Teacher
}

type articleEntry struct {
	path     string
	rec      models.Article
	owner    models.Owner
	body     []byte
	bodyLine int
}

type systemEntry struct {
	path  string
	index int
	rec   models.SystemArticle
}

// tree is the validated but unresolved content: the per-kind arenas.
type tree struct {
	subjects map[string]subjectEntry
	teachers map[string]teacherEntry
	articles map[string]articleEntry
	system   map[string]systemEntry
	problems []apperr.Problem
}

func newTree() *tree {
	return &tree{
		subjects: map[string]subjectEntry{},
		teachers: map[string]teacherEntry{},
		articles: map[string]articleEntry{},
		system:   map[string]systemEntry{},
	}
}

func (t *tree) problem(kind apperr.ProblemKind, p, field, format string, args ...any) {
	t.problems = append(t.problems, apperr.Problem{
		Kind:    kind,
		Path:    p,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	})
}

// record appends the problems carried by err, or err itself as a schema
// problem when it carries none.
func (t *tree) record(p string, err error) {
	if problems := apperr.Problems(err); len(problems) > 0 {
		t.problems = append(t.problems, problems...)
		return
	}
	t.problem(apperr.KindSchema, p, "", "%v", err)
}

// load enumerates and validates every record of the content tree. Files are
// visited in sorted order so duplicate reports name the same file each run.
func load(store storage.Provider) (*tree, error) {
	t := newTree()

	subjectDirs, err := store.Dirs(SubjectsDir)
	if err != nil {
		return nil, err
	}
	for _, dir := range subjectDirs {
		p := path.Join(SubjectsDir, dir, configFile)
		data, ok, err := readConfig(store, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			t.problem(apperr.KindSchema, p, "", "missing %s", configFile)
			continue
		}
		rec, err := schema.Subject(p, data)
		if err != nil {
			t.record(p, err)
		} else if t.checkLocation(p, "slug", rec.Slug, dir) {
			if prev, dup := t.subjects[rec.Slug]; dup {
				t.problem(apperr.KindDuplicate, p, "slug", "duplicate subject slug %q (also defined in %s)", rec.Slug, prev.path)
			} else {
				t.subjects[rec.Slug] = subjectEntry{path: p, rec: rec}
			}
		}
		if err := t.loadArticles(store, models.Owner{Kind: models.KindSubject, Slug: dir}, path.Join(SubjectsDir, dir)); err != nil {
			return nil, err
		}
	}

	teacherDirs, err := store.Dirs(TeachersDir)
	if err != nil {
		return nil, err
	}
	for _, dir := range teacherDirs {
		p := path.Join(TeachersDir, dir, configFile)
		data, ok, err := readConfig(store, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			t.problem(apperr.KindSchema, p, "", "missing %s", configFile)
			continue
		}
		rec, err := schema.Teacher(p, data)
		if err != nil {
			t.record(p, err)
		} else if t.checkLocation(p, "slug", rec.Slug, dir) {
			if prev, dup := t.teachers[rec.Slug]; dup {
				t.problem(apperr.KindDuplicate, p, "slug", "duplicate teacher slug %q (also defined in %s)", rec.Slug, prev.path)
			} else {
				t.teachers[rec.Slug] = teacherEntry{path: p, rec: rec}
			}
		}
		if err := t.loadArticles(store, models.Owner{Kind: models.KindTeacher, Slug: dir}, path.Join(TeachersDir, dir)); err != nil {
			return nil, err
		}
	}

	if err := t.loadSystem(store); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *tree) loadArticles(store storage.Provider, owner models.Owner, ownerDir string) error {
	dir := path.Join(ownerDir, articlesDir)
	files, err := store.List(dir, articleExtension)
	if err != nil {
		return err
	}
	for _, f := range files {
		if path.Dir(f.Path) != dir {
			t.problem(apperr.KindOwnership, f.Path, "", "articles must be placed directly in %s", dir)
			continue
		}
		data, err := store.Read(f.Path)
		if err != nil {
			return err
		}
		parsed, err := parser.Parse(data)
		if err != nil {
			t.problem(apperr.KindSchema, f.Path, "frontmatter", "%v", err)
			continue
		}
		rec, err := schema.Article(f.Path, parsed.Frontmatter)
		if err != nil {
			t.record(f.Path, err)
			continue
		}
		stem := strings.TrimSuffix(path.Base(f.Path), articleExtension)
		if !t.checkLocation(f.Path, "slug", rec.Slug, stem) {
			continue
		}
		if prev, dup := t.articles[rec.Slug]; dup {
			t.problem(apperr.KindDuplicate, f.Path, "slug", "duplicate article slug %q (also defined in %s)", rec.Slug, prev.path)
			continue
		}
		t.articles[rec.Slug] = articleEntry{
			path:     f.Path,
			rec:      rec,
			owner:    owner,
			body:     parsed.Body,
			bodyLine: parsed.BodyLine,
		}
	}
	return nil
}

func (t *tree) loadSystem(store storage.Provider) error {
	data, ok, err := readConfig(store, SystemConfig)
	if err != nil || !ok {
		return err
	}
	entries, err := schema.SystemArticles(SystemConfig, data)
	if err != nil {
		t.record(SystemConfig, err)
		return nil
	}
	routes := make(map[string]string, len(entries))
	for i, e := range entries {
		if prev, dup := t.system[e.Slug]; dup {
			t.problem(apperr.KindDuplicate, SystemConfig, fmt.Sprintf("articles[%d].slug", i),
				"duplicate system article slug %q (also at articles[%d])", e.Slug, prev.index)
			continue
		}
		if prev, dup := routes[e.Route]; dup {
			t.problem(apperr.KindDuplicate, SystemConfig, fmt.Sprintf("articles[%d].route", i),
				"route %q is already used by system article %q", e.Route, prev)
			continue
		}
		routes[e.Route] = e.Slug
		t.system[e.Slug] = systemEntry{path: SystemConfig, index: i, rec: e}
	}
	return nil
}

// checkLocation reports whether a record's slug matches the name its file
// location implies, recording an ownership problem when it does not.
func (t *tree) checkLocation(p, field, slug, want string) bool {
	if slug == want {
		return true
	}
	t.problem(apperr.KindOwnership, p, field, "slug %q does not match its location %q", slug, want)
	return false
}

func readConfig(store storage.Provider, p string) ([]byte, bool, error) {
	ok, err := store.Exists(p)
	if err != nil || !ok {
		return nil, false, err
	}
	data, err := store.Read(p)
	if err != nil {
		return nil, false, fmt.Errorf("manifest: %w", err)
	}
	return data, true, nil
}
