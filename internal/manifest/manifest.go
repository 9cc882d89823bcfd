// Package manifest builds the resolved, read-only snapshot of the content
// tree. Entities live in per-kind arenas keyed by slug; relations are plain
// pointers into those arenas, set once by the builder.
//
// A Manifest and everything reachable from it must be treated as
// read-only by callers.
package manifest

import (
	"sort"

	"github.com/starford/syllabus/internal/locale"
	"github.com/starford/syllabus/internal/models"
)

// Subject is a subject with its teachers and categories resolved.
type Subject struct {
	Record     models.Subject
	Path       string
	Route      string
	Teachers   []*Teacher
	Categories []Category
	// Articles owned by the subject directory, sorted by slug.
	Articles []*Article
}

// Category is an ordered, resolved list of articles.
type Category struct {
	Slug     string
	Name     models.Localized
	Articles []*Article
}

// Teacher is a teacher with its subjects and sections resolved.
type Teacher struct {
	Record   models.Teacher
	Path     string
	Route    string
	Subjects []*Subject
	Sections []Section
	// Articles owned by the teacher directory, sorted by slug.
	Articles []*Article
}

// Section is a named, resolved list of a teacher's articles.
type Section struct {
	Name     models.Localized
	Articles []*Article
}

// Article is an article record with its compiled body and resolved relations.
type Article struct {
	Record        models.Article
	Path          string
	Route         string
	Owner         models.Owner
	Document      models.Document
	Author        *Teacher
	Tutors        []*Teacher
	Prerequisites []*Article
	Refs          ArticleRefs
}

// ArticleRefs lists the entities whose categories or sections include an article.
type ArticleRefs struct {
	Subjects []string `json:"subjects"`
	Teachers []string `json:"teachers"`
}

// EntityRef addresses one entity of any kind.
type EntityRef struct {
	Kind models.EntityKind `json:"kind"`
	Slug string            `json:"slug"`
}

// Warning is a non-fatal observation made while building.
type Warning struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// DisplayStrings are the localized strings a renderer shows for one entity.
type DisplayStrings struct {
	Locale      models.Locale
	Title       string
	Description string
	Keywords    []string
	Route       string
}

// Stats counts the entities of a manifest.
type Stats struct {
	Subjects       int `json:"subjects"`
	Teachers       int `json:"teachers"`
	Articles       int `json:"articles"`
	SystemArticles int `json:"system_articles"`
}

// Manifest is the resolved content snapshot of one build.
type Manifest struct {
	subjects map[string]*Subject
	teachers map[string]*Teacher
	articles map[string]*Article
	system   map[string]models.SystemArticle
	routes   map[string]EntityRef
	pinned   []models.SystemArticle
	warnings []Warning
}

// Subjects returns all subjects sorted by slug.
func (m *Manifest) Subjects() []*Subject { return sortedValues(m.subjects) }

// Subject returns the subject with slug.
func (m *Manifest) Subject(slug string) (*Subject, bool) {
	s, ok := m.subjects[slug]
	return s, ok
}

// Teachers returns all teachers sorted by slug.
func (m *Manifest) Teachers() []*Teacher { return sortedValues(m.teachers) }

// Teacher returns the teacher with slug.
func (m *Manifest) Teacher(slug string) (*Teacher, bool) {
	t, ok := m.teachers[slug]
	return t, ok
}

// Articles returns all articles sorted by slug.
func (m *Manifest) Articles() []*Article { return sortedValues(m.articles) }

// Article returns the article with slug.
func (m *Manifest) Article(slug string) (*Article, bool) {
	a, ok := m.articles[slug]
	return a, ok
}

// SystemArticles returns every system article, pinned or not, sorted by slug.
func (m *Manifest) SystemArticles() []models.SystemArticle {
	return sortedValues(m.system)
}

// SystemArticle returns the system article with slug.
func (m *Manifest) SystemArticle(slug string) (models.SystemArticle, bool) {
	s, ok := m.system[slug]
	return s, ok
}

// Pinned returns the pinned system articles in home-page order.
func (m *Manifest) Pinned() []models.SystemArticle {
	out := make([]models.SystemArticle, len(m.pinned))
	copy(out, m.pinned)
	return out
}

// ByRoute returns the entity served at route.
func (m *Manifest) ByRoute(route string) (EntityRef, bool) {
	ref, ok := m.routes[route]
	return ref, ok
}

// Warnings returns the non-fatal observations of the build.
func (m *Manifest) Warnings() []Warning {
	out := make([]Warning, len(m.warnings))
	copy(out, m.warnings)
	return out
}

// Stats counts the entities in the manifest.
func (m *Manifest) Stats() Stats {
	return Stats{
		Subjects:       len(m.subjects),
		Teachers:       len(m.teachers),
		Articles:       len(m.articles),
		SystemArticles: len(m.system),
	}
}

// Display returns the strings to show for an entity in the requested
// locale, resolved through the locale fallback chain.
func (m *Manifest) Display(kind models.EntityKind, slug, requested string) (DisplayStrings, bool) {
	var (
		title, desc models.Localized
		keywords    models.Keywords
		route       string
	)
	switch kind {
	case models.KindSubject:
		s, ok := m.subjects[slug]
		if !ok {
			return DisplayStrings{}, false
		}
		title, desc, route = s.Record.Name, s.Record.Description, s.Route
	case models.KindTeacher:
		t, ok := m.teachers[slug]
		if !ok {
			return DisplayStrings{}, false
		}
		title, desc, keywords, route = t.Record.Name, t.Record.Description, t.Record.Keywords, t.Route
	case models.KindArticle:
		a, ok := m.articles[slug]
		if !ok {
			return DisplayStrings{}, false
		}
		title, keywords, route = a.Record.Title, a.Record.Keywords, a.Route
	case models.KindSystem:
		s, ok := m.system[slug]
		if !ok {
			return DisplayStrings{}, false
		}
		title, desc, keywords, route = s.Name, s.Description, s.Keywords, s.Route
	default:
		return DisplayStrings{}, false
	}

	return DisplayStrings{
		Locale:      locale.Resolve(models.Locales, requested),
		Title:       locale.Localized(title, requested),
		Description: locale.Localized(desc, requested),
		Keywords:    locale.Keywords(keywords, requested),
		Route:       route,
	}, true
}

func sortedValues[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
