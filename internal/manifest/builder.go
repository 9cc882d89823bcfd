package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/compiler"
	"github.com/starford/syllabus/internal/logfields"
	"github.com/starford/syllabus/internal/metrics"
	"github.com/starford/syllabus/internal/models"
	"github.com/starford/syllabus/internal/storage"
)

// DefaultWorkers is the article compile parallelism when none is configured.
const DefaultWorkers = 4

// Builder turns a content tree into a Manifest.
type Builder struct {
	store    storage.Provider
	compiler *compiler.Compiler
	workers  int
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Builder.
type Option func(*Builder)

// WithWorkers sets the number of articles compiled concurrently.
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithLogger sets the builder logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// NewBuilder creates a Builder reading content from store.
func NewBuilder(store storage.Provider, c *compiler.Compiler, opts ...Option) *Builder {
	b := &Builder{
		store:    store,
		compiler: c,
		workers:  DefaultWorkers,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build validates, resolves and compiles the whole content tree. Every
// defect found is reported together in a *apperr.ContentIntegrityError;
// no partial manifest is ever returned.
//
// Records are validated first and the build stops there if any fail, since
// references cannot be checked against an incomplete arena. Reference,
// ownership and compile problems are then gathered in one pass.
func (b *Builder) Build(ctx context.Context) (*Manifest, error) {
	start := time.Now()
	t, err := load(b.store)
	if err != nil {
		return nil, fmt.Errorf("manifest: load: %w", err)
	}
	metrics.Since(b.recorder, metrics.StageValidate, start)
	if len(t.problems) > 0 {
		return nil, apperr.NewIntegrityError(t.problems)
	}

	start = time.Now()
	m := t.resolve()
	metrics.Since(b.recorder, metrics.StageManifest, start)

	start = time.Now()
	docs, err := b.compileAll(ctx, t)
	if err != nil {
		return nil, err
	}
	metrics.Since(b.recorder, metrics.StageCompile, start)
	if len(t.problems) > 0 {
		return nil, apperr.NewIntegrityError(t.problems)
	}

	for slug, doc := range docs {
		a := m.articles[slug]
		a.Document = doc
		if a.Record.ReadTime == 0 {
			a.Record.ReadTime = compiler.ReadTime(doc.Words)
		}
	}

	for _, w := range m.warnings {
		b.logger.Warn("asymmetric subject/teacher association", logfields.Path(w.Path), slog.String("detail", w.Message))
	}
	stats := m.Stats()
	b.logger.Info("manifest built",
		slog.Int("subjects", stats.Subjects),
		slog.Int("teachers", stats.Teachers),
		slog.Int("articles", stats.Articles),
		slog.Int("system_articles", stats.SystemArticles),
		slog.Int("warnings", len(m.warnings)),
	)
	return m, nil
}

// compileAll compiles every article body concurrently. Compile failures are
// appended to t.problems in slug order; only cancellation aborts.
func (b *Builder) compileAll(ctx context.Context, t *tree) (map[string]models.Document, error) {
	slugs := make([]string, 0, len(t.articles))
	for slug := range t.articles {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)

	docs := make([]models.Document, len(slugs))
	errs := make([]error, len(slugs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, slug := range slugs {
		e := t.articles[slug]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			docs[i], errs[i] = b.compiler.Compile(e.path, e.body, e.bodyLine)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("manifest: compile: %w", err)
	}

	out := make(map[string]models.Document, len(slugs))
	for i, slug := range slugs {
		if errs[i] != nil {
			b.logger.Debug("article failed to compile", logfields.Slug(slug), logfields.Error(errs[i]))
			t.record(t.articles[slug].path, errs[i])
			continue
		}
		out[slug] = docs[i]
	}
	return out, nil
}

// resolve converts slug references into pointers, recording every dangling
// or misplaced reference in t.problems.
func (t *tree) resolve() *Manifest {
	m := &Manifest{
		subjects: make(map[string]*Subject, len(t.subjects)),
		teachers: make(map[string]*Teacher, len(t.teachers)),
		articles: make(map[string]*Article, len(t.articles)),
		system:   make(map[string]models.SystemArticle, len(t.system)),
		routes:   map[string]EntityRef{},
	}
	for slug, e := range t.subjects {
		m.subjects[slug] = &Subject{Record: e.rec, Path: e.path, Route: SubjectRoute(slug)}
	}
	for slug, e := range t.teachers {
		m.teachers[slug] = &Teacher{Record: e.rec, Path: e.path, Route: TeacherRoute(slug)}
	}
	for slug, e := range t.articles {
		m.articles[slug] = &Article{Record: e.rec, Path: e.path, Owner: e.owner, Route: ArticleRoute(e.owner, slug)}
	}

	for _, a := range m.Articles() {
		switch a.Owner.Kind {
		case models.KindSubject:
			if s, ok := m.subjects[a.Owner.Slug]; ok {
				s.Articles = append(s.Articles, a)
			}
		case models.KindTeacher:
			if tc, ok := m.teachers[a.Owner.Slug]; ok {
				tc.Articles = append(tc.Articles, a)
			}
		}
	}

	for _, s := range m.Subjects() {
		t.resolveSubject(m, s)
	}
	for _, tc := range m.Teachers() {
		t.resolveTeacher(m, tc)
	}
	for _, a := range m.Articles() {
		t.resolveArticle(m, a)
	}
	m.warnings = asymmetries(m)
	t.resolveSystem(m)
	return m
}

func (t *tree) resolveSubject(m *Manifest, s *Subject) {
	owner := models.Owner{Kind: models.KindSubject, Slug: s.Record.Slug}
	for i, slug := range s.Record.Teachers {
		if tc, ok := m.teachers[slug]; ok {
			s.Teachers = append(s.Teachers, tc)
			continue
		}
		t.problem(apperr.KindReference, s.Path, fmt.Sprintf("teachers[%d]", i), "unknown teacher %q", slug)
	}
	for ci, c := range s.Record.Categories {
		cat := Category{Slug: c.Slug, Name: c.Name}
		for ai, slug := range c.Articles {
			field := fmt.Sprintf("categories[%d].articles[%d]", ci, ai)
			if a := t.ownedArticle(m, s.Path, field, slug, owner); a != nil {
				cat.Articles = append(cat.Articles, a)
				a.Refs.Subjects = appendUnique(a.Refs.Subjects, s.Record.Slug)
			}
		}
		s.Categories = append(s.Categories, cat)
	}
}

func (t *tree) resolveTeacher(m *Manifest, tc *Teacher) {
	owner := models.Owner{Kind: models.KindTeacher, Slug: tc.Record.Slug}
	for i, slug := range tc.Record.Subjects {
		if s, ok := m.subjects[slug]; ok {
			tc.Subjects = append(tc.Subjects, s)
			continue
		}
		t.problem(apperr.KindReference, tc.Path, fmt.Sprintf("subjects[%d]", i), "unknown subject %q", slug)
	}
	for si, sec := range tc.Record.Sections {
		section := Section{Name: sec.Name}
		for ai, slug := range sec.Articles {
			field := fmt.Sprintf("sections[%d].articles[%d]", si, ai)
			if a := t.ownedArticle(m, tc.Path, field, slug, owner); a != nil {
				section.Articles = append(section.Articles, a)
				a.Refs.Teachers = appendUnique(a.Refs.Teachers, tc.Record.Slug)
			}
		}
		tc.Sections = append(tc.Sections, section)
	}
}

func (t *tree) resolveArticle(m *Manifest, a *Article) {
	if slug := a.Record.Author; slug != "" {
		if tc, ok := m.teachers[slug]; ok {
			a.Author = tc
		} else {
			t.problem(apperr.KindReference, a.Path, "author", "unknown teacher %q", slug)
		}
	}
	for i, slug := range a.Record.Tutors {
		if tc, ok := m.teachers[slug]; ok {
			a.Tutors = append(a.Tutors, tc)
			continue
		}
		t.problem(apperr.KindReference, a.Path, fmt.Sprintf("tutors[%d]", i), "unknown teacher %q", slug)
	}
	for i, slug := range a.Record.Prerequisites {
		field := fmt.Sprintf("prerequisites[%d]", i)
		if slug == a.Record.Slug {
			t.problem(apperr.KindReference, a.Path, field, "article cannot be its own prerequisite")
			continue
		}
		if p, ok := m.articles[slug]; ok {
			a.Prerequisites = append(a.Prerequisites, p)
			continue
		}
		t.problem(apperr.KindReference, a.Path, field, "unknown article %q", slug)
	}
}

// resolveSystem registers every route and orders the pinned list.
func (t *tree) resolveSystem(m *Manifest) {
	for _, s := range m.Subjects() {
		m.routes[s.Route] = EntityRef{Kind: models.KindSubject, Slug: s.Record.Slug}
	}
	for _, tc := range m.Teachers() {
		m.routes[tc.Route] = EntityRef{Kind: models.KindTeacher, Slug: tc.Record.Slug}
	}
	for _, a := range m.Articles() {
		m.routes[a.Route] = EntityRef{Kind: models.KindArticle, Slug: a.Record.Slug}
	}

	entries := make([]systemEntry, 0, len(t.system))
	for _, e := range t.system {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].rec.Slug < entries[j].rec.Slug })

	for _, e := range entries {
		if prev, taken := m.routes[e.rec.Route]; taken {
			t.problem(apperr.KindDuplicate, e.path, fmt.Sprintf("articles[%d].route", e.index),
				"route %q is already used by %s %q", e.rec.Route, prev.Kind, prev.Slug)
			continue
		}
		m.routes[e.rec.Route] = EntityRef{Kind: models.KindSystem, Slug: e.rec.Slug}
		m.system[e.rec.Slug] = e.rec
		if e.rec.Pinned {
			m.pinned = append(m.pinned, e.rec)
		}
	}
	SortPinned(m.pinned)
}

// SortPinned orders system articles by ascending order, a missing order
// counting as 0. The sort is stable, so callers pass entries sorted by slug
// to break ties deterministically.
func SortPinned(entries []models.SystemArticle) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortOrder() < entries[j].SortOrder()
	})
}

func (t *tree) ownedArticle(m *Manifest, p, field, slug string, owner models.Owner) *Article {
	a, ok := m.articles[slug]
	if !ok {
		t.problem(apperr.KindReference, p, field, "unknown article %q", slug)
		return nil
	}
	if a.Owner != owner {
		t.problem(apperr.KindOwnership, p, field, "article %q belongs to %s %q", slug, a.Owner.Kind, a.Owner.Slug)
		return nil
	}
	return a
}

// asymmetries lists subject/teacher associations declared on one side only.
func asymmetries(m *Manifest) []Warning {
	var out []Warning
	for _, s := range m.Subjects() {
		for _, tc := range s.Teachers {
			if !slices.Contains(tc.Record.Subjects, s.Record.Slug) {
				out = append(out, Warning{
					Path:    s.Path,
					Message: fmt.Sprintf("subject %q lists teacher %q, which does not list it back", s.Record.Slug, tc.Record.Slug),
				})
			}
		}
	}
	for _, tc := range m.Teachers() {
		for _, s := range tc.Subjects {
			if !slices.Contains(s.Record.Teachers, tc.Record.Slug) {
				out = append(out, Warning{
					Path:    tc.Path,
					Message: fmt.Sprintf("teacher %q lists subject %q, which does not list it back", tc.Record.Slug, s.Record.Slug),
				})
			}
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}
