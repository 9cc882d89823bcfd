package search

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/starford/syllabus/internal/checksum"
	"github.com/starford/syllabus/internal/locale"
	"github.com/starford/syllabus/internal/manifest"
	"github.com/starford/syllabus/internal/models"
)

// DefaultExcerptLength is the excerpt cap, in runes, when none is configured.
const DefaultExcerptLength = 160

const ellipsis = "…"

// Builder derives search indexes from a manifest.
type Builder struct {
	excerptLength int
}

// NewBuilder returns a Builder truncating excerpts to excerptLength runes.
func NewBuilder(excerptLength int) *Builder {
	if excerptLength <= 0 {
		excerptLength = DefaultExcerptLength
	}
	return &Builder{excerptLength: excerptLength}
}

// Build produces one index per supported locale and the meta record. The
// output depends only on the manifest content, so an unchanged manifest
// always yields the same bytes and hash.
func (b *Builder) Build(m *manifest.Manifest) (*Result, error) {
	res := &Result{
		Indexes: make(map[models.Locale]Index, len(models.Locales)),
		Files:   make(map[models.Locale][]byte, len(models.Locales)),
		Meta: Meta{
			Version: FormatVersion,
			Locales: make(map[models.Locale]LocaleMeta, len(models.Locales)),
		},
	}

	parts := make([][]byte, 0, 2*len(models.Locales))
	for _, l := range sortedLocales() {
		idx := Index{Version: FormatVersion, Locale: l, Documents: b.documents(m, l)}
		data, err := json.Marshal(idx)
		if err != nil {
			return nil, fmt.Errorf("search: encode %s index: %w", l, err)
		}
		res.Indexes[l] = idx
		res.Files[l] = data
		res.Meta.Locales[l] = LocaleMeta{Documents: len(idx.Documents), Bytes: len(data)}
		parts = append(parts, []byte(l), data)
	}
	res.Meta.Hash = checksum.SumParts(parts...)
	return res, nil
}

// documents lists subjects, teachers, articles and system articles, each
// group in slug order.
func (b *Builder) documents(m *manifest.Manifest, l models.Locale) []Document {
	req := string(l)
	folder := newFolder()
	docs := []Document{}

	for _, s := range m.Subjects() {
		docs = append(docs, Document{
			Slug:     s.Record.Slug,
			Kind:     models.KindSubject,
			Title:    locale.Localized(s.Record.Name, req),
			Keywords: folder.keywords(subjectKeywords(s, req)),
			Excerpt:  b.excerpt(locale.Localized(s.Record.Description, req)),
			Route:    s.Route,
		})
	}
	for _, t := range m.Teachers() {
		docs = append(docs, Document{
			Slug:     t.Record.Slug,
			Kind:     models.KindTeacher,
			Title:    locale.Localized(t.Record.Name, req),
			Keywords: folder.keywords(teacherKeywords(t, req)),
			Excerpt:  b.excerpt(locale.Localized(t.Record.Description, req)),
			Route:    t.Route,
		})
	}
	for _, a := range m.Articles() {
		docs = append(docs, Document{
			Slug:     a.Record.Slug,
			Kind:     models.KindArticle,
			Title:    locale.Localized(a.Record.Title, req),
			Keywords: folder.keywords(locale.Keywords(a.Record.Keywords, req)),
			Excerpt:  b.excerpt(a.Document.LeadText),
			Route:    a.Route,
		})
	}
	for _, s := range m.SystemArticles() {
		docs = append(docs, Document{
			Slug:     s.Slug,
			Kind:     models.KindSystem,
			Title:    locale.Localized(s.Name, req),
			Keywords: folder.keywords(locale.Keywords(s.Keywords, req)),
			Excerpt:  b.excerpt(locale.Localized(s.Description, req)),
			Route:    s.Route,
		})
	}
	return docs
}

// teacherKeywords appends the teacher's section names to their keywords.
func teacherKeywords(t *manifest.Teacher, req string) []string {
	out := append([]string(nil), locale.Keywords(t.Record.Keywords, req)...)
	for _, sec := range t.Record.Sections {
		if name := locale.Localized(sec.Name, req); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// subjectKeywords uses the subject's category names, since subjects carry
// no keyword record of their own.
func subjectKeywords(s *manifest.Subject, req string) []string {
	var out []string
	for _, c := range s.Record.Categories {
		if name := locale.Localized(c.Name, req); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// excerpt collapses whitespace and truncates to the configured length,
// preferring a word boundary, and marks truncation with an ellipsis.
func (b *Builder) excerpt(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= b.excerptLength {
		return s
	}
	r := []rune(s)[:b.excerptLength]
	if i := lastSpace(r); i > b.excerptLength/2 {
		r = r[:i]
	}
	return strings.TrimRightFunc(string(r), unicode.IsSpace) + ellipsis
}

func lastSpace(r []rune) int {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i] == ' ' {
			return i
		}
	}
	return -1
}

// folder normalizes keywords. A cases.Caser is stateful, so each index
// build gets its own.
type folder struct {
	lower cases.Caser
	strip transform.Transformer
}

func newFolder() *folder {
	return &folder{
		lower: cases.Lower(language.Und),
		strip: transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

// keywords lowercases and NFC-normalizes words, adds an accent-free variant
// where it differs, and drops blanks and duplicates keeping first occurrence.
func (f *folder) keywords(words []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(words))
	add := func(w string) {
		if w == "" {
			return
		}
		if _, dup := seen[w]; dup {
			return
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	for _, w := range words {
		folded := f.lower.String(norm.NFC.String(strings.TrimSpace(w)))
		add(folded)
		if plain, _, err := transform.String(f.strip, folded); err == nil {
			add(plain)
		}
	}
	return out
}

func sortedLocales() []models.Locale {
	out := make([]models.Locale, len(models.Locales))
	copy(out, models.Locales)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
