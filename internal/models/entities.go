// Package models defines the content types shared by the build pipeline.
//
// Values in this package are plain data: they carry no validation logic and
// hold cross-references as slugs. The manifest package turns slugs into
// resolved relations.
package models

import "time"

// EntityKind names a kind of content entity.
type EntityKind string

// Entity kinds.
const (
	KindSubject EntityKind = "subject"
	KindTeacher EntityKind = "teacher"
	KindArticle EntityKind = "article"
	KindSystem  EntityKind = "system"
)

// Difficulty tiers.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Subject is a validated subject record.
type Subject struct {
	Slug        string      `json:"slug"`
	Name        Localized   `json:"name"`
	Description Localized   `json:"description"`
	Teachers    []string    `json:"teachers"`
	Categories  []Category  `json:"categories"`
	Meta        SubjectMeta `json:"meta"`
}

// SubjectMeta holds optional subject metadata. Zero values mean unset.
type SubjectMeta struct {
	Semester   int    `json:"semester,omitempty"`
	Credits    int    `json:"credits,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Department string `json:"department,omitempty"`
}

// Category is an ordered group of article slugs inside a subject.
type Category struct {
	Slug     string    `json:"slug,omitempty"`
	Name     Localized `json:"name"`
	Articles []string  `json:"articles"`
}

// Teacher is a validated teacher record.
type Teacher struct {
	Slug        string    `json:"slug"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
	Photo       string    `json:"photo,omitempty"`
	Subjects    []string  `json:"subjects"`
	Ratings     Ratings   `json:"ratings"`
	Keywords    Keywords  `json:"keywords"`
	Contact     *Contact  `json:"contact,omitempty"`
	Reviews     []Review  `json:"reviews,omitempty"`
	Sections    []Section `json:"sections,omitempty"`
}

// Ratings aggregates teacher scores. Scores are within [0, 5].
type Ratings struct {
	Overall     float64 `json:"overall"`
	Quality     float64 `json:"quality"`
	Difficulty  float64 `json:"difficulty"`
	Helpfulness float64 `json:"helpfulness"`
	Reviews     int     `json:"reviews"`
}

// Contact is an optional teacher contact block.
type Contact struct {
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
	Office  string `json:"office,omitempty"`
}

// Review is a single teacher review.
type Review struct {
	Text      Localized `json:"text"`
	Rating    int       `json:"rating"`
	Date      string    `json:"date"`
	Anonymous bool      `json:"anonymous"`
	Author    string    `json:"author,omitempty"`
}

// Section groups article slugs owned by a teacher.
type Section struct {
	Name     Localized `json:"name"`
	Articles []string  `json:"articles"`
}

// Owner identifies the entity whose content directory holds an article.
type Owner struct {
	Kind EntityKind `json:"kind"`
	Slug string     `json:"slug"`
}

// Article is a validated article frontmatter record.
type Article struct {
	Slug          string    `json:"slug"`
	Title         Localized `json:"title"`
	Author        string    `json:"author,omitempty"`
	Keywords      Keywords  `json:"keywords"`
	Created       string    `json:"created"`
	Updated       string    `json:"updated,omitempty"`
	Difficulty    string    `json:"difficulty,omitempty"`
	ReadTime      int       `json:"readTime,omitempty"`
	Prerequisites []string  `json:"prerequisites,omitempty"`
	Tutors        []string  `json:"tutors,omitempty"`
}

// SystemArticle is a pinned or route-addressable system entry.
type SystemArticle struct {
	Slug        string    `json:"slug"`
	Route       string    `json:"route"`
	Name        Localized `json:"name"`
	Description Localized `json:"description,omitempty"`
	Keywords    Keywords  `json:"keywords"`
	Pinned      bool      `json:"pinned"`
	Order       *int      `json:"order,omitempty"`
}

// SortOrder returns the explicit order, treating a missing value as 0.
func (s SystemArticle) SortOrder() int {
	if s.Order == nil {
		return 0
	}
	return *s.Order
}

// TOCEntry is one heading harvested from a compiled article body.
type TOCEntry struct {
	Depth int    `json:"depth"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// Document is the compiled form of an article body.
type Document struct {
	HTML     string     `json:"html"`
	TOC      []TOCEntry `json:"toc"`
	LeadText string     `json:"-"`
	Words    int        `json:"words"`
}

// FileMeta is a lightweight description of a content file.
type FileMeta struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
