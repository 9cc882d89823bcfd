package manifest

import (
	"encoding/json"

	"github.com/starford/syllabus/internal/models"
)

// FormatVersion is the version of the serialized manifest.
const FormatVersion = 1

type manifestDTO struct {
	Version  int                    `json:"version"`
	Subjects []subjectDTO           `json:"subjects"`
	Teachers []teacherDTO           `json:"teachers"`
	Articles []articleDTO           `json:"articles"`
	System   []models.SystemArticle `json:"system"`
	Pinned   []string               `json:"pinned"`
	Routes   map[string]EntityRef   `json:"routes"`
	Warnings []Warning              `json:"warnings"`
}

type subjectDTO struct {
	models.Subject
	Route    string   `json:"route"`
	Articles []string `json:"articles"`
}

type teacherDTO struct {
	models.Teacher
	Route    string   `json:"route"`
	Articles []string `json:"articles"`
}

type articleDTO struct {
	models.Article
	Route    string          `json:"route"`
	Owner    models.Owner    `json:"owner"`
	Refs     ArticleRefs     `json:"refs"`
	Document models.Document `json:"document"`
}

// MarshalJSON encodes the manifest for the rendering layer. Entities are
// sorted by slug and relations are written as slug lists, so the output is
// byte-stable for an unchanged content tree.
func (m *Manifest) MarshalJSON() ([]byte, error) {
	dto := manifestDTO{
		Version:  FormatVersion,
		Subjects: []subjectDTO{},
		Teachers: []teacherDTO{},
		Articles: []articleDTO{},
		System:   m.SystemArticles(),
		Pinned:   []string{},
		Routes:   m.routes,
		Warnings: m.Warnings(),
	}
	for _, s := range m.Subjects() {
		dto.Subjects = append(dto.Subjects, subjectDTO{Subject: s.Record, Route: s.Route, Articles: slugs(s.Articles)})
	}
	for _, t := range m.Teachers() {
		dto.Teachers = append(dto.Teachers, teacherDTO{Teacher: t.Record, Route: t.Route, Articles: slugs(t.Articles)})
	}
	for _, a := range m.Articles() {
		refs := ArticleRefs{Subjects: orEmpty(a.Refs.Subjects), Teachers: orEmpty(a.Refs.Teachers)}
		dto.Articles = append(dto.Articles, articleDTO{
			Article:  a.Record,
			Route:    a.Route,
			Owner:    a.Owner,
			Refs:     refs,
			Document: a.Document,
		})
	}
	for _, p := range m.pinned {
		dto.Pinned = append(dto.Pinned, p.Slug)
	}
	return json.Marshal(dto)
}

func slugs(articles []*Article) []string {
	out := make([]string, len(articles))
	for i, a := range articles {
		out[i] = a.Record.Slug
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
