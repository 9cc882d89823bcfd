package schema

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/syllabus/internal/models"
)

type categoryRecord struct {
	Slug     string         `json:"slug" yaml:"slug"`
	Name     localizedField `json:"name" yaml:"name"`
	Articles []string       `json:"articles" yaml:"articles"`
}

func (c categoryRecord) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Slug, validation.Match(slugRe)),
		validation.Field(&c.Name, validation.Required, translations(false)),
		validation.Field(&c.Articles, slugList(articleSlugRe)),
	)
}

type subjectRecord struct {
	Slug        string           `json:"slug" yaml:"slug"`
	Name        localizedField   `json:"name" yaml:"name"`
	Description localizedField   `json:"description" yaml:"description"`
	Teachers    []string         `json:"teachers" yaml:"teachers"`
	Categories  []categoryRecord `json:"categories" yaml:"categories"`
	Semester    int              `json:"semester" yaml:"semester"`
	Credits     int              `json:"credits" yaml:"credits"`
	Difficulty  string           `json:"difficulty" yaml:"difficulty"`
	Department  string           `json:"department" yaml:"department"`
}

func (s subjectRecord) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Slug, validation.Required, validation.Match(slugRe)),
		validation.Field(&s.Name, validation.Required, translations(false)),
		validation.Field(&s.Description, validation.Required, translations(true)),
		validation.Field(&s.Teachers, slugList(slugRe)),
		validation.Field(&s.Categories),
		validation.Field(&s.Semester, validation.Min(1), validation.Max(12)),
		validation.Field(&s.Credits, validation.Min(0)),
		validation.Field(&s.Difficulty, validation.In(difficulties...)),
	)
}

func (s subjectRecord) model() models.Subject {
	cats := make([]models.Category, len(s.Categories))
	for i, c := range s.Categories {
		cats[i] = models.Category{Slug: c.Slug, Name: c.Name.model(), Articles: nonNil(c.Articles)}
	}
	return models.Subject{
		Slug:        s.Slug,
		Name:        s.Name.model(),
		Description: s.Description.model(),
		Teachers:    nonNil(s.Teachers),
		Categories:  cats,
		Meta: models.SubjectMeta{
			Semester:   s.Semester,
			Credits:    s.Credits,
			Difficulty: s.Difficulty,
			Department: s.Department,
		},
	}
}

type ratingsRecord struct {
	Overall     float64 `json:"overall"`
	Quality     float64 `json:"quality"`
	Difficulty  float64 `json:"difficulty"`
	Helpfulness float64 `json:"helpfulness"`
	Reviews     int     `json:"reviews"`
}

func (r ratingsRecord) Validate() error {
	score := []validation.Rule{validation.Min(0.0), validation.Max(5.0)}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Overall, score...),
		validation.Field(&r.Quality, score...),
		validation.Field(&r.Difficulty, score...),
		validation.Field(&r.Helpfulness, score...),
		validation.Field(&r.Reviews, validation.Min(0)),
	)
}

type contactRecord struct {
	Email   string `json:"email"`
	Website string `json:"website"`
	Office  string `json:"office"`
}

func (c contactRecord) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Email, is.EmailFormat),
		validation.Field(&c.Website, is.URL),
	)
}

type reviewRecord struct {
	Text      localizedField `json:"text"`
	Rating    int            `json:"rating"`
	Date      string         `json:"date"`
	Anonymous *bool          `json:"anonymous"`
	Author    string         `json:"author"`
}

func (r reviewRecord) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Text, validation.Required, translations(false)),
		validation.Field(&r.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&r.Date, validation.Required, validation.Date(dateLayout)),
	)
}

type sectionRecord struct {
	Name     localizedField `json:"name"`
	Articles []string       `json:"articles"`
}

func (s sectionRecord) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, translations(false)),
		validation.Field(&s.Articles, slugList(articleSlugRe)),
	)
}

type teacherRecord struct {
	Slug        string          `json:"slug"`
	Name        localizedField  `json:"name"`
	Description localizedField  `json:"description"`
	Photo       string          `json:"photo"`
	Subjects    []string        `json:"subjects"`
	Ratings     *ratingsRecord  `json:"ratings"`
	Keywords    keywordField    `json:"keywords"`
	Contact     *contactRecord  `json:"contact"`
	Reviews     []reviewRecord  `json:"reviews"`
	Sections    []sectionRecord `json:"sections"`
}

func (t teacherRecord) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Slug, validation.Required, validation.Match(slugRe)),
		validation.Field(&t.Name, validation.Required, translations(false)),
		validation.Field(&t.Description, validation.Required, translations(true)),
		validation.Field(&t.Subjects, slugList(slugRe)),
		validation.Field(&t.Ratings, validation.Required),
		validation.Field(&t.Keywords, validation.Required, keywordSets()),
		validation.Field(&t.Contact),
		validation.Field(&t.Reviews),
		validation.Field(&t.Sections),
	)
}

func (t teacherRecord) model() models.Teacher {
	out := models.Teacher{
		Slug:        t.Slug,
		Name:        t.Name.model(),
		Description: t.Description.model(),
		Photo:       t.Photo,
		Subjects:    nonNil(t.Subjects),
		Keywords:    t.Keywords.model(),
	}
	if t.Ratings != nil {
		out.Ratings = models.Ratings(*t.Ratings)
	}
	if t.Contact != nil {
		c := models.Contact(*t.Contact)
		out.Contact = &c
	}
	for _, r := range t.Reviews {
		anonymous := true
		if r.Anonymous != nil {
			anonymous = *r.Anonymous
		}
		out.Reviews = append(out.Reviews, models.Review{
			Text:      r.Text.model(),
			Rating:    r.Rating,
			Date:      r.Date,
			Anonymous: anonymous,
			Author:    r.Author,
		})
	}
	for _, s := range t.Sections {
		out.Sections = append(out.Sections, models.Section{Name: s.Name.model(), Articles: nonNil(s.Articles)})
	}
	return out
}

type articleRecord struct {
	Title         localizedField `json:"title" yaml:"title"`
	Slug          string         `json:"slug" yaml:"slug"`
	Author        string         `json:"author" yaml:"author"`
	Keywords      keywordField   `json:"keywords" yaml:"keywords"`
	Created       string         `json:"created" yaml:"created"`
	Updated       string         `json:"updated" yaml:"updated"`
	Difficulty    string         `json:"difficulty" yaml:"difficulty"`
	ReadTime      int            `json:"readTime" yaml:"readTime"`
	Prerequisites []string       `json:"prerequisites" yaml:"prerequisites"`
	Tutors        []string       `json:"tutors" yaml:"tutors"`
}

func (a articleRecord) Validate() error {
	updated := []validation.Rule{validation.Date(dateLayout)}
	if created, err := time.Parse(dateLayout, a.Created); err == nil {
		updated = append(updated, validation.Date(dateLayout).Min(created).RangeError("must not precede created"))
	}
	return validation.ValidateStruct(&a,
		validation.Field(&a.Title, validation.Required, translations(false)),
		validation.Field(&a.Slug, validation.Required, validation.Match(articleSlugRe)),
		validation.Field(&a.Author, validation.Match(slugRe)),
		validation.Field(&a.Keywords, validation.Required, keywordSets()),
		validation.Field(&a.Created, validation.Required, validation.Date(dateLayout)),
		validation.Field(&a.Updated, updated...),
		validation.Field(&a.Difficulty, validation.In(difficulties...)),
		validation.Field(&a.ReadTime, validation.Min(1)),
		validation.Field(&a.Prerequisites, slugList(articleSlugRe)),
		validation.Field(&a.Tutors, slugList(slugRe)),
	)
}

func (a articleRecord) model() models.Article {
	return models.Article{
		Slug:          a.Slug,
		Title:         a.Title.model(),
		Author:        a.Author,
		Keywords:      a.Keywords.model(),
		Created:       a.Created,
		Updated:       a.Updated,
		Difficulty:    a.Difficulty,
		ReadTime:      a.ReadTime,
		Prerequisites: a.Prerequisites,
		Tutors:        a.Tutors,
	}
}

type systemRecord struct {
	Slug        string         `json:"slug"`
	Route       string         `json:"route"`
	Name        localizedField `json:"name"`
	Description localizedField `json:"description"`
	Keywords    keywordField   `json:"keywords"`
	Pinned      bool           `json:"pinned"`
	Order       *int           `json:"order"`
}

func (s systemRecord) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Slug, validation.Required, validation.Match(slugRe)),
		validation.Field(&s.Route, validation.Required,
			validation.Match(routeRe).Error("must be an absolute route starting with \"/\"")),
		validation.Field(&s.Name, validation.Required, translations(false)),
		validation.Field(&s.Description, translations(true)),
		validation.Field(&s.Keywords, validation.Required, keywordSets()),
	)
}

type systemFile struct {
	Articles []systemRecord `json:"articles"`
}

func (f systemFile) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Articles),
	)
}

func (f systemFile) model() []models.SystemArticle {
	out := make([]models.SystemArticle, len(f.Articles))
	for i, s := range f.Articles {
		out[i] = models.SystemArticle{
			Slug:        s.Slug,
			Route:       s.Route,
			Name:        s.Name.model(),
			Description: s.Description.model(),
			Keywords:    s.Keywords.model(),
			Pinned:      s.Pinned,
			Order:       s.Order,
		}
	}
	return out
}
