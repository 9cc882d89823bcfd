// Package schema validates raw content records against their fixed shape.
//
// Each exported function decodes one record, runs every rule, and returns
// either a typed models value or an *apperr.SchemaViolation listing all field
// violations found. Unknown fields are rejected.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/syllabus/internal/apperr"
	"github.com/starford/syllabus/internal/models"
)

var (
	slugRe        = regexp.MustCompile(`^[a-z0-9-]+$`)
	articleSlugRe = regexp.MustCompile(`^[a-z0-9_-]+$`)
	routeRe       = regexp.MustCompile(`^/`)
)

const dateLayout = "2006-01-02"

var difficulties = []any{
	models.DifficultyBeginner,
	models.DifficultyIntermediate,
	models.DifficultyAdvanced,
}

// Format is the encoding of a raw record.
type Format int

// Supported record encodings.
const (
	FormatJSON Format = iota
	FormatYAML
)

// Subject validates a subject config.json.
func Subject(path string, data []byte) (models.Subject, error) {
	return run(path, FormatJSON, data, subjectRecord.model)
}

// Teacher validates a teacher config.json.
func Teacher(path string, data []byte) (models.Teacher, error) {
	return run(path, FormatJSON, data, teacherRecord.model)
}

// Article validates the YAML frontmatter of an article.
func Article(path string, frontmatter []byte) (models.Article, error) {
	return run(path, FormatYAML, frontmatter, articleRecord.model)
}

// SystemArticles validates the system config.json listing system articles.
func SystemArticles(path string, data []byte) ([]models.SystemArticle, error) {
	return run(path, FormatJSON, data, systemFile.model)
}

func run[R validation.Validatable, T any](path string, format Format, data []byte, convert func(R) T) (T, error) {
	var (
		rec  R
		zero T
	)
	if err := decode(format, data, &rec); err != nil {
		return zero, &apperr.SchemaViolation{Path: path, Problems: []apperr.Problem{decodeProblem(path, err)}}
	}
	if err := rec.Validate(); err != nil {
		var problems []apperr.Problem
		flatten(path, "", err, &problems)
		return zero, &apperr.SchemaViolation{Path: path, Problems: problems}
	}
	return convert(rec), nil
}

func decode(format Format, data []byte, out any) error {
	if format == FormatYAML {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

func decodeProblem(path string, err error) apperr.Problem {
	p := apperr.Problem{Kind: apperr.KindSchema, Path: path, Message: err.Error()}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		p.Field = typeErr.Field
		p.Message = fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value)
	}
	return p
}

// flatten turns nested ozzo errors into one problem per leaf, with field
// paths such as "categories[0].name.cz".
func flatten(path, prefix string, err error, out *[]apperr.Problem) {
	errs, ok := err.(validation.Errors)
	if !ok {
		*out = append(*out, apperr.Problem{Kind: apperr.KindSchema, Path: path, Field: prefix, Message: err.Error()})
		return
	}
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aErr := strconv.Atoi(keys[i])
		b, bErr := strconv.Atoi(keys[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		return keys[i] < keys[j]
	})
	for _, k := range keys {
		if errs[k] == nil {
			continue
		}
		flatten(path, joinField(prefix, k), errs[k], out)
	}
}

func joinField(prefix, key string) string {
	if _, err := strconv.Atoi(key); err == nil {
		return prefix + "[" + key + "]"
	}
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// localizedField is the raw shape of a localized string.
type localizedField map[string]string

// keywordField is the raw shape of localized keywords.
type keywordField map[string][]string

// translations requires every supported locale key on a localized string.
// When allowBlank is false, values must also be non-blank.
func translations(allowBlank bool) validation.Rule {
	return validation.By(func(value any) error {
		field, _ := value.(localizedField)
		if len(field) == 0 {
			return nil
		}
		errs := validation.Errors{}
		for _, loc := range models.Locales {
			v, ok := field[string(loc)]
			switch {
			case !ok:
				errs[string(loc)] = errors.New("missing translation")
			case !allowBlank && strings.TrimSpace(v) == "":
				errs[string(loc)] = errors.New("cannot be blank")
			}
		}
		for k := range field {
			if !models.IsSupported(models.Locale(k)) {
				errs[k] = errors.New("unsupported locale")
			}
		}
		return errs.Filter()
	})
}

// keywordSets requires every supported locale key on localized keywords.
func keywordSets() validation.Rule {
	return validation.By(func(value any) error {
		field, _ := value.(keywordField)
		if len(field) == 0 {
			return nil
		}
		errs := validation.Errors{}
		for _, loc := range models.Locales {
			words, ok := field[string(loc)]
			if !ok {
				errs[string(loc)] = errors.New("missing translation")
				continue
			}
			wordErrs := validation.Errors{}
			for i, w := range words {
				if strings.TrimSpace(w) == "" {
					wordErrs[strconv.Itoa(i)] = errors.New("cannot be blank")
				}
			}
			if len(wordErrs) > 0 {
				errs[string(loc)] = wordErrs
			}
		}
		for k := range field {
			if !models.IsSupported(models.Locale(k)) {
				errs[k] = errors.New("unsupported locale")
			}
		}
		return errs.Filter()
	})
}

func slugList(re *regexp.Regexp) validation.Rule {
	return validation.Each(validation.Required, validation.Match(re))
}

func (f localizedField) model() models.Localized {
	if len(f) == 0 {
		return nil
	}
	out := make(models.Localized, len(f))
	for k, v := range f {
		out[models.Locale(k)] = v
	}
	return out
}

func (f keywordField) model() models.Keywords {
	out := make(models.Keywords, len(f))
	for k, v := range f {
		words := make([]string, len(v))
		for i, w := range v {
			words[i] = strings.TrimSpace(w)
		}
		out[models.Locale(k)] = words
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
