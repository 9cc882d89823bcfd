// Package locale picks the best available locale for a request using a fixed
// fallback chain: the requested locale, then en, then ru.
package locale

import "github.com/starford/syllabus/internal/models"

// Fallback is the ordered chain consulted after the requested locale.
var Fallback = []models.Locale{models.LocaleEN, models.LocaleRU}

// Chain returns the lookup order for requested.
func Chain(requested string) []models.Locale {
	chain := make([]models.Locale, 0, len(Fallback)+1)
	chain = append(chain, models.Locale(requested))
	for _, l := range Fallback {
		if string(l) != requested {
			chain = append(chain, l)
		}
	}
	return chain
}

// Resolve returns requested if it is available, otherwise the first
// available locale on the fallback chain, otherwise the first available
// locale. It returns "" only when available is empty.
func Resolve(available []models.Locale, requested string) models.Locale {
	for _, want := range Chain(requested) {
		for _, have := range available {
			if have == want {
				return have
			}
		}
	}
	if len(available) == 0 {
		return ""
	}
	return available[0]
}

// Localized returns the value of record for requested, falling back along
// the chain and finally to any supported locale present in the record.
func Localized(record models.Localized, requested string) string {
	v, _ := pick(record.Lookup, requested)
	return v
}

// Keywords returns the keyword list of record for requested with the same
// fallback rules as Localized.
func Keywords(record models.Keywords, requested string) []string {
	v, _ := pick(record.Lookup, requested)
	return v
}

func pick[T any](lookup func(models.Locale) (T, bool), requested string) (T, bool) {
	for _, l := range Chain(requested) {
		if v, ok := lookup(l); ok {
			return v, true
		}
	}
	for _, l := range models.Locales {
		if v, ok := lookup(l); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
