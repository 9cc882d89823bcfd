package models

// Locale is a content locale code.
type Locale string

// Supported locales. Every localized field carries exactly these keys.
const (
	LocaleEN Locale = "en"
	LocaleRU Locale = "ru"
	LocaleCZ Locale = "cz"
)

// Locales lists the supported locales in sorted order.
var Locales = []Locale{LocaleCZ, LocaleEN, LocaleRU}

// IsSupported reports whether l is one of the supported locales.
func IsSupported(l Locale) bool {
	for _, s := range Locales {
		if s == l {
			return true
		}
	}
	return false
}

// Localized maps each supported locale to a display string.
type Localized map[Locale]string

// Lookup returns the value stored for l.
func (l Localized) Lookup(loc Locale) (string, bool) {
	v, ok := l[loc]
	return v, ok
}

// Keywords maps each supported locale to a keyword list.
type Keywords map[Locale][]string

// Lookup returns the keywords stored for l.
func (k Keywords) Lookup(loc Locale) ([]string, bool) {
	v, ok := k[loc]
	return v, ok
}
