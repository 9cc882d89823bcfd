// Package logfields holds canonical slog attribute keys so that every
// package logs the same concept under the same name.
package logfields

import "log/slog"

// Canonical log field names.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyPath       = "path"
	KeySlug       = "slug"
	KeyKind       = "kind"
	KeyLocale     = "locale"
	KeyHash       = "hash"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func BuildID(id string) slog.Attr   { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr   { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Slug(s string) slog.Attr       { return slog.String(KeySlug, s) }
func Kind(k string) slog.Attr       { return slog.String(KeyKind, k) }
func Locale(l string) slog.Attr     { return slog.String(KeyLocale, l) }
func Hash(h string) slog.Attr       { return slog.String(KeyHash, h) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func DurationMS(ms int64) slog.Attr { return slog.Int64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
