package locale

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starford/syllabus/internal/models"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		available []models.Locale
		requested string
		want      models.Locale
	}{
		{"requested available", []models.Locale{"cz"}, "cz", "cz"},
		{"falls back to en", []models.Locale{"en", "ru"}, "cz", "en"},
		{"falls back to ru", []models.Locale{"ru"}, "cz", "ru"},
		{"en preferred over ru regardless of order", []models.Locale{"ru", "en"}, "de", "en"},
		{"first available as last resort", []models.Locale{"cz", "de"}, "fr", "cz"},
		{"empty set", nil, "en", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Resolve(tt.available, tt.requested))
		})
	}
}

func TestLocalized(t *testing.T) {
	record := models.Localized{"ru": "Р", "en": "E", "cz": "C"}

	require.Equal(t, "E", Localized(record, "fr"))
	require.Equal(t, "C", Localized(record, "cz"))
	require.Equal(t, "Р", Localized(record, "ru"))
	require.Equal(t, "Р", Localized(models.Localized{"ru": "Р", "cz": "C"}, "fr"))
	require.Equal(t, "C", Localized(models.Localized{"cz": "C"}, "fr"))
	require.Equal(t, "", Localized(nil, "en"))
}

func TestKeywords(t *testing.T) {
	record := models.Keywords{"en": {"algebra"}, "ru": {"алгебра"}, "cz": {"algebra", "matice"}}

	require.Equal(t, []string{"algebra", "matice"}, Keywords(record, "cz"))
	require.Equal(t, []string{"algebra"}, Keywords(record, "de"))
}

func TestChain(t *testing.T) {
	require.Equal(t, []models.Locale{"cz", "en", "ru"}, Chain("cz"))
	require.Equal(t, []models.Locale{"en", "ru"}, Chain("en"))
}
