package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "compile", Stage("compile")},
		{"Path", KeyPath, "subjects/a/config.json", Path("subjects/a/config.json")},
		{"Slug", KeySlug, "math", Slug("math")},
		{"Kind", KeyKind, "teacher", Kind("teacher")},
		{"Locale", KeyLocale, "cz", Locale("cz")},
		{"Hash", KeyHash, "abc", Hash("abc")},
	}

	for _, tc := range cases {
		require.Equal(t, tc.attrKey, tc.attr.Key, tc.name)
		require.Equal(t, tc.attrVal, tc.attr.Value.String(), tc.name)
	}
}

func TestNumericHelpers(t *testing.T) {
	v := Count(3)
	require.Equal(t, KeyCount, v.Key)
	require.Equal(t, int64(3), v.Value.Int64())

	v = DurationMS(12)
	require.Equal(t, KeyDurationMS, v.Key)
	require.Equal(t, int64(12), v.Value.Int64())
}

func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	require.Equal(t, KeyError, attr.Key)
	require.Empty(t, attr.Value.String())
	require.Equal(t, "boom", Error(errors.New("boom")).Value.String())
}
