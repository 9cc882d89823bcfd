package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	Token string `yaml:"token"`
	Keep  string `yaml:"keep"`
}

func (s *sample) Validate() error {
	if s.Port <= 0 {
		return errors.New("port must be positive")
	}
	return nil
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("CFG_TEST_NAME", "syllabus")
	t.Setenv("CFG_TEST_EMPTY", "")
	path := writeConfig(t, "name: ${CFG_TEST_NAME}\nport: ${CFG_TEST_PORT:-8080}\ntoken: ${CFG_TEST_EMPTY:-fallback}\n")

	cfg := sample{Keep: "default"}
	require.NoError(t, Load(path, &cfg))
	require.Equal(t, "syllabus", cfg.Name)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "fallback", cfg.Token)
	require.Equal(t, "default", cfg.Keep, "absent keys keep their value")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	err := Load(writeConfig(t, "port: 1\ncolour: red\n"), &sample{})
	require.ErrorContains(t, err, "colour")
}

func TestLoad_RunsValidator(t *testing.T) {
	err := Load(writeConfig(t, "port: 0\n"), &sample{})
	require.ErrorContains(t, err, "config validation failed")
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &sample{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecode_EmptyDocument(t *testing.T) {
	cfg := sample{Port: 3}
	require.NoError(t, Decode(nil, &cfg))
	require.Equal(t, 3, cfg.Port)
}
