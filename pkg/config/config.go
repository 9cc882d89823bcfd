// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file into target.
//
// Environment references are expanded before parsing: ${VAR} and $VAR take
// the variable's value, ${VAR:-default} falls back to default when VAR is
// unset or empty. Keys the target does not declare are rejected. Fields
// absent from the file keep the values target already holds.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	if err := Decode(data, target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// Decode expands environment references in data and decodes it into target
// without validating.
func Decode[T any](data []byte, target *T) error {
	expanded := os.Expand(string(data), lookupWithDefault)

	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func lookupWithDefault(ref string) string {
	name, def, hasDefault := strings.Cut(ref, ":-")
	if v := os.Getenv(name); v != "" || !hasDefault {
		return v
	}
	return def
}
