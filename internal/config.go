package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/syllabus/internal/manifest"
	"github.com/starford/syllabus/internal/publish"
	"github.com/starford/syllabus/internal/search"
	"github.com/starford/syllabus/internal/watch"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Content  ContentConfig     `yaml:"content"`
	Build    BuildConfig       `yaml:"build"`
	Compiler CompilerConfig    `yaml:"compiler"`
	Publish  PublishConfig     `yaml:"publish"`
	Ledger   LedgerConfig      `yaml:"ledger"`
	Metrics  MetricsConfig     `yaml:"metrics"`
	Watch    WatchConfig       `yaml:"watch"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	for _, v := range []validation.Validatable{&c.App, &c.Content, &c.Build, &c.Publish, &c.Watch, &c.Auth} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if c.LogFormat == "" {
		c.LogFormat = LogFormatJSON
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig locates the content tree.
type ContentConfig struct {
	Root string `yaml:"root"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
	); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	return nil
}

// BuildConfig holds build output and tuning settings.
type BuildConfig struct {
	ArtifactsDir  string `yaml:"artifacts_dir"`
	Workers       int    `yaml:"workers"`
	ExcerptLength int    `yaml:"excerpt_length"`
}

// Validate validates the build configuration.
func (c *BuildConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.ArtifactsDir, validation.Required),
		validation.Field(&c.Workers, validation.Min(1), validation.Max(64)),
		validation.Field(&c.ExcerptLength, validation.Min(40), validation.Max(1000)),
	); err != nil {
		return fmt.Errorf("build: %w", err)
	}
	return nil
}

// CompilerConfig toggles optional compiler passes.
type CompilerConfig struct {
	AutoHeadingIDs bool `yaml:"auto_heading_ids"`
}

// PublishConfig holds the static-asset publishing settings.
type PublishConfig struct {
	PublicDir  string `yaml:"public_dir"`
	Prefix     string `yaml:"prefix"`
	PruneStale bool   `yaml:"prune_stale"`
}

// Validate validates the publish configuration.
func (c *PublishConfig) Validate() error {
	if c.Prefix == "" {
		c.Prefix = publish.DefaultPrefix
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.PublicDir, validation.Required),
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// LedgerConfig holds the SQLite build ledger path. An empty path disables it.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// MetricsConfig holds metrics output settings.
type MetricsConfig struct {
	// Textfile, if set, receives the registry after each one-shot build.
	Textfile string `yaml:"textfile"`
}

// WatchConfig holds the watch command settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}

// AuthConfig holds authentication configuration for /api routes.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatJSON,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Root: "./content",
		},
		Build: BuildConfig{
			ArtifactsDir:  "./build",
			Workers:       manifest.DefaultWorkers,
			ExcerptLength: search.DefaultExcerptLength,
		},
		Compiler: CompilerConfig{
			AutoHeadingIDs: true,
		},
		Publish: PublishConfig{
			PublicDir: "./public",
			Prefix:    publish.DefaultPrefix,
		},
		Watch: WatchConfig{
			Debounce: watch.DefaultDebounce,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
