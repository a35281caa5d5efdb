package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	apperrors "github.com/postbuilder/postbuilder/internal/errors"
)

// Config represents the application configuration
type Config struct {
	Content ContentConfig `yaml:"content"`
	Source  SourceConfig  `yaml:"source,omitempty"`
	Output  OutputConfig  `yaml:"output"`
	State   StateConfig   `yaml:"state,omitempty"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Watch   WatchConfig   `yaml:"watch,omitempty"`
}

// ContentConfig describes where source documents live and how they are parsed
type ContentConfig struct {
	Root       string        `yaml:"root"`
	Separator  string        `yaml:"separator,omitempty"`  // line that splits multi-article files
	Extensions []string      `yaml:"extensions,omitempty"` // defaults to markdown extensions
	OnInvalid  InvalidPolicy `yaml:"on_invalid,omitempty"` // "fail" (default) or "skip"
}

// SourceConfig optionally points the pipeline at a remote content repository
type SourceConfig struct {
	Git *GitSourceConfig `yaml:"git,omitempty"`
}

// GitSourceConfig configures cloning a content repository before loading
type GitSourceConfig struct {
	URL    string `yaml:"url"`
	Branch string `yaml:"branch,omitempty"`
	Dir    string `yaml:"dir,omitempty"` // local checkout directory
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean,omitempty"` // Clean output directory before build
	Render    bool   `yaml:"render,omitempty"`
}

// StateConfig locates the build-history database
type StateConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig controls slog handler selection
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig controls the optional Prometheus exposition endpoint
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Listen  string `yaml:"listen,omitempty"`
}

// WatchConfig controls watch-mode rebuild behavior
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"` // duration string, e.g. "500ms"
	Schedule string `yaml:"schedule,omitempty"` // optional cron expression for periodic full rescans
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists; a missing file is not an error.
	_ = godotenv.Load()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, apperrors.ConfigNotFound(configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ApplyDefaults fills unset fields with their documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Content.Root == "" {
		c.Content.Root = "content"
	}
	if c.Content.Separator == "" {
		c.Content.Separator = DefaultSeparator
	}
	if len(c.Content.Extensions) == 0 {
		c.Content.Extensions = []string{".md", ".markdown", ".mdx"}
	}
	c.Content.OnInvalid = NormalizeInvalidPolicy(string(c.Content.OnInvalid))

	if c.Source.Git != nil && c.Source.Git.Dir == "" {
		c.Source.Git.Dir = ".postbuilder/content"
	}

	if c.Output.Directory == "" {
		c.Output.Directory = "dist"
	}
	if c.State.Path == "" {
		c.State.Path = ".postbuilder/state.db"
	}

	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))

	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "500ms"
	}
}

// Validate checks fields that cannot be defaulted into a valid state.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return apperrors.ConfigInvalid("watch.debounce", err.Error())
	}
	if c.Source.Git != nil && c.Source.Git.URL == "" {
		return apperrors.ConfigInvalid("source.git.url", "must be set when source.git is present")
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		return apperrors.ConfigInvalid("metrics.listen", "must be set when metrics are enabled")
	}
	return nil
}

// DebounceDuration returns the parsed watch debounce. Validate guarantees the
// value parses, so failures only occur on hand-built configs.
func (c *Config) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		return 500 * time.Millisecond
	}
	return d
}

// DefaultSeparator is the line that splits multi-article source files.
const DefaultSeparator = "<<<>>>"
