// Package config provides configuration loading and validation for the
// server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mdabutalebdev/cv-maker/internal/export"
	"github.com/mdabutalebdev/cv-maker/internal/steps"
	"github.com/mdabutalebdev/cv-maker/internal/storage"
	"github.com/mdabutalebdev/cv-maker/internal/wizard"
)

// Config represents the configuration that can be loaded from a JSON or
// TOML file. All fields are optional; missing values use Defaults.
type Config struct {
	// Server
	Port        int      `json:"port,omitempty" toml:"port"`
	CORSOrigins []string `json:"cors_origins,omitempty" toml:"cors_origins"`

	// Storage
	Storage       string `json:"storage,omitempty" toml:"storage"`               // json, sqlite, postgres or memory
	DataDir       string `json:"data_dir,omitempty" toml:"data_dir"`             // Directory for json and sqlite backends
	DatabaseURL   string `json:"database_url,omitempty" toml:"database_url"`     // PostgreSQL connection URL
	StorageKey    string `json:"storage_key,omitempty" toml:"storage_key"`       // Snapshot key
	AttachmentDir string `json:"attachment_dir,omitempty" toml:"attachment_dir"` // Uploaded achievement files

	// Export
	ExportFormat  string `json:"export_format,omitempty" toml:"export_format"`
	ChromeTimeout string `json:"chrome_timeout,omitempty" toml:"chrome_timeout"` // Go duration, e.g. "30s"
	LaTeXTemplate string `json:"latex_template,omitempty" toml:"latex_template"` // Path to a custom LaTeX template
	JobSearchURL  string `json:"job_search_url,omitempty" toml:"job_search_url"`

	// Wizard
	StrictJumps bool   `json:"strict_jumps,omitempty" toml:"strict_jumps"`
	StartStep   int    `json:"start_step,omitempty" toml:"start_step"`
	Language    string `json:"language,omitempty" toml:"language"`
	LocaleDir   string `json:"locale_dir,omitempty" toml:"locale_dir"`

	// Logging
	LogLevel  string `json:"log_level,omitempty" toml:"log_level"`
	LogFormat string `json:"log_format,omitempty" toml:"log_format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:          8080,
		Storage:       storage.BackendJSON,
		DataDir:       "data",
		StorageKey:    storage.StorageKey,
		AttachmentDir: filepath.Join("data", "attachments"),
		ExportFormat:  string(export.FormatPDF),
		ChromeTimeout: export.DefaultChromeTimeout.String(),
		JobSearchURL:  wizard.DefaultJobSearchURL,
		Language:      "en",
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// LoadConfig loads configuration from a JSON or TOML file, chosen by
// extension. Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	case ".json", "":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension: %s", ext)
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables. lookup is usually
// os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(target *string, keys ...string) {
		for _, key := range keys {
			if v, ok := lookup(key); ok && v != "" {
				*target = v
				return
			}
		}
	}

	var port string
	str(&port, "CVMAKER_PORT", "PORT")
	if port != "" {
		n, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("config error: invalid port %q", port)
		}
		c.Port = n
	}

	str(&c.Storage, "CVMAKER_STORAGE")
	str(&c.DataDir, "CVMAKER_DATA_DIR")
	str(&c.DatabaseURL, "CVMAKER_DATABASE_URL", "DATABASE_URL")
	str(&c.StorageKey, "CVMAKER_STORAGE_KEY")
	str(&c.AttachmentDir, "CVMAKER_ATTACHMENT_DIR")
	str(&c.ExportFormat, "CVMAKER_EXPORT_FORMAT")
	str(&c.ChromeTimeout, "CVMAKER_CHROME_TIMEOUT")
	str(&c.LaTeXTemplate, "CVMAKER_LATEX_TEMPLATE")
	str(&c.JobSearchURL, "CVMAKER_JOB_SEARCH_URL")
	str(&c.Language, "CVMAKER_LANG")
	str(&c.LocaleDir, "CVMAKER_LOCALE_DIR")
	str(&c.LogLevel, "CVMAKER_LOG_LEVEL")
	str(&c.LogFormat, "CVMAKER_LOG_FORMAT")

	var origins string
	str(&origins, "CVMAKER_CORS_ORIGINS")
	if origins != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}

	var strict string
	str(&strict, "CVMAKER_STRICT_JUMPS")
	if strict != "" {
		b, err := strconv.ParseBool(strict)
		if err != nil {
			return fmt.Errorf("config error: invalid CVMAKER_STRICT_JUMPS %q", strict)
		}
		c.StrictJumps = b
	}

	var start string
	str(&start, "CVMAKER_START_STEP")
	if start != "" {
		n, err := strconv.Atoi(start)
		if err != nil {
			return fmt.Errorf("config error: invalid CVMAKER_START_STEP %q", start)
		}
		c.StartStep = n
	}
	return nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch c.Storage {
	case "", storage.BackendJSON, storage.BackendSQLite, storage.BackendMemory:
	case storage.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for the postgres backend")
		}
	default:
		return fmt.Errorf("config error: unknown storage backend %q", c.Storage)
	}

	if c.ExportFormat != "" {
		if _, err := export.ParseFormat(c.ExportFormat); err != nil {
			return fmt.Errorf("config error: %w", err)
		}
	}

	if c.ChromeTimeout != "" {
		d, err := time.ParseDuration(c.ChromeTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("config error: 'chrome_timeout' must be a positive duration, got %q", c.ChromeTimeout)
		}
	}

	if c.JobSearchURL != "" {
		u, err := url.Parse(c.JobSearchURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config error: 'job_search_url' must be an absolute http(s) URL")
		}
	}

	if s := steps.Step(c.StartStep); s != steps.Landing && !s.Valid() {
		return fmt.Errorf("config error: 'start_step' must be between %d and %d", steps.Landing, steps.Last)
	}

	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown log level %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("config error: unknown log format %q", c.LogFormat)
	}

	// Validate file paths exist (if specified)
	if c.LaTeXTemplate != "" {
		if _, err := os.Stat(c.LaTeXTemplate); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.LaTeXTemplate)
		}
	}
	if c.LocaleDir != "" {
		if _, err := os.Stat(c.LocaleDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: locale directory not found: %s", c.LocaleDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	for _, f := range []struct{ dst, src *string }{
		{&result.Storage, &defaults.Storage},
		{&result.DataDir, &defaults.DataDir},
		{&result.DatabaseURL, &defaults.DatabaseURL},
		{&result.StorageKey, &defaults.StorageKey},
		{&result.AttachmentDir, &defaults.AttachmentDir},
		{&result.ExportFormat, &defaults.ExportFormat},
		{&result.ChromeTimeout, &defaults.ChromeTimeout},
		{&result.LaTeXTemplate, &defaults.LaTeXTemplate},
		{&result.JobSearchURL, &defaults.JobSearchURL},
		{&result.Language, &defaults.Language},
		{&result.LocaleDir, &defaults.LocaleDir},
		{&result.LogLevel, &defaults.LogLevel},
		{&result.LogFormat, &defaults.LogFormat},
	} {
		if *f.dst == "" {
			*f.dst = *f.src
		}
	}

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}

	// Bool fields and StartStep: zero is a meaningful value, so we don't merge

	return result
}

// Load reads path (if non-empty), merges defaults and applies environment
// overrides, then validates the result.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if lookup != nil {
		if err := merged.ApplyEnv(lookup); err != nil {
			return Config{}, err
		}
	}
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// ChromeTimeoutDuration returns the parsed chrome timeout, or the default
// when unset or invalid.
func (c *Config) ChromeTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ChromeTimeout)
	if err != nil || d <= 0 {
		return export.DefaultChromeTimeout
	}
	return d
}

// StartAt returns the configured starting step.
func (c *Config) StartAt() steps.Step {
	return steps.Step(c.StartStep)
}
