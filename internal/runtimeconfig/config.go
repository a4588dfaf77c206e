package runtimeconfig

import (
	"errors"
	"fmt"
	"os"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

var ErrDataDirRequired = errors.New("table importer config: data directory is required")
var ErrCSVControlsInvalid = errors.New("table importer config: csv control characters are invalid")
var ErrShortcodeNameRequired = errors.New("table importer config: shortcode name is required when shortcodes are enabled")
var ErrShortcodeNameInvalid = errors.New("table importer config: shortcode name is invalid")
var ErrLoggingProviderUnknown = errors.New("table importer config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("table importer config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("table importer config: logging format is invalid")

// Config aggregates the runtime settings shared by the content filter, the
// inline tag and the CLI.
type Config struct {
	// Active enables the content filter. Inline tags are governed by Shortcode.Enabled.
	Active bool `yaml:"active"`
	// DataDir is the root that "data:" references and filter markers resolve against.
	DataDir string `yaml:"data_dir"`
	// DataSubdir is appended to DataDir for filter markers.
	DataSubdir string          `yaml:"data_subdir"`
	CSV        CSVConfig       `yaml:"csv"`
	Shortcode  ShortcodeConfig `yaml:"shortcode"`
	Markdown   MarkdownConfig  `yaml:"markdown"`
	Logging    LoggingConfig   `yaml:"logging"`
}

// CSVConfig holds the default delimited text controls.
type CSVConfig struct {
	Delimiter string `yaml:"delimiter"`
	Enclosure string `yaml:"enclosure"`
	Escape    string `yaml:"escape"`
}

// ShortcodeConfig controls inline tag registration.
type ShortcodeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Name    string `yaml:"name"`
	// Parallel renders the tags of one document concurrently.
	Parallel bool `yaml:"parallel"`
}

// MarkdownConfig mirrors interfaces.ParseOptions for page rendering.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions"`
	HardWraps  bool     `yaml:"hard_wraps"`
	Unsafe     bool     `yaml:"unsafe"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// DefaultConfig returns the defaults of a fresh install: the filter is off,
// inline tags are on.
func DefaultConfig() Config {
	return Config{
		Active:  false,
		DataDir: "data",
		CSV: CSVConfig{
			Delimiter: ",",
			Enclosure: `"`,
			Escape:    `\`,
		},
		Shortcode: ShortcodeConfig{
			Enabled: true,
			Name:    "ti",
		},
		Markdown: MarkdownConfig{
			Extensions: []string{"table", "strikethrough", "linkify"},
			Unsafe:     true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// DataRoot returns the directory filter markers resolve against.
func (cfg Config) DataRoot() string {
	sub := strings.Trim(strings.TrimSpace(cfg.DataSubdir), `/`)
	if sub == "" {
		return cfg.DataDir
	}
	return strings.TrimRight(cfg.DataDir, `/`) + "/" + sub
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.DataDir) == "" {
		return ErrDataDirRequired
	}
	if err := cfg.CSV.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCSVControlsInvalid, err)
	}
	if cfg.Shortcode.Enabled {
		name := strings.TrimSpace(cfg.Shortcode.Name)
		if name == "" {
			return ErrShortcodeNameRequired
		}
		if strings.ContainsAny(name, " \t\r\n[]=/\"'") {
			return fmt.Errorf("%w: %s", ErrShortcodeNameInvalid, name)
		}
	}
	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// Validate checks that every control is a single character and that the
// delimiter differs from the enclosure. An empty escape disables escaping.
func (c CSVConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Delimiter, validation.Required, validation.RuneLength(1, 1)),
		validation.Field(&c.Enclosure, validation.Required, validation.RuneLength(1, 1), validation.By(func(value any) error {
			if value.(string) == c.Delimiter {
				return validation.NewError("table_importer.csv.enclosure_equals_delimiter", "must differ from the delimiter")
			}
			return nil
		})),
		validation.Field(&c.Escape, validation.RuneLength(1, 1)),
	)
}

// Load reads a YAML configuration file over the defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("table importer config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("table importer config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyOverrides returns a copy of cfg with loosely typed overrides applied,
// as found in a page's front matter. Both the nested keys of the YAML file and
// the flat datadir/csv_* keys are accepted. Unknown keys are ignored.
func (cfg Config) ApplyOverrides(overrides map[string]any) (Config, error) {
	out := cfg
	out.Markdown.Extensions = append([]string(nil), cfg.Markdown.Extensions...)
	out.Logging.Focus = append([]string(nil), cfg.Logging.Focus...)

	for key, value := range overrides {
		var err error
		switch normalizeKey(key) {
		case "active", "enabled":
			out.Active, err = cast.ToBoolE(value)
		case "datadir", "data_dir":
			out.DataDir, err = cast.ToStringE(value)
		case "data_subdir", "subdir":
			out.DataSubdir, err = cast.ToStringE(value)
		case "csv_delimiter", "delimiter":
			out.CSV.Delimiter, err = cast.ToStringE(value)
		case "csv_enclosure", "enclosure":
			out.CSV.Enclosure, err = cast.ToStringE(value)
		case "csv_escape", "escape":
			out.CSV.Escape, err = cast.ToStringE(value)
		case "csv":
			err = out.CSV.applyMap(value)
		case "shortcode":
			err = out.Shortcode.applyMap(value)
		}
		if err != nil {
			return cfg, fmt.Errorf("table importer config: override %q: %w", key, err)
		}
	}
	return out, nil
}

func (c *CSVConfig) applyMap(value any) error {
	values, err := cast.ToStringMapE(value)
	if err != nil {
		return err
	}
	for key, raw := range values {
		switch normalizeKey(key) {
		case "delimiter":
			c.Delimiter, err = cast.ToStringE(raw)
		case "enclosure":
			c.Enclosure, err = cast.ToStringE(raw)
		case "escape":
			c.Escape, err = cast.ToStringE(raw)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *ShortcodeConfig) applyMap(value any) error {
	values, err := cast.ToStringMapE(value)
	if err != nil {
		return err
	}
	for key, raw := range values {
		switch normalizeKey(key) {
		case "enabled":
			s.Enabled, err = cast.ToBoolE(raw)
		case "name":
			s.Name, err = cast.ToStringE(raw)
		case "parallel":
			s.Parallel, err = cast.ToBoolE(raw)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func normalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
