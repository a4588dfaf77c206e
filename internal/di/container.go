package di

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/internal/logging/console"
	"github.com/goliatone/go-table-importer/internal/logging/gologger"
	"github.com/goliatone/go-table-importer/internal/pipeline"
	"github.com/goliatone/go-table-importer/internal/runtimeconfig"
	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Container wires module dependencies from a validated configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logWriter      io.Writer
	files          tables.FileSystem
	metrics        interfaces.ShortcodeMetrics

	pipeline *pipeline.Pipeline
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider built from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithLogWriter sets where the console provider writes. Defaults to stderr.
func WithLogWriter(w io.Writer) Option {
	return func(c *Container) {
		c.logWriter = w
	}
}

// WithFileSystem replaces the host file system used to read data files.
func WithFileSystem(files tables.FileSystem) Option {
	return func(c *Container) {
		c.files = files
	}
}

// WithShortcodeMetrics records inline tag render telemetry.
func WithShortcodeMetrics(metrics interfaces.ShortcodeMetrics) Option {
	return func(c *Container) {
		c.metrics = metrics
	}
}

// NewContainer validates cfg, configures logging and builds the page pipeline.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if c.loggerProvider == nil {
		provider, err := c.configureLoggerProvider()
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}

	pipelineOpts := []pipeline.Option{pipeline.WithLoggerProvider(c.loggerProvider)}
	if c.files != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithFileSystem(c.files))
	}
	if c.metrics != nil {
		pipelineOpts = append(pipelineOpts, pipeline.WithShortcodeMetrics(c.metrics))
	}
	p, err := pipeline.New(cfg, pipelineOpts...)
	if err != nil {
		return nil, err
	}
	c.pipeline = p

	logging.ModuleLogger(c.loggerProvider, "tableimporter.container").Debug("container.configured",
		"provider", normalizedProvider(cfg.Logging.Provider),
		"filter_active", cfg.Active,
		"data_root", cfg.DataRoot(),
		"shortcode_enabled", cfg.Shortcode.Enabled,
		"shortcode_name", cfg.Shortcode.Name,
	)
	return c, nil
}

func (c *Container) configureLoggerProvider() (interfaces.LoggerProvider, error) {
	logCfg := c.Config.Logging
	switch normalizedProvider(logCfg.Provider) {
	case "gologger":
		return gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
	case "console":
		opts := console.Options{Writer: c.logWriter}
		if strings.TrimSpace(logCfg.Level) != "" {
			level, err := console.ParseLevel(logCfg.Level)
			if err != nil {
				return nil, err
			}
			opts.MinLevel = &level
		}
		return console.NewProvider(opts), nil
	default:
		return nil, fmt.Errorf("%w: %s", runtimeconfig.ErrLoggingProviderUnknown, logCfg.Provider)
	}
}

func normalizedProvider(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return "console"
	}
	return name
}

// LoggerProvider exposes the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// Pipeline exposes the page pipeline.
func (c *Container) Pipeline() *pipeline.Pipeline {
	return c.pipeline
}
