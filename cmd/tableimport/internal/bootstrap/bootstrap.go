package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-command/dispatcher"

	tableimporter "github.com/goliatone/go-table-importer"
	tablescmd "github.com/goliatone/go-table-importer/internal/commands/tables"
	"github.com/goliatone/go-table-importer/internal/di"
	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Options captures configuration for CLI bootstraps.
type Options struct {
	// ConfigPath points at a YAML configuration file. Empty uses the defaults.
	ConfigPath string
	DataDir    string
	// Active overrides the filter state from the configuration when set.
	Active   *bool
	LogLevel string
	// Out receives command output. LogWriter receives console log lines.
	Out            io.Writer
	LogWriter      io.Writer
	LoggerProvider interfaces.LoggerProvider
	// Metrics records inline tag renders when set.
	Metrics interfaces.ShortcodeMetrics
}

// Module wraps the table importer module and its registered command handlers.
type Module struct {
	Module   *tableimporter.Module
	Handlers *tablescmd.HandlerSet
	Logger   interfaces.Logger

	registry *Registry
}

// BuildModule loads configuration, constructs the module and subscribes the
// table command handlers to the command dispatcher. Call Close to unsubscribe.
func BuildModule(opts Options) (*Module, error) {
	cfg := tableimporter.DefaultConfig()
	if path := strings.TrimSpace(opts.ConfigPath); path != "" {
		loaded, err := tableimporter.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if dir := strings.TrimSpace(opts.DataDir); dir != "" {
		cfg.DataDir = dir
	}
	if opts.Active != nil {
		cfg.Active = *opts.Active
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		cfg.Logging.Level = level
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}
	if opts.LogWriter != nil {
		diOpts = append(diOpts, di.WithLogWriter(opts.LogWriter))
	}
	if opts.Metrics != nil {
		diOpts = append(diOpts, di.WithShortcodeMetrics(opts.Metrics))
	}

	module, err := tableimporter.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise table importer module: %w", err)
	}

	provider := module.LoggerProvider()
	registry := NewRegistry()
	handlers, err := tablescmd.RegisterTableCommands(
		registry,
		module.Container().Pipeline().Importer(),
		module,
		opts.Out,
		provider,
	)
	if err != nil {
		registry.Close()
		return nil, fmt.Errorf("register table commands: %w", err)
	}

	return &Module{
		Module:   module,
		Handlers: handlers,
		Logger:   logging.CommandsLogger(provider),
		registry: registry,
	}, nil
}

// Close removes the dispatcher subscriptions made by BuildModule.
func (m *Module) Close() {
	if m != nil && m.registry != nil {
		m.registry.Close()
	}
}

// Registry subscribes table command handlers to the process wide dispatcher.
type Registry struct {
	unsubscribe []func()
}

// NewRegistry constructs an empty dispatcher registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterCommand subscribes handler for its message type.
func (r *Registry) RegisterCommand(handler any) error {
	switch h := handler.(type) {
	case *tablescmd.ImportTableHandler:
		sub := dispatcher.SubscribeCommand[tablescmd.ImportTableCommand](h)
		r.unsubscribe = append(r.unsubscribe, sub.Unsubscribe)
	case *tablescmd.RenderPageHandler:
		sub := dispatcher.SubscribeCommand[tablescmd.RenderPageCommand](h)
		r.unsubscribe = append(r.unsubscribe, sub.Unsubscribe)
	default:
		return fmt.Errorf("bootstrap: unsupported command handler %T", handler)
	}
	return nil
}

// Close unsubscribes every registered handler.
func (r *Registry) Close() {
	for _, fn := range r.unsubscribe {
		fn()
	}
	r.unsubscribe = nil
}

// ParseOptions converts key=value pairs into a lower-cased option map. Later
// pairs win.
func ParseOptions(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q: expected key=value", pair)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
