package tablescmd

import (
	"errors"
	"io"

	"github.com/goliatone/go-table-importer/internal/commands"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the handlers produced by RegisterTableCommands.
type HandlerSet struct {
	Import *ImportTableHandler
	Render *RenderPageHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	importHandlerOpts []commands.HandlerOption[ImportTableCommand]
	renderHandlerOpts []commands.HandlerOption[RenderPageCommand]
}

// WithImportHandlerOptions forwards options to the ImportTableHandler constructor.
func WithImportHandlerOptions(opts ...commands.HandlerOption[ImportTableCommand]) Option {
	return func(cfg *options) {
		cfg.importHandlerOpts = append(cfg.importHandlerOpts, opts...)
	}
}

// WithRenderHandlerOptions forwards options to the RenderPageHandler constructor.
func WithRenderHandlerOptions(opts ...commands.HandlerOption[RenderPageCommand]) Option {
	return func(cfg *options) {
		cfg.renderHandlerOpts = append(cfg.renderHandlerOpts, opts...)
	}
}

// RegisterTableCommands builds the import and render handlers, registers them
// with reg when it is not nil and returns them.
func RegisterTableCommands(reg CommandRegistry, importer TableImporter, renderer PageRenderer, out io.Writer, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if importer == nil {
		return nil, errors.New("tables command registration: importer is nil")
	}
	if renderer == nil {
		return nil, errors.New("tables command registration: page renderer is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "tables")

	importHandler := NewImportTableHandler(importer, out, logger, cfg.importHandlerOpts...)
	renderHandler := NewRenderPageHandler(renderer, out, logger, cfg.renderHandlerOpts...)

	if reg != nil {
		if err := reg.RegisterCommand(importHandler); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(renderHandler); err != nil {
			return nil, err
		}
	}

	return &HandlerSet{
		Import: importHandler,
		Render: renderHandler,
	}, nil
}
