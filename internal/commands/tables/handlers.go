package tablescmd

import (
	"context"
	"errors"
	"io"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-table-importer/internal/commands"
	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

const (
	importOperation = "tables.import"
	renderOperation = "tables.render_page"
)

// ErrOutputRequired is returned when a handler has nowhere to write.
var ErrOutputRequired = errors.New("tables command: output writer is required")

// TableImporter is the subset of tables.Importer the import handler needs.
type TableImporter interface {
	Import(ctx context.Context, req tables.Request) (string, error)
	Render(ctx context.Context, req tables.Request) string
}

// PageRenderer renders page files.
type PageRenderer interface {
	RenderPage(ctx context.Context, path string) (*interfaces.Document, error)
}

var (
	_ command.Commander[ImportTableCommand] = (*ImportTableHandler)(nil)
	_ command.Commander[RenderPageCommand]  = (*RenderPageHandler)(nil)
)

// ImportTableHandler writes a rendered table to its output.
type ImportTableHandler struct {
	inner *commands.Handler[ImportTableCommand]
}

// NewImportTableHandler creates a handler bound to importer writing to out.
func NewImportTableHandler(importer TableImporter, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[ImportTableCommand]) *ImportTableHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ImportTableCommand) error {
		if out == nil {
			return ErrOutputRequired
		}

		values := make(tables.OptionValues, len(msg.Options)+1)
		for key, value := range msg.Options {
			values[strings.ToLower(strings.TrimSpace(key))] = value
		}
		values["file"] = msg.File

		mode := tables.ModeHTML
		if isMarkdown(msg.Format) {
			mode = tables.ModeMarkdown
		}
		req := tables.Request{
			Values:  values,
			BaseDir: msg.BaseDir,
			Mode:    mode,
			AutoID:  msg.AutoID,
			Source:  msg.File,
		}

		var rendered string
		if msg.Strict {
			output, err := importer.Import(ctx, req)
			if err != nil {
				return err
			}
			rendered = output
		} else {
			rendered = importer.Render(ctx, req)
		}

		if _, err := io.WriteString(out, rendered); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"bytes": len(rendered),
		}).Debug("tables.command.import.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportTableCommand]{
		commands.WithLogger[ImportTableCommand](baseLogger),
		commands.WithOperation[ImportTableCommand](importOperation),
		commands.WithMessageFields(func(msg ImportTableCommand) map[string]any {
			fields := map[string]any{
				"file": msg.File,
			}
			if msg.Format != "" {
				fields["format"] = msg.Format
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportTableCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportTableHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportTableCommand].
func (h *ImportTableHandler) Execute(ctx context.Context, msg ImportTableCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RenderPageHandler writes a rendered page to its output.
type RenderPageHandler struct {
	inner *commands.Handler[RenderPageCommand]
}

// NewRenderPageHandler creates a handler bound to renderer writing to out.
func NewRenderPageHandler(renderer PageRenderer, out io.Writer, logger interfaces.Logger, opts ...commands.HandlerOption[RenderPageCommand]) *RenderPageHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg RenderPageCommand) error {
		if out == nil {
			return ErrOutputRequired
		}
		doc, err := renderer.RenderPage(ctx, msg.Path)
		if err != nil {
			return err
		}

		body := doc.BodyHTML
		if isMarkdown(msg.Format) {
			body = doc.Body
		}
		if _, err := out.Write(body); err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"bytes": len(body),
			"title": doc.FrontMatter.Title,
		}).Debug("tables.command.render_page.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderPageCommand]{
		commands.WithLogger[RenderPageCommand](baseLogger),
		commands.WithOperation[RenderPageCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderPageCommand) map[string]any {
			return map[string]any{"path": msg.Path}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderPageCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderPageHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RenderPageCommand].
func (h *RenderPageHandler) Execute(ctx context.Context, msg RenderPageCommand) error {
	return h.inner.Execute(ctx, msg)
}
