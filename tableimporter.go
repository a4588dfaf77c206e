package tableimporter

import (
	"context"

	"github.com/goliatone/go-table-importer/internal/di"
	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Request describes a single table import.
type Request = tables.Request

// OptionValues holds the raw key/value options of a marker or tag.
type OptionValues = tables.OptionValues

// Document is a page with its front matter and rendered body.
type Document = interfaces.Document

// Output modes for Request.Mode.
const (
	ModeMarkdown = tables.ModeMarkdown
	ModeHTML     = tables.ModeHTML
)

// Sentinel errors reported by ImportTable.
var (
	ErrMalformedMarker = tables.ErrMalformedMarker
	ErrFileNotFound    = tables.ErrFileNotFound
	ErrUnknownFormat   = tables.ErrUnknownFormat
	ErrDataLoad        = tables.ErrDataLoad
	ErrParse           = tables.ErrParse
)

// Module represents the top level table importer runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// LoggerProvider exposes the configured logger provider.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	return m.container.LoggerProvider()
}

// Config returns the validated configuration the module was built with.
func (m *Module) Config() Config {
	return m.container.Config
}

// Process runs the content filter over doc, replacing every
// [TableImporter>...] marker with a Markdown table.
func (m *Module) Process(ctx context.Context, doc string) string {
	return m.container.Pipeline().Filter().Process(ctx, doc)
}

// ProcessShortcodes expands inline table tags in content. Relative file names
// resolve against baseDir.
func (m *Module) ProcessShortcodes(ctx context.Context, content, baseDir string) (string, error) {
	return m.container.Pipeline().Shortcodes().Process(ctx, content, interfaces.ShortcodeProcessOptions{
		BaseDir: baseDir,
	})
}

// ImportTable renders a single table and reports failures as errors.
func (m *Module) ImportTable(ctx context.Context, req Request) (string, error) {
	return m.container.Pipeline().Importer().Import(ctx, req)
}

// RenderTable renders a single table, replacing failures with an inline
// error message.
func (m *Module) RenderTable(ctx context.Context, req Request) string {
	return m.container.Pipeline().Importer().Render(ctx, req)
}

// RenderPage loads a Markdown page, expands markers and tags, and renders it
// to HTML.
func (m *Module) RenderPage(ctx context.Context, path string) (*Document, error) {
	return m.container.Pipeline().RenderPage(ctx, path)
}

// RenderSource renders page source that is not backed by a file.
func (m *Module) RenderSource(ctx context.Context, source []byte, baseDir string) (*Document, error) {
	return m.container.Pipeline().RenderSource(ctx, source, baseDir)
}
