// Package pipeline renders whole pages: front matter overrides, the marker
// filter, inline tags and finally Markdown to HTML.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/goliatone/go-table-importer/internal/filter"
	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/internal/markdown"
	"github.com/goliatone/go-table-importer/internal/runtimeconfig"
	"github.com/goliatone/go-table-importer/internal/shortcode"
	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Pipeline renders page files to HTML.
type Pipeline struct {
	cfg        runtimeconfig.Config
	filter     *filter.Filter
	importer   *tables.Importer
	shortcodes interfaces.ShortcodeService
	markdown   interfaces.MarkdownService
	metrics    interfaces.ShortcodeMetrics
	files      tables.FileSystem
	provider   interfaces.LoggerProvider
	logger     interfaces.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLoggerProvider sets the provider module loggers are taken from.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(p *Pipeline) {
		p.provider = provider
	}
}

// WithFileSystem replaces the host file system used to read data files.
func WithFileSystem(files tables.FileSystem) Option {
	return func(p *Pipeline) {
		p.files = files
	}
}

// WithShortcodeMetrics records inline tag render telemetry.
func WithShortcodeMetrics(metrics interfaces.ShortcodeMetrics) Option {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// WithMarkdownService overrides the Markdown loader and renderer.
func WithMarkdownService(service interfaces.MarkdownService) Option {
	return func(p *Pipeline) {
		p.markdown = service
	}
}

// New validates cfg and wires the filter, the tag service and the Markdown
// service.
func New(cfg runtimeconfig.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.logger = logging.ModuleLogger(p.provider, "")

	filterOpts := []filter.Option{filter.WithLogger(logging.FilterLogger(p.provider))}
	importerOpts := []tables.ImporterOption{
		tables.WithCSVDefaults(tables.CSVOptions{
			Delimiter: cfg.CSV.Delimiter,
			Enclosure: cfg.CSV.Enclosure,
			Escape:    cfg.CSV.Escape,
		}),
		tables.WithLogger(logging.TablesLogger(p.provider)),
	}
	if p.files != nil {
		filterOpts = append(filterOpts, filter.WithFileSystem(p.files))
		importerOpts = append(importerOpts, tables.WithFileSystem(p.files))
	}
	p.filter = filter.New(cfg, filterOpts...)
	p.importer = tables.NewImporter(cfg.DataDir, importerOpts...)

	p.shortcodes = shortcode.NewNoOpService()
	if cfg.Shortcode.Enabled {
		svcOpts := []shortcode.ServiceOption{
			shortcode.WithLogger(logging.ShortcodeLogger(p.provider)),
			shortcode.WithParallelRender(cfg.Shortcode.Parallel),
		}
		if p.metrics != nil {
			svcOpts = append(svcOpts, shortcode.WithMetrics(p.metrics))
		}
		svc, err := shortcode.NewTableService(p.importer, cfg.Shortcode.Name, svcOpts...)
		if err != nil {
			return nil, fmt.Errorf("pipeline: shortcodes: %w", err)
		}
		p.shortcodes = svc
	}

	if p.markdown == nil {
		p.markdown = markdown.NewService(p.parseOptions(),
			markdown.WithLogger(logging.MarkdownLogger(p.provider)))
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() runtimeconfig.Config { return p.cfg }

// Filter exposes the marker filter.
func (p *Pipeline) Filter() *filter.Filter { return p.filter }

// Importer exposes the importer used by inline tags.
func (p *Pipeline) Importer() *tables.Importer { return p.importer }

// Shortcodes exposes the inline tag service.
func (p *Pipeline) Shortcodes() interfaces.ShortcodeService { return p.shortcodes }

// RenderPage loads the page at path and renders it. Inline tags resolve
// relative file names against the page's directory.
func (p *Pipeline) RenderPage(ctx context.Context, path string) (*interfaces.Document, error) {
	doc, err := p.markdown.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return p.RenderDocument(ctx, doc, filepath.Dir(path))
}

// RenderSource renders page source that is not backed by a file.
func (p *Pipeline) RenderSource(ctx context.Context, source []byte, baseDir string) (*interfaces.Document, error) {
	doc, err := markdown.BuildDocument("", source, time.Time{})
	if err != nil {
		return nil, err
	}
	return p.RenderDocument(ctx, doc, baseDir)
}

// RenderDocument runs the filter and the inline tags over the document body
// and renders the result to BodyHTML. Body holds the expanded Markdown.
func (p *Pipeline) RenderDocument(ctx context.Context, doc *interfaces.Document, baseDir string) (*interfaces.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	logger := logging.WithImportContext(p.logger.WithContext(ctx), "", "", docPath(doc))

	filtered, err := p.filter.ProcessDocument(ctx, doc)
	if err != nil {
		return nil, err
	}

	body, err := p.shortcodes.Process(ctx, string(filtered.Body), interfaces.ShortcodeProcessOptions{
		BaseDir: baseDir,
	})
	if err != nil {
		logger.Error("pipeline.page.shortcodes_failed", "error", err)
		return nil, err
	}
	filtered.Body = []byte(body)

	html, err := p.markdown.Render(ctx, filtered.Body, p.parseOptions())
	if err != nil {
		logger.Error("pipeline.page.render_failed", "error", err)
		return nil, err
	}
	filtered.BodyHTML = html

	logger.Debug("pipeline.page.rendered",
		"bytes", len(html),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return filtered, nil
}

func (p *Pipeline) parseOptions() interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), p.cfg.Markdown.Extensions...),
		HardWraps:  p.cfg.Markdown.HardWraps,
		SafeMode:   !p.cfg.Markdown.Unsafe,
	}
}

func docPath(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}
	return doc.FilePath
}
