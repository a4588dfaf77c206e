// Package filter implements the content filter form of the table importer.
package filter

import (
	"context"
	"fmt"
	"time"

	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/internal/markdown"
	"github.com/goliatone/go-table-importer/internal/runtimeconfig"
	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Filter rewrites [TableImporter>file|options] markers into Markdown tables.
type Filter struct {
	cfg      runtimeconfig.Config
	importer *tables.Importer
	files    tables.FileSystem
	logger   interfaces.Logger
}

// Option configures a Filter.
type Option func(*Filter)

// WithFileSystem replaces the host file system used to read data files.
func WithFileSystem(files tables.FileSystem) Option {
	return func(f *Filter) {
		if files != nil {
			f.files = files
		}
	}
}

// WithLogger sets the filter logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(f *Filter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New constructs a filter for cfg.
func New(cfg runtimeconfig.Config, opts ...Option) *Filter {
	f := &Filter{
		cfg:    cfg,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.importer = f.newImporter(cfg)
	return f
}

// Config returns the filter configuration.
func (f *Filter) Config() runtimeconfig.Config {
	return f.cfg
}

func (f *Filter) newImporter(cfg runtimeconfig.Config) *tables.Importer {
	opts := []tables.ImporterOption{
		tables.WithCSVDefaults(tables.CSVOptions{
			Delimiter: cfg.CSV.Delimiter,
			Enclosure: cfg.CSV.Enclosure,
			Escape:    cfg.CSV.Escape,
		}),
		tables.WithLogger(f.logger),
	}
	if f.files != nil {
		opts = append(opts, tables.WithFileSystem(f.files))
	}
	return tables.NewImporter(cfg.DataDir, opts...)
}

// Process replaces every marker in doc with a Markdown table, or with an
// inline message when that marker fails. An inactive filter returns doc
// unchanged.
func (f *Filter) Process(ctx context.Context, doc string) string {
	return f.process(ctx, f.cfg, f.importer, doc)
}

func (f *Filter) process(ctx context.Context, cfg runtimeconfig.Config, importer *tables.Importer, doc string) string {
	if !cfg.Active {
		return doc
	}
	markers := tables.ScanMarkers(doc)
	if len(markers) == 0 {
		return doc
	}

	base := cfg.DataRoot()
	f.logger.Debug("filter.markers.found", "count", len(markers), "data_root", base)

	return tables.ReplaceMarkers(doc, markers, func(m tables.Marker) string {
		return importer.Render(ctx, tables.Request{
			Values:  m.Values(),
			BaseDir: base,
			Mode:    tables.ModeMarkdown,
			Source:  m.Text,
		})
	})
}

// ProcessPage splits front matter from source and processes the body. A
// table-importer block in the front matter overrides the configuration for
// this page only.
func (f *Filter) ProcessPage(ctx context.Context, source []byte) (*interfaces.Document, error) {
	doc, err := markdown.BuildDocument("", source, time.Time{})
	if err != nil {
		return nil, err
	}
	return f.ProcessDocument(ctx, doc)
}

// ProcessDocument processes the body of an already loaded document, applying
// its front matter overrides. Invalid overrides are logged and the page is
// processed with the filter's own configuration.
func (f *Filter) ProcessDocument(ctx context.Context, doc *interfaces.Document) (*interfaces.Document, error) {
	if doc == nil {
		return nil, fmt.Errorf("filter: document is required")
	}

	cfg, importer, err := f.pageConfig(doc.FrontMatter.TableImporter)
	if err != nil {
		logging.WithImportContext(f.logger, "", string(tables.ModeMarkdown), doc.FilePath).
			Warn("filter.page.overrides_invalid", "error", err)
	}

	out := *doc
	out.Body = []byte(f.process(ctx, cfg, importer, string(doc.Body)))
	return &out, nil
}

func (f *Filter) pageConfig(overrides map[string]any) (runtimeconfig.Config, *tables.Importer, error) {
	if len(overrides) == 0 {
		return f.cfg, f.importer, nil
	}
	cfg, err := f.cfg.ApplyOverrides(overrides)
	if err != nil {
		return f.cfg, f.importer, err
	}
	if err := cfg.Validate(); err != nil {
		return f.cfg, f.importer, fmt.Errorf("filter: page overrides: %w", err)
	}
	return cfg, f.newImporter(cfg), nil
}
