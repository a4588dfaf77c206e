package tables

import (
	"context"
	"strings"

	"github.com/goliatone/go-table-importer/internal/identity"
	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Request describes one import: the raw options of a marker or tag plus the
// context needed to resolve and render it.
type Request struct {
	Values OptionValues
	// BaseDir resolves file references that do not carry the data alias.
	BaseDir string
	Mode    Mode
	// AutoID assigns a generated id when the options carry none.
	AutoID bool
	// Source is the original marker or tag text, used in error messages.
	Source string
	// Defaults overrides the importer's CSV defaults for this request.
	Defaults *CSVOptions
}

// Importer runs the resolve, detect, load and render pipeline.
type Importer struct {
	resolver    *Resolver
	loader      *Loader
	defaults    CSVOptions
	idGenerator func(string) string
	logger      interfaces.Logger
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithFileSystem replaces the host file system.
func WithFileSystem(files FileSystem) ImporterOption {
	return func(i *Importer) {
		if files == nil {
			return
		}
		i.resolver.Files = files
		i.loader.files = files
	}
}

// WithCSVDefaults sets the delimiter, enclosure and escape used when a
// request does not override them.
func WithCSVDefaults(opts CSVOptions) ImporterOption {
	return func(i *Importer) {
		i.defaults = opts
	}
}

// WithIDGenerator overrides how ids are generated for AutoID requests.
func WithIDGenerator(fn func(file string) string) ImporterOption {
	return func(i *Importer) {
		if fn != nil {
			i.idGenerator = fn
		}
	}
}

// WithLogger sets the importer logger.
func WithLogger(logger interfaces.Logger) ImporterOption {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewImporter constructs an importer resolving aliased references against
// dataDir.
func NewImporter(dataDir string, opts ...ImporterOption) *Importer {
	files := OSFileSystem{}
	importer := &Importer{
		resolver:    NewResolver(dataDir, files),
		loader:      NewLoader(files),
		defaults:    DefaultCSVOptions(),
		idGenerator: identity.TableID,
		logger:      logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(importer)
		}
	}
	return importer
}

// DataDir returns the directory aliased references resolve against.
func (i *Importer) DataDir() string {
	return i.resolver.DataDir
}

// Import renders the table described by req or returns a typed error.
func (i *Importer) Import(ctx context.Context, req Request) (string, error) {
	output, _, err := i.run(ctx, req)
	return output, err
}

// Render behaves like Import but substitutes errors with an inline message.
func (i *Importer) Render(ctx context.Context, req Request) string {
	output, ref, err := i.run(ctx, req)
	if err == nil {
		return output
	}
	i.logFailure(ctx, req, ref, err)
	return Message(err, ref, req.Mode)
}

func (i *Importer) run(ctx context.Context, req Request) (string, MessageRef, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	defaults := i.defaults
	if req.Defaults != nil {
		defaults = *req.Defaults
	}
	opts := ResolveOptions(req.Values, defaults)
	ref := MessageRef{File: opts.File, Type: opts.Type, Source: req.Source}

	if opts.File == "" {
		return "", ref, malformedMarkerError(req.Source)
	}

	path, err := i.resolver.Resolve(opts.File, req.BaseDir)
	if err != nil {
		return "", ref, err
	}

	format, err := DetectFormat(opts.File, opts.Type)
	if err != nil {
		return "", ref, err
	}
	ref.Type = string(format)

	table, err := i.loader.Load(ctx, path, opts.File, format, opts.CSV)
	if err != nil {
		return "", ref, err
	}

	if req.AutoID && strings.TrimSpace(opts.ID) == "" && req.Mode != ModeMarkdown {
		opts.ID = i.idGenerator(opts.File)
	}

	i.logger.Debug("tables.import.rendered",
		"file", opts.File,
		"type", string(format),
		"rows", table.Len(),
		"mode", string(req.Mode),
	)
	return Render(table, opts, req.Mode), ref, nil
}

func (i *Importer) logFailure(ctx context.Context, req Request, ref MessageRef, err error) {
	logger := i.logger
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	logging.WithFields(logger, map[string]any{
		"file":   ref.File,
		"type":   ref.Type,
		"mode":   string(req.Mode),
		"source": req.Source,
	}).Warn("tables.import.failed", "error", err)
}
