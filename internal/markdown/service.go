package markdown

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Service implements interfaces.MarkdownService for filesystem-backed pages.
type Service struct {
	parser interfaces.MarkdownParser
	logger interfaces.Logger
}

var _ interfaces.MarkdownService = (*Service)(nil)

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithParser overrides the Markdown parser.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Markdown service. Without WithParser a goldmark
// parser using defaults is created.
func NewService(defaults interfaces.ParseOptions, opts ...ServiceOption) *Service {
	svc := &Service{
		parser: NewGoldmarkParser(defaults),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc
}

// Load reads a page file and splits its front matter from the body.
func (s *Service) Load(ctx context.Context, path string) (*interfaces.Document, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("markdown: page path is required")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: stat %s: %w", path, err)
	}
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("markdown: read %s: %w", path, err)
	}

	doc, err := BuildDocument(path, source, info.ModTime())
	if err != nil {
		s.logger.Warn("markdown.page.load_failed", "path", path, "error", err)
		return nil, err
	}
	s.logger.Debug("markdown.page.loaded", "path", path, "bytes", len(source))
	return doc, nil
}

// Render converts Markdown into HTML.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctxErr(ctx); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, opts)
}

func ctxErr(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
