package shortcode

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/goliatone/go-table-importer/internal/logging"
	parserpkg "github.com/goliatone/go-table-importer/internal/shortcode/parser"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// ErrorFormatter produces the replacement text for a tag that failed to render.
type ErrorFormatter func(sc interfaces.ParsedShortcode, err error) string

// Service orchestrates shortcode parsing and rendering for arbitrary content.
type Service struct {
	registry         interfaces.ShortcodeRegistry
	renderer         interfaces.ShortcodeRenderer
	parser           interfaces.ShortcodeParser
	defaultSanitizer interfaces.ShortcodeSanitizer
	logger           interfaces.Logger
	metrics          interfaces.ShortcodeMetrics
	formatError      ErrorFormatter
	parallel         bool
}

// ServiceOption customises service behaviour.
type ServiceOption func(*Service)

// WithDefaultSanitizer overrides the fallback sanitizer used when none is supplied at call time.
func WithDefaultSanitizer(sanitizer interfaces.ShortcodeSanitizer) ServiceOption {
	return func(s *Service) {
		if sanitizer != nil {
			s.defaultSanitizer = sanitizer
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires the metrics recorder used for telemetry.
func WithMetrics(metrics interfaces.ShortcodeMetrics) ServiceOption {
	return func(s *Service) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// WithParser overrides the bracket parser used to extract shortcodes.
func WithParser(parser interfaces.ShortcodeParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithErrorFormatter sets the text substituted for a tag that fails. The
// default leaves the original tag text in place.
func WithErrorFormatter(fn ErrorFormatter) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.formatError = fn
		}
	}
}

// WithParallelRender renders the tags of one document concurrently. Output
// order is unchanged.
func WithParallelRender(enabled bool) ServiceOption {
	return func(s *Service) {
		s.parallel = enabled
	}
}

// NewService constructs a shortcode service using the supplied registry and renderer.
func NewService(registry interfaces.ShortcodeRegistry, renderer interfaces.ShortcodeRenderer, opts ...ServiceOption) *Service {
	service := &Service{
		registry:         registry,
		renderer:         renderer,
		defaultSanitizer: NewSanitizer(),
		logger:           logging.NoOp(),
		metrics:          NoOpMetrics(),
		formatError: func(sc interfaces.ParsedShortcode, _ error) string {
			return sc.Source
		},
	}
	if registry != nil {
		service.parser = parserpkg.NewBracketParser(func(name string) bool {
			_, ok := registry.Get(name)
			return ok
		})
	}

	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Process renders the registered tags found within content. A tag that fails
// is replaced by the error formatter output and the rest of the document is
// still processed.
func (s *Service) Process(ctx context.Context, content string, opts interfaces.ShortcodeProcessOptions) (string, error) {
	if strings.TrimSpace(content) == "" {
		return content, nil
	}
	if s.renderer == nil || s.parser == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	logger := logging.WithFields(s.baseLogger(ctx), map[string]any{
		"operation": "shortcode.process",
	})

	transformed, parsed, err := s.parser.Extract(content)
	if err != nil {
		logging.WithFields(logger, map[string]any{
			"error": err,
		}).Error("shortcode.service.parse_failed")
		return "", err
	}
	if len(parsed) == 0 {
		return transformed, nil
	}

	base := interfaces.ShortcodeContext{
		Context:   ctx,
		Sanitizer: opts.Sanitizer,
		BaseDir:   opts.BaseDir,
	}
	if base.Sanitizer == nil {
		base.Sanitizer = s.defaultSanitizer
	}

	results := s.renderAll(base, parsed)

	var failed int
	replacements := make([]string, 0, len(parsed)*2)
	for idx, sc := range parsed {
		res := results[idx]
		s.metrics.ObserveRenderDuration(sc.Name, res.elapsed)

		entryFields := map[string]any{
			"shortcode":   sc.Name,
			"index":       idx,
			"duration_ms": res.elapsed.Milliseconds(),
		}
		output := string(res.html)
		if res.err != nil {
			failed++
			s.metrics.IncrementRenderError(sc.Name)
			entryFields["error"] = res.err
			entryFields["source"] = sc.Source
			logging.WithFields(logger, entryFields).Warn("shortcode.service.render_failed")
			output = s.formatError(sc, res.err)
		} else {
			logging.WithFields(logger, entryFields).Debug("shortcode.service.render_succeeded")
		}
		replacements = append(replacements, fmt.Sprintf(parserpkg.PlaceholderFormat, idx), output)
	}

	logging.WithFields(logger, map[string]any{
		"shortcodes": len(parsed),
		"failed":     failed,
	}).Debug("shortcode.service.process_completed")
	return strings.NewReplacer(replacements...).Replace(transformed), nil
}

type renderResult struct {
	html    template.HTML
	err     error
	elapsed time.Duration
}

func (s *Service) renderAll(base interfaces.ShortcodeContext, parsed []interfaces.ParsedShortcode) []renderResult {
	results := make([]renderResult, len(parsed))
	contextFor := func(sc interfaces.ParsedShortcode) interfaces.ShortcodeContext {
		scCtx := base
		scCtx.Source = sc.Source
		scCtx.Args = sc.Args
		return scCtx
	}

	if !s.parallel || len(parsed) == 1 {
		for idx, sc := range parsed {
			start := time.Now()
			html, err := s.renderer.Render(contextFor(sc), sc.Name, sc.Params, sc.Inner)
			results[idx] = renderResult{html: html, err: err, elapsed: time.Since(start)}
		}
		return results
	}

	type pending struct {
		out   <-chan template.HTML
		errs  <-chan error
		start time.Time
	}
	waits := make([]pending, len(parsed))
	for idx, sc := range parsed {
		start := time.Now()
		out, errs := s.renderer.RenderAsync(contextFor(sc), sc.Name, sc.Params, sc.Inner)
		waits[idx] = pending{out: out, errs: errs, start: start}
	}
	for idx, w := range waits {
		html := <-w.out
		err := <-w.errs
		results[idx] = renderResult{html: html, err: err, elapsed: time.Since(w.start)}
	}
	return results
}

// Render executes a single shortcode definition and returns the HTML output.
func (s *Service) Render(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (template.HTML, error) {
	if s.renderer == nil {
		return "", fmt.Errorf("shortcode: service not initialised")
	}
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}
	if ctx.Sanitizer == nil {
		ctx.Sanitizer = s.defaultSanitizer
	}

	logger := logging.WithFields(s.baseLogger(ctx.Context), map[string]any{
		"operation": "shortcode.render",
		"shortcode": shortcode,
	})

	start := time.Now()
	result, err := s.renderer.Render(ctx, shortcode, params, inner)
	elapsed := time.Since(start)
	s.metrics.ObserveRenderDuration(shortcode, elapsed)

	fields := map[string]any{
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		s.metrics.IncrementRenderError(shortcode)
		fields["error"] = err
		logging.WithFields(logger, fields).Error("shortcode.service.render_failed")
		return "", err
	}
	logging.WithFields(logger, fields).Debug("shortcode.service.render_succeeded")

	return result, nil
}

// Registry exposes the underlying shortcode registry.
func (s *Service) Registry() interfaces.ShortcodeRegistry {
	return s.registry
}

// Ensure Service complies with interfaces.ShortcodeService.
var _ interfaces.ShortcodeService = (*Service)(nil)

type noOpService struct{}

// NewNoOpService returns a shortcode service that leaves content untouched.
func NewNoOpService() interfaces.ShortcodeService {
	return noOpService{}
}

func (noOpService) Process(_ context.Context, content string, _ interfaces.ShortcodeProcessOptions) (string, error) {
	return content, nil
}

func (noOpService) Render(_ interfaces.ShortcodeContext, _ string, _ map[string]any, _ string) (template.HTML, error) {
	return template.HTML(""), nil
}

func (s *Service) baseLogger(ctx context.Context) interfaces.Logger {
	logger := s.logger
	if logger == nil {
		logger = logging.NoOp()
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	return logger
}
