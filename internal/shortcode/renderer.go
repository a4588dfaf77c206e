package shortcode

import (
	"context"
	"fmt"
	"html/template"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Renderer executes shortcode definitions and produces sanitised HTML output.
type Renderer struct {
	registry  interfaces.ShortcodeRegistry
	validator *Validator
	sanitizer interfaces.ShortcodeSanitizer
}

// RendererOption configures the renderer instance.
type RendererOption func(*Renderer)

// WithRendererSanitizer overrides the default sanitizer.
func WithRendererSanitizer(s interfaces.ShortcodeSanitizer) RendererOption {
	return func(r *Renderer) {
		r.sanitizer = s
	}
}

// NewRenderer constructs a renderer using the provided registry and validator.
func NewRenderer(registry interfaces.ShortcodeRegistry, validator *Validator, opts ...RendererOption) *Renderer {
	if validator == nil {
		validator = NewValidator()
	}
	r := &Renderer{
		registry:  registry,
		validator: validator,
		sanitizer: NewSanitizer(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render executes the shortcode and returns sanitised HTML. Definitions
// marked TrustedOutput bypass the sanitizer.
func (r *Renderer) Render(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (template.HTML, error) {
	def, ok := r.registry.Get(shortcode)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownShortcode, shortcode)
	}
	if ctx.Context == nil {
		ctx.Context = context.Background()
	}
	if err := ctx.Context.Err(); err != nil {
		return "", err
	}

	coerced, err := r.validator.CoerceParams(def, params)
	if err != nil {
		return "", err
	}
	if !def.AllowInner {
		inner = ""
	}

	result, err := def.Handler(ctx, coerced, inner)
	if err != nil {
		return "", err
	}
	if def.TrustedOutput {
		return result, nil
	}

	sanitizer := r.resolveSanitizer(ctx)
	if sanitizer == nil {
		return result, nil
	}
	if err := sanitizer.ValidateAttributes(coerced); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsafeOutput, err)
	}
	sanitised, err := sanitizer.Sanitize(string(result))
	if err != nil {
		return "", err
	}
	return template.HTML(sanitised), nil
}

// RenderAsync executes Render in a separate goroutine.
func (r *Renderer) RenderAsync(ctx interfaces.ShortcodeContext, shortcode string, params map[string]any, inner string) (<-chan template.HTML, <-chan error) {
	outputCh := make(chan template.HTML, 1)
	errCh := make(chan error, 1)

	go func() {
		defer close(outputCh)
		defer close(errCh)

		result, err := r.Render(ctx, shortcode, params, inner)
		if err != nil {
			errCh <- err
			return
		}
		outputCh <- result
	}()

	return outputCh, errCh
}

func (r *Renderer) resolveSanitizer(ctx interfaces.ShortcodeContext) interfaces.ShortcodeSanitizer {
	if ctx.Sanitizer != nil {
		return ctx.Sanitizer
	}
	return r.sanitizer
}

// Ensure Renderer implements interfaces.ShortcodeRenderer.
var _ interfaces.ShortcodeRenderer = (*Renderer)(nil)
