package shortcode

import (
	"context"
	"errors"
	"html/template"
	"testing"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

func htmlHandler(markup string) interfaces.ShortcodeHandler {
	return func(interfaces.ShortcodeContext, map[string]any, string) (template.HTML, error) {
		return template.HTML(markup), nil
	}
}

func TestRenderer_SanitizerBlocksScript(t *testing.T) {
	registry := NewRegistry(NewValidator())
	malicious := interfaces.ShortcodeDefinition{
		Name:    "bad",
		Handler: htmlHandler(`<script>alert('xss')</script>`),
	}
	if err := registry.Register(malicious); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, NewValidator())
	_, err := renderer.Render(interfaces.ShortcodeContext{}, "bad", nil, "")
	if !errors.Is(err, ErrUnsafeOutput) {
		t.Fatalf("expected ErrUnsafeOutput, got %v", err)
	}
}

func TestRenderer_TrustedOutputSkipsSanitizer(t *testing.T) {
	registry := NewRegistry(NewValidator())
	trusted := interfaces.ShortcodeDefinition{
		Name:          "raw",
		TrustedOutput: true,
		Handler:       htmlHandler(`<td><script>x</script></td>`),
	}
	if err := registry.Register(trusted); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, NewValidator())
	html, err := renderer.Render(interfaces.ShortcodeContext{}, "raw", nil, "")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if html != `<td><script>x</script></td>` {
		t.Fatalf("unexpected output %s", html)
	}
}

func TestRenderer_RejectsEventAttributes(t *testing.T) {
	registry := NewRegistry(NewValidator())
	def := interfaces.ShortcodeDefinition{
		Name:    "box",
		Schema:  interfaces.ShortcodeSchema{AllowUnknown: true},
		Handler: htmlHandler(`<div></div>`),
	}
	if err := registry.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, NewValidator())
	_, err := renderer.Render(interfaces.ShortcodeContext{}, "box", map[string]any{"onload": "x()"}, "")
	if !errors.Is(err, ErrUnsafeOutput) {
		t.Fatalf("expected ErrUnsafeOutput, got %v", err)
	}
}

func TestRenderer_UnknownShortcode(t *testing.T) {
	renderer := NewRenderer(NewRegistry(NewValidator()), nil)
	_, err := renderer.Render(interfaces.ShortcodeContext{}, "missing", nil, "")
	if !errors.Is(err, ErrUnknownShortcode) {
		t.Fatalf("expected ErrUnknownShortcode, got %v", err)
	}
}

func TestRenderer_InnerOnlyWhenAllowed(t *testing.T) {
	registry := NewRegistry(NewValidator())
	inner := func(_ interfaces.ShortcodeContext, _ map[string]any, inner string) (template.HTML, error) {
		return template.HTML("[" + inner + "]"), nil
	}
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "wrap", AllowInner: true, Handler: inner}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "flat", Handler: inner}); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, NewValidator())
	if html, _ := renderer.Render(interfaces.ShortcodeContext{}, "wrap", nil, "body"); html != "[body]" {
		t.Fatalf("unexpected wrap output %s", html)
	}
	if html, _ := renderer.Render(interfaces.ShortcodeContext{}, "flat", nil, "body"); html != "[]" {
		t.Fatalf("unexpected flat output %s", html)
	}
}

func TestRenderer_CancelledContext(t *testing.T) {
	registry := NewRegistry(NewValidator())
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "x", Handler: htmlHandler("ok")}); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	renderer := NewRenderer(registry, NewValidator())
	_, err := renderer.Render(interfaces.ShortcodeContext{Context: ctx}, "x", nil, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_RenderAsync(t *testing.T) {
	registry := NewRegistry(NewValidator())
	if err := registry.Register(interfaces.ShortcodeDefinition{Name: "x", Handler: htmlHandler("<p>ok</p>")}); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, NewValidator())
	out, errs := renderer.RenderAsync(interfaces.ShortcodeContext{}, "x", nil, "")
	if html := <-out; html != "<p>ok</p>" {
		t.Fatalf("unexpected output %s", html)
	}
	if err := <-errs; err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

type allowAllSanitizer struct{}

func (allowAllSanitizer) Sanitize(html string) (string, error)    { return html, nil }
func (allowAllSanitizer) ValidateAttributes(map[string]any) error { return nil }

func TestRenderer_SanitizerOverrides(t *testing.T) {
	registry := NewRegistry(NewValidator())
	def := interfaces.ShortcodeDefinition{
		Name:    "embed",
		Handler: htmlHandler(`<iframe src="x"></iframe>`),
	}
	if err := registry.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, nil, WithRendererSanitizer(allowAllSanitizer{}))
	if _, err := renderer.Render(interfaces.ShortcodeContext{}, "embed", nil, ""); err != nil {
		t.Fatalf("expected renderer sanitizer override to allow iframe, got %v", err)
	}

	contextual := NewRenderer(registry, nil, WithRendererSanitizer(allowAllSanitizer{}))
	_, err := contextual.Render(interfaces.ShortcodeContext{Sanitizer: NewSanitizer()}, "embed", nil, "")
	if !errors.Is(err, ErrUnsafeOutput) {
		t.Fatalf("expected context sanitizer to win, got %v", err)
	}
}

func TestService_DefaultSanitizerAppliesWhenCallerHasNone(t *testing.T) {
	registry := NewRegistry(NewValidator())
	def := interfaces.ShortcodeDefinition{
		Name:    "embed",
		Handler: htmlHandler(`<iframe src="x"></iframe>`),
	}
	if err := registry.Register(def); err != nil {
		t.Fatalf("register: %v", err)
	}

	renderer := NewRenderer(registry, nil)
	service := NewService(registry, renderer, WithDefaultSanitizer(allowAllSanitizer{}))

	got, err := service.Process(context.Background(), "[embed]", interfaces.ShortcodeProcessOptions{})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if got != `<iframe src="x"></iframe>` {
		t.Fatalf("unexpected output %q", got)
	}
}
