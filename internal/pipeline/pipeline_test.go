package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-table-importer/internal/runtimeconfig"
	"github.com/goliatone/go-table-importer/internal/shortcode"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

const page = `---
title: Demo
---
# Demo

[TableImporter>people.csv|class=x]

[ti local.csv]

[ti data:missing.csv]
`

func writeFixture(t *testing.T) (string, runtimeconfig.Config) {
	t.Helper()
	root := t.TempDir()
	dataDir := filepath.Join(root, "data")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	files := map[string]string{
		filepath.Join(dataDir, "people.csv"): "name,age\nAda,36\n",
		filepath.Join(root, "local.csv"):     "a,b\n1,2\n",
		filepath.Join(root, "page.md"):       page,
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}

	cfg := runtimeconfig.DefaultConfig()
	cfg.Active = true
	cfg.DataDir = dataDir
	return filepath.Join(root, "page.md"), cfg
}

func TestRenderPage(t *testing.T) {
	path, cfg := writeFixture(t)
	metrics := shortcode.NewCountingMetrics()
	p, err := New(cfg, WithShortcodeMetrics(metrics))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	doc, err := p.RenderPage(context.Background(), path)
	if err != nil {
		t.Fatalf("RenderPage() error: %v", err)
	}
	if doc.FrontMatter.Title != "Demo" {
		t.Fatalf("unexpected title %q", doc.FrontMatter.Title)
	}

	body := string(doc.Body)
	if !strings.Contains(body, "| name | age |\n| --- | --- |\n| Ada | 36 |\n") {
		t.Fatalf("expected markdown table in body, got %s", body)
	}

	html := string(doc.BodyHTML)
	for _, want := range []string{
		"<th>name</th>",
		"<td>Ada</td>",
		`<table id="table-local-`,
		"<td>1</td><td>2</td>",
		"<p>Table Importer: Could not find the requested data file 'data:missing.csv'.</p>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}

	if renders, _, _ := metrics.Snapshot("ti"); renders != 2 {
		t.Fatalf("expected 2 tag renders, got %d", renders)
	}
}

func TestRenderSourceInactiveFilter(t *testing.T) {
	_, cfg := writeFixture(t)
	cfg.Active = false
	cfg.Shortcode.Enabled = false

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	doc, err := p.RenderSource(context.Background(), []byte("[TableImporter>people.csv]\n\n[ti local.csv]\n"), "")
	if err != nil {
		t.Fatalf("RenderSource() error: %v", err)
	}
	if string(doc.Body) != "[TableImporter>people.csv]\n\n[ti local.csv]\n" {
		t.Fatalf("expected body unchanged, got %q", doc.Body)
	}
	if strings.Contains(string(doc.BodyHTML), "<table") {
		t.Fatalf("expected no table, got %s", doc.BodyHTML)
	}
}

func TestRenderSourceSafeModeDropsTagHTML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "t.csv"), []byte("a\n1\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := runtimeconfig.DefaultConfig()
	cfg.DataDir = root
	cfg.Markdown.Unsafe = false

	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	doc, err := p.RenderSource(context.Background(), []byte("[ti t.csv]\n"), root)
	if err != nil {
		t.Fatalf("RenderSource() error: %v", err)
	}
	if !strings.Contains(string(doc.Body), "<table") {
		t.Fatalf("expected tag expansion in body, got %s", doc.Body)
	}
	if strings.Contains(string(doc.BodyHTML), "<table") {
		t.Fatalf("expected raw table dropped in safe mode, got %s", doc.BodyHTML)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.DataDir = ""
	_, err := New(cfg)
	if !errors.Is(err, runtimeconfig.ErrDataDirRequired) {
		t.Fatalf("expected ErrDataDirRequired, got %v", err)
	}
}

type recordingMarkdown struct {
	rendered []byte
	opts     interfaces.ParseOptions
}

func (m *recordingMarkdown) Load(context.Context, string) (*interfaces.Document, error) {
	return nil, errors.New("not used")
}

func (m *recordingMarkdown) Render(_ context.Context, body []byte, opts interfaces.ParseOptions) ([]byte, error) {
	m.rendered = append([]byte(nil), body...)
	m.opts = opts
	return []byte("<rendered/>"), nil
}

func TestWithMarkdownServiceOverridesRenderer(t *testing.T) {
	_, cfg := writeFixture(t)
	cfg.Markdown.HardWraps = true
	md := &recordingMarkdown{}

	p, err := New(cfg, WithMarkdownService(md))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	doc, err := p.RenderSource(context.Background(), []byte("[TableImporter>people.csv]\n"), "")
	if err != nil {
		t.Fatalf("RenderSource() error: %v", err)
	}
	if string(doc.BodyHTML) != "<rendered/>" {
		t.Fatalf("expected custom renderer output, got %s", doc.BodyHTML)
	}
	if !strings.Contains(string(md.rendered), "| Ada | 36 |") {
		t.Fatalf("expected expanded markdown passed to renderer, got %s", md.rendered)
	}
	if !md.opts.HardWraps || md.opts.SafeMode {
		t.Fatalf("unexpected parse options %+v", md.opts)
	}
}
