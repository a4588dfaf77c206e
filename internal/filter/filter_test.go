package filter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-table-importer/internal/runtimeconfig"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

func newDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "people.csv"), "name,age\nAda,36\n")
	writeFile(t, filepath.Join(dir, "semi.csv"), "name;age\nLinus;28\n")
	writeFile(t, filepath.Join(dir, "reports", "q1.yaml"), "- [region, total]\n- [north, 10]\n")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func activeConfig(dataDir string) runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Active = true
	cfg.DataDir = dataDir
	return cfg
}

func TestProcessReplacesMarkers(t *testing.T) {
	f := New(activeConfig(newDataDir(t)))

	doc := "Intro\n\n[TableImporter>people.csv]\n\nOutro"
	got := f.Process(context.Background(), doc)

	want := "Intro\n\n| name | age |\n| --- | --- |\n| Ada | 36 |\n\n\nOutro"
	if got != want {
		t.Fatalf("unexpected output\nwant: %q\ngot:  %q", want, got)
	}
}

func TestProcessAppliesMarkerOptions(t *testing.T) {
	f := New(activeConfig(newDataDir(t)))

	got := f.Process(context.Background(), "[TableImporter>semi.csv|delimiter=;,header=false]")
	if !strings.HasPrefix(got, "|  |  |\n| --- | --- |\n| name | age |\n") {
		t.Fatalf("expected headerless table with all rows, got %q", got)
	}
}

func TestProcessInactiveReturnsDocument(t *testing.T) {
	cfg := activeConfig(newDataDir(t))
	cfg.Active = false
	f := New(cfg)

	doc := "[TableImporter>people.csv]"
	if got := f.Process(context.Background(), doc); got != doc {
		t.Fatalf("expected document unchanged, got %q", got)
	}
}

func TestProcessIsolatesFailures(t *testing.T) {
	f := New(activeConfig(newDataDir(t)))

	doc := "[TableImporter>missing.csv]\n[TableImporter>people.csv]\n[TableImporter>|raw]"
	got := f.Process(context.Background(), doc)

	if !strings.Contains(got, "Could not find the requested data file 'missing.csv'.") {
		t.Fatalf("expected missing file message, got %q", got)
	}
	if !strings.Contains(got, "| Ada | 36 |") {
		t.Fatalf("expected later marker to render, got %q", got)
	}
	if !strings.Contains(got, "Malformed marker") {
		t.Fatalf("expected malformed marker message, got %q", got)
	}
}

func TestProcessUsesDataSubdir(t *testing.T) {
	cfg := activeConfig(newDataDir(t))
	cfg.DataSubdir = "reports"
	f := New(cfg)

	got := f.Process(context.Background(), "[TableImporter>q1.yaml] [TableImporter>data:people.csv]")
	if !strings.Contains(got, "| north | 10 |") {
		t.Fatalf("expected subdir file to render, got %q", got)
	}
	if !strings.Contains(got, "| Ada | 36 |") {
		t.Fatalf("expected data alias to resolve against data dir, got %q", got)
	}
}

func TestProcessPageAppliesFrontMatterOverrides(t *testing.T) {
	dataDir := newDataDir(t)
	cfg := activeConfig(dataDir)
	cfg.Active = false
	f := New(cfg)

	source := []byte("---\ntitle: Page\ntable-importer:\n  active: true\n  csv_delimiter: \";\"\n---\n[TableImporter>semi.csv]\n")
	doc, err := f.ProcessPage(context.Background(), source)
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	if doc.FrontMatter.Title != "Page" {
		t.Fatalf("expected front matter to be kept, got %+v", doc.FrontMatter)
	}
	if !strings.Contains(string(doc.Body), "| Linus | 28 |") {
		t.Fatalf("expected page override to activate filter with ; delimiter, got %q", doc.Body)
	}

	other, err := f.ProcessPage(context.Background(), []byte("[TableImporter>people.csv]\n"))
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	if string(other.Body) != "[TableImporter>people.csv]\n" {
		t.Fatalf("expected overrides to apply to one page only, got %q", other.Body)
	}
}

type warnRecorder struct {
	warnings []string
}

func (r *warnRecorder) Trace(string, ...any) {}
func (r *warnRecorder) Debug(string, ...any) {}
func (r *warnRecorder) Info(string, ...any)  {}
func (r *warnRecorder) Warn(msg string, _ ...any) {
	r.warnings = append(r.warnings, msg)
}
func (r *warnRecorder) Error(string, ...any) {}
func (r *warnRecorder) Fatal(string, ...any) {}
func (r *warnRecorder) WithContext(context.Context) interfaces.Logger {
	return r
}

func TestProcessPageIgnoresInvalidOverrides(t *testing.T) {
	cfg := activeConfig(newDataDir(t))
	logger := &warnRecorder{}
	f := New(cfg, WithLogger(logger))

	source := []byte("---\ntable-importer:\n  csv_delimiter: \";;\"\n---\n" +
		"[TableImporter>people.csv]\n\n[TableImporter>reports/q1.yaml]\n")
	doc, err := f.ProcessPage(context.Background(), source)
	if err != nil {
		t.Fatalf("ProcessPage: %v", err)
	}
	body := string(doc.Body)
	if !strings.Contains(body, "| Ada | 36 |") {
		t.Fatalf("expected csv marker rendered with global config, got %q", body)
	}
	if !strings.Contains(body, "| north | 10 |") {
		t.Fatalf("expected yaml marker rendered, got %q", body)
	}
	if len(logger.warnings) != 1 || logger.warnings[0] != "filter.page.overrides_invalid" {
		t.Fatalf("expected one overrides warning, got %v", logger.warnings)
	}
}
