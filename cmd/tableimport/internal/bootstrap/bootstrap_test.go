package bootstrap

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOptions(t *testing.T) {
	got, err := ParseOptions([]string{"Caption=Staff", " header = false ", "caption=Team"})
	if err != nil {
		t.Fatalf("ParseOptions returned error: %v", err)
	}
	if got["caption"] != "Team" || got["header"] != "false" || len(got) != 2 {
		t.Fatalf("unexpected options %#v", got)
	}

	if _, err := ParseOptions([]string{"=x"}); err == nil {
		t.Fatal("expected error for empty key")
	}
	if got, err := ParseOptions(nil); err != nil || got != nil {
		t.Fatalf("expected nil options, got %#v %v", got, err)
	}
}

func TestRegistryRejectsUnknownHandler(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand(struct{}{}); err == nil {
		t.Fatal("expected error for unsupported handler")
	}
}

func TestBuildModuleAppliesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("data_dir: from-file\nshortcode:\n  enabled: true\n  name: table\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	active := true
	var logs bytes.Buffer
	module, err := BuildModule(Options{
		ConfigPath: path,
		DataDir:    filepath.Join(dir, "data"),
		Active:     &active,
		LogLevel:   "debug",
		Out:        &bytes.Buffer{},
		LogWriter:  &logs,
	})
	if err != nil {
		t.Fatalf("BuildModule returned error: %v", err)
	}
	defer module.Close()

	cfg := module.Module.Config()
	if !cfg.Active || cfg.DataDir != filepath.Join(dir, "data") || cfg.Shortcode.Name != "table" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if module.Handlers == nil || module.Handlers.Import == nil || module.Handlers.Render == nil {
		t.Fatal("expected table command handlers")
	}
	if !strings.Contains(logs.String(), "container.configured") {
		t.Fatalf("expected debug log on the log writer, got %q", logs.String())
	}
}

func TestBuildModuleMissingConfig(t *testing.T) {
	_, err := BuildModule(Options{ConfigPath: filepath.Join(t.TempDir(), "nope.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}
