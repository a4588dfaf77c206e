package shortcode

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

func newTableFixture(t *testing.T) (string, *tables.Importer) {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"people.csv":      "name,age\nAda,36\n",
		"team people.csv": "name,age\nAda,36\n",
		"notes.json":      `[["k","v"],["a","<b>"]]`,
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	importer := tables.NewImporter(dir, tables.WithIDGenerator(func(file string) string {
		return "tid"
	}))
	return dir, importer
}

func TestTableDefinitionRegisters(t *testing.T) {
	_, importer := newTableFixture(t)
	reg := NewRegistry(NewValidator())
	if err := RegisterBuiltIns(reg, importer, ""); err != nil {
		t.Fatalf("RegisterBuiltIns() error: %v", err)
	}
	def, ok := reg.Get(DefaultTagName)
	if !ok {
		t.Fatal("ti definition not registered")
	}
	if !def.TrustedOutput || !def.Schema.AllowUnknown {
		t.Fatalf("unexpected definition flags %+v", def)
	}
	if err := RegisterBuiltIns(reg, nil, ""); err == nil {
		t.Fatal("expected error for missing importer")
	}
}

func TestTableServiceForms(t *testing.T) {
	dir, importer := newTableFixture(t)
	service, err := NewTableService(importer, "")
	if err != nil {
		t.Fatalf("NewTableService() error: %v", err)
	}

	want := `<table id="tid"><thead><tr><th>name</th><th>age</th></tr></thead><tbody><tr><td>Ada</td><td>36</td></tr></tbody></table>`
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "named", input: `[ti file=people.csv]`, want: want},
		{name: "positional", input: `[ti people.csv]`, want: want},
		{name: "bbcode", input: `[ti=people.csv/]`, want: want},
		{name: "name with space", input: `[ti=team people.csv/]`, want: want},
		{name: "alias", input: `[ti file=data:people.csv]`, want: want},
		{name: "explicit id", input: `[ti people.csv id=own]`, want: strings.Replace(want, `id="tid"`, `id="own"`, 1)},
		{
			name:  "no header flag value",
			input: `[ti people.csv header=false]`,
			want:  `<table id="tid"><thead><tr><th></th><th></th></tr></thead><tbody><tr><td>name</td><td>age</td></tr><tr><td>Ada</td><td>36</td></tr></tbody></table>`,
		},
		{
			name:  "documented attribute form",
			input: `[ti file="people.csv" type="csv" delimiter="," enclosure="\"" escape="\\" class="wide" caption="Team" header id="own" raw]`,
			want:  `<table id="own" class="wide"><caption>Team</caption><thead><tr><th>name</th><th>age</th></tr></thead><tbody><tr><td>Ada</td><td>36</td></tr></tbody></table>`,
		},
		{
			name:  "escaped escape character",
			input: `[ti file="people.csv" escape="\\"]`,
			want:  want,
		},
		{
			name:  "escaped cells",
			input: `[ti notes.json]`,
			want:  `<table id="tid"><thead><tr><th>k</th><th>v</th></tr></thead><tbody><tr><td>a</td><td>&lt;b&gt;</td></tr></tbody></table>`,
		},
		{
			name:  "raw flag",
			input: `[ti notes.json raw]`,
			want:  `<table id="tid"><thead><tr><th>k</th><th>v</th></tr></thead><tbody><tr><td>a</td><td><b></td></tr></tbody></table>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Process(context.Background(), tt.input, interfaces.ShortcodeProcessOptions{BaseDir: dir})
			if err != nil {
				t.Fatalf("Process() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Process() = %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestTableServiceInlineErrors(t *testing.T) {
	dir, importer := newTableFixture(t)
	service, err := NewTableService(importer, "table")
	if err != nil {
		t.Fatalf("NewTableService() error: %v", err)
	}

	got, err := service.Process(context.Background(),
		"a [table missing.csv] b [table] c [table people.csv] d [ti people.csv]",
		interfaces.ShortcodeProcessOptions{BaseDir: dir})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	if !strings.Contains(got, "<p>Table Importer: Could not find the requested data file 'missing.csv'.</p>") {
		t.Fatalf("missing file message not found in %s", got)
	}
	if !strings.Contains(got, "<p>Table Importer: Malformed shortcode (<tt>[table]</tt>).</p>") {
		t.Fatalf("malformed message not found in %s", got)
	}
	if !strings.Contains(got, `<table id="tid">`) {
		t.Fatalf("expected rendered table in %s", got)
	}
	if !strings.HasSuffix(got, " d [ti people.csv]") {
		t.Fatalf("unregistered tag name should be left alone: %s", got)
	}
}

func TestFileFromSource(t *testing.T) {
	tests := map[string]string{
		"[ti=people.csv/]":        "people.csv",
		"[ti people.csv]":         "people.csv",
		"[TI = people.csv ]":      "people.csv",
		"[ti=my data.csv/]":       "my data.csv",
		"[ti raw my  data.csv]":   "my  data.csv",
		"[ti people.csv raw pad]": "people.csv",
		"[ti a=b]":                "",
		"[ti 'quoted name.csv']":  "",
		"[other x.csv]":           "",
	}
	for source, want := range tests {
		if got := fileFromSource("ti", source); got != want {
			t.Fatalf("fileFromSource(%q) = %q, want %q", source, got, want)
		}
	}
}
