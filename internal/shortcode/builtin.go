package shortcode

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// DefaultTagName is the name the table tag is registered under.
const DefaultTagName = "ti"

// TableDefinition returns the table import tag bound to importer. The tag
// renders HTML with a generated id when none is given. Import failures are
// rendered as inline messages rather than returned, so a bad tag never fails
// the page.
func TableDefinition(name string, importer *tables.Importer) interfaces.ShortcodeDefinition {
	if strings.TrimSpace(name) == "" {
		name = DefaultTagName
	}
	return interfaces.ShortcodeDefinition{
		Name:          name,
		Version:       "1.0.0",
		Description:   "Renders a CSV, JSON or YAML data file as an HTML table",
		Category:      "data",
		TrustedOutput: true,
		Schema: interfaces.ShortcodeSchema{
			Params: []interfaces.ShortcodeParam{
				{Name: "file", Type: interfaces.ShortcodeParamString},
				{Name: "type", Type: interfaces.ShortcodeParamString},
				{Name: "class", Type: interfaces.ShortcodeParamString},
				{Name: "caption", Type: interfaces.ShortcodeParamString},
				{Name: "id", Type: interfaces.ShortcodeParamString},
				{Name: "delimiter", Type: interfaces.ShortcodeParamString},
				{Name: "enclosure", Type: interfaces.ShortcodeParamString},
				{Name: "escape", Type: interfaces.ShortcodeParamString},
			},
			AllowUnknown: true,
		},
		Handler: func(ctx interfaces.ShortcodeContext, params map[string]any, _ string) (template.HTML, error) {
			if importer == nil {
				return "", fmt.Errorf("shortcode: %s has no importer", name)
			}
			req := tables.Request{
				Values:  tagValues(name, ctx, params),
				BaseDir: ctx.BaseDir,
				Mode:    tables.ModeHTML,
				AutoID:  true,
				Source:  ctx.Source,
			}
			return template.HTML(importer.Render(ctx.Context, req)), nil
		},
	}
}

// tagValues merges named parameters with positional arguments. Arguments
// naming a known option become flags. Without a file parameter the file name
// is the tag's raw text stripped of its tokens and flags, which keeps names
// with spaces whole, or else the first other argument.
func tagValues(name string, ctx interfaces.ShortcodeContext, params map[string]any) tables.OptionValues {
	values := tables.OptionValuesFromParams(params)

	var positional string
	for _, arg := range ctx.Args {
		key := strings.ToLower(strings.TrimSpace(arg))
		if key == "" {
			continue
		}
		if tables.IsKnownOption(key) {
			if _, ok := values[key]; !ok {
				values[key] = ""
			}
			continue
		}
		if positional == "" {
			positional = strings.TrimSpace(arg)
		}
	}

	if file, _ := values.Get("file", "filename"); strings.TrimSpace(file) != "" {
		return values
	}
	if file := fileFromSource(name, ctx.Source); file != "" {
		positional = file
	}
	if positional != "" {
		values["file"] = positional
	}
	return values
}

// fileFromSource strips the opening and closing tokens from a positional tag
// and trims option flags from either end. Tags carrying named values or a
// quoted name are left to the parsed arguments.
func fileFromSource(name, source string) string {
	s := strings.TrimSpace(source)
	if len(s) < len(name)+1 || !strings.EqualFold(s[:len(name)+1], "["+name) {
		return ""
	}
	s = s[len(name)+1:]
	s = strings.TrimSuffix(s, "]")
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimPrefix(strings.TrimSpace(s), "=")
	s = strings.TrimSpace(s)
	if strings.Contains(s, "=") || strings.HasPrefix(s, `"`) || strings.HasPrefix(s, "'") {
		return ""
	}

	words := strings.Fields(s)
	for len(words) > 0 && tables.IsKnownOption(strings.ToLower(words[0])) {
		s = strings.TrimSpace(s[len(words[0]):])
		words = words[1:]
	}
	for len(words) > 0 && tables.IsKnownOption(strings.ToLower(words[len(words)-1])) {
		s = strings.TrimSpace(s[:len(s)-len(words[len(words)-1])])
		words = words[:len(words)-1]
	}
	return s
}
