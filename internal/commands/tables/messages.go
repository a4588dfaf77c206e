package tablescmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importTableMessageType = "tableimporter.tables.import"
	renderPageMessageType  = "tableimporter.tables.render_page"
)

// Output formats accepted by the commands.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// ImportTableCommand renders a single data file as a table.
type ImportTableCommand struct {
	// File is the data file reference, optionally prefixed with "data:".
	File string `json:"file"`
	// BaseDir resolves references without the data prefix.
	BaseDir string `json:"base_dir,omitempty"`
	// Format selects html or markdown output. Defaults to html.
	Format string `json:"format,omitempty"`
	// Options holds marker options such as type, delimiter, caption or header.
	Options map[string]string `json:"options,omitempty"`
	// AutoID assigns a generated id in HTML output when Options has none.
	AutoID bool `json:"auto_id,omitempty"`
	// Strict returns import failures instead of printing the inline message.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (ImportTableCommand) Type() string { return importTableMessageType }

// Validate ensures a file is named and the format is known.
func (cmd ImportTableCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.File, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("tableimporter.tables.import.file_required", "file is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.By(validFormat)),
	)
}

// RenderPageCommand renders a page file through the filter, the inline tags
// and Markdown.
type RenderPageCommand struct {
	Path string `json:"path"`
	// Format selects html (rendered page) or markdown (expanded body).
	Format string `json:"format,omitempty"`
}

// Type implements command.Message.
func (RenderPageCommand) Type() string { return renderPageMessageType }

// Validate ensures a page path is present and the format is known.
func (cmd RenderPageCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("tableimporter.tables.render_page.path_required", "path is required")
			}
			return nil
		})),
		validation.Field(&cmd.Format, validation.By(validFormat)),
	)
}

func validFormat(value any) error {
	switch strings.ToLower(strings.TrimSpace(value.(string))) {
	case "", FormatHTML, FormatMarkdown, "md":
		return nil
	}
	return validation.NewError("tableimporter.tables.format_invalid", "format must be html or markdown")
}

func isMarkdown(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "md":
		return true
	}
	return false
}
