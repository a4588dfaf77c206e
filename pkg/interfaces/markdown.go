package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the output, including HTML tables produced
	// by inline tags.
	SafeMode bool
}

// MarkdownService loads page documents and renders their Markdown.
type MarkdownService interface {
	Load(ctx context.Context, path string) (*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
}

// Document represents a page file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
}

// FrontMatter models the page metadata the importer reads. TableImporter
// holds the per-page configuration block.
type FrontMatter struct {
	Title         string         `yaml:"title" json:"title"`
	TableImporter map[string]any `yaml:"table-importer" json:"table_importer"`
	Custom        map[string]any `yaml:",inline" json:"custom"`
	Raw           map[string]any `yaml:"-" json:"raw"`
}
