package tables

import (
	"path/filepath"
	"strings"
)

// Format names a supported data file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var extensionFormats = map[string]Format{
	".csv":  FormatCSV,
	".json": FormatJSON,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// DetectFormat returns the explicit override when present, otherwise infers the
// format from the file extension.
func DetectFormat(name, override string) (Format, error) {
	if trimmed := strings.ToLower(strings.TrimSpace(override)); trimmed != "" {
		switch Format(trimmed) {
		case FormatCSV, FormatJSON, FormatYAML:
			return Format(trimmed), nil
		case "yml":
			return FormatYAML, nil
		default:
			return "", unknownFormatError(name, override)
		}
	}

	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	if format, ok := extensionFormats[ext]; ok {
		return format, nil
	}
	return "", unknownFormatError(name, override)
}
