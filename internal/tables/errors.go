package tables

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrMalformedMarker indicates marker or tag syntax without a usable filename.
	ErrMalformedMarker = errors.New("tables: malformed marker")
	// ErrFileNotFound indicates the resolved data file does not exist.
	ErrFileNotFound = errors.New("tables: file not found")
	// ErrUnknownFormat indicates the data format could not be determined.
	ErrUnknownFormat = errors.New("tables: unknown format")
	// ErrDataLoad indicates the data file could not be read or parsed.
	ErrDataLoad = errors.New("tables: data load failed")
	// ErrParse indicates a format specific parse failure.
	ErrParse = errors.New("tables: parse error")
)

const (
	textCodeMalformedMarker = "TABLE_MALFORMED_MARKER"
	textCodeFileNotFound    = "TABLE_FILE_NOT_FOUND"
	textCodeUnknownFormat   = "TABLE_UNKNOWN_FORMAT"
	textCodeDataLoad        = "TABLE_DATA_LOAD_FAILED"
	textCodeParse           = "TABLE_PARSE_FAILED"
)

func malformedMarkerError(source string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %q", ErrMalformedMarker, source), goerrors.CategoryBadInput, "table marker has no filename").
		WithTextCode(textCodeMalformedMarker).
		WithMetadata(map[string]any{"source": source})
}

func fileNotFoundError(name, path string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s", ErrFileNotFound, name), goerrors.CategoryNotFound, "table data file not found").
		WithTextCode(textCodeFileNotFound).
		WithMetadata(map[string]any{"file": name, "path": path})
}

func unknownFormatError(name, override string) error {
	return goerrors.Wrap(fmt.Errorf("%w: %s", ErrUnknownFormat, name), goerrors.CategoryValidation, "table data format could not be determined").
		WithTextCode(textCodeUnknownFormat).
		WithMetadata(map[string]any{"file": name, "type": override})
}

// parseError reports a format specific failure. It is wrapped by dataLoadError
// before leaving the loader, so callers can match both sentinels.
func parseError(format Format, line int, reason string) error {
	if line > 0 {
		return fmt.Errorf("%w: %s line %d: %s", ErrParse, format, line, reason)
	}
	return fmt.Errorf("%w: %s: %s", ErrParse, format, reason)
}

func dataLoadError(name string, format Format, cause error) error {
	code := textCodeDataLoad
	if errors.Is(cause, ErrParse) {
		code = textCodeParse
	}
	return goerrors.Wrap(fmt.Errorf("%w: %s: %w", ErrDataLoad, name, cause), goerrors.CategoryOperation, "table data could not be loaded").
		WithTextCode(code).
		WithMetadata(map[string]any{"file": name, "type": string(format)})
}
