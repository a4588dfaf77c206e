package tables

import (
	"errors"
	"fmt"
	"html"
	"strings"
)

// MessageRef identifies what a failed import was working on.
type MessageRef struct {
	File   string
	Type   string
	Source string
}

// Message converts an import error into the inline text substituted for the
// marker or tag. HTML mode wraps it in a paragraph and escapes the file name.
func Message(err error, ref MessageRef, mode Mode) string {
	if err == nil {
		return ""
	}
	text := messageText(err, ref, mode)
	if mode == ModeMarkdown {
		return "**Table Importer:** " + text + "\n"
	}
	return "<p>Table Importer: " + text + "</p>"
}

func messageText(err error, ref MessageRef, mode Mode) string {
	file := ref.File
	source := ref.Source
	if mode != ModeMarkdown {
		file = html.EscapeString(file)
		source = html.EscapeString(source)
	}

	switch {
	case errors.Is(err, ErrMalformedMarker):
		if strings.TrimSpace(ref.File) != "" {
			return fmt.Sprintf("Could not resolve file name '%s'.", file)
		}
		if mode == ModeMarkdown {
			return fmt.Sprintf("Malformed marker (`%s`).", source)
		}
		return fmt.Sprintf("Malformed shortcode (<tt>%s</tt>).", source)
	case errors.Is(err, ErrFileNotFound):
		return fmt.Sprintf("Could not find the requested data file '%s'.", file)
	case errors.Is(err, ErrUnknownFormat):
		return fmt.Sprintf("Could not determine the type of the requested data file '%s'. This plugin only supports YAML, JSON, and CSV.", file)
	case errors.Is(err, ErrDataLoad):
		kind := ref.Type
		if mode != ModeMarkdown {
			kind = html.EscapeString(kind)
		}
		return fmt.Sprintf("Something went wrong loading '%s' data from the requested file '%s'.", kind, file)
	default:
		return fmt.Sprintf("Could not import the requested data file '%s'.", file)
	}
}
