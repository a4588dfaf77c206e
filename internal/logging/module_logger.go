package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

const (
	rootModule      = "tableimporter"
	tablesModule    = "tableimporter.tables"
	filterModule    = "tableimporter.filter"
	shortcodeModule = "tableimporter.shortcode"
	markdownModule  = "tableimporter.markdown"
	commandsModule  = "tableimporter.commands"
)

const (
	fieldImportFile = "file"
	fieldImportMode = "mode"
	fieldPagePath   = "page_path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// TablesLogger returns the logger namespace reserved for the import pipeline.
func TablesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, tablesModule)
}

// FilterLogger returns the logger namespace reserved for the content filter.
func FilterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, filterModule)
}

// ShortcodeLogger returns the logger namespace reserved for inline tags.
func ShortcodeLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, shortcodeModule)
}

// MarkdownLogger returns the logger namespace reserved for page rendering.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// WithImportContext enriches the logger with the data file, render mode and
// page path of an import. Empty values are ignored.
func WithImportContext(logger interfaces.Logger, file, mode, pagePath string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(file); trimmed != "" {
		fields[fieldImportFile] = trimmed
	}
	if trimmed := strings.TrimSpace(mode); trimmed != "" {
		fields[fieldImportMode] = trimmed
	}
	if trimmed := strings.TrimSpace(pagePath); trimmed != "" {
		fields[fieldPagePath] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
