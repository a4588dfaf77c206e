package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// WithFields returns logger enriched with fields when it implements
// interfaces.FieldsLogger. Blank keys are dropped; an empty set returns logger
// unchanged.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	fieldsLogger, ok := logger.(interfaces.FieldsLogger)
	if !ok {
		return logger
	}

	cleaned := maps.Clone(fields)
	maps.DeleteFunc(cleaned, func(key string, _ any) bool {
		return strings.TrimSpace(key) == ""
	})
	if len(cleaned) == 0 {
		return logger
	}
	return fieldsLogger.WithFields(cleaned)
}
