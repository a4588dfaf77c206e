package interfaces

import "context"

// Logger is the leveled logging contract used by the importer, the filter
// and the inline tags. It matches github.com/goliatone/go-logger, so a glog
// logger can be passed in directly.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out loggers by module name, e.g. "tableimporter.tables".
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry fields on every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
