package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-table-importer/internal/logging"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// DefaultCommandTimeout bounds a single import or page render. Large data
// files are read whole, so the limit is generous.
const DefaultCommandTimeout = 30 * time.Second

// EnsureContext returns ctx, or context.Background when ctx is nil.
func EnsureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

// WithCommandTimeout derives a deadline from ctx. A non-positive timeout
// leaves ctx unbounded.
func WithCommandTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureLogger returns logger, or a no-op logger when nil.
func EnsureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
