package shortcode

import (
	"sync"
	"time"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// NoOpMetrics returns a metrics recorder that drops every observation.
func NoOpMetrics() interfaces.ShortcodeMetrics {
	return noopMetrics{}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRenderDuration(string, time.Duration) {}

func (noopMetrics) IncrementRenderError(string) {}

// CountingMetrics keeps per-shortcode render and error counts in memory. The
// page command prints them with --stats.
type CountingMetrics struct {
	mu       sync.Mutex
	renders  map[string]int
	errors   map[string]int
	duration map[string]time.Duration
}

// NewCountingMetrics constructs an empty recorder.
func NewCountingMetrics() *CountingMetrics {
	return &CountingMetrics{
		renders:  map[string]int{},
		errors:   map[string]int{},
		duration: map[string]time.Duration{},
	}
}

func (m *CountingMetrics) ObserveRenderDuration(shortcode string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders[shortcode]++
	m.duration[shortcode] += duration
}

func (m *CountingMetrics) IncrementRenderError(shortcode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[shortcode]++
}

// Snapshot returns render count, error count and total render time for shortcode.
func (m *CountingMetrics) Snapshot(shortcode string) (renders, errors int, total time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renders[shortcode], m.errors[shortcode], m.duration[shortcode]
}

var _ interfaces.ShortcodeMetrics = (*CountingMetrics)(nil)
