package shortcode

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// Sanitizer is a conservative implementation that rejects inline script tags
// and event handler attributes.
type Sanitizer struct {
	blockedTags []string
}

// NewSanitizer returns a sanitizer rejecting script, iframe and object tags.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		blockedTags: []string{"<script", "<iframe", "<object"},
	}
}

// Sanitize rejects obvious script injections while preserving safe markup.
func (s *Sanitizer) Sanitize(html string) (string, error) {
	lower := strings.ToLower(html)
	for _, tag := range s.blockedTags {
		if strings.Contains(lower, tag) {
			return "", fmt.Errorf("%w: %s tags are not allowed", ErrUnsafeOutput, strings.TrimPrefix(tag, "<"))
		}
	}
	return html, nil
}

// ValidateAttributes rejects inline event handlers like onload/onerror.
func (s *Sanitizer) ValidateAttributes(attrs map[string]any) error {
	for key := range attrs {
		lower := strings.ToLower(key)
		if strings.HasPrefix(lower, "on") {
			return fmt.Errorf("shortcode: attribute %q not permitted", key)
		}
	}
	return nil
}

var _ interfaces.ShortcodeSanitizer = (*Sanitizer)(nil)
