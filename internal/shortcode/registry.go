package shortcode

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// DefinitionValidator checks a definition before it is stored.
type DefinitionValidator interface {
	ValidateDefinition(def interfaces.ShortcodeDefinition) error
}

// Registry holds tag definitions keyed by lower-cased name. It is safe for
// concurrent use.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]interfaces.ShortcodeDefinition
	validator   DefinitionValidator
}

var _ interfaces.ShortcodeRegistry = (*Registry)(nil)

// NewRegistry constructs a registry. A nil validator skips schema checks.
func NewRegistry(validator DefinitionValidator) *Registry {
	return &Registry{
		definitions: make(map[string]interfaces.ShortcodeDefinition),
		validator:   validator,
	}
}

// Register stores def. Names must be usable in a bracket tag, so only
// letters, digits, '-' and '_' are accepted.
func (r *Registry) Register(def interfaces.ShortcodeDefinition) error {
	key := normalizeName(def.Name)
	if key == "" {
		return ErrInvalidDefinition
	}
	if strings.ContainsFunc(key, func(c rune) bool { return !isTagNameRune(c) }) {
		return fmt.Errorf("%w: name %q", ErrInvalidDefinition, def.Name)
	}
	if r.validator != nil {
		if err := r.validator.ValidateDefinition(def); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.definitions[key]; taken {
		return ErrDuplicateDefinition
	}
	r.definitions[key] = def
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (interfaces.ShortcodeDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[normalizeName(name)]
	return def, ok
}

// Has reports whether name is registered. The bracket parser uses it to
// leave unrelated bracketed text alone.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// List returns the definitions ordered by name.
func (r *Registry) List() []interfaces.ShortcodeDefinition {
	r.mu.RLock()
	defs := slices.Collect(maps.Values(r.definitions))
	r.mu.RUnlock()

	slices.SortFunc(defs, func(a, b interfaces.ShortcodeDefinition) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return defs
}

// Remove deletes the definition registered under name, if any.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.definitions, normalizeName(name))
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func isTagNameRune(c rune) bool {
	return c == '-' || c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
