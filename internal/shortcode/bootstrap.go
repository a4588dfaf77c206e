package shortcode

import (
	"fmt"

	"github.com/goliatone/go-table-importer/internal/tables"
	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// RegisterBuiltIns registers the table tag under name on the provided
// registry. An empty name registers it as DefaultTagName.
func RegisterBuiltIns(registry interfaces.ShortcodeRegistry, importer *tables.Importer, name string) error {
	if registry == nil {
		return fmt.Errorf("shortcode: registry is required")
	}
	if importer == nil {
		return fmt.Errorf("shortcode: importer is required")
	}
	return registry.Register(TableDefinition(name, importer))
}

// NewTableService builds a registry holding the table tag and a service over
// it.
func NewTableService(importer *tables.Importer, name string, opts ...ServiceOption) (*Service, error) {
	validator := NewValidator()
	registry := NewRegistry(validator)
	if err := RegisterBuiltIns(registry, importer, name); err != nil {
		return nil, err
	}
	renderer := NewRenderer(registry, validator)
	return NewService(registry, renderer, opts...), nil
}
