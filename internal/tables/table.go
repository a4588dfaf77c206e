package tables

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cast"
)

// Table is an ordered sequence of rows. Cells keep their decoded type and are
// converted to text when rendered. Rows may have different lengths.
type Table struct {
	Rows [][]any
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Object is an insertion ordered mapping decoded from JSON or YAML.
type Object struct {
	Keys   []string
	Values []any
}

// Set appends a key, replacing the value of an existing key in place.
func (o *Object) Set(key string, value any) {
	for i, existing := range o.Keys {
		if existing == key {
			o.Values[i] = value
			return
		}
	}
	o.Keys = append(o.Keys, key)
	o.Values = append(o.Values, value)
}

// TableFromStrings wraps string rows, as produced by the CSV reader.
func TableFromStrings(rows [][]string) Table {
	out := make([][]any, len(rows))
	for i, row := range rows {
		cells := make([]any, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		out[i] = cells
	}
	return Table{Rows: out}
}

// TableFromValue shapes a decoded document into rows. A sequence contributes
// one row per element, a mapping one row per value in insertion order. A row
// that is a mapping contributes its values as cells; a scalar row is a single
// cell. A scalar document is a single one-cell row.
func TableFromValue(doc any) Table {
	var items []any
	switch v := doc.(type) {
	case nil:
		return Table{}
	case []any:
		items = v
	case *Object:
		items = v.Values
	default:
		items = []any{v}
	}

	rows := make([][]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, rowCells(item))
	}
	return Table{Rows: rows}
}

func rowCells(item any) []any {
	switch v := item.(type) {
	case []any:
		return v
	case *Object:
		return v.Values
	default:
		return []any{v}
	}
}

// CellText converts a decoded cell value to its text form. Nested sequences
// and mappings are flattened into a comma separated list of their values.
func CellText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case []any:
		return joinCells(v)
	case *Object:
		return joinCells(v.Values)
	}
	if s, err := cast.ToStringE(value); err == nil {
		return s
	}
	return fmt.Sprint(value)
}

func joinCells(values []any) string {
	parts := make([]string, len(values))
	for i, value := range values {
		parts[i] = CellText(value)
	}
	return strings.Join(parts, ", ")
}
