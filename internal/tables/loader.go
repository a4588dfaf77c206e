package tables

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Loader reads data files into tables.
type Loader struct {
	files FileSystem
}

// NewLoader constructs a loader reading through files.
func NewLoader(files FileSystem) *Loader {
	if files == nil {
		files = OSFileSystem{}
	}
	return &Loader{files: files}
}

// Load reads the whole file once and parses it according to format. name is
// the reference the user supplied and is used in errors. CSV cells have
// escape artifacts removed.
func (l *Loader) Load(ctx context.Context, path ResolvedPath, name string, format Format, csvOpts CSVOptions) (Table, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return Table{}, dataLoadError(name, format, err)
		}
	}

	data, err := l.files.ReadFile(path.String())
	if err != nil {
		return Table{}, dataLoadError(name, format, err)
	}

	table, err := decode(data, format, csvOpts)
	if err != nil {
		return Table{}, dataLoadError(name, format, err)
	}
	return table, nil
}

func decode(data []byte, format Format, csvOpts CSVOptions) (Table, error) {
	switch format {
	case FormatCSV:
		rows, err := parseCSV(data, csvOpts)
		if err != nil {
			return Table{}, err
		}
		table := TableFromStrings(rows)
		if csvOpts.Escape != csvOpts.Enclosure {
			CorrectRows(table.Rows, csvOpts.Escape)
		}
		return table, nil
	case FormatJSON:
		doc, err := decodeJSON(data)
		if err != nil {
			return Table{}, err
		}
		return TableFromValue(doc), nil
	case FormatYAML:
		doc, err := decodeYAML(data)
		if err != nil {
			return Table{}, err
		}
		return TableFromValue(doc), nil
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func decodeYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, parseError(FormatYAML, 0, err.Error())
	}
	return yamlValue(&root, 0)
}

const maxYAMLDepth = 64

func yamlValue(node *yaml.Node, depth int) (any, error) {
	if depth > maxYAMLDepth {
		return nil, parseError(FormatYAML, node.Line, "document nests too deeply")
	}
	switch node.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return yamlValue(node.Content[0], depth+1)
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, child := range node.Content {
			value, err := yamlValue(child, depth+1)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		return items, nil
	case yaml.MappingNode:
		obj := &Object{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := yamlValue(node.Content[i+1], depth+1)
			if err != nil {
				return nil, err
			}
			obj.Set(node.Content[i].Value, value)
		}
		return obj, nil
	case yaml.AliasNode:
		if node.Alias == nil {
			return nil, nil
		}
		return yamlValue(node.Alias, depth+1)
	default:
		if node.Tag == "!!null" {
			return nil, nil
		}
		return node.Value, nil
	}
}

func decodeJSON(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, parseError(FormatJSON, 0, "empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := jsonValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, parseError(FormatJSON, 0, "unexpected end of input")
		}
		return nil, parseError(FormatJSON, 0, err.Error())
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, parseError(FormatJSON, 0, "unexpected data after top-level value")
	}
	return value, nil
}

func jsonValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '[':
		items := []any{}
		for dec.More() {
			value, err := jsonValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	case '{':
		obj := &Object{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
			}
			value, err := jsonValue(dec)
			if err != nil {
				return nil, err
			}
			obj.Set(key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected delimiter %q", delim)
	}
}
