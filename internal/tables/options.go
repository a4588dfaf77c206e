package tables

import (
	"strings"

	"github.com/spf13/cast"
)

// OptionValues maps option names to raw string values.
type OptionValues map[string]string

// Get returns the value stored under the first present key.
func (v OptionValues) Get(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := v[key]; ok {
			return value, true
		}
	}
	return "", false
}

// ParseOptionString parses comma separated key=value pairs. Keys are trimmed
// and lower cased, values trimmed. A value wrapped in single or double quotes
// may contain commas. A pair without "=" is stored as a flag with an empty
// value.
func ParseOptionString(raw string) OptionValues {
	values := OptionValues{}
	s := strings.TrimSpace(raw)
	for len(s) > 0 {
		var pair string
		pair, s = nextPair(s)
		key, value, found := strings.Cut(pair, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		if !found {
			values[key] = ""
			continue
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	return values
}

// nextPair splits off the next comma separated pair, honouring quoted values.
func nextPair(s string) (string, string) {
	var quoteChar byte
	afterEquals := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quoteChar != 0:
			if c == quoteChar {
				quoteChar = 0
			}
		case c == '=' && !afterEquals:
			afterEquals = true
			rest := strings.TrimLeft(s[i+1:], " \t")
			if len(rest) > 0 && (rest[0] == '"' || rest[0] == '\'') {
				quoteChar = rest[0]
				i = len(s) - len(rest)
			}
		case c == ',':
			return s[:i], s[i+1:]
		}
	}
	return s, ""
}

func unquote(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return value[1 : len(value)-1]
		}
	}
	return value
}

// OptionValuesFromParams converts tag parameters to option values. Keys are
// lower cased; nil values become empty flags.
func OptionValuesFromParams(params map[string]any) OptionValues {
	values := make(OptionValues, len(params))
	for key, value := range params {
		name := strings.ToLower(strings.TrimSpace(key))
		if name == "" {
			continue
		}
		if value == nil {
			values[name] = ""
			continue
		}
		text, err := cast.ToStringE(value)
		if err != nil {
			text = CellText(value)
		}
		values[name] = text
	}
	return values
}

// Options is the resolved option set for one import.
type Options struct {
	File    string
	Type    string
	CSV     CSVOptions
	Class   string
	Caption string
	ID      string
	Header  bool
	Raw     bool
	Pad     bool
	// Extra holds unrecognised keys. They are kept for forward compatibility
	// and otherwise ignored.
	Extra map[string]string
}

var knownOptions = map[string]struct{}{
	"file": {}, "filename": {}, "type": {}, "delimiter": {}, "enclosure": {},
	"escape": {}, "class": {}, "caption": {}, "header": {}, "headers": {},
	"raw": {}, "id": {}, "pad": {},
}

// IsKnownOption reports whether key is a recognised option name.
func IsKnownOption(key string) bool {
	_, ok := knownOptions[strings.ToLower(key)]
	return ok
}

// ResolveOptions layers values over the CSV defaults. header is true unless
// its value is the literal "false"; raw and pad are false unless present with
// a value other than "false".
func ResolveOptions(values OptionValues, defaults CSVOptions) Options {
	opts := Options{
		CSV:    defaults,
		Header: true,
	}
	opts.File, _ = values.Get("file", "filename")
	opts.File = strings.TrimSpace(opts.File)
	opts.Type, _ = values.Get("type")
	opts.Class, _ = values.Get("class")
	opts.Caption, _ = values.Get("caption")
	opts.ID, _ = values.Get("id")

	if v, ok := values.Get("delimiter"); ok && v != "" {
		opts.CSV.Delimiter = v
	}
	if v, ok := values.Get("enclosure"); ok && v != "" {
		opts.CSV.Enclosure = v
	}
	if v, ok := values.Get("escape"); ok {
		opts.CSV.Escape = v
	}
	if v, ok := values.Get("header", "headers"); ok && isFalse(v) {
		opts.Header = false
	}
	if v, ok := values.Get("raw"); ok && !isFalse(v) {
		opts.Raw = true
	}
	if v, ok := values.Get("pad"); ok && !isFalse(v) {
		opts.Pad = true
	}

	for key, value := range values {
		if _, known := knownOptions[key]; known {
			continue
		}
		if opts.Extra == nil {
			opts.Extra = map[string]string{}
		}
		opts.Extra[key] = value
	}
	return opts
}

func isFalse(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "false")
}
