package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-table-importer/pkg/interfaces"
)

// PlaceholderFormat is the marker Extract leaves in place of each tag.
const PlaceholderFormat = "<!-- shortcode:%d -->"

// BracketParser parses bracket tags such as [ti file=data.csv], [ti data.csv],
// [ti=data.csv/] and paired [name]inner[/name] forms. Only names accepted by
// the known func are treated as tags; other bracketed text is left alone.
type BracketParser struct {
	known func(name string) bool
}

// NewBracketParser creates a parser recognising the names accepted by known.
// A nil func accepts every well formed name.
func NewBracketParser(known func(name string) bool) *BracketParser {
	if known == nil {
		known = func(string) bool { return true }
	}
	return &BracketParser{known: known}
}

// Parse returns the list of parsed shortcodes in the content.
func (p *BracketParser) Parse(content string) ([]interfaces.ParsedShortcode, error) {
	_, shortcodes, err := p.Extract(content)
	return shortcodes, err
}

// Extract replaces tags with placeholders and returns both the transformed
// content and the parsed tags in document order. An opening bracket that
// never closes is kept as text.
func (p *BracketParser) Extract(content string) (string, []interfaces.ParsedShortcode, error) {
	var (
		out        strings.Builder
		shortcodes []interfaces.ParsedShortcode
		position   int
	)

	for position < len(content) {
		open := strings.IndexByte(content[position:], '[')
		if open < 0 {
			out.WriteString(content[position:])
			break
		}
		start := position + open
		out.WriteString(content[position:start])

		tag, ok := p.scanTag(content, start)
		if !ok {
			out.WriteByte('[')
			position = start + 1
			continue
		}

		end := tag.end
		if !tag.selfClosing {
			if innerEnd, closeEnd, found := findClose(content, tag.name, end); found {
				tag.parsed.Inner = content[end:innerEnd]
				end = closeEnd
			}
		}

		fmt.Fprintf(&out, PlaceholderFormat, len(shortcodes))
		shortcodes = append(shortcodes, tag.parsed)
		position = end
	}

	return out.String(), shortcodes, nil
}

type scannedTag struct {
	name        string
	parsed      interfaces.ParsedShortcode
	end         int
	selfClosing bool
}

// scanTag reads the opening tag starting at content[start] == '['.
func (p *BracketParser) scanTag(content string, start int) (scannedTag, bool) {
	i := start + 1
	for i < len(content) && isNameByte(content[i]) {
		i++
	}
	name := content[start+1 : i]
	if name == "" || i >= len(content) || !p.known(name) {
		return scannedTag{}, false
	}
	switch c := content[i]; {
	case c == ']', c == '/', c == '=', isSpace(c):
	default:
		return scannedTag{}, false
	}

	closeAt := findTagEnd(content, i)
	if closeAt < 0 {
		return scannedTag{}, false
	}

	body := strings.TrimSpace(content[i:closeAt])
	selfClosing := false
	if strings.HasSuffix(body, "/") {
		selfClosing = true
		body = strings.TrimSpace(strings.TrimSuffix(body, "/"))
	}

	params, args := parseAttributes(body)
	return scannedTag{
		name: name,
		parsed: interfaces.ParsedShortcode{
			Name:   name,
			Params: params,
			Args:   args,
			Source: content[start : closeAt+1],
		},
		end:         closeAt + 1,
		selfClosing: selfClosing,
	}, true
}

// findTagEnd returns the index of the ']' closing the tag, skipping quoted
// values, or -1.
func findTagEnd(content string, from int) int {
	var quote byte
	for i := from; i < len(content); i++ {
		c := content[i]
		switch {
		case quote != 0:
			if isEscape(content, i) {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			return -1
		case c == ']':
			return i
		}
	}
	return -1
}

// findClose locates [/name] after from, provided no other opening tag of the
// same name comes first. It returns where the inner content ends and where
// the closing tag ends.
func findClose(content, name string, from int) (int, int, bool) {
	quoted := regexp.QuoteMeta(name)
	closeLoc := regexp.MustCompile(`(?i)\[/\s*` + quoted + `\s*\]`).FindStringIndex(content[from:])
	if closeLoc == nil {
		return 0, 0, false
	}
	openLoc := regexp.MustCompile(`(?i)\[` + quoted + `[\s=/\]]`).FindStringIndex(content[from:])
	if openLoc != nil && openLoc[0] < closeLoc[0] {
		return 0, 0, false
	}
	return from + closeLoc[0], from + closeLoc[1], true
}

// parseAttributes splits the tag body into named parameters and positional
// arguments. A leading "=value" is the first argument; bare tokens are
// appended to the arguments in order.
func parseAttributes(body string) (map[string]any, []string) {
	params := map[string]any{}
	var args []string

	s := body
	if strings.HasPrefix(s, "=") {
		var value string
		value, s = readValue(strings.TrimLeft(s[1:], " \t"))
		if value != "" {
			args = append(args, value)
		}
	}

	for {
		s = strings.TrimLeft(s, " \t\r\n")
		if s == "" {
			break
		}
		if s[0] == '"' || s[0] == '\'' {
			var value string
			value, s = readValue(s)
			args = append(args, value)
			continue
		}

		n := 0
		for n < len(s) && !isSpace(s[n]) && s[n] != '=' {
			n++
		}
		key := s[:n]
		s = s[n:]

		rest := strings.TrimLeft(s, " \t")
		if strings.HasPrefix(rest, "=") {
			var value string
			value, s = readValue(strings.TrimLeft(rest[1:], " \t"))
			params[key] = value
			continue
		}
		args = append(args, key)
	}

	return params, args
}

// readValue reads a quoted or bare value and returns it with the remainder.
// Inside quotes a backslash escapes a quote or another backslash; any other
// backslash is kept as written.
func readValue(s string) (string, string) {
	if s == "" {
		return "", ""
	}
	if q := s[0]; q == '"' || q == '\'' {
		var value strings.Builder
		for i := 1; i < len(s); i++ {
			switch {
			case isEscape(s, i):
				i++
				value.WriteByte(s[i])
			case s[i] == q:
				return value.String(), s[i+1:]
			default:
				value.WriteByte(s[i])
			}
		}
		return value.String(), ""
	}
	n := 0
	for n < len(s) && !isSpace(s[n]) {
		n++
	}
	return s[:n], s[n:]
}

// isEscape reports whether s[i] is a backslash escaping the next byte.
func isEscape(s string, i int) bool {
	if s[i] != '\\' || i+1 >= len(s) {
		return false
	}
	switch s[i+1] {
	case '"', '\'', '\\':
		return true
	}
	return false
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

var _ interfaces.ShortcodeParser = (*BracketParser)(nil)
