package tables

import (
	"strings"
	"unicode/utf8"
)

// CSVOptions configures the delimited text reader.
type CSVOptions struct {
	Delimiter string
	Enclosure string
	// Escape protects the following enclosure character inside an enclosed
	// field. It is kept in the cell text; see StripEscapeArtifacts. An empty
	// value disables escape handling.
	Escape string
}

// DefaultCSVOptions returns the comma, double quote, backslash defaults.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Delimiter: ",", Enclosure: `"`, Escape: `\`}
}

type csvControls struct {
	delimiter rune
	enclosure rune
	escape    rune
	hasEscape bool
}

func (o CSVOptions) controls() (csvControls, error) {
	var c csvControls
	var ok bool
	if c.delimiter, ok = singleRune(o.Delimiter); !ok {
		return c, parseError(FormatCSV, 0, "delimiter must be a single character, got "+quote(o.Delimiter))
	}
	if c.enclosure, ok = singleRune(o.Enclosure); !ok {
		return c, parseError(FormatCSV, 0, "enclosure must be a single character, got "+quote(o.Enclosure))
	}
	if c.delimiter == c.enclosure {
		return c, parseError(FormatCSV, 0, "delimiter and enclosure must differ")
	}
	if o.Escape != "" {
		if c.escape, ok = singleRune(o.Escape); !ok {
			return c, parseError(FormatCSV, 0, "escape must be a single character, got "+quote(o.Escape))
		}
		if c.escape == c.delimiter {
			return c, parseError(FormatCSV, 0, "delimiter and escape must differ")
		}
		c.hasEscape = c.escape != c.enclosure
	}
	if c.delimiter == '\n' || c.delimiter == '\r' || c.enclosure == '\n' || c.enclosure == '\r' {
		return c, parseError(FormatCSV, 0, "line breaks cannot be used as control characters")
	}
	return c, nil
}

func singleRune(s string) (rune, bool) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, r != utf8.RuneError
}

func quote(s string) string {
	return `"` + s + `"`
}

// parseCSV reads delimited text into rows of string cells. An enclosed field
// may span lines; a doubled enclosure inside it is a literal enclosure. Text
// after a closing enclosure is appended to the field up to the next
// delimiter. Blank lines are skipped.
func parseCSV(data []byte, opts CSVOptions) ([][]string, error) {
	controls, err := opts.controls()
	if err != nil {
		return nil, err
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	r := &csvReader{src: []rune(text), line: 1, csvControls: controls}
	return r.readAll()
}

type csvReader struct {
	csvControls
	src  []rune
	pos  int
	line int
}

func (r *csvReader) readAll() ([][]string, error) {
	var rows [][]string
	for r.pos < len(r.src) {
		if r.atNewline() {
			r.skipNewline()
			continue
		}
		row, err := r.readRow()
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (r *csvReader) readRow() ([]string, error) {
	var row []string
	for {
		field, err := r.readField()
		if err != nil {
			return nil, err
		}
		row = append(row, field)

		if r.pos >= len(r.src) {
			return row, nil
		}
		if r.src[r.pos] == r.delimiter {
			r.pos++
			if r.pos >= len(r.src) {
				return append(row, ""), nil
			}
			continue
		}
		r.skipNewline()
		return row, nil
	}
}

func (r *csvReader) readField() (string, error) {
	if r.pos < len(r.src) && r.src[r.pos] == r.enclosure {
		return r.readEnclosed()
	}
	var b strings.Builder
	for r.pos < len(r.src) && r.src[r.pos] != r.delimiter && !r.atNewline() {
		b.WriteRune(r.src[r.pos])
		r.pos++
	}
	return b.String(), nil
}

func (r *csvReader) readEnclosed() (string, error) {
	startLine := r.line
	r.pos++

	var b strings.Builder
	for {
		if r.pos >= len(r.src) {
			return "", parseError(FormatCSV, startLine, "unterminated enclosure")
		}
		c := r.src[r.pos]
		switch {
		case r.hasEscape && c == r.escape && r.pos+1 < len(r.src):
			b.WriteRune(c)
			b.WriteRune(r.src[r.pos+1])
			if r.src[r.pos+1] == '\n' {
				r.line++
			}
			r.pos += 2
		case c == r.enclosure:
			if r.pos+1 < len(r.src) && r.src[r.pos+1] == r.enclosure {
				b.WriteRune(c)
				r.pos += 2
				continue
			}
			r.pos++
			for r.pos < len(r.src) && r.src[r.pos] != r.delimiter && !r.atNewline() {
				b.WriteRune(r.src[r.pos])
				r.pos++
			}
			return b.String(), nil
		default:
			if c == '\n' {
				r.line++
			}
			b.WriteRune(c)
			r.pos++
		}
	}
}

func (r *csvReader) atNewline() bool {
	c := r.src[r.pos]
	return c == '\n' || c == '\r'
}

func (r *csvReader) skipNewline() {
	if r.pos < len(r.src) && r.src[r.pos] == '\r' {
		r.pos++
	}
	if r.pos < len(r.src) && r.src[r.pos] == '\n' {
		r.pos++
	}
	r.line++
}
