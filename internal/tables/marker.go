package tables

import (
	"regexp"
	"strings"
)

var markerPattern = regexp.MustCompile(`(?i)\[TableImporter>([^|\]]*)(?:\|([^\]]*))?\]`)

// Marker is one content filter marker found in a document. Start and End are
// byte offsets of Text within the scanned document.
type Marker struct {
	Text     string
	Filename string
	Options  OptionValues
	Start    int
	End      int
}

// Values returns the marker options with the filename folded in under "file".
func (m Marker) Values() OptionValues {
	values := make(OptionValues, len(m.Options)+1)
	for key, value := range m.Options {
		values[key] = value
	}
	delete(values, "filename")
	values["file"] = m.Filename
	return values
}

// ScanMarkers returns every marker in doc in order of occurrence.
func ScanMarkers(doc string) []Marker {
	matches := markerPattern.FindAllStringSubmatchIndex(doc, -1)
	if len(matches) == 0 {
		return nil
	}
	markers := make([]Marker, 0, len(matches))
	for _, m := range matches {
		marker := Marker{
			Text:     doc[m[0]:m[1]],
			Filename: strings.TrimSpace(doc[m[2]:m[3]]),
			Start:    m[0],
			End:      m[1],
		}
		if m[4] >= 0 {
			marker.Options = ParseOptionString(doc[m[4]:m[5]])
		} else {
			marker.Options = OptionValues{}
		}
		markers = append(markers, marker)
	}
	return markers
}

// ReplaceMarkers substitutes each marker with the output of fn in a single
// pass. Substituted text is never scanned again. markers must be ordered and
// non-overlapping, as returned by ScanMarkers.
func ReplaceMarkers(doc string, markers []Marker, fn func(Marker) string) string {
	if len(markers) == 0 {
		return doc
	}
	var b strings.Builder
	b.Grow(len(doc))
	last := 0
	for _, marker := range markers {
		if marker.Start < last || marker.End > len(doc) {
			continue
		}
		b.WriteString(doc[last:marker.Start])
		b.WriteString(fn(marker))
		last = marker.End
	}
	b.WriteString(doc[last:])
	return b.String()
}
