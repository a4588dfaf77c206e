package tables

import "strings"

// StripEscapeArtifacts removes every occurrence of esc that is not immediately
// followed by another occurrence of esc. Some CSV readers keep the escape
// character in front of the character it protects; a doubled escape is the
// escaped escape character and keeps one occurrence. esc is matched as
// literal text.
func StripEscapeArtifacts(cell, esc string) string {
	if esc == "" || !strings.Contains(cell, esc) {
		return cell
	}

	var b strings.Builder
	b.Grow(len(cell))
	for i := 0; i < len(cell); {
		if strings.HasPrefix(cell[i:], esc) {
			next := i + len(esc)
			if strings.HasPrefix(cell[next:], esc) {
				b.WriteString(esc)
			}
			i = next
			continue
		}
		b.WriteByte(cell[i])
		i++
	}
	return b.String()
}

// CorrectRows applies StripEscapeArtifacts to every string cell in place.
func CorrectRows(rows [][]any, esc string) {
	if esc == "" {
		return
	}
	for _, row := range rows {
		for i, cell := range row {
			if s, ok := cell.(string); ok {
				row[i] = StripEscapeArtifacts(s, esc)
			}
		}
	}
}
