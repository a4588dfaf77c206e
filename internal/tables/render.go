package tables

import (
	"html"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Mode selects the output markup.
type Mode string

const (
	ModeHTML     Mode = "html"
	ModeMarkdown Mode = "markdown"
)

// Render converts the table to markup in the requested mode. HTML is the
// default for an empty mode.
func Render(table Table, opts Options, mode Mode) string {
	if mode == ModeMarkdown {
		return RenderMarkdown(table, opts)
	}
	return RenderHTML(table, opts)
}

// RenderHTML emits a table element. With Header set the first row becomes the
// thead and is not repeated in the body; without it the thead holds blank
// cells sized to the first row. Cell text is escaped unless Raw is set; id,
// class and caption are always escaped.
func RenderHTML(table Table, opts Options) string {
	var b strings.Builder
	b.WriteString("<table")
	if opts.ID != "" {
		b.WriteString(` id="`)
		b.WriteString(html.EscapeString(opts.ID))
		b.WriteString(`"`)
	}
	if opts.Class != "" {
		b.WriteString(` class="`)
		b.WriteString(html.EscapeString(opts.Class))
		b.WriteString(`"`)
	}
	b.WriteString(">")

	if opts.Caption != "" {
		b.WriteString("<caption>")
		b.WriteString(html.EscapeString(opts.Caption))
		b.WriteString("</caption>")
	}

	rows := table.Rows
	if len(rows) > 0 {
		b.WriteString("<thead><tr>")
		if opts.Header {
			writeHTMLCells(&b, "th", rows[0], opts.Raw)
			rows = rows[1:]
		} else {
			b.WriteString(strings.Repeat("<th></th>", len(rows[0])))
		}
		b.WriteString("</tr></thead>")
	}

	b.WriteString("<tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		writeHTMLCells(&b, "td", row, opts.Raw)
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

func writeHTMLCells(b *strings.Builder, tag string, row []any, raw bool) {
	for _, cell := range row {
		text := CellText(cell)
		if !raw {
			text = html.EscapeString(text)
		}
		b.WriteString("<" + tag + ">")
		b.WriteString(text)
		b.WriteString("</" + tag + ">")
	}
}

// RenderMarkdown emits a pipe table. The header line comes from the first row,
// or is a line of blank cells sized to the first row when Header is false, in
// which case every row is kept in the body. An empty table renders a single
// blank column so the marker still leaves a table behind.
func RenderMarkdown(table Table, opts Options) string {
	if len(table.Rows) == 0 {
		return emptyMarkdownTable
	}

	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = markdownCell(CellText(cell), opts.Raw)
		}
		rows[i] = cells
	}

	var header []string
	body := rows
	if opts.Header {
		header = rows[0]
		body = rows[1:]
	} else {
		header = make([]string, len(rows[0]))
	}

	var widths []int
	if opts.Pad {
		widths = columnWidths(header, body)
	}

	var b strings.Builder
	writeMarkdownRow(&b, header, widths)
	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
		if i < len(widths) && widths[i] > 3 {
			sep[i] = strings.Repeat("-", widths[i])
		}
	}
	writeMarkdownRow(&b, sep, nil)
	for _, row := range body {
		writeMarkdownRow(&b, row, widths)
	}
	return b.String()
}

const emptyMarkdownTable = "|  |\n| --- |\n"

func writeMarkdownRow(b *strings.Builder, cells []string, widths []int) {
	for i, cell := range cells {
		if i < len(widths) {
			cell = runewidth.FillRight(cell, widths[i])
		}
		b.WriteString("| ")
		b.WriteString(cell)
		b.WriteString(" ")
	}
	b.WriteString("|\n")
}

func markdownCell(text string, raw bool) string {
	if raw {
		return text
	}
	text = html.EscapeString(text)
	text = strings.ReplaceAll(text, "|", `\|`)
	text = strings.ReplaceAll(text, "\r\n", " ")
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(text)
}

// columnWidths returns the display width of each column, at least three so
// the separator stays a valid delimiter row.
func columnWidths(header []string, rows [][]string) []int {
	n := len(header)
	for _, row := range rows {
		if len(row) > n {
			n = len(row)
		}
	}
	widths := make([]int, n)
	measure := func(cells []string) {
		for i, cell := range cells {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}
	return widths
}
