package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func peopleTable() Table {
	return TableFromStrings([][]string{
		{"name", "age", "city"},
		{"Ada", "36", "London"},
		{"Linus", "28", "Helsinki"},
	})
}

func TestRenderHTMLWithHeader(t *testing.T) {
	got := RenderHTML(peopleTable(), Options{Header: true, ID: "people", Class: "striped", Caption: "Team"})
	want := `<table id="people" class="striped"><caption>Team</caption>` +
		`<thead><tr><th>name</th><th>age</th><th>city</th></tr></thead>` +
		`<tbody><tr><td>Ada</td><td>36</td><td>London</td></tr>` +
		`<tr><td>Linus</td><td>28</td><td>Helsinki</td></tr></tbody></table>`
	assert.Equal(t, want, got)
}

func TestRenderHTMLRowCounts(t *testing.T) {
	table := peopleTable()

	withHeader := RenderHTML(table, Options{Header: true})
	assert.Equal(t, len(table.Rows[0]), strings.Count(withHeader, "<th>"))
	body := withHeader[strings.Index(withHeader, "<tbody>"):]
	assert.Equal(t, table.Len()-1, strings.Count(body, "<tr>"))

	withoutHeader := RenderHTML(table, Options{Header: false})
	assert.Contains(t, withoutHeader, "<thead><tr>"+strings.Repeat("<th></th>", len(table.Rows[0]))+"</tr></thead>")
	body = withoutHeader[strings.Index(withoutHeader, "<tbody>"):]
	assert.Equal(t, table.Len(), strings.Count(body, "<tr>"))
	assert.Contains(t, withoutHeader, "<td>name</td>")
}

func TestRenderHTMLEscaping(t *testing.T) {
	table := TableFromStrings([][]string{{"h"}, {"<script>alert(1)</script>"}})

	escaped := RenderHTML(table, Options{Header: true, Caption: "<b>", ID: `"x"`})
	assert.Contains(t, escaped, "&lt;script&gt;alert(1)&lt;/script&gt;")
	assert.NotContains(t, escaped, "<script>")
	assert.Contains(t, escaped, "<caption>&lt;b&gt;</caption>")
	assert.Contains(t, escaped, `id="&#34;x&#34;"`)

	raw := RenderHTML(table, Options{Header: true, Raw: true, Caption: "<b>"})
	assert.Contains(t, raw, "<td><script>alert(1)</script></td>")
	assert.Contains(t, raw, "<caption>&lt;b&gt;</caption>")
}

func TestRenderHTMLEmptyTable(t *testing.T) {
	assert.Equal(t, `<table class="c"><tbody></tbody></table>`, RenderHTML(Table{}, Options{Header: true, Class: "c"}))
}

func TestRenderHTMLRaggedRows(t *testing.T) {
	table := TableFromStrings([][]string{{"a", "b"}, {"1"}, {"1", "2", "3"}})
	got := RenderHTML(table, Options{Header: true})
	assert.Contains(t, got, "<tr><td>1</td></tr>")
	assert.Contains(t, got, "<tr><td>1</td><td>2</td><td>3</td></tr>")
}

func TestRenderMarkdownWithHeader(t *testing.T) {
	want := "| name | age | city |\n" +
		"| --- | --- | --- |\n" +
		"| Ada | 36 | London |\n" +
		"| Linus | 28 | Helsinki |\n"
	assert.Equal(t, want, RenderMarkdown(peopleTable(), Options{Header: true}))
}

func TestRenderMarkdownWithoutHeader(t *testing.T) {
	got := RenderMarkdown(peopleTable(), Options{Header: false})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")

	assert.Equal(t, "|  |  |  |", lines[0])
	assert.Equal(t, "| --- | --- | --- |", lines[1])
	assert.Len(t, lines[2:], 3)
	assert.Equal(t, "| name | age | city |", lines[2])
}

func TestRenderMarkdownEscaping(t *testing.T) {
	table := TableFromStrings([][]string{{"h"}, {"a|b\nc <i>"}})

	got := RenderMarkdown(table, Options{Header: true})
	assert.Contains(t, got, `| a\|b c &lt;i&gt; |`)

	raw := RenderMarkdown(table, Options{Header: true, Raw: true})
	assert.Contains(t, raw, "| a|b\nc <i> |")
}

func TestRenderMarkdownPad(t *testing.T) {
	want := "| name  | age | city     |\n" +
		"| ----- | --- | -------- |\n" +
		"| Ada   | 36  | London   |\n" +
		"| Linus | 28  | Helsinki |\n"
	assert.Equal(t, want, RenderMarkdown(peopleTable(), Options{Header: true, Pad: true}))
}

func TestRenderMarkdownPadUsesDisplayWidth(t *testing.T) {
	table := TableFromStrings([][]string{{"k", "v"}, {"日本", "x"}})
	got := RenderMarkdown(table, Options{Header: true, Pad: true})
	assert.Contains(t, got, "| k    | v   |\n")
	assert.Contains(t, got, "| 日本 | x   |\n")
}

func TestRenderMarkdownEmptyTable(t *testing.T) {
	assert.Equal(t, "|  |\n| --- |\n", RenderMarkdown(Table{}, Options{Header: true}))
	assert.Equal(t, "|  |\n| --- |\n", RenderMarkdown(Table{}, Options{Header: false, Pad: true}))
}

func TestRenderDispatchesOnMode(t *testing.T) {
	table := peopleTable()
	assert.True(t, strings.HasPrefix(Render(table, Options{Header: true}, ""), "<table>"))
	assert.True(t, strings.HasPrefix(Render(table, Options{Header: true}, ModeMarkdown), "| name"))
}
