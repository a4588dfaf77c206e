// Package markdown loads page documents, extracts their front matter and
// renders Markdown to HTML with goldmark. The pipeline package runs the table
// importer between front matter extraction and rendering.
package markdown
