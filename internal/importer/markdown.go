package importer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownImporter renders Markdown with goldmark and keeps the formatting
// the editor supports. The first heading becomes the title.
type MarkdownImporter struct{}

func (p *MarkdownImporter) Import(r io.Reader, filename string) (Draft, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return Draft{}, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var rendered bytes.Buffer
	if err := md.Renderer().Render(&rendered, src, doc); err != nil {
		return Draft{}, fmt.Errorf("render markdown: %w", err)
	}
	_, body, err := Sanitize(&rendered)
	if err != nil {
		return Draft{}, err
	}

	title := titleFrom(filename)
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			if t := string(h.Text(src)); t != "" {
				title = t
			}
			break
		}
	}
	return Draft{Title: title, Markup: body}, nil
}
