package importer

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/dgallion1/freewrite/internal/markup"
)

// Elements kept by Sanitize. Everything else is unwrapped, and the skipped
// set is dropped along with its content.
var (
	blockElements = map[string]bool{
		"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"ul": true, "ol": true, "li": true, "blockquote": true, "pre": true,
	}
	inlineElements = map[string]bool{
		"b": true, "strong": true, "i": true, "em": true, "u": true, "s": true, "code": true,
	}
	skippedElements = map[string]bool{
		"script": true, "style": true, "nav": true, "footer": true, "header": true,
		"head": true, "noscript": true, "template": true, "iframe": true,
	}
	// Whitespace-only text is only meaningful inside these.
	textParents = map[string]bool{
		"p": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
		"li": true, "pre": true, "b": true, "strong": true, "i": true, "em": true,
		"u": true, "s": true, "code": true, "span": true, "a": true,
	}
)

// Sanitize reduces an HTML document to the plain formatting the editor
// understands: paragraphs, headings, lists, quotes and basic inline styles,
// with every attribute removed. Blocks are separated by newlines.
func Sanitize(r io.Reader) (string, string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", fmt.Errorf("parse html: %w", err)
	}
	title := findTitle(doc)

	var b strings.Builder
	root := findBody(doc)
	if root == nil {
		root = doc
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		writeNode(&b, c)
	}
	return title, strings.TrimSpace(b.String()), nil
}

func writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" && (n.Parent == nil || !textParents[n.Parent.Data]) {
			return
		}
		b.WriteString(markup.Escape(n.Data))
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
		return
	}

	tag := n.Data
	switch {
	case skippedElements[tag]:
		return
	case tag == "br":
		b.WriteString("<br>\n")
		return
	case blockElements[tag], inlineElements[tag]:
		b.WriteString("<" + tag + ">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
		b.WriteString("</" + tag + ">")
		if blockElements[tag] {
			b.WriteString("\n")
		}
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeNode(b, c)
		}
	}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}

// paragraphs renders blocks of plain text as paragraphs. Single newlines
// inside a block become line breaks.
func paragraphs(blocks []string) string {
	var b strings.Builder
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		lines := strings.Split(block, "\n")
		for i, l := range lines {
			lines[i] = markup.Escape(strings.TrimRight(l, " \t\r"))
		}
		b.WriteString("<p>" + strings.Join(lines, "<br>\n") + "</p>")
	}
	return b.String()
}

// splitBlocks splits text on blank lines.
func splitBlocks(text string) []string {
	var blocks []string
	var cur []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}
