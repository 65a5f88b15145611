// Package markup maps between the tag-annotated editor document and its
// plain-text projection.
package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Range is a half-open byte range [Start, End) into a markup string.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (r Range) Len() int { return r.End - r.Start }

// Contains reports whether o lies entirely inside r.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one byte. An empty range
// overlaps a range that strictly surrounds it.
func (r Range) Overlaps(o Range) bool {
	if r.Len() == 0 {
		return o.Start < r.Start && r.Start < o.End
	}
	if o.Len() == 0 {
		return r.Start < o.Start && o.Start < r.End
	}
	return r.Start < o.End && o.Start < r.End
}

// Projection is the plain text of a markup string together with, for every
// byte of Text, the markup range of the text unit that produced it. A decoded
// entity is one unit, so all of its bytes share the same markup range.
type Projection struct {
	Text   string
	starts []int
	ends   []int
	size   int
}

var entityRe = regexp.MustCompile(`^&(?:#[0-9]+|#[xX][0-9a-fA-F]+|[a-zA-Z][a-zA-Z0-9]*);`)

// Project strips tags and decodes entities. A '<' with no closing '>' hides
// the rest of the document, the same way a browser treats an unterminated tag.
// An '&' that does not begin a known entity is literal text.
func Project(doc string) Projection {
	var b strings.Builder
	b.Grow(len(doc))
	p := Projection{
		starts: make([]int, 0, len(doc)),
		ends:   make([]int, 0, len(doc)),
		size:   len(doc),
	}
	emit := func(s string, start, end int) {
		b.WriteString(s)
		for range len(s) {
			p.starts = append(p.starts, start)
			p.ends = append(p.ends, end)
		}
	}

	i := 0
	for i < len(doc) {
		switch doc[i] {
		case '<':
			j := strings.IndexByte(doc[i:], '>')
			if j < 0 {
				i = len(doc)
				continue
			}
			i += j + 1
		case '&':
			if m := entityRe.FindStringIndex(doc[i:]); m != nil {
				ent := doc[i : i+m[1]]
				if dec := html.UnescapeString(ent); dec != ent {
					emit(dec, i, i+m[1])
					i += m[1]
					continue
				}
			}
			emit("&", i, i+1)
			i++
		default:
			emit(doc[i:i+1], i, i+1)
			i++
		}
	}
	p.Text = b.String()
	return p
}

// MarkupRange converts a byte range of p.Text into the tight markup range
// covering exactly those text units. An empty text range maps to the markup
// position of the unit that follows it.
func (p Projection) MarkupRange(start, end int) Range {
	if start < 0 {
		start = 0
	}
	if end > len(p.Text) {
		end = len(p.Text)
	}
	if start >= end {
		pos := p.size
		if start < len(p.starts) {
			pos = p.starts[start]
		}
		return Range{Start: pos, End: pos}
	}
	return Range{Start: p.starts[start], End: p.ends[end-1]}
}

// UnitAt returns the markup range of the text unit holding byte i of p.Text.
func (p Projection) UnitAt(i int) Range {
	return Range{Start: p.starts[i], End: p.ends[i]}
}

// PlainText returns the plain-text projection of doc.
func PlainText(doc string) string {
	return Project(doc).Text
}

// Extract returns the plain text of doc[r]. Out-of-range bounds are clamped.
func Extract(doc string, r Range) string {
	if r.Start < 0 {
		r.Start = 0
	}
	if r.End > len(doc) {
		r.End = len(doc)
	}
	if r.Start >= r.End {
		return ""
	}
	return Project(doc[r.Start:r.End]).Text
}

// StripText drops the text of s and keeps its tags, so deleting a range
// never leaves an element half-open.
func StripText(s string) string {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '<' {
			i++
			continue
		}
		j := strings.IndexByte(s[i:], '>')
		if j < 0 {
			break
		}
		b.WriteString(s[i : i+j+1])
		i += j + 1
	}
	return b.String()
}

// Escape renders plain text as markup.
func Escape(text string) string {
	return html.EscapeString(text)
}
