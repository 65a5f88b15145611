package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options selects the matching policy used by Locate.
type Options struct {
	// WholeWord matches the search text verbatim in the plain text, only
	// where it is bounded by non-word characters on both sides.
	WholeWord bool

	// ExactFirst tries a verbatim match first and falls back to a
	// whitespace-normalized match when there is none. Ignored when
	// WholeWord is set.
	ExactFirst bool
}

// Locate finds every occurrence of search in the plain-text projection of
// doc and returns the corresponding markup ranges in document order. Each
// range starts at the first matched text unit and ends after the last one.
// No match yields an empty result.
func Locate(doc, search string, opts Options) []Range {
	if search == "" {
		return nil
	}
	p := Project(doc)

	switch {
	case opts.WholeWord:
		return p.toMarkup(findWholeWord(p.Text, search))
	case opts.ExactFirst:
		if hits := findAll(p.Text, search); len(hits) > 0 {
			return p.toMarkup(hits)
		}
		return p.locateNormalized(search)
	default:
		return p.locateNormalized(search)
	}
}

func (p Projection) locateNormalized(search string) []Range {
	needle := NormalizeTrim(search)
	if needle == "" {
		// A blank search matches each whitespace run.
		needle = " "
	}
	n := normalize(p.Text)
	hits := findAll(n.text, needle)
	for i, h := range hits {
		hits[i][0], hits[i][1] = n.plainRange(h[0], h[1])
	}
	return p.toMarkup(hits)
}

func (p Projection) toMarkup(hits [][2]int) []Range {
	if len(hits) == 0 {
		return nil
	}
	out := make([]Range, 0, len(hits))
	for _, h := range hits {
		out = append(out, p.MarkupRange(h[0], h[1]))
	}
	return out
}

// findAll returns the non-overlapping occurrences of needle in text.
func findAll(text, needle string) [][2]int {
	var hits [][2]int
	pos := 0
	for pos <= len(text)-len(needle) {
		idx := strings.Index(text[pos:], needle)
		if idx < 0 {
			break
		}
		start := pos + idx
		hits = append(hits, [2]int{start, start + len(needle)})
		pos = start + len(needle)
	}
	return hits
}

func findWholeWord(text, word string) [][2]int {
	var hits [][2]int
	pos := 0
	for pos <= len(text)-len(word) {
		idx := strings.Index(text[pos:], word)
		if idx < 0 {
			break
		}
		start := pos + idx
		end := start + len(word)
		if isWholeWord(text, start, end) {
			hits = append(hits, [2]int{start, end})
			pos = end
			continue
		}
		pos = start + 1
	}
	return hits
}

func isWholeWord(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordChar(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordChar(r) {
			return false
		}
	}
	return true
}

func isWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// IsSingleWord reports whether s, once trimmed, contains no whitespace.
func IsSingleWord(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && strings.IndexFunc(s, unicode.IsSpace) < 0
}
