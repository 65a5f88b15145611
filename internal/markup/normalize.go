package markup

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize collapses every run of whitespace into a single space.
func Normalize(s string) string {
	return normalize(s).text
}

// NormalizeTrim normalizes s and removes leading and trailing spaces.
func NormalizeTrim(s string) string {
	return strings.TrimSpace(Normalize(s))
}

// normalized is a whitespace-collapsed view of a plain string. For each byte
// of text, starts and ends hold the plain-text range it stands for: a
// collapsed space covers the whole whitespace run.
type normalized struct {
	text   string
	starts []int
	ends   []int
}

func normalize(plain string) normalized {
	var b strings.Builder
	b.Grow(len(plain))
	n := normalized{
		starts: make([]int, 0, len(plain)),
		ends:   make([]int, 0, len(plain)),
	}
	i := 0
	for i < len(plain) {
		r, size := utf8.DecodeRuneInString(plain[i:])
		if unicode.IsSpace(r) {
			j := i + size
			for j < len(plain) {
				r2, s2 := utf8.DecodeRuneInString(plain[j:])
				if !unicode.IsSpace(r2) {
					break
				}
				j += s2
			}
			b.WriteByte(' ')
			n.starts = append(n.starts, i)
			n.ends = append(n.ends, j)
			i = j
			continue
		}
		b.WriteString(plain[i : i+size])
		for range size {
			n.starts = append(n.starts, i)
			n.ends = append(n.ends, i+size)
		}
		i += size
	}
	n.text = b.String()
	return n
}

// plainRange maps a normalized byte range back to the plain-text range it
// was built from.
func (n normalized) plainRange(start, end int) (int, int) {
	if start >= end {
		if start < len(n.starts) {
			return n.starts[start], n.starts[start]
		}
		if len(n.ends) == 0 {
			return 0, 0
		}
		last := n.ends[len(n.ends)-1]
		return last, last
	}
	return n.starts[start], n.ends[end-1]
}
