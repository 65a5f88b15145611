package markup

import (
	"errors"
	"strings"
)

var (
	ErrOutOfRange    = errors.New("range out of bounds")
	ErrTextMismatch  = errors.New("range text does not match original")
	ErrAlreadyStaged = errors.New("edit already staged at range")
	ErrUnbalanced    = errors.New("range splits a markup element")
)

const (
	stagedLookBehind = 200
	stagedLookAhead  = 100
)

// Validate confirms that doc[r] still reads as original once whitespace is
// normalized, and that the same edit has not already been staged there.
func Validate(doc string, r Range, original, replacement string) error {
	if r.Start < 0 || r.End > len(doc) || r.Start > r.End {
		return ErrOutOfRange
	}
	if NormalizeTrim(Extract(doc, r)) != NormalizeTrim(original) {
		return ErrTextMismatch
	}
	if IsAlreadyStaged(doc, r, replacement) {
		return ErrAlreadyStaged
	}
	return nil
}

// IsAlreadyStaged reports whether r sits inside an open staged-edit
// construct whose replacement text directly follows it.
func IsAlreadyStaged(doc string, r Range, replacement string) bool {
	want := strings.TrimSpace(replacement)
	if want == "" {
		return false
	}
	before := doc[max(0, r.Start-stagedLookBehind):r.Start]
	open := max(
		strings.LastIndex(before, `class="`+ContainerClass),
		strings.LastIndex(before, `class="`+StruckClass),
	)
	if open < 0 || open < strings.LastIndex(before, "</span>") {
		return false
	}
	hi := min(len(doc), r.End+stagedLookAhead+len(Escape(want)))
	after := strings.TrimSpace(PlainText(doc[r.End:hi]))
	return strings.HasPrefix(after, want)
}

// Balance widens r over directly adjacent tags until the markup inside it
// opens and closes the same elements. Text is never added to the range. A
// range that cannot be balanced that way is rejected with ErrUnbalanced.
func Balance(doc string, r Range) (Range, error) {
	if r.Start < 0 || r.End > len(doc) || r.Start > r.End {
		return r, ErrOutOfRange
	}
	s, e := r.Start, r.End
	for {
		opens, closes := imbalance(doc[s:e])
		if opens == 0 && closes == 0 {
			return Range{Start: s, End: e}, nil
		}
		grew := false
		if closes > 0 {
			if k := tagEndingAt(doc, s); k >= 0 {
				s, grew = k, true
			}
		}
		if !grew && opens > 0 {
			if k := tagStartingAt(doc, e); k >= 0 {
				e, grew = k, true
			}
		}
		if !grew {
			return r, ErrUnbalanced
		}
	}
}

// tagEndingAt returns the start of the tag that ends right before pos.
func tagEndingAt(doc string, pos int) int {
	if pos == 0 || doc[pos-1] != '>' {
		return -1
	}
	k := strings.LastIndexByte(doc[:pos-1], '<')
	if k < 0 || strings.IndexByte(doc[k:pos], '>') != pos-1-k {
		return -1
	}
	return k
}

// tagStartingAt returns the end of the tag that begins at pos.
func tagStartingAt(doc string, pos int) int {
	if pos >= len(doc) || doc[pos] != '<' {
		return -1
	}
	k := strings.IndexByte(doc[pos:], '>')
	if k < 0 {
		return -1
	}
	return pos + k + 1
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// imbalance counts elements opened but not closed inside s, and elements
// closed inside s that were opened before it.
func imbalance(s string) (opens, closes int) {
	var stack []string
	i := 0
	for i < len(s) {
		lt := strings.IndexByte(s[i:], '<')
		if lt < 0 {
			break
		}
		lt += i
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			break
		}
		gt += lt
		name, closing, selfClosing := parseTag(s[lt+1 : gt])
		i = gt + 1
		switch {
		case name == "" || selfClosing || voidElements[name]:
		case closing:
			if len(stack) > 0 && stack[len(stack)-1] == name {
				stack = stack[:len(stack)-1]
			} else {
				closes++
			}
		default:
			stack = append(stack, name)
		}
	}
	return len(stack), closes
}

func parseTag(body string) (name string, closing, selfClosing bool) {
	if body == "" || body[0] == '!' || body[0] == '?' {
		return "", false, false
	}
	if body[0] == '/' {
		closing = true
		body = body[1:]
	}
	selfClosing = strings.HasSuffix(body, "/")
	end := 0
	for end < len(body) {
		c := body[end]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '/' {
			break
		}
		end++
	}
	return strings.ToLower(body[:end]), closing, selfClosing
}
