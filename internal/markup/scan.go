package markup

import (
	"strings"

	"golang.org/x/net/html"
)

// Found is a staged-edit container discovered in existing markup.
type Found struct {
	Staged
	Range Range
}

// ScanContainers finds the staged-edit containers in doc, in document order.
// It is used to recover structured records from markup that was produced
// elsewhere, such as a document posted back by a client.
func ScanContainers(doc string) []Found {
	var out []Found
	z := html.NewTokenizer(strings.NewReader(doc))

	offset := 0
	var cur *Found
	depth := 0
	struckStart, struckDepth := -1, 0
	struckDone := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		start := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken:
			name, hasAttr := z.TagName()
			if string(name) != "span" {
				continue
			}
			attrs := readAttrs(z, hasAttr)
			if cur == nil {
				if hasClass(attrs["class"], ContainerClass) {
					cur = &Found{
						Staged: Staged{
							ID:          attrs["data-edit-id"],
							Kind:        attrs["data-kind"],
							Original:    attrs["data-original"],
							Replacement: attrs["data-edit"],
							Reason:      attrs["data-reason"],
						},
						Range: Range{Start: start},
					}
					depth = 1
					struckStart, struckDone = -1, false
				}
				continue
			}
			depth++
			if !struckDone && struckStart < 0 && hasClass(attrs["class"], StruckClass) {
				struckStart, struckDepth = offset, depth
			}
			if cur.Kind == "" && hasClass(attrs["class"], EditedClass) {
				cur.Kind = kindFromClass(attrs["class"])
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if cur == nil || string(name) != "span" {
				continue
			}
			if struckStart >= 0 && depth == struckDepth {
				cur.OriginalMarkup = doc[struckStart:start]
				struckStart, struckDone = -1, true
			}
			depth--
			if depth == 0 {
				cur.Range.End = offset
				if !struckDone {
					cur.OriginalMarkup = Escape(cur.Original)
				}
				out = append(out, *cur)
				cur = nil
			}
		}
	}
	return out
}

func readAttrs(z *html.Tokenizer, more bool) map[string]string {
	attrs := make(map[string]string)
	for more {
		var k, v []byte
		k, v, more = z.TagAttr()
		attrs[string(k)] = string(v)
	}
	return attrs
}

func hasClass(classAttr, class string) bool {
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func kindFromClass(classAttr string) string {
	for _, c := range strings.Fields(classAttr) {
		if c != EditedClass {
			return c
		}
	}
	return ""
}
