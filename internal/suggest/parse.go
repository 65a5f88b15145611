package suggest

import (
	"regexp"
	"strings"

	"github.com/dgallion1/freewrite/internal/editor"
)

const openOriginal = "<original>"

var (
	typoRe        = regexp.MustCompile(`^([\s\S]*?)</original>\s*<typo>([\s\S]*?)</typo>`)
	improvementRe = regexp.MustCompile(`^([\s\S]*?)</original>\s*<improvement>([\s\S]*?)</improvement>(?:\s*<reason>([\s\S]*?)</reason>)?`)
)

// Parse extracts edits from tagged model output. Typos come first, then
// improvements, each in the order they appear. A pair whose fields contain a
// nested opening tag is skipped without affecting the pairs around it.
func Parse(text string) []editor.Suggestion {
	var typos, improvements []editor.Suggestion

	for _, seg := range strings.Split(text, openOriginal)[1:] {
		if m := typoRe.FindStringSubmatch(seg); m != nil {
			if strings.Contains(m[2], "<typo>") {
				continue
			}
			typos = append(typos, editor.Suggestion{
				Kind:        editor.KindTypo,
				Original:    strings.TrimSpace(m[1]),
				Replacement: strings.TrimSpace(m[2]),
			})
			continue
		}
		if m := improvementRe.FindStringSubmatch(seg); m != nil {
			if strings.Contains(m[2], "<improvement>") {
				continue
			}
			improvements = append(improvements, editor.Suggestion{
				Kind:        editor.KindImprovement,
				Original:    strings.TrimSpace(m[1]),
				Replacement: strings.TrimSpace(m[2]),
				Reason:      strings.TrimSpace(m[3]),
			})
		}
	}
	return append(typos, improvements...)
}
