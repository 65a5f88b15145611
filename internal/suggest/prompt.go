package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/freewrite/internal/editor"
)

const DocumentPrompt = `You are PHD level editor tasked with editing a given excerpt.

Instructions:
- Fix any typos. Use the <typo> tag to indicate the CORRECTED text (not just the correction word).
- Rewrite any sentences that are unclear or confusing. Use the <improvement> tag to indicate the improved version.

CRITICAL FORMATTING RULES:
- ALWAYS start with <original> tag containing ONLY the text that needs to be replaced (not the entire paragraph)
- The <typo> tag should contain the FULL corrected text (replace the typo word/phrase in the original)
- The <improvement> tag should contain the FULL improved sentence/phrase
- For improvements, include <reason> tag after <improvement>
- Do NOT include any JSON, markdown code blocks, or any other text
- Do NOT include explanations outside of the <reason> tag
- Output ONLY the XML tags, nothing else

Example format:
<original>dogg</original>
<typo>dog</typo>

<original>ASPEN Detnal</original>
<typo>ASPEN Dental</typo>

<original>The dog, that is, is a dog who's name is Buddy.</original>
<improvement>The dog's name is Buddy.</improvement>
<reason>
Sentence was unclear and confusing.
</reason>

If no edits are needed, output nothing (empty response).`

const SpanPrompt = `You are PHD level editor tasked with editing a specific highlighted portion of text based on the user's request.

Instructions:
- The user has highlighted a specific portion of text and provided a prompt describing how they want it edited.
- Apply the user's request to the highlighted text (marked with <highlighted_text> tags in the prompt).
- Use the <improvement> tag to indicate the edited version of the highlighted text.
- Include a <reason> tag after <improvement> explaining what was changed.

CRITICAL FORMATTING RULES:
- ALWAYS start with <original> tag containing ONLY the highlighted text that needs to be replaced
- The <improvement> tag should contain the FULL edited version of the highlighted text
- Include <reason> tag after <improvement> explaining the changes made
- Do NOT include any JSON, markdown code blocks, or any other text
- Do NOT include explanations outside of the <reason> tag
- Output ONLY the XML tags, nothing else

Example format:
<original>The highlighted text here</original>
<improvement>The edited version based on user's request</improvement>
<reason>
Explanation of changes made.
</reason>

If no edits are needed, output nothing (empty response).`

const declinedPreamble = "IMPORTANT: The following edits were previously declined by the user. " +
	"Do NOT suggest these same exact edits again even if you believe they are correct. " +
	"This is reference data only - do NOT output this JSON in your response:\n"

const declinedReminder = "Remember: Output ONLY the XML tags (<original>, <typo>, <improvement>, <reason>), never JSON or any other format."

// declinedEntry is the wire shape of a declined edit inside the prompt.
type declinedEntry struct {
	Type        string `json:"type"`
	Original    string `json:"original"`
	Typo        string `json:"typo,omitempty"`
	Improvement string `json:"improvement,omitempty"`
}

// isSpan reports whether req asks for a highlighted-span rewrite.
func isSpan(req editor.Request) bool {
	return req.Highlighted != "" && req.Instruction != ""
}

// BuildSystemPrompt assembles the system prompt for req: the base prompt for
// its mode, then the declined edits, then any custom instructions.
func BuildSystemPrompt(req editor.Request) string {
	var sb strings.Builder
	if isSpan(req) {
		sb.WriteString(SpanPrompt)
	} else {
		sb.WriteString(DocumentPrompt)
	}

	if len(req.Declined) > 0 {
		entries := make([]declinedEntry, 0, len(req.Declined))
		for _, d := range req.Declined {
			e := declinedEntry{Type: string(d.Kind), Original: d.Original}
			if d.Kind == editor.KindImprovement {
				e.Improvement = d.Replacement
			} else {
				e.Typo = d.Replacement
			}
			entries = append(entries, e)
		}
		data, _ := json.MarshalIndent(entries, "", "  ")
		sb.WriteString("\n\n")
		sb.WriteString(declinedPreamble)
		sb.Write(data)
		sb.WriteString("\n\n")
		sb.WriteString(declinedReminder)
	}

	if custom := strings.TrimSpace(req.Instructions); custom != "" {
		fmt.Fprintf(&sb, "\n\nADDITIONAL CUSTOM INSTRUCTIONS:\n%s\n\nThese custom instructions should be followed in addition to the above rules.", custom)
	}
	return sb.String()
}

// BuildUserPrompt returns the user message for req.
func BuildUserPrompt(req editor.Request) string {
	if !isSpan(req) {
		return req.Document
	}
	return fmt.Sprintf("%s\n\n<highlighted_text>%s</highlighted_text>\n\nUser's request: %s",
		req.Document, req.Highlighted, req.Instruction)
}

// maxTokensFor sizes the completion budget from the document length. Every
// edit echoes its original, so the answer can be about as long as the input.
func maxTokensFor(req editor.Request) int {
	n := EstimateTokens(req.Document)*2 + 1024
	return min(n, 8192)
}
