package suggest

import (
	"strings"
	"testing"

	"github.com/dgallion1/freewrite/internal/editor"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []editor.Suggestion
	}{
		{
			name: "typo",
			in:   "<original>dogg</original>\n<typo>dog</typo>",
			want: []editor.Suggestion{{Kind: editor.KindTypo, Original: "dogg", Replacement: "dog"}},
		},
		{
			name: "improvement with reason",
			in:   "<original>The dog, that is, is a dog.</original>\n<improvement>The dog.</improvement>\n<reason>\nWordy.\n</reason>",
			want: []editor.Suggestion{{Kind: editor.KindImprovement, Original: "The dog, that is, is a dog.", Replacement: "The dog.", Reason: "Wordy."}},
		},
		{
			name: "improvement without reason",
			in:   "<original> a </original><improvement> b </improvement>",
			want: []editor.Suggestion{{Kind: editor.KindImprovement, Original: "a", Replacement: "b"}},
		},
		{
			name: "typos before improvements",
			in: "<original>x y</original><improvement>z</improvement>" +
				"<original>teh</original><typo>the</typo>",
			want: []editor.Suggestion{
				{Kind: editor.KindTypo, Original: "teh", Replacement: "the"},
				{Kind: editor.KindImprovement, Original: "x y", Replacement: "z"},
			},
		},
		{
			name: "unpaired original does not swallow the next edit",
			in:   "<original>orphan</original>\n<original>catt</original><typo>cat</typo>",
			want: []editor.Suggestion{{Kind: editor.KindTypo, Original: "catt", Replacement: "cat"}},
		},
		{
			name: "nested tag rejected",
			in:   "<original>a</original><typo>b<typo>c</typo>",
			want: nil,
		},
		{
			name: "empty",
			in:   "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d edits, got %d: %+v", len(tt.want), len(got), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("edit %d: expected %+v, got %+v", i, tt.want[i], got[i])
				}
			}
		})
	}
}

func TestBuildSystemPrompt(t *testing.T) {
	req := editor.Request{
		Document: "text",
		Declined: []editor.DeclinedEdit{
			{Kind: editor.KindTypo, Original: "dogg", Replacement: "dog"},
			{Kind: editor.KindImprovement, Original: "a b", Replacement: "c"},
		},
		Instructions: "  prefer British English  ",
	}
	got := BuildSystemPrompt(req)

	if !strings.HasPrefix(got, DocumentPrompt) {
		t.Error("expected document prompt first")
	}
	wantDeclined := `[
  {
    "type": "typo",
    "original": "dogg",
    "typo": "dog"
  },
  {
    "type": "improvement",
    "original": "a b",
    "improvement": "c"
  }
]`
	if !strings.Contains(got, declinedPreamble+wantDeclined+"\n\n"+declinedReminder) {
		t.Errorf("expected declined edits block, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "ADDITIONAL CUSTOM INSTRUCTIONS:\nprefer British English\n\nThese custom instructions should be followed in addition to the above rules.") {
		t.Errorf("expected custom instructions last, got:\n%s", got)
	}

	if plain := BuildSystemPrompt(editor.Request{Document: "text"}); plain != DocumentPrompt {
		t.Errorf("expected bare prompt without declined edits or instructions")
	}
}

func TestBuildSpanPrompts(t *testing.T) {
	req := editor.Request{Document: "Full text.", Highlighted: "text", Instruction: "make it bold"}
	if got := BuildSystemPrompt(req); got != SpanPrompt {
		t.Errorf("expected span prompt")
	}
	want := "Full text.\n\n<highlighted_text>text</highlighted_text>\n\nUser's request: make it bold"
	if got := BuildUserPrompt(req); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if got := BuildUserPrompt(editor.Request{Document: "Full text."}); got != "Full text." {
		t.Errorf("expected document as user prompt, got %q", got)
	}
}

func TestEstimateTokens(t *testing.T) {
	if EstimateTokens("") != 0 {
		t.Error("expected 0 for empty text")
	}
	if got := EstimateTokens("a"); got != 1 {
		t.Errorf("expected 1, got %d", got)
	}
	if got := EstimateTokens("one two three four five six seven eight nine ten"); got != 13 {
		t.Errorf("expected 13, got %d", got)
	}
	if got := maxTokensFor(editor.Request{Document: strings.Repeat("word ", 10000)}); got != 8192 {
		t.Errorf("expected budget capped at 8192, got %d", got)
	}
}
