// Package editor applies model-proposed edits to a markup document and
// tracks them until the user accepts or declines them.
package editor

import (
	"context"
	"time"

	"github.com/dgallion1/freewrite/internal/markup"
)

// Kind distinguishes a spelling fix from a rewrite.
type Kind string

const (
	KindTypo        Kind = "typo"
	KindImprovement Kind = "improvement"
)

// Suggestion is one proposed edit against the plain text of the document.
type Suggestion struct {
	Kind        Kind   `json:"kind"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
	Reason      string `json:"reason,omitempty"`
}

// StagedEdit is an edit shown in the document awaiting the user's decision.
type StagedEdit struct {
	ID          string       `json:"id"`
	Kind        Kind         `json:"kind"`
	Original    string       `json:"original"`
	Replacement string       `json:"replacement"`
	Reason      string       `json:"reason,omitempty"`
	Range       markup.Range `json:"range"`

	originalMarkup string
}

func (e StagedEdit) render() markup.Staged {
	return markup.Staged{
		ID:             e.ID,
		Kind:           string(e.Kind),
		Original:       e.Original,
		Replacement:    e.Replacement,
		Reason:         e.Reason,
		OriginalMarkup: e.originalMarkup,
	}
}

// DeclinedEdit identifies an edit the user turned down.
type DeclinedEdit struct {
	Kind        Kind   `json:"kind"`
	Original    string `json:"original"`
	Replacement string `json:"replacement"`
}

// Request is what the suggestion source receives.
type Request struct {
	Document     string
	Declined     []DeclinedEdit
	Instructions string

	// Highlighted and Instruction are set for a highlighted-span edit.
	Highlighted string
	Instruction string
}

// Source produces suggestions. It must not touch the document.
type Source interface {
	Suggest(ctx context.Context, req Request) ([]Suggestion, error)
}

// Store persists session text under fixed keys.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

const (
	ContentKey      = "freewrite-state-v1"
	InstructionsKey = "freewrite-custom-instructions-v1"
)

// Recorder receives engine events for metrics.
type Recorder interface {
	SuggestionStaged(kind Kind)
	SuggestionDropped(kind Kind, reason string)
	EditsResolved(action string, n int)
	StageDuration(kind Kind, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) SuggestionStaged(Kind) {}
func (nopRecorder) SuggestionDropped(Kind, string) {}
func (nopRecorder) EditsResolved(string, int) {}
func (nopRecorder) StageDuration(Kind, time.Duration) {}

// Selection is a byte range of the visible document text.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}
