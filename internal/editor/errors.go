package editor

import (
	"errors"
	"fmt"
)

var (
	ErrConcurrentEdit     = errors.New("please accept or decline all staged edits before regenerating")
	ErrBusy               = errors.New("an edit is being applied")
	ErrNoEdits            = errors.New("no edits needed")
	ErrEmptyDocument      = errors.New("document is empty")
	ErrSpanNotFound       = errors.New("highlighted text not found in document")
	ErrMissingInstruction = errors.New("an instruction is required for a highlighted edit")
	ErrEditNotFound       = errors.New("staged edit not found")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrInvalidTransition  = errors.New("invalid state transition")

	// Per-suggestion outcomes. They end up in a Report, never returned.
	ErrLocatorMiss        = errors.New("original text not found")
	ErrValidationMiss     = errors.New("no located range passed validation")
	ErrOverlapsStaged     = errors.New("range overlaps a staged edit")
	ErrOutsideScope       = errors.New("range outside the requested span")
	ErrPreviouslyDeclined = errors.New("edit was previously declined")
)

const defaultSourceNotice = "Failed to get edits. Please try again."

// SourceError wraps a failed call to the suggestion source.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("suggestion source: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Notice is the message shown to the user.
func (e *SourceError) Notice() string {
	var n interface{ Notice() string }
	if errors.As(e.Err, &n) {
		return n.Notice()
	}
	return defaultSourceNotice
}
