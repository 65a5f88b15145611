package markup

import "strings"

// Class names carried by the transient and staged edit constructs.
const (
	ContainerClass = "edit-container"
	StruckClass    = "strikethrough-edit"
	EditedClass    = "edited-text"
	ControlsClass  = "edit-controls"
	AcceptClass    = "edit-accept"
	DeclineClass   = "edit-decline"
	CursorClass    = "edit-cursor"
)

// Staged describes a staged edit as it is written into the document.
type Staged struct {
	ID             string
	Kind           string
	Original       string
	Replacement    string
	Reason         string
	OriginalMarkup string
}

// Cursor is the zero-width marker shown where an edit is about to start.
func Cursor() string {
	return `<span class="` + CursorClass + `"></span>`
}

// WithCursor places the cursor marker in front of the original markup.
func WithCursor(originalMarkup string) string {
	return Cursor() + originalMarkup
}

// Struck wraps the original markup in the strike-through decoration.
func Struck(originalMarkup string) string {
	return `<span class="` + StruckClass + `">` + originalMarkup + `</span>`
}

// Typing renders the struck original followed by the first part of the
// replacement and the cursor marker.
func Typing(originalMarkup, typed, kind string) string {
	var b strings.Builder
	b.WriteString(Struck(originalMarkup))
	b.WriteString(` <span class="` + EditedClass + ` ` + kind + `">`)
	b.WriteString(Escape(typed))
	b.WriteString(`</span>`)
	b.WriteString(Cursor())
	return b.String()
}

// Container renders the durable staged-edit construct with its accept and
// decline controls.
func Container(s Staged) string {
	var b strings.Builder
	b.WriteString(`<span class="` + ContainerClass + `"`)
	b.WriteString(` data-edit-id="` + Escape(s.ID) + `"`)
	b.WriteString(` data-kind="` + Escape(s.Kind) + `"`)
	b.WriteString(` data-original="` + Escape(s.Original) + `"`)
	b.WriteString(` data-edit="` + Escape(s.Replacement) + `"`)
	if s.Reason != "" {
		b.WriteString(` data-reason="` + Escape(s.Reason) + `"`)
	}
	b.WriteString(`>`)
	b.WriteString(Struck(s.OriginalMarkup))
	b.WriteString(` <span class="` + EditedClass + ` ` + s.Kind + `">`)
	b.WriteString(Escape(s.Replacement))
	b.WriteString(`</span>`)
	b.WriteString(`<span class="` + ControlsClass + `" contenteditable="false">`)
	b.WriteString(`<button class="` + AcceptClass + `" title="Accept" contenteditable="false">✓</button>`)
	b.WriteString(`<button class="` + DeclineClass + `" title="Decline" contenteditable="false">✕</button>`)
	b.WriteString(`</span></span>`)
	return b.String()
}

// Accepted is the markup that replaces a container on accept.
func Accepted(s Staged) string {
	return Escape(s.Replacement)
}

// Declined is the markup that replaces a container on decline.
func Declined(s Staged) string {
	return s.OriginalMarkup
}
