package editor

import (
	"sort"
	"strings"
	"sync"

	"github.com/dgallion1/freewrite/internal/markup"
	"github.com/google/uuid"
)

// Document is the editable markup plus the structured records of the edits
// staged inside it. Staged ranges and any tracked in-flight ranges are kept
// in step with every mutation, so callers never have to re-parse markup to
// find them.
type Document struct {
	mu      sync.Mutex
	markup  string
	staged  []*StagedEdit
	tracked []*markup.Range
}

// NewDocument creates a document from markup, recovering any staged-edit
// containers it already carries.
func NewDocument(doc string) *Document {
	d := &Document{}
	d.setMarkupLocked(doc)
	return d
}

// NewPlainDocument creates a document from plain text.
func NewPlainDocument(text string) *Document {
	return NewDocument(markup.Escape(text))
}

func (d *Document) Markup() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.markup
}

// PlainText is the text as the user reads it: staged edits show their
// replacement.
func (d *Document) PlainText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.textLocked(func(e *StagedEdit) string { return e.Replacement })
}

// BaselineText is the text with every staged edit resolved to its original.
func (d *Document) BaselineText() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.baselineLocked()
}

func (d *Document) baselineLocked() string {
	return d.textLocked(func(e *StagedEdit) string { return markup.PlainText(e.originalMarkup) })
}

func (d *Document) textLocked(staged func(*StagedEdit) string) string {
	var b strings.Builder
	pos := 0
	for _, e := range d.staged {
		b.WriteString(markup.PlainText(d.markup[pos:e.Range.Start]))
		b.WriteString(staged(e))
		pos = e.Range.End
	}
	b.WriteString(markup.PlainText(d.markup[pos:]))
	return b.String()
}

// Staged returns the staged edits in document order.
func (d *Document) Staged() []StagedEdit {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]StagedEdit, 0, len(d.staged))
	for _, e := range d.staged {
		out = append(out, *e)
	}
	return out
}

func (d *Document) HasStaged() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.staged) > 0
}

// SetMarkup replaces the whole document.
func (d *Document) SetMarkup(doc string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.setMarkupLocked(doc)
}

// SetPlainText replaces the whole document with plain text, discarding any
// staged edits.
func (d *Document) SetPlainText(text string) {
	d.SetMarkup(markup.Escape(text))
}

func (d *Document) setMarkupLocked(doc string) {
	d.markup = doc
	d.staged = nil
	d.tracked = nil

	found := markup.ScanContainers(doc)
	// Containers are re-rendered so every one carries an id; walk backwards
	// so earlier offsets stay valid.
	for i := len(found) - 1; i >= 0; i-- {
		f := found[i]
		e := &StagedEdit{
			ID:             f.ID,
			Kind:           Kind(f.Kind),
			Original:       f.Original,
			Replacement:    f.Replacement,
			Reason:         f.Reason,
			originalMarkup: f.OriginalMarkup,
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Kind != KindImprovement {
			e.Kind = KindTypo
		}
		rendered := markup.Container(e.render())
		d.markup = d.markup[:f.Range.Start] + rendered + d.markup[f.Range.End:]
		e.Range = markup.Range{Start: f.Range.Start, End: f.Range.Start + len(rendered)}
		for _, later := range d.staged {
			delta := len(rendered) - f.Range.Len()
			later.Range.Start += delta
			later.Range.End += delta
		}
		d.staged = append([]*StagedEdit{e}, d.staged...)
	}
}

// replaceLocked swaps r for text and moves every staged and tracked range
// that sits after or around it. A tracked range that only partly overlaps r
// can no longer be trusted and is invalidated.
func (d *Document) replaceLocked(r markup.Range, text string) {
	delta := len(text) - r.Len()
	d.markup = d.markup[:r.Start] + text + d.markup[r.End:]
	for _, e := range d.staged {
		shift(&e.Range, r, delta)
	}
	for _, t := range d.tracked {
		shift(t, r, delta)
	}
}

func shift(t *markup.Range, r markup.Range, delta int) {
	switch {
	case t.Start < 0:
	case t.End <= r.Start:
	case t.Start >= r.End:
		t.Start += delta
		t.End += delta
	case t.Start <= r.Start && r.End <= t.End:
		t.End += delta
	default:
		*t = markup.Range{Start: -1, End: -1}
	}
}

func (d *Document) track(ranges ...markup.Range) []*markup.Range {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trackLocked(ranges)
}

// locate finds the candidates for s and tracks them against the same
// markup, so no edit can land between the search and the tracking.
func (d *Document) locate(s Suggestion) []*markup.Range {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.trackLocked(locateSuggestion(d.markup, s))
}

func (d *Document) trackLocked(ranges []markup.Range) []*markup.Range {
	if len(ranges) == 0 {
		return nil
	}
	out := make([]*markup.Range, 0, len(ranges))
	for _, r := range ranges {
		p := &markup.Range{Start: r.Start, End: r.End}
		d.tracked = append(d.tracked, p)
		out = append(out, p)
	}
	return out
}

func (d *Document) untrack(ranges ...*markup.Range) {
	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.tracked[:0]
	for _, t := range d.tracked {
		drop := false
		for _, r := range ranges {
			if t == r {
				drop = true
				break
			}
		}
		if !drop {
			kept = append(kept, t)
		}
	}
	d.tracked = kept
}

// claim validates a located candidate for s and, on success, widens it to
// balanced markup and returns the markup it covers.
func (d *Document) claim(c *markup.Range, s Suggestion, scope *markup.Range) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if c.Start < 0 {
		return "", markup.ErrOutOfRange
	}
	if err := markup.Validate(d.markup, *c, s.Original, s.Replacement); err != nil {
		return "", err
	}
	if scope != nil && (scope.Start < 0 || !scope.Contains(*c)) {
		return "", ErrOutsideScope
	}
	balanced, err := markup.Balance(d.markup, *c)
	if err != nil {
		return "", err
	}
	if scope != nil && !scope.Contains(balanced) {
		return "", ErrOutsideScope
	}
	for _, e := range d.staged {
		if e.Range.Overlaps(balanced) || balanced.Overlaps(e.Range) {
			return "", ErrOverlapsStaged
		}
	}
	*c = balanced
	return d.markup[c.Start:c.End], nil
}

// rewrite replaces the in-flight construct at c and returns the new markup
// and the construct's start.
func (d *Document) rewrite(c *markup.Range, text string) (string, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replaceLocked(*c, text)
	return d.markup, c.Start
}

// stage turns the construct at c into a durable staged edit.
func (d *Document) stage(c *markup.Range, e StagedEdit) (string, StagedEdit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.replaceLocked(*c, markup.Container(e.render()))
	e.Range = *c
	d.staged = append(d.staged, &e)
	sort.Slice(d.staged, func(i, j int) bool { return d.staged[i].Range.Start < d.staged[j].Range.Start })
	return d.markup, e
}

// resolve accepts or declines the edits with the given ids (all staged
// edits when ids is nil). before runs once, under the lock, with the
// baseline text prior to any change. Unknown ids leave the document
// untouched.
func (d *Document) resolve(ids []string, accept bool, before func(baseline string)) ([]StagedEdit, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var picked []*StagedEdit
	if ids == nil {
		picked = append(picked, d.staged...)
	} else {
		for _, id := range ids {
			e := d.findLocked(id)
			if e == nil {
				return nil, d.markup, ErrEditNotFound
			}
			picked = append(picked, e)
		}
	}
	if len(picked) == 0 {
		return nil, d.markup, nil
	}
	if before != nil {
		before(d.baselineLocked())
	}

	sort.Slice(picked, func(i, j int) bool { return picked[i].Range.Start > picked[j].Range.Start })
	out := make([]StagedEdit, 0, len(picked))
	for _, e := range picked {
		d.removeLocked(e)
		text := markup.Declined(e.render())
		if accept {
			text = markup.Accepted(e.render())
		}
		out = append(out, *e)
		d.replaceLocked(e.Range, text)
	}
	return out, d.markup, nil
}

func (d *Document) findLocked(id string) *StagedEdit {
	for _, e := range d.staged {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (d *Document) removeLocked(target *StagedEdit) {
	for i, e := range d.staged {
		if e == target {
			d.staged = append(d.staged[:i], d.staged[i+1:]...)
			return
		}
	}
}

// visibleLocked projects the document the way PlainText does and keeps, for
// every byte, the markup range it came from. Staged edits map as one unit.
func (d *Document) visibleLocked() (string, []markup.Range) {
	var b strings.Builder
	var units []markup.Range
	addSegment := func(from, to int) {
		p := markup.Project(d.markup[from:to])
		b.WriteString(p.Text)
		for i := range len(p.Text) {
			u := p.UnitAt(i)
			units = append(units, markup.Range{Start: from + u.Start, End: from + u.End})
		}
	}
	pos := 0
	for _, e := range d.staged {
		addSegment(pos, e.Range.Start)
		b.WriteString(e.Replacement)
		for range len(e.Replacement) {
			units = append(units, e.Range)
		}
		pos = e.Range.End
	}
	addSegment(pos, len(d.markup))
	return b.String(), units
}

// Copy returns the visible text of sel.
func (d *Document) Copy(sel Selection) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	text, _ := d.visibleLocked()
	if sel.Start < 0 || sel.End > len(text) || sel.Start > sel.End {
		return "", ErrInvalidSelection
	}
	return text[sel.Start:sel.End], nil
}

// deleteSelection removes the text of sel while keeping the surrounding
// tags intact. Selections touching a staged edit are rejected.
func (d *Document) deleteSelection(sel Selection, before func(baseline string)) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	text, units := d.visibleLocked()
	if sel.Start < 0 || sel.End > len(text) || sel.Start >= sel.End {
		return d.markup, ErrInvalidSelection
	}
	r := markup.Range{Start: units[sel.Start].Start, End: units[sel.End-1].End}
	for _, e := range d.staged {
		if e.Range.Overlaps(r) || r.Overlaps(e.Range) {
			return d.markup, ErrInvalidSelection
		}
	}
	if before != nil {
		before(d.baselineLocked())
	}
	d.replaceLocked(r, markup.StripText(d.markup[r.Start:r.End]))
	return d.markup, nil
}
