package editor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/freewrite/internal/markup"
	"github.com/google/uuid"
)

// Drop reasons reported for suggestions that were not staged.
const (
	DropLocatorMiss    = "locator_miss"
	DropValidationMiss = "validation_miss"
	DropDeclined       = "declined"
	DropNoChange       = "no_change"
	DropCanceled       = "canceled"
)

// Dropped is a suggestion the stager skipped.
type Dropped struct {
	Suggestion Suggestion `json:"suggestion"`
	Reason     string     `json:"reason"`
	Detail     string     `json:"detail,omitempty"`
	Err        error      `json:"-"`
}

// Report summarizes one staging run.
type Report struct {
	Staged  []StagedEdit `json:"staged"`
	Dropped []Dropped    `json:"dropped,omitempty"`
}

// Stager walks suggestions through the staging sequence, one at a time,
// publishing a frame for every step.
type Stager struct {
	doc      *Document
	declined *DeclinedSet
	feed     *Feed
	timing   Timing
	clock    Clock
	viewport Viewport
	rec      Recorder
	log      *slog.Logger
}

// Run stages suggestions in the order given. Matches of one suggestion are
// applied from the end of the document backwards. scope, when set, limits
// matches to that markup range.
//
// Canceling ctx skips the remaining waits: the edit in progress is still
// completed, and every suggestion after it is dropped.
func (st *Stager) Run(ctx context.Context, suggestions []Suggestion, scope *markup.Range) Report {
	var rep Report
	var scopeRef *markup.Range
	if scope != nil {
		scopeRef = st.doc.track(*scope)[0]
		defer st.doc.untrack(scopeRef)
	}

	for _, s := range suggestions {
		if ctx.Err() != nil {
			rep.drop(st, s, DropCanceled, ctx.Err())
			continue
		}
		if strings.TrimSpace(s.Original) == strings.TrimSpace(s.Replacement) {
			rep.drop(st, s, DropNoChange, nil)
			continue
		}
		if st.declined.Contains(DeclinedEdit{Kind: s.Kind, Original: s.Original, Replacement: s.Replacement}) {
			rep.drop(st, s, DropDeclined, ErrPreviouslyDeclined)
			continue
		}

		candidates := st.doc.locate(s)
		if len(candidates) == 0 {
			rep.drop(st, s, DropLocatorMiss, ErrLocatorMiss)
			continue
		}

		var lastErr error
		staged := 0
		for i := len(candidates) - 1; i >= 0; i-- {
			if ctx.Err() != nil && staged > 0 {
				break
			}
			e, err := st.apply(ctx, s, candidates[i], scopeRef)
			if err != nil {
				lastErr = err
				st.log.Debug("candidate rejected", "kind", s.Kind, "original", s.Original, "error", err)
				continue
			}
			staged++
			rep.Staged = append(rep.Staged, e)
		}
		st.doc.untrack(candidates...)

		if staged == 0 {
			rep.drop(st, s, DropValidationMiss, fmt.Errorf("%w: %w", ErrValidationMiss, lastErr))
		}
	}
	return rep
}

func (rep *Report) drop(st *Stager, s Suggestion, reason string, err error) {
	d := Dropped{Suggestion: s, Reason: reason, Err: err}
	if err != nil {
		d.Detail = err.Error()
	}
	rep.Dropped = append(rep.Dropped, d)
	st.rec.SuggestionDropped(s.Kind, reason)
	st.log.Info("suggestion dropped",
		"kind", s.Kind,
		"original", truncate(s.Original, 80),
		"reason", reason,
		"error", err,
	)
}

// locateSuggestion picks the matching policy for s. Typos match whole words
// first; a multi-word typo that finds nothing retries without word
// boundaries. Improvements match on normalized whitespace.
func locateSuggestion(doc string, s Suggestion) []markup.Range {
	if s.Kind != KindTypo {
		return markup.Locate(doc, s.Original, markup.Options{})
	}
	original := strings.TrimSpace(s.Original)
	found := markup.Locate(doc, original, markup.Options{WholeWord: true})
	if len(found) == 0 && !markup.IsSingleWord(original) {
		found = markup.Locate(doc, original, markup.Options{ExactFirst: true})
	}
	return found
}

// apply runs one candidate from Located to StagedWithControls. Once the
// candidate is claimed every step writes a complete construct, so the
// document is well formed between any two steps.
func (st *Stager) apply(ctx context.Context, s Suggestion, c *markup.Range, scope *markup.Range) (StagedEdit, error) {
	started := time.Now()
	orig, err := st.doc.claim(c, s, scope)
	if err != nil {
		return StagedEdit{}, err
	}
	kind := string(s.Kind)
	m := &machine{state: StateLocated}
	st.publish(Frame{State: StateLocated, Markup: st.doc.Markup()})

	step := func(to State, text string) (string, int, error) {
		if err := m.advance(to); err != nil {
			st.doc.rewrite(c, orig)
			return "", 0, err
		}
		snap, at := st.doc.rewrite(c, text)
		return snap, at, nil
	}

	snap, at, err := step(StateCursorShown, markup.WithCursor(orig))
	if err != nil {
		return StagedEdit{}, err
	}
	fr := Frame{State: StateCursorShown, Markup: snap}
	scrolled := st.viewport.Reveal(snap, at)
	if scrolled {
		fr.ScrollTo = &at
	}
	st.publish(fr)
	if scrolled {
		st.clock.Sleep(ctx, st.timing.ScrollSettle)
	}
	st.clock.Sleep(ctx, st.timing.CursorDwell)

	if snap, _, err = step(StateStruckThrough, markup.Struck(orig)); err != nil {
		return StagedEdit{}, err
	}
	st.publish(Frame{State: StateStruckThrough, Markup: snap})
	st.clock.Sleep(ctx, st.timing.StrikeDwell)

	runes := []rune(s.Replacement)
	for k := 0; k <= len(runes); k++ {
		if snap, _, err = step(StateTyping, markup.Typing(orig, string(runes[:k]), kind)); err != nil {
			return StagedEdit{}, err
		}
		st.publish(Frame{State: StateTyping, Markup: snap, Typed: k})
		if k < len(runes) {
			st.clock.Sleep(ctx, st.timing.TypeTick)
		}
	}

	if err := m.advance(StateStaged); err != nil {
		st.doc.rewrite(c, orig)
		return StagedEdit{}, err
	}
	snap, e := st.doc.stage(c, StagedEdit{
		ID:             uuid.NewString(),
		Kind:           s.Kind,
		Original:       s.Original,
		Replacement:    s.Replacement,
		Reason:         s.Reason,
		originalMarkup: orig,
	})
	st.publish(Frame{State: StateStaged, EditID: e.ID, Markup: snap})
	elapsed := time.Since(started)
	st.rec.SuggestionStaged(s.Kind)
	st.rec.StageDuration(s.Kind, elapsed)
	log := st.log.With("edit_id", e.ID, "kind", s.Kind)
	log.Debug("edit staged", "duration_ms", elapsed.Milliseconds(), "frames", len(runes)+5)
	st.clock.Sleep(ctx, st.timing.StagePause)
	return e, nil
}

func (st *Stager) publish(fr Frame) {
	st.feed.Publish(fr)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
