package editor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dgallion1/freewrite/internal/markup"
)

var doggTypo = Suggestion{Kind: KindTypo, Original: "dogg", Replacement: "dog"}

func TestRequestEditsStagesTypo(t *testing.T) {
	s := newTestSession(t, "The dogg ran.", staticSource(doggTypo))

	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Staged) != 1 {
		t.Fatalf("expected 1 staged edit, got %d (dropped %v)", len(rep.Staged), rep.Dropped)
	}
	if got := s.Document().PlainText(); got != "The dog ran." {
		t.Errorf("expected visible text %q, got %q", "The dog ran.", got)
	}
	if got := s.Document().BaselineText(); got != "The dogg ran." {
		t.Errorf("expected baseline %q, got %q", "The dogg ran.", got)
	}
	if !s.Ledger().HasStaged() {
		t.Error("expected a staged edit")
	}
	doc := s.Document().Markup()
	assertWellFormed(t, doc)
	e := s.Document().Staged()[0]
	if !strings.HasPrefix(doc[e.Range.Start:e.Range.End], `<span class="edit-container"`) {
		t.Errorf("staged range does not start at the container: %q", doc[e.Range.Start:])
	}
}

func TestDeclineRestoresOriginal(t *testing.T) {
	s := newTestSession(t, "The dogg ran.", staticSource(doggTypo))
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := s.Decline(context.Background(), rep.Staged[0].ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if got := s.Document().PlainText(); got != "The dogg ran." {
		t.Errorf("expected %q, got %q", "The dogg ran.", got)
	}
	if got := s.Document().Markup(); got != "The dogg ran." {
		t.Errorf("expected original markup back, got %q", got)
	}
	declined := s.Declined().List()
	if len(declined) != 1 || declined[0] != (DeclinedEdit{Kind: KindTypo, Original: "dogg", Replacement: "dog"}) {
		t.Errorf("unexpected declined set %v", declined)
	}
	if s.History().Len() != 0 {
		t.Errorf("decline must not push history, got %d entries", s.History().Len())
	}
}

func TestStaleSuggestionIsDropped(t *testing.T) {
	s := newTestSession(t, "The dog ran.", staticSource(Suggestion{Kind: KindTypo, Original: "catt", Replacement: "cat"}))

	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(rep.Staged) != 0 || len(rep.Dropped) != 1 {
		t.Fatalf("expected one dropped suggestion, got %+v", rep)
	}
	if rep.Dropped[0].Reason != DropLocatorMiss || !errors.Is(rep.Dropped[0].Err, ErrLocatorMiss) {
		t.Errorf("expected locator miss, got %+v", rep.Dropped[0])
	}
	if got := s.Document().Markup(); got != "The dog ran." {
		t.Errorf("expected unchanged markup, got %q", got)
	}
}

func TestAcceptAllSingleHistoryEntry(t *testing.T) {
	s := newTestSession(t, "The dogg chased the catt.", staticSource(
		doggTypo,
		Suggestion{Kind: KindTypo, Original: "catt", Replacement: "cat"},
	))
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Staged) != 2 {
		t.Fatalf("expected 2 staged edits, got %d", len(rep.Staged))
	}

	out := s.AcceptAll(context.Background())
	if len(out) != 2 {
		t.Fatalf("expected 2 accepted, got %d", len(out))
	}
	if got := s.Document().PlainText(); got != "The dog chased the cat." {
		t.Errorf("expected %q, got %q", "The dog chased the cat.", got)
	}
	entries := s.History().Entries()
	if len(entries) != 1 || entries[0] != "The dogg chased the catt." {
		t.Errorf("expected one pre-acceptance entry, got %q", entries)
	}
	if s.Ledger().HasStaged() {
		t.Error("expected no staged edits")
	}
}

func TestAcceptAllOrderIndependent(t *testing.T) {
	suggestions := []Suggestion{
		{Kind: KindTypo, Original: "teh", Replacement: "the"},
		{Kind: KindImprovement, Original: "went and ran", Replacement: "ran"},
		{Kind: KindTypo, Original: "quikc", Replacement: "quick"},
	}
	text := "teh quikc fox went and ran home."

	forward := newTestSession(t, text, staticSource(suggestions...))
	if _, err := forward.RequestEdits(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	forward.AcceptAll(context.Background())

	oneByOne := newTestSession(t, text, staticSource(suggestions...))
	rep, err := oneByOne.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < len(rep.Staged); i++ {
		if _, err := oneByOne.Accept(context.Background(), rep.Staged[i].ID); err != nil {
			t.Fatalf("accept %d: %v", i, err)
		}
	}

	want := "the quick fox ran home."
	if got := forward.Document().PlainText(); got != want {
		t.Errorf("accept all: expected %q, got %q", want, got)
	}
	if got := oneByOne.Document().PlainText(); got != want {
		t.Errorf("one by one: expected %q, got %q", want, got)
	}
}

func TestAcceptThenUndo(t *testing.T) {
	s := newTestSession(t, "The dogg ran.", staticSource(doggTypo))
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Accept(context.Background(), rep.Staged[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if got := s.Document().Markup(); got != "The dog ran." {
		t.Errorf("expected %q, got %q", "The dog ran.", got)
	}

	ok, err := s.Undo(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected undo to succeed, got ok=%v err=%v", ok, err)
	}
	if got := s.Document().PlainText(); got != "The dogg ran." {
		t.Errorf("expected %q after undo, got %q", "The dogg ran.", got)
	}
	if s.History().Len() != 0 {
		t.Errorf("expected empty history, got %d", s.History().Len())
	}
	ok, err = s.Undo(context.Background())
	if err != nil || ok {
		t.Errorf("expected undo on empty history to be a no-op, got ok=%v err=%v", ok, err)
	}
}

func TestUndoDiscardsStagedEdits(t *testing.T) {
	s := newTestSession(t, "The dogg chased the catt.", staticSource(doggTypo))
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Accept(context.Background(), rep.Staged[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}

	s.source = staticSource(Suggestion{Kind: KindTypo, Original: "catt", Replacement: "cat"})
	if _, err := s.RequestEdits(context.Background()); err != nil {
		t.Fatalf("second request: %v", err)
	}
	if !s.Ledger().HasStaged() {
		t.Fatal("expected a staged edit")
	}

	if ok, err := s.Undo(context.Background()); err != nil || !ok {
		t.Fatalf("undo: ok=%v err=%v", ok, err)
	}
	if s.Ledger().HasStaged() {
		t.Error("expected staged edits to be discarded by undo")
	}
	if got := s.Document().PlainText(); got != "The dogg chased the catt." {
		t.Errorf("expected %q, got %q", "The dogg chased the catt.", got)
	}
}

func TestReapplyingStagedEditIsNoOp(t *testing.T) {
	s := newTestSession(t, "The dogg ran.", staticSource(doggTypo))
	if _, err := s.RequestEdits(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before := s.Document().Markup()

	rep := s.stager.Run(context.Background(), []Suggestion{doggTypo}, nil)
	if len(rep.Staged) != 0 {
		t.Fatalf("expected no new staged edit, got %d", len(rep.Staged))
	}
	if len(rep.Dropped) != 1 || rep.Dropped[0].Reason != DropValidationMiss {
		t.Fatalf("expected a validation miss, got %+v", rep.Dropped)
	}
	if !errors.Is(rep.Dropped[0].Err, markup.ErrAlreadyStaged) {
		t.Errorf("expected already-staged guard to fire, got %v", rep.Dropped[0].Err)
	}
	if got := s.Document().Markup(); got != before {
		t.Errorf("expected no mutation\nbefore %q\nafter  %q", before, got)
	}
}

func TestRequestEditsRejectedWhileStaged(t *testing.T) {
	s := newTestSession(t, "The dogg ran.", staticSource(doggTypo))
	if _, err := s.RequestEdits(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.RequestEdits(context.Background()); !errors.Is(err, ErrConcurrentEdit) {
		t.Errorf("expected ErrConcurrentEdit, got %v", err)
	}
}

func TestRequestEditsRejectedWhileBusy(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	src := sourceFunc(func(ctx context.Context, req Request) ([]Suggestion, error) {
		close(entered)
		<-release
		return []Suggestion{doggTypo}, nil
	})
	s := newTestSession(t, "The dogg ran.", src)

	done := make(chan error, 1)
	go func() {
		_, err := s.RequestEdits(context.Background())
		done <- err
	}()
	<-entered

	if !s.Busy() {
		t.Error("expected session to be busy")
	}
	if _, err := s.RequestEdits(context.Background()); !errors.Is(err, ErrConcurrentEdit) {
		t.Errorf("expected ErrConcurrentEdit, got %v", err)
	}
	if _, err := s.RequestSpanEdits(context.Background(), "dogg", "fix it"); !errors.Is(err, ErrConcurrentEdit) {
		t.Errorf("expected ErrConcurrentEdit for span edit, got %v", err)
	}
	if _, err := s.Undo(context.Background()); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for undo, got %v", err)
	}
	if err := s.SetContent(context.Background(), "x"); !errors.Is(err, ErrBusy) {
		t.Errorf("expected ErrBusy for SetContent, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first request failed: %v", err)
	}
	if s.Busy() {
		t.Error("expected busy guard to be released")
	}
}

func TestSourceFailure(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	src := sourceFunc(func(context.Context, Request) ([]Suggestion, error) {
		calls++
		return nil, boom
	})
	s := newTestSession(t, "The dogg ran.", src)

	_, err := s.RequestEdits(context.Background())
	var srcErr *SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped cause, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single source call, got %d", calls)
	}
	if srcErr.Notice() != defaultSourceNotice {
		t.Errorf("unexpected notice %q", srcErr.Notice())
	}
	if s.Busy() {
		t.Error("expected busy guard to be released")
	}
	if got := s.Document().Markup(); got != "The dogg ran." {
		t.Errorf("expected untouched document, got %q", got)
	}
	if _, err := s.RequestEdits(context.Background()); !errors.As(err, &srcErr) || calls != 2 {
		t.Errorf("expected a second attempt to reach the source, calls=%d err=%v", calls, err)
	}
}

type noticeErr struct{}

func (noticeErr) Error() string  { return "status 401" }
func (noticeErr) Notice() string { return "Invalid API key." }

func TestSourceErrorUsesCauseNotice(t *testing.T) {
	err := &SourceError{Err: noticeErr{}}
	if err.Notice() != "Invalid API key." {
		t.Errorf("expected cause notice, got %q", err.Notice())
	}
}

func TestEmptySuggestionSet(t *testing.T) {
	s := newTestSession(t, "All good here.", staticSource())
	if _, err := s.RequestEdits(context.Background()); !errors.Is(err, ErrNoEdits) {
		t.Errorf("expected ErrNoEdits, got %v", err)
	}
}

func TestEmptyDocument(t *testing.T) {
	s := newTestSession(t, "   \n ", staticSource(doggTypo))
	if _, err := s.RequestEdits(context.Background()); !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestRequestSendsDeclinedAndInstructions(t *testing.T) {
	var got Request
	src := sourceFunc(func(_ context.Context, req Request) ([]Suggestion, error) {
		got = req
		return []Suggestion{doggTypo}, nil
	})
	s := newTestSession(t, "The dogg ran.", src)
	if err := s.SetInstructions(context.Background(), "prefer British English"); err != nil {
		t.Fatalf("SetInstructions: %v", err)
	}
	if _, err := s.RequestEdits(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.DeclineAll(context.Background())

	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Instructions != "prefer British English" {
		t.Errorf("expected instructions to be sent, got %q", got.Instructions)
	}
	if len(got.Declined) != 1 || got.Declined[0].Original != "dogg" {
		t.Errorf("expected declined edit to be sent, got %v", got.Declined)
	}
	if len(rep.Dropped) != 1 || rep.Dropped[0].Reason != DropDeclined {
		t.Errorf("expected previously declined suggestion to be dropped, got %+v", rep)
	}
}

func TestRequestSpanEdits(t *testing.T) {
	var got Request
	src := sourceFunc(func(_ context.Context, req Request) ([]Suggestion, error) {
		got = req
		return []Suggestion{
			{Kind: KindImprovement, Original: "Rewrite this part.", Replacement: "Shorter.", Reason: "Concise"},
			{Kind: KindImprovement, Original: "Keep this.", Replacement: "Changed."},
		}, nil
	})
	s := newTestSession(t, "Keep this. Rewrite this part. Keep this.", src)

	rep, err := s.RequestSpanEdits(context.Background(), "Rewrite this part.", "make it shorter")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Highlighted != "Rewrite this part." || got.Instruction != "make it shorter" {
		t.Errorf("unexpected request %+v", got)
	}
	if len(rep.Staged) != 1 || rep.Staged[0].Reason != "Concise" {
		t.Fatalf("expected the in-span edit to be staged, got %+v", rep)
	}
	if len(rep.Dropped) != 1 || !errors.Is(rep.Dropped[0].Err, ErrOutsideScope) {
		t.Errorf("expected out-of-span edit to be dropped, got %+v", rep.Dropped)
	}
	if got := s.Document().PlainText(); got != "Keep this. Shorter. Keep this." {
		t.Errorf("unexpected text %q", got)
	}
}

func TestRequestSpanEditsAcrossFormatting(t *testing.T) {
	src := staticSource(
		Suggestion{Kind: KindImprovement, Original: "two three", Replacement: "2 3"},
		Suggestion{Kind: KindImprovement, Original: "one", Replacement: "One"},
	)
	s := newTestSession(t, "", src)
	if err := s.SetMarkup(context.Background(), "one two <b>three</b> four"); err != nil {
		t.Fatal(err)
	}

	rep, err := s.RequestSpanEdits(context.Background(), "one two three", "use digits")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Staged) != 2 || len(rep.Dropped) != 0 {
		t.Fatalf("expected both edits inside the span to be staged, got %+v", rep)
	}
	assertWellFormed(t, s.Document().Markup())

	s.AcceptAll(context.Background())
	if got := s.Document().PlainText(); got != "One 2 3 four" {
		t.Errorf("expected %q, got %q", "One 2 3 four", got)
	}
}

func TestClaimRechecksScopeAfterBalancing(t *testing.T) {
	d := NewDocument("ab <b>cd</b> ef")
	scope := markup.Range{Start: 0, End: 8}
	c := &markup.Range{Start: 0, End: 8}
	_, err := d.claim(c, Suggestion{Kind: KindImprovement, Original: "ab cd", Replacement: "xy"}, &scope)
	if !errors.Is(err, ErrOutsideScope) {
		t.Errorf("expected ErrOutsideScope once the candidate widens past the scope, got %v", err)
	}
}

func TestLocateTracksCandidates(t *testing.T) {
	d := NewDocument("the cat sat by the cat")
	got := d.locate(Suggestion{Kind: KindTypo, Original: "cat", Replacement: "dog"})
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}
	if len(d.tracked) != 2 {
		t.Fatalf("expected 2 tracked ranges, got %d", len(d.tracked))
	}

	d.mu.Lock()
	d.replaceLocked(markup.Range{Start: 0, End: 0}, "so ")
	d.mu.Unlock()
	if *got[0] != (markup.Range{Start: 7, End: 10}) {
		t.Errorf("expected first candidate to shift to 7..10, got %v", *got[0])
	}
	if *got[1] != (markup.Range{Start: 22, End: 25}) {
		t.Errorf("expected second candidate to shift to 22..25, got %v", *got[1])
	}

	d.untrack(got...)
	if miss := d.locate(Suggestion{Kind: KindTypo, Original: "bird", Replacement: "fish"}); miss != nil {
		t.Errorf("expected no candidates, got %v", miss)
	}
	if len(d.tracked) != 0 {
		t.Errorf("expected nothing tracked after a miss, got %d", len(d.tracked))
	}
}

func TestRequestSpanEditsValidation(t *testing.T) {
	s := newTestSession(t, "Some text.", staticSource(doggTypo))
	if _, err := s.RequestSpanEdits(context.Background(), "missing", "fix"); !errors.Is(err, ErrSpanNotFound) {
		t.Errorf("expected ErrSpanNotFound, got %v", err)
	}
	if _, err := s.RequestSpanEdits(context.Background(), "Some", " "); !errors.Is(err, ErrMissingInstruction) {
		t.Errorf("expected ErrMissingInstruction, got %v", err)
	}
}

func TestMultipleOccurrencesStagedInReverseOrder(t *testing.T) {
	s := newTestSession(t, "teh cat and teh dog", staticSource(Suggestion{Kind: KindTypo, Original: "teh", Replacement: "the"}))
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Staged) != 2 {
		t.Fatalf("expected 2 staged edits, got %d", len(rep.Staged))
	}
	if rep.Staged[0].Range.Start <= rep.Staged[1].Range.Start {
		t.Errorf("expected the later occurrence to be staged first, got %v then %v", rep.Staged[0].Range, rep.Staged[1].Range)
	}
	if got := s.Document().PlainText(); got != "the cat and the dog" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestMultiWordTypoFallsBackToNormalized(t *testing.T) {
	s := newTestSession(t, "Visit ASPEN  Detnal today", staticSource(Suggestion{Kind: KindTypo, Original: "ASPEN Detnal", Replacement: "ASPEN Dental"}))
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Staged) != 1 {
		t.Fatalf("expected 1 staged edit, got %+v", rep)
	}
	s.AcceptAll(context.Background())
	if got := s.Document().PlainText(); got != "Visit ASPEN Dental today" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestEditAcrossFormatting(t *testing.T) {
	s := newTestSession(t, "", staticSource(Suggestion{Kind: KindImprovement, Original: "very big dog", Replacement: "huge dog"}))
	if err := s.SetMarkup(context.Background(), "<p>A <b>very big</b> dog barked.</p>"); err != nil {
		t.Fatalf("SetMarkup: %v", err)
	}
	rep, err := s.RequestEdits(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rep.Staged) != 1 {
		t.Fatalf("expected 1 staged edit, got %+v", rep)
	}
	assertWellFormed(t, s.Document().Markup())

	if _, err := s.Decline(context.Background(), rep.Staged[0].ID); err != nil {
		t.Fatalf("decline: %v", err)
	}
	if got := s.Document().Markup(); got != "<p>A <b>very big</b> dog barked.</p>" {
		t.Errorf("expected formatting restored on decline, got %q", got)
	}
}

func TestPersistsBaselineText(t *testing.T) {
	store := newMemStore()
	s := NewSession(Options{Source: staticSource(doggTypo), Store: store, Logger: quietLogger(), Clock: &recordClock{}})
	ctx := context.Background()
	if err := s.SetContent(ctx, "The dogg ran."); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	rep, err := s.RequestEdits(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, _, _ := store.Get(ctx, ContentKey); v != "The dogg ran." {
		t.Errorf("expected staged edit not to be persisted, got %q", v)
	}
	if _, err := s.Accept(ctx, rep.Staged[0].ID); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if v, _, _ := store.Get(ctx, ContentKey); v != "The dog ran." {
		t.Errorf("expected accepted text to be persisted, got %q", v)
	}

	restored := NewSession(Options{Source: staticSource(), Store: store, Logger: quietLogger()})
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := restored.Document().PlainText(); got != "The dog ran." {
		t.Errorf("expected hydrated text, got %q", got)
	}
}

func TestCopyAndDeleteSelection(t *testing.T) {
	s := newTestSession(t, "", staticSource())
	ctx := context.Background()
	if err := s.SetMarkup(ctx, "Hello <b>brave</b> world"); err != nil {
		t.Fatalf("SetMarkup: %v", err)
	}

	text, err := s.Copy(Selection{Start: 6, End: 11})
	if err != nil || text != "brave" {
		t.Fatalf("expected %q, got %q err=%v", "brave", text, err)
	}

	if err := s.Delete(ctx, Selection{Start: 6, End: 12}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got := s.Document().Markup(); got != "Hello <b></b>world" {
		t.Errorf("unexpected markup %q", got)
	}
	if got := s.Document().PlainText(); got != "Hello world" {
		t.Errorf("unexpected text %q", got)
	}
	if entries := s.History().Entries(); len(entries) != 1 || entries[0] != "Hello brave world" {
		t.Errorf("expected pre-delete snapshot, got %q", entries)
	}
	if _, err := s.Copy(Selection{Start: 4, End: 40}); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestDeleteRejectsStagedSelection(t *testing.T) {
	s := newTestSession(t, "The dogg ran.", staticSource(doggTypo))
	if _, err := s.RequestEdits(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Delete(context.Background(), Selection{Start: 2, End: 6}); !errors.Is(err, ErrInvalidSelection) {
		t.Errorf("expected ErrInvalidSelection, got %v", err)
	}
}

func TestResolveUnknownEdit(t *testing.T) {
	s := newTestSession(t, "text", staticSource())
	if _, err := s.Accept(context.Background(), "nope"); !errors.Is(err, ErrEditNotFound) {
		t.Errorf("expected ErrEditNotFound, got %v", err)
	}
	if _, err := s.Decline(context.Background(), "nope"); !errors.Is(err, ErrEditNotFound) {
		t.Errorf("expected ErrEditNotFound, got %v", err)
	}
	if out := s.AcceptAll(context.Background()); len(out) != 0 {
		t.Errorf("expected nothing to accept, got %d", len(out))
	}
	if s.History().Len() != 0 {
		t.Error("accept all with nothing staged must not push history")
	}
}
