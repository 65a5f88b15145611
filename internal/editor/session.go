package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dgallion1/freewrite/internal/markup"
)

// Options configures a Session. Only Source is required.
type Options struct {
	Source   Source
	Store    Store
	Recorder Recorder
	Logger   *slog.Logger

	Timing   Timing
	Clock    Clock
	Viewport Viewport

	HistoryCapacity int
	DeclinedPolicy  DeclinedPolicy
	DeclinedMax     int
}

// Session owns one document and everything that mutates it. At most one
// staging run is active at a time; resolving staged edits is allowed while
// a run is animating.
type Session struct {
	doc      *Document
	history  *History
	declined *DeclinedSet
	feed     *Feed
	ledger   *Ledger
	stager   *Stager

	source Source
	store  Store
	log    *slog.Logger

	busy atomic.Bool

	mu           sync.Mutex
	instructions string
}

func NewSession(opts Options) *Session {
	if opts.Recorder == nil {
		opts.Recorder = nopRecorder{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = realClock{}
	}
	if opts.Viewport == nil {
		opts.Viewport = AlwaysVisible{}
	}

	s := &Session{
		doc:      NewDocument(""),
		history:  NewHistory(opts.HistoryCapacity),
		declined: NewDeclinedSet(opts.DeclinedPolicy, opts.DeclinedMax),
		feed:     NewFeed(),
		source:   opts.Source,
		store:    opts.Store,
		log:      opts.Logger,
	}
	s.ledger = &Ledger{
		doc:      s.doc,
		history:  s.history,
		declined: s.declined,
		feed:     s.feed,
		rec:      opts.Recorder,
		log:      opts.Logger,
	}
	s.stager = &Stager{
		doc:      s.doc,
		declined: s.declined,
		feed:     s.feed,
		timing:   opts.Timing,
		clock:    opts.Clock,
		viewport: opts.Viewport,
		rec:      opts.Recorder,
		log:      opts.Logger,
	}
	return s
}

// Load hydrates the document and custom instructions from the store.
func (s *Session) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	text, ok, err := s.store.Get(ctx, ContentKey)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}
	if ok {
		s.doc.SetPlainText(text)
	}
	instr, ok, err := s.store.Get(ctx, InstructionsKey)
	if err != nil {
		return fmt.Errorf("load instructions: %w", err)
	}
	if ok {
		s.mu.Lock()
		s.instructions = instr
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) Document() *Document { return s.doc }
func (s *Session) History() *History { return s.history }
func (s *Session) Declined() *DeclinedSet { return s.declined }
func (s *Session) Ledger() *Ledger { return s.ledger }
func (s *Session) Busy() bool { return s.busy.Load() }

// Subscribe streams frames for every document change.
func (s *Session) Subscribe(buffer int) (<-chan Frame, func()) {
	return s.feed.Subscribe(buffer)
}

// Snapshot is a read-only view of the session.
type Snapshot struct {
	Markup       string       `json:"markup"`
	Text         string       `json:"text"`
	Staged       []StagedEdit `json:"staged"`
	HistoryDepth int          `json:"history_depth"`
	Busy         bool         `json:"busy"`
	Seq          uint64       `json:"seq"`
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Markup:       s.doc.Markup(),
		Text:         s.doc.PlainText(),
		Staged:       s.doc.Staged(),
		HistoryDepth: s.history.Len(),
		Busy:         s.busy.Load(),
		Seq:          s.feed.Seq(),
	}
}

// RequestEdits asks the source for edits to the whole document and stages
// them. It is refused while a run is active or while edits are staged.
func (s *Session) RequestEdits(ctx context.Context) (Report, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return Report{}, ErrConcurrentEdit
	}
	defer s.busy.Store(false)

	if s.doc.HasStaged() {
		return Report{}, ErrConcurrentEdit
	}
	text := s.doc.PlainText()
	if strings.TrimSpace(text) == "" {
		return Report{}, ErrEmptyDocument
	}
	return s.run(ctx, Request{Document: text}, nil)
}

// RequestSpanEdits asks the source to rework the highlighted text following
// instruction, and stages the result inside that span only.
func (s *Session) RequestSpanEdits(ctx context.Context, highlighted, instruction string) (Report, error) {
	if strings.TrimSpace(instruction) == "" {
		return Report{}, ErrMissingInstruction
	}
	if !s.busy.CompareAndSwap(false, true) {
		return Report{}, ErrConcurrentEdit
	}
	defer s.busy.Store(false)

	scope, ok := s.findSpan(highlighted)
	if !ok {
		return Report{}, ErrSpanNotFound
	}
	req := Request{
		Document:    s.doc.PlainText(),
		Highlighted: strings.TrimSpace(highlighted),
		Instruction: strings.TrimSpace(instruction),
	}
	return s.run(ctx, req, &scope)
}

// findSpan returns the first occurrence of text that is not part of a
// staged edit, widened over the tags it cuts through so that edits
// balanced inside it stay inside it.
func (s *Session) findSpan(text string) (markup.Range, bool) {
	if strings.TrimSpace(text) == "" {
		return markup.Range{}, false
	}
	staged := s.doc.Staged()
	doc := s.doc.Markup()
	for _, r := range markup.Locate(doc, text, markup.Options{ExactFirst: true}) {
		if balanced, err := markup.Balance(doc, r); err == nil {
			r = balanced
		}
		free := true
		for _, e := range staged {
			if e.Range.Overlaps(r) || r.Overlaps(e.Range) {
				free = false
				break
			}
		}
		if free {
			return r, true
		}
	}
	return markup.Range{}, false
}

func (s *Session) run(ctx context.Context, req Request, scope *markup.Range) (Report, error) {
	s.declined.Prune(req.Document)
	req.Declined = s.declined.List()
	req.Instructions = s.Instructions()

	suggestions, err := s.source.Suggest(ctx, req)
	if err != nil {
		s.log.Warn("suggestion source failed", "error", err)
		return Report{}, &SourceError{Err: err}
	}
	if len(suggestions) == 0 {
		return Report{}, ErrNoEdits
	}

	rep := s.stager.Run(ctx, suggestions, scope)
	s.log.Info("edits staged",
		"suggestions", len(suggestions),
		"staged", len(rep.Staged),
		"dropped", len(rep.Dropped),
		"span", scope != nil,
	)
	s.persist(context.WithoutCancel(ctx))
	return rep, nil
}

func (s *Session) Accept(ctx context.Context, id string) (StagedEdit, error) {
	e, err := s.ledger.Accept(id)
	if err != nil {
		return StagedEdit{}, err
	}
	s.persist(ctx)
	return e, nil
}

func (s *Session) Decline(ctx context.Context, id string) (StagedEdit, error) {
	e, err := s.ledger.Decline(id)
	if err != nil {
		return StagedEdit{}, err
	}
	s.persist(ctx)
	return e, nil
}

func (s *Session) AcceptAll(ctx context.Context) []StagedEdit {
	out := s.ledger.AcceptAll()
	if len(out) > 0 {
		s.persist(ctx)
	}
	return out
}

func (s *Session) DeclineAll(ctx context.Context) []StagedEdit {
	out := s.ledger.DeclineAll()
	if len(out) > 0 {
		s.persist(ctx)
	}
	return out
}

// Undo restores the most recent history snapshot, discarding any staged
// edits. It reports false when there is nothing to undo.
func (s *Session) Undo(ctx context.Context) (bool, error) {
	if s.busy.Load() {
		return false, ErrBusy
	}
	text, ok := s.history.Pop()
	if !ok {
		return false, nil
	}
	s.replace(ctx, markup.Escape(text))
	return true, nil
}

// SetContent replaces the document with plain text typed by the user.
func (s *Session) SetContent(ctx context.Context, text string) error {
	if s.busy.Load() {
		return ErrBusy
	}
	s.replace(ctx, markup.Escape(text))
	return nil
}

// SetMarkup replaces the document with edited markup. Staged-edit
// containers present in it are kept.
func (s *Session) SetMarkup(ctx context.Context, doc string) error {
	if s.busy.Load() {
		return ErrBusy
	}
	s.replace(ctx, doc)
	return nil
}

func (s *Session) replace(ctx context.Context, doc string) {
	s.doc.SetMarkup(doc)
	s.feed.Publish(Frame{State: StateReplaced, Markup: s.doc.Markup()})
	s.persist(ctx)
}

// Copy returns the visible text of sel.
func (s *Session) Copy(sel Selection) (string, error) {
	return s.doc.Copy(sel)
}

// Delete removes the visible text of sel after snapshotting the document.
func (s *Session) Delete(ctx context.Context, sel Selection) error {
	if s.busy.Load() {
		return ErrBusy
	}
	snap, err := s.doc.deleteSelection(sel, func(baseline string) { s.history.Push(baseline) })
	if err != nil {
		return err
	}
	s.feed.Publish(Frame{State: StateReplaced, Markup: snap})
	s.persist(ctx)
	return nil
}

func (s *Session) Instructions() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.instructions
}

func (s *Session) SetInstructions(ctx context.Context, text string) error {
	s.mu.Lock()
	s.instructions = text
	s.mu.Unlock()
	if s.store == nil {
		return nil
	}
	if err := s.store.Put(ctx, InstructionsKey, text); err != nil {
		return fmt.Errorf("save instructions: %w", err)
	}
	return nil
}

// persist writes the baseline text. Staged edits are pending decisions and
// are not saved.
func (s *Session) persist(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.Put(ctx, ContentKey, s.doc.BaselineText()); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Error("failed to persist content", "error", err)
	}
}
