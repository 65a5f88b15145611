package editor

import "log/slog"

// Ledger resolves staged edits. Accepting snapshots the baseline text into
// the history first; declining records the edit in the declined set.
type Ledger struct {
	doc      *Document
	history  *History
	declined *DeclinedSet
	feed     *Feed
	rec      Recorder
	log      *slog.Logger
}

func (l *Ledger) HasStaged() bool { return l.doc.HasStaged() }

func (l *Ledger) Staged() []StagedEdit { return l.doc.Staged() }

// Accept replaces one staged edit with its replacement.
func (l *Ledger) Accept(id string) (StagedEdit, error) {
	out, err := l.resolve([]string{id}, true)
	if err != nil {
		return StagedEdit{}, err
	}
	return out[0], nil
}

// Decline restores one staged edit's original text.
func (l *Ledger) Decline(id string) (StagedEdit, error) {
	out, err := l.resolve([]string{id}, false)
	if err != nil {
		return StagedEdit{}, err
	}
	return out[0], nil
}

// AcceptAll accepts every staged edit behind a single history entry.
func (l *Ledger) AcceptAll() []StagedEdit {
	out, _ := l.resolve(nil, true)
	return out
}

// DeclineAll declines every staged edit. Nothing is pushed to history.
func (l *Ledger) DeclineAll() []StagedEdit {
	out, _ := l.resolve(nil, false)
	return out
}

func (l *Ledger) resolve(ids []string, accept bool) ([]StagedEdit, error) {
	var before func(string)
	action, state := "decline", StateDeclined
	if accept {
		action, state = "accept", StateAccepted
		before = func(baseline string) { l.history.Push(baseline) }
	}

	out, snap, err := l.doc.resolve(ids, accept, before)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	if !accept {
		for _, e := range out {
			l.declined.Add(DeclinedEdit{Kind: e.Kind, Original: e.Original, Replacement: e.Replacement})
		}
	}
	fr := Frame{State: state, Markup: snap}
	if len(out) == 1 {
		fr.EditID = out[0].ID
	}
	l.feed.Publish(fr)
	l.rec.EditsResolved(action, len(out))
	l.log.Info("staged edits resolved", "action", action, "count", len(out))
	return out, nil
}
