package editor

import (
	"fmt"
	"strings"
	"sync"

	"github.com/dgallion1/freewrite/internal/markup"
)

// DeclinedPolicy controls how long a declined edit keeps suppressing
// repeat suggestions.
type DeclinedPolicy string

const (
	// DeclinedPermanent keeps every declined edit for the whole session.
	DeclinedPermanent DeclinedPolicy = "permanent"
	// DeclinedExpire forgets a declined edit once its original text no
	// longer appears in the document.
	DeclinedExpire DeclinedPolicy = "expire"
)

// ParseDeclinedPolicy accepts "permanent" or "expire"; empty means permanent.
func ParseDeclinedPolicy(s string) (DeclinedPolicy, error) {
	switch DeclinedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeclinedPermanent:
		return DeclinedPermanent, nil
	case DeclinedExpire:
		return DeclinedExpire, nil
	}
	return "", fmt.Errorf("unknown declined policy %q", s)
}

type declinedKey struct {
	kind        Kind
	original    string
	replacement string
}

// DeclinedSet is the deduplicated, insertion-ordered set of declined edits.
type DeclinedSet struct {
	mu     sync.Mutex
	items  []DeclinedEdit
	index  map[declinedKey]struct{}
	policy DeclinedPolicy
	limit  int
}

// NewDeclinedSet creates a set. limit <= 0 means unbounded; otherwise the
// oldest entry is evicted when the set is full.
func NewDeclinedSet(policy DeclinedPolicy, limit int) *DeclinedSet {
	if policy == "" {
		policy = DeclinedPermanent
	}
	return &DeclinedSet{
		index:  make(map[declinedKey]struct{}),
		policy: policy,
		limit:  limit,
	}
}

func keyOf(e DeclinedEdit) declinedKey {
	return declinedKey{
		kind:        e.Kind,
		original:    markup.NormalizeTrim(e.Original),
		replacement: markup.NormalizeTrim(e.Replacement),
	}
}

// Add records e and reports whether it was new.
func (s *DeclinedSet) Add(e DeclinedEdit) bool {
	e.Original = strings.TrimSpace(e.Original)
	e.Replacement = strings.TrimSpace(e.Replacement)
	k := keyOf(e)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.index[k]; ok {
		return false
	}
	if s.limit > 0 && len(s.items) == s.limit {
		delete(s.index, keyOf(s.items[0]))
		s.items = s.items[1:]
	}
	s.items = append(s.items, e)
	s.index[k] = struct{}{}
	return true
}

func (s *DeclinedSet) Contains(e DeclinedEdit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[keyOf(e)]
	return ok
}

// List returns the declined edits in the order they were declined.
func (s *DeclinedSet) List() []DeclinedEdit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DeclinedEdit(nil), s.items...)
}

func (s *DeclinedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Prune applies the expiry policy against the current document text and
// returns how many entries were dropped.
func (s *DeclinedSet) Prune(text string) int {
	if s.policy != DeclinedExpire {
		return 0
	}
	norm := markup.Normalize(text)

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	dropped := 0
	for _, e := range s.items {
		if strings.Contains(norm, markup.NormalizeTrim(e.Original)) {
			kept = append(kept, e)
			continue
		}
		delete(s.index, keyOf(e))
		dropped++
	}
	s.items = kept
	return dropped
}
