package editor

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/freewrite/internal/markup"
)

// Timing holds the pauses between staging steps.
type Timing struct {
	ScrollSettle time.Duration `yaml:"scroll_settle"`
	CursorDwell  time.Duration `yaml:"cursor_dwell"`
	StrikeDwell  time.Duration `yaml:"strike_dwell"`
	TypeTick     time.Duration `yaml:"type_tick"`
	StagePause   time.Duration `yaml:"stage_pause"`
}

func DefaultTiming() Timing {
	return Timing{
		ScrollSettle: 600 * time.Millisecond,
		CursorDwell:  300 * time.Millisecond,
		StrikeDwell:  800 * time.Millisecond,
		TypeTick:     30 * time.Millisecond,
		StagePause:   200 * time.Millisecond,
	}
}

// Clock waits between steps. Sleep returns early once ctx is done.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 || ctx.Err() != nil {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Viewport decides whether an offset in the markup is on screen. Reveal
// scrolls to it when it is not and reports whether it did.
type Viewport interface {
	Reveal(doc string, offset int) bool
}

// AlwaysVisible never scrolls.
type AlwaysVisible struct{}

func (AlwaysVisible) Reveal(string, int) bool { return false }

// LineViewport models a window of a fixed number of lines.
type LineViewport struct {
	mu    sync.Mutex
	lines int
	top   int
}

func NewLineViewport(lines int) *LineViewport {
	if lines <= 0 {
		lines = 40
	}
	return &LineViewport{lines: lines}
}

func (v *LineViewport) Reveal(doc string, offset int) bool {
	line := lineOf(doc, offset)

	v.mu.Lock()
	defer v.mu.Unlock()
	if line >= v.top && line < v.top+v.lines {
		return false
	}
	v.top = max(0, line-v.lines/2)
	return true
}

// Top is the first visible line.
func (v *LineViewport) Top() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

// lineOf counts the line breaks before offset: newlines in the text plus
// elements that break a line.
func lineOf(doc string, offset int) int {
	offset = min(max(offset, 0), len(doc))
	head := doc[:offset]
	n := strings.Count(markup.PlainText(head), "\n")
	lower := strings.ToLower(head)
	for _, tag := range []string{"<br", "</p>", "</div>", "</li>"} {
		n += strings.Count(lower, tag)
	}
	return n
}
