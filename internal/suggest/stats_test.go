package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dgallion1/freewrite/internal/editor"
)

func TestLLMStatsSnapshotPercentiles(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	for _, ms := range []int64{100, 200, 300, 400, 500} {
		stats.Record(ms)
	}

	snap := stats.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected count=5, got %d", snap.Count)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
}

func TestLLMStatsPrunesExpiredSamples(t *testing.T) {
	stats := NewLLMStats(10 * time.Millisecond)
	stats.Record(100)
	stats.RecordError(5)
	time.Sleep(25 * time.Millisecond)

	if snap := stats.Snapshot(); snap.Count != 0 || snap.Errors != 0 {
		t.Fatalf("expected empty snapshot after prune, got %+v", snap)
	}
	stats.Record(200)
	if snap := stats.Snapshot(); snap.Count != 1 || snap.MinMs != 200 {
		t.Fatalf("expected one fresh sample, got %+v", snap)
	}
}

func TestLLMStatsRecordClampsNegativeDuration(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	stats.Record(-10)
	snap := stats.Snapshot()
	if snap.Count != 1 || snap.MinMs != 0 {
		t.Fatalf("expected one clamped sample, got %+v", snap)
	}
}

type fakeSource struct {
	err error
}

func (f fakeSource) Suggest(context.Context, editor.Request) ([]editor.Suggestion, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []editor.Suggestion{{Kind: editor.KindTypo, Original: "a", Replacement: "b"}}, nil
}

func TestTimedSource(t *testing.T) {
	stats := NewLLMStats(time.Hour)
	ok := Timed(fakeSource{}, stats)
	if out, err := ok.Suggest(context.Background(), editor.Request{}); err != nil || len(out) != 1 {
		t.Fatalf("expected passthrough, got %v %v", out, err)
	}
	boom := errors.New("boom")
	bad := Timed(fakeSource{err: boom}, stats)
	if _, err := bad.Suggest(context.Background(), editor.Request{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	snap := stats.Snapshot()
	if snap.Count != 1 || snap.Errors != 1 {
		t.Errorf("expected 1 success and 1 error, got %+v", snap)
	}
}
