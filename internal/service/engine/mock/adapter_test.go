package mock

import (
	"context"
	"errors"
	"testing"

	"speech-assessment-service/internal/models"
)

// recorder captures engine callbacks for assertions.
type recorder struct {
	segments []models.Segment
	canceled []error
	stopped  int
}

func (r *recorder) OnSegment(seg models.Segment) { r.segments = append(r.segments, seg) }
func (r *recorder) OnCanceled(err error)         { r.canceled = append(r.canceled, err) }
func (r *recorder) OnSessionStopped()            { r.stopped++ }

func TestAdapter_EmitsOneSegmentPerFrame(t *testing.T) {
	rec := &recorder{}
	a := New()
	ctx := context.Background()

	if err := a.Start(ctx, rec); err != nil {
		t.Fatalf("start: %v", err)
	}

	a.SendAudio(ctx, []byte("frame-1"))
	if len(rec.segments) != 1 {
		t.Fatalf("expected 1 segment after first frame, got %d", len(rec.segments))
	}
	a.SendAudio(ctx, []byte("frame-2"))
	a.SendAudio(ctx, []byte("frame-3"))
	if len(rec.segments) != len(DefaultScript.Segments) {
		t.Errorf("expected %d segments, got %d", len(DefaultScript.Segments), len(rec.segments))
	}
}

func TestAdapter_SegmentShape(t *testing.T) {
	rec := &recorder{}
	a := NewWithScript(Script{Segments: []ScriptedSegment{{
		Texts:        []string{"hello", "world"},
		Accuracies:   []float64{95, 85},
		Fluency:      90,
		Prosody:      80,
		WordDuration: 1000,
		Succeeded:    true,
	}}})
	ctx := context.Background()
	a.Start(ctx, rec)
	a.SendAudio(ctx, []byte("frame"))

	if len(rec.segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(rec.segments))
	}
	seg := rec.segments[0]
	if len(seg.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(seg.Words))
	}
	if seg.Words[1].Text != "world" || seg.Words[1].AccuracyScore != 85 {
		t.Errorf("unexpected second word: %+v", seg.Words[1])
	}
	if seg.Words[1].OffsetTicks != 1000 {
		t.Errorf("expected offset 1000, got %d", seg.Words[1].OffsetTicks)
	}
	if seg.TotalDurationTicks != 2000 {
		t.Errorf("expected total duration 2000, got %d", seg.TotalDurationTicks)
	}
	if seg.FluencyScore != 90 || seg.ProsodyScore != 80 {
		t.Errorf("unexpected segment scores: %+v", seg)
	}
}

func TestAdapter_CloseStopsSession(t *testing.T) {
	rec := &recorder{}
	a := New()
	ctx := context.Background()
	a.Start(ctx, rec)
	a.SendAudio(ctx, []byte("frame"))

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if rec.stopped != 1 {
		t.Errorf("expected 1 stop signal, got %d", rec.stopped)
	}

	// Close is idempotent; the terminal signal fires once.
	a.Close()
	if rec.stopped != 1 {
		t.Errorf("expected 1 stop signal after double close, got %d", rec.stopped)
	}

	// No segments after close.
	a.SendAudio(ctx, []byte("late frame"))
	if len(rec.segments) != 1 {
		t.Errorf("expected no segments after close, got %d", len(rec.segments))
	}
}

func TestAdapter_CancelScript(t *testing.T) {
	cancelErr := errors.New("engine exploded")
	rec := &recorder{}
	a := NewWithScript(Script{CancelErr: cancelErr})
	ctx := context.Background()
	a.Start(ctx, rec)
	a.Close()

	if rec.stopped != 0 {
		t.Errorf("expected no stop signal, got %d", rec.stopped)
	}
	if len(rec.canceled) != 1 || !errors.Is(rec.canceled[0], cancelErr) {
		t.Errorf("expected one cancellation with the script error, got %v", rec.canceled)
	}
}

func TestAdapter_SingleShotAssess(t *testing.T) {
	a := New()

	result, err := a.Assess(context.Background(), []byte("audio"), "the quick brown fox jumps")
	if err != nil {
		t.Fatalf("assess: %v", err)
	}
	if result.Scores.CompletenessScore != 100 {
		t.Errorf("expected completeness 100, got %v", result.Scores.CompletenessScore)
	}

	wantWords := 0
	for _, s := range DefaultScript.Segments {
		wantWords += len(s.Texts)
	}
	if len(result.Words) != wantWords {
		t.Errorf("expected %d words, got %d", wantWords, len(result.Words))
	}
	for _, w := range result.Words {
		if w.ErrorType != models.ErrorNone {
			t.Errorf("expected all words None, got %+v", w)
		}
	}
}
