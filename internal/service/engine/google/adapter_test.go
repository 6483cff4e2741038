package google

import (
	"errors"
	"io"
	"testing"
	"time"

	speechpb "google.golang.org/genproto/googleapis/cloud/speech/v1"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/durationpb"

	"speech-assessment-service/internal/models"
)

type recorder struct {
	segments []models.Segment
	canceled []error
	stopped  int
}

func (r *recorder) OnSegment(seg models.Segment) { r.segments = append(r.segments, seg) }
func (r *recorder) OnCanceled(err error)         { r.canceled = append(r.canceled, err) }
func (r *recorder) OnSessionStopped()            { r.stopped++ }

func word(text string, startMs, endMs int64, confidence float32) *speechpb.WordInfo {
	return &speechpb.WordInfo{
		Word:       text,
		StartTime:  durationpb.New(time.Duration(startMs) * time.Millisecond),
		EndTime:    durationpb.New(time.Duration(endMs) * time.Millisecond),
		Confidence: confidence,
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		name     string
		d        *durationpb.Duration
		expected int64
	}{
		{"nil", nil, 0},
		{"zero", durationpb.New(0), 0},
		{"one millisecond", durationpb.New(time.Millisecond), 10_000},
		{"one second", durationpb.New(time.Second), 10_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ticks(tt.d); got != tt.expected {
				t.Errorf("ticks(%v) = %d, want %d", tt.d, got, tt.expected)
			}
		})
	}
}

func TestSegmentFromAlternative(t *testing.T) {
	alt := &speechpb.SpeechRecognitionAlternative{
		Transcript: "hello world",
		Confidence: 0.9,
		Words: []*speechpb.WordInfo{
			word("hello", 0, 400, 0.9),
			word("world", 500, 1000, 0.7),
		},
	}

	seg := segmentFromAlternative(alt)

	if len(seg.Words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(seg.Words))
	}
	if seg.Words[0].Text != "hello" || seg.Words[0].AccuracyScore != 90 {
		t.Errorf("unexpected first word: %+v", seg.Words[0])
	}
	if seg.Words[1].OffsetTicks != 5_000_000 {
		t.Errorf("expected second word offset 5000000 ticks, got %d", seg.Words[1].OffsetTicks)
	}
	if seg.Words[1].DurationTicks != 5_000_000 {
		t.Errorf("expected second word duration 5000000 ticks, got %d", seg.Words[1].DurationTicks)
	}

	// Voiced 900ms over a 1000ms span.
	if seg.TotalDurationTicks != 9_000_000 {
		t.Errorf("expected voiced duration 9000000 ticks, got %d", seg.TotalDurationTicks)
	}
	if seg.FluencyScore != 90 {
		t.Errorf("expected fluency 90, got %v", seg.FluencyScore)
	}

	// mean 0.8, spread 0.2: 100*0.8 - 50*0.2 = 70
	if seg.ProsodyScore < 69.99 || seg.ProsodyScore > 70.01 {
		t.Errorf("expected prosody 70, got %v", seg.ProsodyScore)
	}
	if !seg.Succeeded {
		t.Error("expected segment marked succeeded")
	}
}

func TestSegmentFromAlternative_ConfidenceFallback(t *testing.T) {
	alt := &speechpb.SpeechRecognitionAlternative{
		Transcript: "hello",
		Confidence: 0.85,
		Words: []*speechpb.WordInfo{
			// Word-level confidence omitted by older models.
			word("hello", 0, 400, 0),
		},
	}

	seg := segmentFromAlternative(alt)

	if seg.Words[0].AccuracyScore != 85 {
		t.Errorf("expected fallback to alternative confidence, got %v", seg.Words[0].AccuracyScore)
	}
}

func TestSegmentFromAlternative_NoWords(t *testing.T) {
	seg := segmentFromAlternative(&speechpb.SpeechRecognitionAlternative{Transcript: ""})

	if len(seg.Words) != 0 {
		t.Errorf("expected no words, got %d", len(seg.Words))
	}
	if seg.FluencyScore != 0 || seg.ProsodyScore != 0 || seg.TotalDurationTicks != 0 {
		t.Errorf("expected zero scores for empty alternative, got %+v", seg)
	}
}

func TestTerminate_SignalMapping(t *testing.T) {
	t.Run("EOF stops session", func(t *testing.T) {
		rec := &recorder{}
		a := &Adapter{cb: rec}
		a.terminate(io.EOF)
		if rec.stopped != 1 || len(rec.canceled) != 0 {
			t.Errorf("expected one stop and no cancellations, got stopped=%d canceled=%v", rec.stopped, rec.canceled)
		}
	})

	t.Run("grpc canceled is a non-error cancellation", func(t *testing.T) {
		rec := &recorder{}
		a := &Adapter{cb: rec}
		a.terminate(status.Error(codes.Canceled, "context canceled"))
		if len(rec.canceled) != 1 || rec.canceled[0] != nil {
			t.Errorf("expected one nil cancellation, got %v", rec.canceled)
		}
	})

	t.Run("other errors cancel with the error", func(t *testing.T) {
		rec := &recorder{}
		a := &Adapter{cb: rec}
		streamErr := errors.New("stream reset")
		a.terminate(streamErr)
		if len(rec.canceled) != 1 || !errors.Is(rec.canceled[0], streamErr) {
			t.Errorf("expected the stream error, got %v", rec.canceled)
		}
	})
}
