// Package mock provides a mock recognition engine for testing without cloud
// credentials. It simulates word-level pronunciation results: one scripted
// segment is released per audio frame, followed by exactly one terminal
// signal when the session is closed.
package mock

import (
	"context"
	"sync"

	"speech-assessment-service/internal/models"
	"speech-assessment-service/internal/service/engine"
)

// ScriptedSegment describes one segment the adapter will emit.
type ScriptedSegment struct {
	Texts        []string  // Recognized words, in order
	Accuracies   []float64 // Per-word accuracy scores, same length as Texts
	Fluency      float64   // Segment fluency score
	Prosody      float64   // Segment prosody score
	WordDuration int64     // Duration per word, in ticks
	Succeeded    bool
}

// Script drives one simulated session.
type Script struct {
	Segments  []ScriptedSegment
	CancelErr error // If set, the session ends with an error cancellation
}

// DefaultScript provides a sample two-segment utterance.
var DefaultScript = Script{
	Segments: []ScriptedSegment{
		{
			Texts:        []string{"the", "quick", "brown"},
			Accuracies:   []float64{96, 88, 91},
			Fluency:      92,
			Prosody:      85,
			WordDuration: 3_000_000,
			Succeeded:    true,
		},
		{
			Texts:        []string{"fox", "jumps"},
			Accuracies:   []float64{94, 79},
			Fluency:      88,
			Prosody:      90,
			WordDuration: 3_500_000,
			Succeeded:    true,
		},
	},
}

// Adapter implements engine.Adapter with scripted responses. Segments are
// emitted synchronously from SendAudio so tests can drive a session
// deterministically; the terminal signal fires on Close.
type Adapter struct {
	mu      sync.Mutex
	cb      engine.Callback
	script  Script
	cursor  int
	closed  bool
	stopped bool
}

// New creates a mock adapter running DefaultScript.
func New() *Adapter {
	return NewWithScript(DefaultScript)
}

// NewWithScript creates a mock adapter running the given script.
func NewWithScript(script Script) *Adapter {
	return &Adapter{script: script}
}

// Start begins a mock recognition session.
func (a *Adapter) Start(ctx context.Context, cb engine.Callback) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cb = cb
	return nil
}

// SendAudio simulates receiving one audio frame. Each frame releases the next
// scripted segment, if any remain.
func (a *Adapter) SendAudio(ctx context.Context, audio []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed || a.cb == nil {
		return nil
	}
	if a.cursor >= len(a.script.Segments) {
		return nil
	}
	seg := buildSegment(a.script.Segments[a.cursor], a.offsetLocked())
	a.cursor++
	a.cb.OnSegment(seg)
	return nil
}

// offsetLocked returns the tick offset of the next segment: the sum of all
// word durations already emitted. Caller holds the lock.
func (a *Adapter) offsetLocked() int64 {
	var offset int64
	for _, s := range a.script.Segments[:a.cursor] {
		offset += int64(len(s.Texts)) * s.WordDuration
	}
	return offset
}

// Close ends the mock session and delivers the terminal signal: an error
// cancellation when the script asks for one, a normal stop otherwise.
func (a *Adapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.closed = true

	if a.cb != nil && !a.stopped {
		a.stopped = true
		if a.script.CancelErr != nil {
			a.cb.OnCanceled(a.script.CancelErr)
		} else {
			a.cb.OnSessionStopped()
		}
	}
	return nil
}

// Assess implements engine.SingleShot: the short-audio path returns the
// engine's own assessment built from the full script, without alignment.
func (a *Adapter) Assess(ctx context.Context, audio []byte, referenceText string) (*models.AssessmentResult, error) {
	if a.script.CancelErr != nil {
		return nil, a.script.CancelErr
	}

	var words []models.RecognizedWord
	var accuracySum, fluencySum, prosodySum float64
	var offset int64
	for _, s := range a.script.Segments {
		seg := buildSegment(s, offset)
		words = append(words, seg.Words...)
		offset += seg.TotalDurationTicks
		fluencySum += s.Fluency
		prosodySum += s.Prosody
	}
	for _, w := range words {
		accuracySum += w.AccuracyScore
	}

	n := float64(len(a.script.Segments))
	accuracy := accuracySum / float64(len(words))
	fluency := fluencySum / n
	prosody := prosodySum / n

	return &models.AssessmentResult{
		Scores: models.ScoreSet{
			AccuracyScore:      accuracy,
			CompletenessScore:  100,
			FluencyScore:       fluency,
			ProsodyScore:       prosody,
			PronunciationScore: (accuracy + fluency + prosody) / 3,
		},
		Words: words,
	}, nil
}

// buildSegment expands a scripted segment into a wire-shaped payload.
func buildSegment(s ScriptedSegment, offset int64) models.Segment {
	words := make([]models.RecognizedWord, len(s.Texts))
	for i, text := range s.Texts {
		var accuracy float64
		if i < len(s.Accuracies) {
			accuracy = s.Accuracies[i]
		}
		words[i] = models.RecognizedWord{
			Text:          text,
			AccuracyScore: accuracy,
			ErrorType:     models.ErrorNone,
			DurationTicks: s.WordDuration,
			OffsetTicks:   offset + int64(i)*s.WordDuration,
		}
	}
	return models.Segment{
		Words:              words,
		FluencyScore:       s.Fluency,
		ProsodyScore:       s.Prosody,
		TotalDurationTicks: int64(len(s.Texts)) * s.WordDuration,
		Succeeded:          s.Succeeded,
	}
}
