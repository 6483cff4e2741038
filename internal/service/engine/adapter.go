// Package engine defines the interface between the assessment core and
// speech-recognition engines.
package engine

import (
	"context"

	"speech-assessment-service/internal/models"
)

// Callback receives recognition results from the engine. The engine delivers
// zero or more segments, in order, followed by exactly one terminal signal:
// OnSessionStopped or OnCanceled.
type Callback interface {
	// OnSegment is called once per recognized speech segment.
	OnSegment(seg models.Segment)

	// OnCanceled is called when the engine cancels the session. A nil error
	// is a normal stop; a non-nil error is fatal and no scores are produced.
	OnCanceled(err error)

	// OnSessionStopped is called when the engine ends the session normally.
	OnSessionStopped()
}

// Adapter defines the interface for recognition engines (Google, mock, ...).
type Adapter interface {
	// Start begins a streaming recognition session.
	Start(ctx context.Context, cb Callback) error

	// SendAudio sends audio bytes to the engine.
	SendAudio(ctx context.Context, audio []byte) error

	// Close ends the session and releases resources. Closing prompts the
	// engine to deliver its terminal signal if it hasn't already.
	Close() error
}

// SingleShot is implemented by engines that can assess a short utterance in
// one call, returning their own pre-computed assessment. The continuous
// alignment path is bypassed entirely.
type SingleShot interface {
	Assess(ctx context.Context, audio []byte, referenceText string) (*models.AssessmentResult, error)
}
