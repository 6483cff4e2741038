// Package session provides the per-request accumulator state machine for a
// pronunciation assessment.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"speech-assessment-service/internal/models"
	"speech-assessment-service/internal/service/scoring"
)

// State represents the lifecycle state of an assessment session.
type State int

const (
	// StateActive - Session accepts recognition events.
	StateActive State = iota
	// StateFinalized - Scores have been produced; no further events accepted.
	StateFinalized
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateActive:
		return "ACTIVE"
	case StateFinalized:
		return "FINALIZED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// Errors for invalid session operations and failed finalization.
var (
	ErrSessionFinalized    = errors.New("session is finalized")
	ErrRecognitionCanceled = errors.New("recognition canceled")
	ErrMalformedSegment    = errors.New("malformed segment")
)

// Session accumulates recognition segments for one assessment request and
// produces the final score set exactly once.
//
// State transitions:
//
//	ACTIVE → FINALIZED
//	  │         │
//	  │         └── Finalize() ──→ only once
//	  │
//	  ├── OnSegmentRecognized() ──→ multiple times
//	  ├── OnCanceled() ──→ records the engine's cancellation
//	  └── Snapshot() ──→ interim scores, multiple times
//
// Every operation after Finalize returns ErrSessionFinalized - misuse is
// reported, never silently ignored.
//
// A session is scoped to a single request and never shared across requests.
// Engine events arrive strictly in order, one at a time; the mutex guards the
// handoff between the engine callback goroutine and the request goroutine.
type Session struct {
	mu sync.Mutex

	id        string
	reference []string

	words    []models.RecognizedWord
	segments []models.Segment

	engineFailed bool
	canceled     bool
	state        State
}

// New creates a session for the given reference transcript. The transcript is
// normalized once and the token sequence is immutable afterwards.
func New(id, referenceText string) *Session {
	return &Session{
		id:        id,
		reference: scoring.NormalizeText(referenceText),
	}
}

// ID returns the session ID.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ReferenceTokens returns the number of normalized reference tokens.
func (s *Session) ReferenceTokens() int {
	return len(s.reference)
}

// OnSegmentRecognized folds one recognition event into the session: the
// segment's words are appended to the accumulated word sequence in arrival
// order and the segment is recorded for fluency/prosody weighting. A segment
// with Succeeded=false marks the session as failed but accumulation
// continues - later segments may still arrive.
func (s *Session) OnSegmentRecognized(seg models.Segment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrSessionFinalized
	}
	if err := validateSegment(seg); err != nil {
		// Reject the segment, keep the session alive.
		return err
	}

	s.words = append(s.words, seg.Words...)
	s.segments = append(s.segments, seg)
	if !seg.Succeeded {
		s.engineFailed = true
	}
	return nil
}

// validateSegment rejects engine payloads with impossible fields.
func validateSegment(seg models.Segment) error {
	if seg.TotalDurationTicks < 0 {
		return fmt.Errorf("%w: negative total duration %d", ErrMalformedSegment, seg.TotalDurationTicks)
	}
	for _, w := range seg.Words {
		if w.Text == "" {
			return fmt.Errorf("%w: word with empty text", ErrMalformedSegment)
		}
		if w.DurationTicks < 0 {
			return fmt.Errorf("%w: word %q has negative duration", ErrMalformedSegment, w.Text)
		}
		if w.AccuracyScore < 0 || w.AccuracyScore > 100 {
			return fmt.Errorf("%w: word %q accuracy score %v out of range", ErrMalformedSegment, w.Text, w.AccuracyScore)
		}
	}
	return nil
}

// OnCanceled records the engine's cancellation signal. An error cancellation
// means finalization will fail with ErrRecognitionCanceled and no score set
// is ever produced; a non-error cancellation is a normal stop.
func (s *Session) OnCanceled(isError bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrSessionFinalized
	}
	if isError {
		s.canceled = true
	}
	return nil
}

// Snapshot computes an interim result while recognition is still in
// progress. Trailing omissions are not judged yet and completeness is
// excluded from the overall score.
func (s *Session) Snapshot() (*models.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, ErrSessionFinalized
	}
	if s.canceled {
		return nil, ErrRecognitionCanceled
	}
	return s.assess(scoring.StatusInProgress)
}

// Finalize transitions the session to FINALIZED and produces the score set.
// Valid exactly once; all operations afterwards return ErrSessionFinalized.
func (s *Session) Finalize() (*models.AssessmentResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, ErrSessionFinalized
	}
	s.state = StateFinalized

	if s.canceled {
		return nil, ErrRecognitionCanceled
	}
	status := scoring.StatusSuccess
	if s.engineFailed {
		status = scoring.StatusFailed
	}
	return s.assess(status)
}

// assess runs the alignment, reconciliation and aggregation pipeline over
// the accumulated state. Caller holds the lock.
func (s *Session) assess(status scoring.Status) (*models.AssessmentResult, error) {
	hyp := make([]string, len(s.words))
	for i, w := range s.words {
		hyp[i] = strings.ToLower(w.Text)
	}

	blocks := scoring.Align(s.reference, hyp)
	reconciled := scoring.Reconcile(blocks, s.reference, s.words, status)

	scores, err := scoring.Aggregate(reconciled, len(s.reference), s.segments, status)
	if err != nil {
		return nil, err
	}
	return &models.AssessmentResult{Scores: scores, Words: reconciled}, nil
}
