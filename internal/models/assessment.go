// Package models defines the data structures for pronunciation assessment.
package models

import (
	"encoding/json"
	"fmt"
)

// ErrorType classifies a recognized word against the reference transcript.
type ErrorType int

const (
	// ErrorNone - word matched the reference.
	ErrorNone ErrorType = iota
	// ErrorInsertion - word was spoken but does not appear in the reference.
	ErrorInsertion
	// ErrorOmission - reference word was never spoken.
	ErrorOmission
)

// String returns the string representation of the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorNone:
		return "None"
	case ErrorInsertion:
		return "Insertion"
	case ErrorOmission:
		return "Omission"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(e))
	}
}

// MarshalJSON renders the error type as its string form.
func (e ErrorType) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// UnmarshalJSON parses the string form of an error type.
func (e *ErrorType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "None":
		*e = ErrorNone
	case "Insertion":
		*e = ErrorInsertion
	case "Omission":
		*e = ErrorOmission
	default:
		return fmt.Errorf("unknown error type: %q", s)
	}
	return nil
}

// RecognizedWord is one word-level result from the recognition engine.
// Durations and offsets are in 100-nanosecond ticks, matching the engine's
// wire format.
type RecognizedWord struct {
	Text          string    `json:"text"`
	AccuracyScore float64   `json:"accuracyScore"`
	ErrorType     ErrorType `json:"errorType"`
	DurationTicks int64     `json:"durationTicks"`
	OffsetTicks   int64     `json:"offsetTicks"`
}

// Segment is the payload of one recognition event: the word-level results for
// one recognized speech span plus the engine's per-segment scores.
type Segment struct {
	Words              []RecognizedWord `json:"words"`
	FluencyScore       float64          `json:"fluencyScore"`
	ProsodyScore       float64          `json:"prosodyScore"`
	TotalDurationTicks int64            `json:"totalDurationTicks"`
	Succeeded          bool             `json:"succeeded"`
}

// ScoreSet holds the five normalized assessment scores, each in [0,100].
type ScoreSet struct {
	AccuracyScore      float64 `json:"accuracyScore"`
	CompletenessScore  float64 `json:"completenessScore"`
	FluencyScore       float64 `json:"fluencyScore"`
	ProsodyScore       float64 `json:"prosodyScore"`
	PronunciationScore float64 `json:"pronunciationScore"`
}

// AssessmentResult is the output of one assessment: the score set plus the
// reconciled word list accounting for every reference and recognized word.
type AssessmentResult struct {
	Scores ScoreSet         `json:"scores"`
	Words  []RecognizedWord `json:"words"`
}
