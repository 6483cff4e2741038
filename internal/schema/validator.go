// Package schema validates inbound assessment requests.
package schema

import (
	"errors"
	"fmt"

	"speech-assessment-service/internal/models"
)

// ErrInvalidRequest is the base error for request validation failures.
var ErrInvalidRequest = errors.New("invalid assessment request")

// Validator checks assessment requests before a session is created.
type Validator struct{}

// New creates a request validator.
func New() *Validator {
	return &Validator{}
}

// Validate rejects requests the core cannot assess: a missing reference
// transcript, missing audio, or a negative duration hint.
func (v *Validator) Validate(req *models.AssessmentRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty body", ErrInvalidRequest)
	}
	if req.ReferenceText == "" {
		return fmt.Errorf("%w: referenceText is required", ErrInvalidRequest)
	}
	if req.AudioBase64 == "" {
		return fmt.Errorf("%w: audioBase64 is required", ErrInvalidRequest)
	}
	if req.AudioDurationMs < 0 {
		return fmt.Errorf("%w: audioDurationMs must not be negative", ErrInvalidRequest)
	}
	return nil
}
