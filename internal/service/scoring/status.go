package scoring

import "fmt"

// Status is the recognition status of a session at the time scores are
// computed.
type Status int

const (
	// StatusInProgress - recognition has not yet concluded.
	StatusInProgress Status = iota
	// StatusSuccess - recognition concluded normally.
	StatusSuccess
	// StatusFailed - recognition concluded but the engine reported a failure.
	StatusFailed
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusInProgress:
		return "IN_PROGRESS"
	case StatusSuccess:
		return "SUCCESS"
	case StatusFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(s))
	}
}

// IsTerminal reports whether recognition has concluded.
func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusFailed
}
