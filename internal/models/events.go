package models

// AssessmentSnapshot is an interim score event emitted while recognition is
// still in progress.
type AssessmentSnapshot struct {
	EventType string   `json:"eventType"`
	SessionID string   `json:"sessionId"`
	Timestamp int64    `json:"timestamp"`
	Scores    ScoreSet `json:"scores"`
}

// AssessmentCompleted is the terminal event for one assessment session,
// carrying the final scores and the reconciled word list.
type AssessmentCompleted struct {
	EventType string           `json:"eventType"`
	SessionID string           `json:"sessionId"`
	Timestamp int64            `json:"timestamp"`
	Scores    ScoreSet         `json:"scores"`
	Words     []RecognizedWord `json:"words"`
}
