package models

// AssessmentRequest is the request-boundary payload: the reference transcript
// the speaker was meant to say, the audio, and a duration hint used only to
// pick the short-audio vs continuous path.
type AssessmentRequest struct {
	ReferenceText   string `json:"referenceText"`
	AudioBase64     string `json:"audioBase64"`
	AudioDurationMs int64  `json:"audioDurationMs"`
}
