// Command assessclient posts a sample assessment request to a running
// service and prints the resulting scores.
package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"speech-assessment-service/internal/models"
)

func main() {
	// Silence stands in for real audio; the mock engine ignores content.
	audio := make([]byte, 64000)

	req := models.AssessmentRequest{
		ReferenceText:   "The quick brown fox jumps over the lazy dog.",
		AudioBase64:     base64.StdEncoding.EncodeToString(audio),
		AudioDurationMs: 30000,
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("failed to marshal request: %v", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post("http://localhost:8080/v1/assessments", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e map[string]string
		_ = json.NewDecoder(resp.Body).Decode(&e)
		log.Fatalf("assessment failed: status=%d error=%s", resp.StatusCode, e["error"])
	}

	var result models.AssessmentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		log.Fatalf("failed to decode response: %v", err)
	}

	fmt.Printf("accuracy:      %.0f\n", result.Scores.AccuracyScore)
	fmt.Printf("completeness:  %.0f\n", result.Scores.CompletenessScore)
	fmt.Printf("fluency:       %.0f\n", result.Scores.FluencyScore)
	fmt.Printf("prosody:       %.0f\n", result.Scores.ProsodyScore)
	fmt.Printf("pronunciation: %.0f\n", result.Scores.PronunciationScore)
	for _, w := range result.Words {
		fmt.Printf("  %-15s %-10s %.0f\n", w.Text, w.ErrorType, w.AccuracyScore)
	}
}
