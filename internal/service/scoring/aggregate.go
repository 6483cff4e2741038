package scoring

import (
	"fmt"
	"math"
	"sort"

	"speech-assessment-service/internal/models"
)

// pronunciationWeights apply to the four sub-scores sorted ascending, so the
// weakest dimension carries the largest weight. This discourages gaming one
// metric at the expense of another.
var pronunciationWeights = [4]float64{0.4, 0.2, 0.2, 0.2}

// Aggregate computes the five assessment scores from the reconciled word
// list, the reference token count, and the accumulated segments. All scores
// are rounded to the nearest integer and clamped to [0,100].
func Aggregate(reconciled []models.RecognizedWord, refTokens int, segments []models.Segment, status Status) (models.ScoreSet, error) {
	if refTokens == 0 {
		return models.ScoreSet{}, fmt.Errorf("%w: nothing to assess against", ErrEmptyReference)
	}
	if len(segments) == 0 {
		return models.ScoreSet{}, fmt.Errorf("%w: recognition produced no results", ErrNoSegments)
	}

	matched := 0
	accuracySum := 0.0
	accuracyCount := 0
	for _, w := range reconciled {
		if w.ErrorType == models.ErrorNone {
			matched++
		}
		// Insertions are excluded from the accuracy mean; omission
		// placeholders stay in and contribute their zero score.
		if w.ErrorType != models.ErrorInsertion {
			accuracySum += w.AccuracyScore
			accuracyCount++
		}
	}
	if accuracyCount == 0 {
		return models.ScoreSet{}, fmt.Errorf("%w: every recognized word was an insertion", ErrNoScorableWords)
	}

	accuracy := clampScore(accuracySum / float64(accuracyCount))
	completeness := clampScore(100 * float64(matched) / float64(refTokens))

	var fluencyWeighted, totalDuration, prosodySum float64
	for _, seg := range segments {
		fluencyWeighted += seg.FluencyScore * float64(seg.TotalDurationTicks)
		totalDuration += float64(seg.TotalDurationTicks)
		prosodySum += seg.ProsodyScore
	}
	fluency := 0.0
	if totalDuration > 0 {
		fluency = clampScore(fluencyWeighted / totalDuration)
	}
	prosody := clampScore(prosodySum / float64(len(segments)))

	var pronunciation float64
	if status.IsTerminal() {
		sorted := []float64{accuracy, completeness, fluency, prosody}
		sort.Float64s(sorted)
		for i, s := range sorted {
			pronunciation += pronunciationWeights[i] * s
		}
	} else {
		// Completeness is not meaningful before recognition concludes.
		pronunciation = 0.6*accuracy + 0.2*fluency + 0.2*prosody
	}

	return models.ScoreSet{
		AccuracyScore:      accuracy,
		CompletenessScore:  completeness,
		FluencyScore:       fluency,
		ProsodyScore:       prosody,
		PronunciationScore: clampScore(pronunciation),
	}, nil
}

// clampScore rounds to the nearest integer and clamps into [0,100].
func clampScore(s float64) float64 {
	r := math.Round(s)
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}
