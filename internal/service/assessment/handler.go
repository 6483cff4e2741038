// Package assessment provides the handler that coordinates a recognition
// engine session with the scoring core and publishes results.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"speech-assessment-service/internal/events"
	"speech-assessment-service/internal/models"
	"speech-assessment-service/internal/observability/logging"
	"speech-assessment-service/internal/observability/metrics"
	"speech-assessment-service/internal/service/engine"
	"speech-assessment-service/internal/service/session"
)

// Handler manages one assessment request. It implements engine.Callback to
// receive recognition events, folds them into the session accumulator, and
// resolves the pending wait when the engine delivers its terminal signal.
type Handler struct {
	adapter   engine.Adapter
	publisher *events.Publisher
	sess      *session.Session
	metrics   *metrics.Metrics
	logger    zerolog.Logger

	startTime time.Time

	once      sync.Once
	done      chan struct{}
	engineErr error
}

// NewHandler creates a handler for one assessment session.
func NewHandler(adapter engine.Adapter, publisher *events.Publisher, sess *session.Session) *Handler {
	return &Handler{
		adapter:   adapter,
		publisher: publisher,
		sess:      sess,
		metrics:   metrics.DefaultMetrics,
		logger:    logging.WithSession(sess.ID()),
		startTime: time.Now(),
		done:      make(chan struct{}),
	}
}

// Start begins the recognition session with this handler as the callback
// receiver.
func (h *Handler) Start(ctx context.Context) error {
	h.metrics.RecordAssessmentStart()
	return h.adapter.Start(ctx, h)
}

// SendAudio forwards audio bytes to the recognition engine.
func (h *Handler) SendAudio(ctx context.Context, audio []byte) error {
	return h.adapter.SendAudio(ctx, audio)
}

// Close ends the engine session. The engine responds with its terminal
// signal once its remaining results are drained.
func (h *Handler) Close() error {
	return h.adapter.Close()
}

// --- engine.Callback implementation ---

// OnSegment folds one recognition segment into the session and publishes an
// interim score snapshot.
func (h *Handler) OnSegment(seg models.Segment) {
	if err := h.sess.OnSegmentRecognized(seg); err != nil {
		h.metrics.RecordSegmentRejected(rejectReason(err))
		h.logger.Warn().
			Err(err).
			Str("state", h.sess.State().String()).
			Msg("Segment rejected")
		return
	}
	h.metrics.RecordSegment(len(seg.Words))

	snapshot, err := h.sess.Snapshot()
	if err != nil {
		h.logger.Debug().Err(err).Msg("Interim snapshot unavailable")
		return
	}
	ev := models.AssessmentSnapshot{
		EventType: "assessment.scores.snapshot",
		SessionID: h.sess.ID(),
		Timestamp: time.Now().UnixMilli(),
		Scores:    snapshot.Scores,
	}
	if err := h.publisher.PublishSnapshot(context.Background(), h.sess.ID(), ev); err != nil {
		h.logger.Error().Err(err).Msg("Failed to publish snapshot")
	}
}

// OnCanceled records the engine's cancellation and resolves the pending
// wait. A non-nil error means no score set will be produced.
func (h *Handler) OnCanceled(err error) {
	if serr := h.sess.OnCanceled(err != nil); serr != nil {
		h.logger.Warn().Err(serr).Msg("Cancellation signal after finalization")
	}
	if err != nil {
		h.metrics.RecordEngineCanceled()
		h.logger.Error().Err(err).Msg("Recognition canceled by engine")
	}
	h.signal(err)
}

// OnSessionStopped resolves the pending wait normally.
func (h *Handler) OnSessionStopped() {
	h.signal(nil)
}

func (h *Handler) signal(err error) {
	h.once.Do(func() {
		h.engineErr = err
		close(h.done)
	})
}

// Wait blocks until the engine delivers its terminal signal, then finalizes
// the session, records metrics and publishes the completed event. This is
// the pipeline's only suspension point.
func (h *Handler) Wait(ctx context.Context) (*models.AssessmentResult, error) {
	select {
	case <-ctx.Done():
		h.metrics.RecordAssessmentEnd(false, time.Since(h.startTime).Seconds())
		return nil, ctx.Err()
	case <-h.done:
	}

	result, err := h.sess.Finalize()
	if err != nil {
		h.metrics.RecordAssessmentEnd(false, time.Since(h.startTime).Seconds())
		if h.engineErr != nil {
			return nil, fmt.Errorf("%w: %v", err, h.engineErr)
		}
		return nil, err
	}

	for _, w := range result.Words {
		h.metrics.RecordWordError(w.ErrorType.String())
	}
	scores := result.Scores
	h.metrics.RecordScores(
		scores.AccuracyScore,
		scores.CompletenessScore,
		scores.FluencyScore,
		scores.ProsodyScore,
		scores.PronunciationScore,
	)
	h.metrics.RecordAssessmentEnd(true, time.Since(h.startTime).Seconds())

	ev := models.AssessmentCompleted{
		EventType: "assessment.scores.completed",
		SessionID: h.sess.ID(),
		Timestamp: time.Now().UnixMilli(),
		Scores:    scores,
		Words:     result.Words,
	}
	if err := h.publisher.PublishCompleted(ctx, h.sess.ID(), ev); err != nil {
		h.logger.Error().Err(err).Msg("Failed to publish completed event")
	}

	h.logger.Info().
		Float64("accuracy", scores.AccuracyScore).
		Float64("completeness", scores.CompletenessScore).
		Float64("fluency", scores.FluencyScore).
		Float64("prosody", scores.ProsodyScore).
		Float64("pronunciation", scores.PronunciationScore).
		Int("words", len(result.Words)).
		Msg("Assessment finalized")
	return result, nil
}

// rejectReason buckets segment rejection errors for metrics labels.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, session.ErrMalformedSegment):
		return "malformed"
	case errors.Is(err, session.ErrSessionFinalized):
		return "finalized"
	default:
		return "other"
	}
}
