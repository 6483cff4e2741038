package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"speech-assessment-service/internal/events"
	"speech-assessment-service/internal/models"
	"speech-assessment-service/internal/observability/logging"
	"speech-assessment-service/internal/observability/metrics"
	"speech-assessment-service/internal/schema"
	"speech-assessment-service/internal/service/assessment"
	"speech-assessment-service/internal/service/engine"
	"speech-assessment-service/internal/service/scoring"
	"speech-assessment-service/internal/service/session"
)

// audioFrameBytes is the chunk size used when feeding audio to the engine.
const audioFrameBytes = 3200

// AdapterFactory creates one recognition engine session per request.
type AdapterFactory func(ctx context.Context) (engine.Adapter, error)

// Server handles assessment API requests.
type Server struct {
	newAdapter      AdapterFactory
	publisher       *events.Publisher
	validator       *schema.Validator
	shortAudioMaxMs int64
	logger          zerolog.Logger
}

// NewServer creates the API server. Requests whose audio duration hint is at
// or below shortAudioMaxMs take the short-audio path when the engine
// supports it.
func NewServer(newAdapter AdapterFactory, publisher *events.Publisher, shortAudioMaxMs int64) *Server {
	return &Server{
		newAdapter:      newAdapter,
		publisher:       publisher,
		validator:       schema.New(),
		shortAudioMaxMs: shortAudioMaxMs,
		logger:          logging.WithComponent("http"),
	}
}

// handleAssess runs one assessment request end to end: decode and validate,
// pick the short-audio or continuous path, stream audio to the engine, and
// wait for finalization.
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}
	if err := s.validator.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "audioBase64 is not valid base64")
		return
	}

	sessionID := uuid.NewString()
	logger := logging.WithSession(sessionID)

	adapter, err := s.newAdapter(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create engine adapter")
		writeError(w, http.StatusInternalServerError, "recognition engine unavailable")
		return
	}

	// Short audio: forward the engine's own pre-computed assessment, no
	// alignment needed.
	if req.AudioDurationMs <= s.shortAudioMaxMs {
		if ss, ok := adapter.(engine.SingleShot); ok {
			metrics.DefaultMetrics.RecordShortAudio()
			result, err := ss.Assess(ctx, audio, req.ReferenceText)
			if err != nil {
				logger.Error().Err(err).Msg("Short-audio assessment failed")
				writeError(w, http.StatusBadGateway, "recognition failed")
				return
			}
			writeJSON(w, http.StatusOK, result)
			return
		}
	}

	sess := session.New(sessionID, req.ReferenceText)
	h := assessment.NewHandler(adapter, s.publisher, sess)

	if err := h.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start engine session")
		writeError(w, http.StatusBadGateway, "recognition engine unavailable")
		return
	}

	for off := 0; off < len(audio); off += audioFrameBytes {
		end := off + audioFrameBytes
		if end > len(audio) {
			end = len(audio)
		}
		if err := h.SendAudio(ctx, audio[off:end]); err != nil {
			logger.Error().Err(err).Msg("Failed to send audio frame")
			break
		}
	}
	if err := h.Close(); err != nil {
		logger.Error().Err(err).Msg("Failed to close engine session")
	}

	result, err := h.Wait(ctx)
	if err != nil {
		writeAssessError(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeAssessError maps core errors onto HTTP statuses: validation failures
// are the caller's fault, engine failures are upstream's.
func writeAssessError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	logger.Warn().Err(err).Msg("Assessment failed")
	switch {
	case errors.Is(err, scoring.ErrEmptyReference),
		errors.Is(err, scoring.ErrNoScorableWords):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, scoring.ErrNoSegments),
		errors.Is(err, session.ErrRecognitionCanceled),
		errors.Is(err, session.ErrMalformedSegment):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "assessment failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
