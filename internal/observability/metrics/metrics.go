// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "speech_assessment"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Assessment session metrics
	AssessmentsTotal   prometheus.Counter
	AssessmentsActive  prometheus.Gauge
	AssessmentsSuccess prometheus.Counter
	AssessmentsFailed  prometheus.Counter
	AssessmentDuration prometheus.Histogram
	ShortAudioTotal    prometheus.Counter

	// Segment metrics
	SegmentsReceived prometheus.Counter
	SegmentsRejected *prometheus.CounterVec

	// Word metrics
	WordsRecognized prometheus.Counter
	WordErrors      *prometheus.CounterVec

	// Score metrics
	ScoreDistribution *prometheus.HistogramVec

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Engine metrics
	EngineErrors    *prometheus.CounterVec
	EngineCanceled  prometheus.Counter
	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		AssessmentsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_total",
			Help:      "Total number of assessment sessions started",
		}),
		AssessmentsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "assessments_active",
			Help:      "Number of currently active assessment sessions",
		}),
		AssessmentsSuccess: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_success_total",
			Help:      "Total number of assessments that produced a score set",
		}),
		AssessmentsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_failed_total",
			Help:      "Total number of assessments that failed",
		}),
		AssessmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "assessment_duration_seconds",
			Help:      "Duration of assessment sessions in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),
		ShortAudioTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "short_audio_assessments_total",
			Help:      "Total number of assessments routed to the short-audio path",
		}),

		SegmentsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_received_total",
			Help:      "Total number of recognition segments received",
		}),
		SegmentsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_rejected_total",
			Help:      "Total number of recognition segments rejected",
		}, []string{"reason"}),

		WordsRecognized: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "words_recognized_total",
			Help:      "Total number of recognized words accumulated",
		}),
		WordErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "word_errors_total",
			Help:      "Total number of reconciled words by error type",
		}, []string{"error_type"}),

		ScoreDistribution: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "score",
			Help:      "Distribution of final scores by dimension",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}, []string{"dimension"}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		EngineErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_errors_total",
			Help:      "Total number of recognition engine errors",
		}, []string{"provider", "error_type"}),
		EngineCanceled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "engine_canceled_total",
			Help:      "Total number of fatal engine cancellations",
		}),
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status",
		}, []string{"route", "status"}),
		HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"route"}),
	}
}

// RecordAssessmentStart records a new assessment session starting.
func (m *Metrics) RecordAssessmentStart() {
	m.AssessmentsTotal.Inc()
	m.AssessmentsActive.Inc()
}

// RecordAssessmentEnd records an assessment session ending.
func (m *Metrics) RecordAssessmentEnd(success bool, durationSeconds float64) {
	m.AssessmentsActive.Dec()
	m.AssessmentDuration.Observe(durationSeconds)
	if success {
		m.AssessmentsSuccess.Inc()
	} else {
		m.AssessmentsFailed.Inc()
	}
}

// RecordShortAudio records an assessment taking the short-audio path.
func (m *Metrics) RecordShortAudio() {
	m.ShortAudioTotal.Inc()
}

// RecordSegment records a recognition segment being accepted.
func (m *Metrics) RecordSegment(words int) {
	m.SegmentsReceived.Inc()
	m.WordsRecognized.Add(float64(words))
}

// RecordSegmentRejected records a recognition segment being rejected.
func (m *Metrics) RecordSegmentRejected(reason string) {
	m.SegmentsRejected.WithLabelValues(reason).Inc()
}

// RecordWordError records one reconciled word by its error type.
func (m *Metrics) RecordWordError(errorType string) {
	m.WordErrors.WithLabelValues(errorType).Inc()
}

// RecordScores records the final score set by dimension.
func (m *Metrics) RecordScores(accuracy, completeness, fluency, prosody, pronunciation float64) {
	m.ScoreDistribution.WithLabelValues("accuracy").Observe(accuracy)
	m.ScoreDistribution.WithLabelValues("completeness").Observe(completeness)
	m.ScoreDistribution.WithLabelValues("fluency").Observe(fluency)
	m.ScoreDistribution.WithLabelValues("prosody").Observe(prosody)
	m.ScoreDistribution.WithLabelValues("pronunciation").Observe(pronunciation)
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordEngineError records a recognition engine error.
func (m *Metrics) RecordEngineError(provider, errorType string) {
	m.EngineErrors.WithLabelValues(provider, errorType).Inc()
}

// RecordEngineCanceled records a fatal engine cancellation.
func (m *Metrics) RecordEngineCanceled() {
	m.EngineCanceled.Inc()
}

// RecordHTTPRequest records one HTTP request.
func (m *Metrics) RecordHTTPRequest(route string, status int, durationSeconds float64) {
	m.HTTPRequests.WithLabelValues(route, httpStatusClass(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(durationSeconds)
}

func httpStatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
