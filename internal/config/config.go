// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Configuration holds all service configuration.
type Configuration struct {
	Service       ServiceConfig
	Engine        EngineConfig
	Kafka         KafkaConfig
	Observability ObservabilityConfig
}

// ServiceConfig holds service identity and listener settings.
type ServiceConfig struct {
	Principal string
	HTTPPort  string
}

// EngineConfig holds recognition engine settings.
type EngineConfig struct {
	Provider        string // mock, google
	LanguageCode    string
	SampleRateHz    int
	ShortAudioMaxMs int64 // Requests at or below this duration take the short-audio path
}

// KafkaConfig holds event publishing settings.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	TopicSnapshot string
	TopicComplete string
	Principal     string
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsPort string
}

// Load reads configuration from environment variables, falling back to
// defaults for unset or invalid values.
func Load() *Configuration {
	return &Configuration{
		Service: ServiceConfig{
			Principal: envOrDefault("SERVICE_PRINCIPAL", "svc-speech-assessment"),
			HTTPPort:  envOrDefault("HTTP_PORT", "8080"),
		},
		Engine: EngineConfig{
			Provider:        envOrDefault("ENGINE_PROVIDER", "mock"),
			LanguageCode:    envOrDefault("ENGINE_LANGUAGE_CODE", "en-US"),
			SampleRateHz:    envIntOrDefault("ENGINE_SAMPLE_RATE_HZ", 16000),
			ShortAudioMaxMs: int64(envIntOrDefault("ENGINE_SHORT_AUDIO_MAX_MS", 15000)),
		},
		Kafka: KafkaConfig{
			Enabled:       envBoolOrDefault("KAFKA_ENABLED", false),
			Brokers:       envListOrDefault("KAFKA_BROKERS", nil),
			TopicSnapshot: envOrDefault("KAFKA_TOPIC_SNAPSHOT", "assessment.scores.snapshot"),
			TopicComplete: envOrDefault("KAFKA_TOPIC_COMPLETED", "assessment.scores.completed"),
			Principal:     envOrDefault("SERVICE_PRINCIPAL", "svc-speech-assessment"),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envBoolOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envListOrDefault(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
