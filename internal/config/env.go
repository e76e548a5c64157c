package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/local/vectorcheck/internal/classifier"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// AxiomConfig holds Axiom log forwarding configuration.
type AxiomConfig struct {
	Send          bool
	APIKey        string
	OrgID         string
	Dataset       string
	FlushInterval time.Duration
}

// FetchConfig defines download policy and limits.
type FetchConfig struct {
	ConnectTimeout     time.Duration
	ReadTimeout        time.Duration
	MaxBytes           int64
	MaxAttempts        int
	RetryBaseDelay     time.Duration
	RetryBackoffFactor float64
	AllowS3            bool
}

// BreakerConfig defines the optional Redis-backed download breaker.
type BreakerConfig struct {
	RedisURL    string
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
}

// Config is the top-level configuration.
type Config struct {
	Logging    LoggingConfig
	Axiom      AxiomConfig
	Fetch      FetchConfig
	Breaker    BreakerConfig
	Server     ServerConfig
	Thresholds classifier.Thresholds
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	// Logging defaults
	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", "logs/vectorcheck.log"),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	// Axiom defaults
	baseDataset := getEnv("AXIOM_DATASET", "dev")
	cfg.Axiom = AxiomConfig{
		Send:          parseBool(getEnv("SEND_LOGS_TO_AXIOM", "0")),
		APIKey:        getEnv("AXIOM_API_KEY", ""),
		OrgID:         getEnv("AXIOM_ORG_ID", ""),
		Dataset:       baseDataset + "_vectorcheck",
		FlushInterval: parseDuration(getEnv("AXIOM_FLUSH_INTERVAL", "10s"), 10*time.Second),
	}

	// Fetch defaults
	cfg.Fetch = FetchConfig{
		ConnectTimeout:     parseDuration(getEnv("FETCH_CONNECT_TIMEOUT", "10s"), 10*time.Second),
		ReadTimeout:        parseDuration(getEnv("FETCH_READ_TIMEOUT", "30s"), 30*time.Second),
		MaxBytes:           parseInt64(getEnv("FETCH_MAX_BYTES", ""), 50<<20),
		MaxAttempts:        parseInt(getEnv("FETCH_MAX_ATTEMPTS", "3"), 3),
		RetryBaseDelay:     parseDuration(getEnv("FETCH_RETRY_BASE_DELAY", "500ms"), 500*time.Millisecond),
		RetryBackoffFactor: parseFloat(getEnv("FETCH_RETRY_BACKOFF_FACTOR", "2.0"), 2.0),
		AllowS3:            parseBool(getEnv("FETCH_ALLOW_S3", "0")),
	}

	// Breaker defaults (disabled unless REDIS_URL is set)
	cfg.Breaker = BreakerConfig{
		RedisURL:    getEnv("REDIS_URL", ""),
		BaseBackoff: parseDuration(getEnv("BREAKER_BASE_BACKOFF", "30s"), 30*time.Second),
		MaxBackoff:  parseDuration(getEnv("BREAKER_MAX_BACKOFF", "5m"), 5*time.Minute),
	}

	// Server defaults
	cfg.Server = ServerConfig{
		Port:            getEnv("PORT", "8080"),
		ShutdownTimeout: parseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"), 10*time.Second),
	}

	cfg.Thresholds = thresholdsFromEnv()

	return cfg
}

// thresholdsFromEnv starts from the classifier defaults and applies any
// per-threshold overrides.
func thresholdsFromEnv() classifier.Thresholds {
	t := classifier.DefaultThresholds()
	t.MinVectorElements = parseInt(getEnv("CLASSIFY_MIN_VECTOR_ELEMENTS", ""), t.MinVectorElements)
	t.MinComplexShapes = parseInt(getEnv("CLASSIFY_MIN_COMPLEX_SHAPES", ""), t.MinComplexShapes)
	t.MinTechnicalLines = parseInt(getEnv("CLASSIFY_MIN_TECHNICAL_LINES", ""), t.MinTechnicalLines)
	t.IllustrationRatio = parseFloat(getEnv("CLASSIFY_ILLUSTRATION_RATIO", ""), t.IllustrationRatio)
	t.IllustrationMaxText = parseInt(getEnv("CLASSIFY_ILLUSTRATION_MAX_TEXT", ""), t.IllustrationMaxText)
	t.LayoutOnlyMaxElements = parseInt(getEnv("CLASSIFY_LAYOUT_MAX_ELEMENTS", ""), t.LayoutOnlyMaxElements)
	t.LayoutOnlyMinText = parseInt(getEnv("CLASSIFY_LAYOUT_MIN_TEXT", ""), t.LayoutOnlyMinText)
	t.LayoutOnlyMaxRatio = parseFloat(getEnv("CLASSIFY_LAYOUT_MAX_RATIO", ""), t.LayoutOnlyMaxRatio)
	t.DiagramMinRects = parseInt(getEnv("CLASSIFY_DIAGRAM_MIN_RECTS", ""), t.DiagramMinRects)
	t.DiagramMinLines = parseInt(getEnv("CLASSIFY_DIAGRAM_MIN_LINES", ""), t.DiagramMinLines)
	t.DiagramMinElements = parseInt(getEnv("CLASSIFY_DIAGRAM_MIN_ELEMENTS", ""), t.DiagramMinElements)
	t.ComplexMinCurves = parseInt(getEnv("CLASSIFY_COMPLEX_MIN_CURVES", ""), t.ComplexMinCurves)
	t.ComplexFewCurves = parseInt(getEnv("CLASSIFY_COMPLEX_FEW_CURVES", ""), t.ComplexFewCurves)
	t.ComplexFewCurvesLines = parseInt(getEnv("CLASSIFY_COMPLEX_FEW_CURVES_LINES", ""), t.ComplexFewCurvesLines)
	return t
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseInt64(s string, def int64) int64 {
	if s == "" {
		return def
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return def
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
