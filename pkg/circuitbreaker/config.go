package circuitbreaker

import "time"

// Config holds the tuning knobs for one circuit breaker.
type Config struct {
	// Name identifies the breaker in logs and metrics.
	Name string `envconfig:"BREAKER_NAME" default:"pager-read" json:"name"`

	// Enabled determines whether the breaker is active. When false,
	// New returns nil and Execute passes calls through directly.
	Enabled bool `envconfig:"BREAKER_ENABLED" default:"true" json:"enabled"`

	// MaxRequests caps how many probe requests may pass while
	// half-open. Zero means a single probe.
	MaxRequests uint `envconfig:"BREAKER_MAX_REQUESTS" default:"3" json:"max_requests"`

	// Interval is the cyclic period of the closed state after which
	// internal counts reset. Zero means counts never reset while
	// closed.
	Interval time.Duration `envconfig:"BREAKER_INTERVAL" default:"60s" json:"interval"`

	// Timeout is how long the breaker stays open before moving to
	// half-open. Zero falls back to gobreaker's 60 second default.
	Timeout time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s" json:"timeout"`

	// FailureThreshold is the number of consecutive failures that
	// trips the breaker from closed to open.
	FailureThreshold uint `envconfig:"BREAKER_FAILURE_THRESHOLD" default:"5" json:"failure_threshold"`
}
