package llm

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// GeminiRetryConfig controls backoff when the Gemini API reports quota
// exhaustion. Defaults assume the ~60 second token quota window.
type GeminiRetryConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

const (
	DefaultMaxRetries        = 5
	DefaultInitialBackoff    = 45 * time.Second
	DefaultMaxBackoff        = 90 * time.Second
	DefaultBackoffMultiplier = 1.5
)

// NewDefaultRetryConfig returns the retry policy used by the Gemini service.
func NewDefaultRetryConfig() *GeminiRetryConfig {
	return &GeminiRetryConfig{
		MaxRetries:        DefaultMaxRetries,
		InitialBackoff:    DefaultInitialBackoff,
		MaxBackoff:        DefaultMaxBackoff,
		BackoffMultiplier: DefaultBackoffMultiplier,
	}
}

// IsRateLimitError reports whether err is a Gemini rate limit response
// (429 / RESOURCE_EXHAUSTED / quota).
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(msg, "quota")
}

// Matches "Please retry in 45.387061394s" and "retryDelay: 45s" forms.
var retryDelayRegex = regexp.MustCompile(`(?i)(?:Please retry in |retryDelay[:\s]+)(\d+(?:\.\d+)?)\s*s`)

// ExtractRetryDelay pulls the API-suggested retry delay out of a Gemini
// error message. Returns 0 when the message carries no delay.
func ExtractRetryDelay(err error) time.Duration {
	if err == nil {
		return 0
	}
	matches := retryDelayRegex.FindStringSubmatch(err.Error())
	if len(matches) < 2 {
		return 0
	}
	seconds, parseErr := strconv.ParseFloat(matches[1], 64)
	if parseErr != nil {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// CalculateBackoff returns the wait before the given retry attempt. An
// API-provided delay, when present, replaces InitialBackoff as the base;
// the result grows by BackoffMultiplier per attempt and caps at MaxBackoff.
func (c *GeminiRetryConfig) CalculateBackoff(attempt int, apiDelay time.Duration) time.Duration {
	base := c.InitialBackoff
	if apiDelay > 0 {
		// Small buffer on top of the server's own estimate
		base = apiDelay + 5*time.Second
	}

	backoff := time.Duration(float64(base) * math.Pow(c.BackoffMultiplier, float64(attempt)))
	if backoff > c.MaxBackoff {
		backoff = c.MaxBackoff
	}
	return backoff
}
