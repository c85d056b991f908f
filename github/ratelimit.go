package github

import (
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// lowRemainingThreshold is the remaining-quota level below which the
// monitor raises a warning.
const lowRemainingThreshold = 10

// RateLimit is the quota snapshot carried by GitHub response headers.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// parseRateLimit reads X-RateLimit-* headers. The second return value is
// false when the response carries no remaining-quota signal.
func parseRateLimit(headers http.Header) (RateLimit, bool) {
	remaining := headers.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return RateLimit{}, false
	}

	rl := RateLimit{}
	var err error
	rl.Remaining, err = strconv.Atoi(remaining)
	if err != nil {
		return RateLimit{}, false
	}

	if v := headers.Get("X-RateLimit-Limit"); v != "" {
		if limit, convErr := strconv.Atoi(v); convErr == nil {
			rl.Limit = limit
		}
	}
	if v := headers.Get("X-RateLimit-Reset"); v != "" {
		if epoch, convErr := strconv.ParseInt(v, 10, 64); convErr == nil {
			rl.Reset = time.Unix(epoch, 0)
		}
	}
	return rl, true
}

// RateLimitMonitor reports remaining API quota after each response. It is a
// pure observer: it logs in verbose mode and warns when the quota runs low,
// but never blocks or alters control flow.
type RateLimitMonitor struct {
	log     *zap.Logger
	verbose bool
}

// NewRateLimitMonitor builds a monitor. A nil logger disables output.
func NewRateLimitMonitor(log *zap.Logger, verbose bool) *RateLimitMonitor {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimitMonitor{log: log, verbose: verbose}
}

// Observe inspects one response's headers and reports quota status.
func (m *RateLimitMonitor) Observe(headers http.Header) {
	if !m.verbose {
		return
	}

	rl, ok := parseRateLimit(headers)
	if !ok {
		return
	}

	m.log.Info("rate limit status",
		zap.Int("remaining", rl.Remaining),
		zap.Int("limit", rl.Limit),
		zap.Time("resets_at", rl.Reset))

	if rl.Remaining < lowRemainingThreshold {
		m.log.Warn("rate limit nearly exhausted",
			zap.Int("remaining", rl.Remaining),
			zap.Time("resets_at", rl.Reset))
	}
}
