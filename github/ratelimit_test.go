package github

import (
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func rateLimitHeaders(limit, remaining int, reset time.Time) http.Header {
	h := http.Header{}
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
	return h
}

func TestParseRateLimit(t *testing.T) {
	reset := time.Unix(1750000000, 0)

	rl, ok := parseRateLimit(rateLimitHeaders(5000, 4999, reset))
	require.True(t, ok)
	assert.Equal(t, 5000, rl.Limit)
	assert.Equal(t, 4999, rl.Remaining)
	assert.True(t, rl.Reset.Equal(reset))

	_, ok = parseRateLimit(http.Header{})
	assert.False(t, ok, "no remaining header means no signal")

	h := http.Header{}
	h.Set("X-RateLimit-Remaining", "not-a-number")
	_, ok = parseRateLimit(h)
	assert.False(t, ok)
}

func TestRateLimitMonitorObserve(t *testing.T) {
	testCases := []struct {
		name          string
		verbose       bool
		remaining     int
		expectedInfos int
		expectedWarns int
	}{
		{
			name:          "verbose logs status line",
			verbose:       true,
			remaining:     4999,
			expectedInfos: 1,
			expectedWarns: 0,
		},
		{
			name:          "verbose warns when quota low",
			verbose:       true,
			remaining:     9,
			expectedInfos: 1,
			expectedWarns: 1,
		},
		{
			name:          "silent without verbose",
			verbose:       false,
			remaining:     2,
			expectedInfos: 0,
			expectedWarns: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.InfoLevel)
			monitor := NewRateLimitMonitor(zap.New(core), tc.verbose)

			monitor.Observe(rateLimitHeaders(5000, tc.remaining, time.Now().Add(time.Hour)))

			assert.Equal(t, tc.expectedInfos, logs.FilterLevelExact(zap.InfoLevel).Len())
			assert.Equal(t, tc.expectedWarns, logs.FilterLevelExact(zap.WarnLevel).Len())
		})
	}
}

func TestRateLimitMonitorIgnoresMissingHeaders(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	monitor := NewRateLimitMonitor(zap.New(core), true)

	monitor.Observe(http.Header{})

	assert.Zero(t, logs.Len())
}
