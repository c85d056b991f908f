package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC)

func fixedResolver() Resolver {
	return Resolver{Now: func() time.Time { return testNow }}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		expr        string
		expected    time.Time
		expectedErr error
	}{
		{
			name:     "today is local midnight",
			expr:     "today",
			expected: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "today is case insensitive and trimmed",
			expr:     "  ToDaY ",
			expected: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "yesterday is previous local midnight",
			expr:     "yesterday",
			expected: time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "days ago subtracts exact duration from now",
			expr:     "7 days ago",
			expected: testNow.Add(-7 * 24 * time.Hour),
		},
		{
			name:     "singular day",
			expr:     "1 day ago",
			expected: testNow.Add(-24 * time.Hour),
		},
		{
			name:     "zero days ago is now",
			expr:     "0 days ago",
			expected: testNow,
		},
		{
			name:     "weeks ago subtracts exact duration from now",
			expr:     "2 weeks ago",
			expected: testNow.Add(-2 * 7 * 24 * time.Hour),
		},
		{
			name:     "months ago uses calendar arithmetic",
			expr:     "3 months ago",
			expected: testNow.AddDate(0, -3, 0),
		},
		{
			name:     "years ago uses calendar arithmetic",
			expr:     "1 year ago",
			expected: testNow.AddDate(-1, 0, 0),
		},
		{
			name:     "absolute ISO date",
			expr:     "2025-06-01",
			expected: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "absolute RFC3339 timestamp",
			expr:     "2025-06-01T10:30:00Z",
			expected: time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			name:        "garbage fails with invalid date",
			expr:        "invalid garbage",
			expectedErr: ErrInvalidDate,
		},
		{
			name:        "empty expression fails",
			expr:        "   ",
			expectedErr: ErrInvalidDate,
		},
		{
			name:        "negative units are not relative expressions",
			expr:        "-3 days ago",
			expectedErr: ErrInvalidDate,
		},
		{
			name:        "far past is unreasonable",
			expr:        "1901-01-01",
			expectedErr: ErrUnreasonableDate,
		},
		{
			name:        "far future is unreasonable",
			expr:        "2099-01-01",
			expectedErr: ErrUnreasonableDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fixedResolver().Resolve(tt.expr)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	r := fixedResolver()

	first, err := r.Resolve("7 days ago")
	require.NoError(t, err)
	second, err := r.Resolve("7 days ago")
	require.NoError(t, err)
	assert.True(t, first.Equal(second))

	today, err := r.Resolve("today")
	require.NoError(t, err)
	yesterday, err := r.Resolve("yesterday")
	require.NoError(t, err)
	assert.False(t, today.Before(yesterday), "today must not precede yesterday")
	assert.Equal(t, 24*time.Hour, today.Sub(yesterday))

	weekAgo, err := r.Resolve("7 days ago")
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, testNow.Sub(weekAgo))
}

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name        string
		since       string
		until       string
		expectStart time.Time
		expectEnd   time.Time
		expectedErr error
	}{
		{
			name:        "plain window",
			since:       "2025-06-01",
			until:       "2025-06-10",
			expectStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			expectEnd:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:        "single day window extends to end of day",
			since:       "2025-06-01",
			until:       "2025-06-01",
			expectStart: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			expectEnd:   time.Date(2025, 6, 1, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:        "today to today is non-empty",
			since:       "today",
			until:       "today",
			expectStart: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			expectEnd:   time.Date(2025, 6, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC),
		},
		{
			name:        "inverted window rejected",
			since:       "2025-06-10",
			until:       "2025-06-01",
			expectedErr: ErrInvalidDate,
		},
		{
			name:        "bad since rejected",
			since:       "nonsense",
			until:       "today",
			expectedErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fixedResolver().ResolveRange(tt.since, tt.until)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Start.Equal(tt.expectStart), "start = %v, want %v", got.Start, tt.expectStart)
			assert.True(t, got.End.Equal(tt.expectEnd), "end = %v, want %v", got.End, tt.expectEnd)
		})
	}
}
