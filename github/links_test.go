package github

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLinkHeader(t *testing.T) {
	testCases := []struct {
		name     string
		header   string
		expected map[string]string
	}{
		{
			name: "github pagination header",
			header: `<https://api.github.com/repos/o/r/commits?page=2>; rel="next", ` +
				`<https://api.github.com/repos/o/r/commits?page=9>; rel="last"`,
			expected: map[string]string{
				"next": "https://api.github.com/repos/o/r/commits?page=2",
				"last": "https://api.github.com/repos/o/r/commits?page=9",
			},
		},
		{
			name:   "all four relations",
			header: `<u?page=1>; rel="first", <u?page=1>; rel="prev", <u?page=3>; rel="next", <u?page=9>; rel="last"`,
			expected: map[string]string{
				"first": "u?page=1",
				"prev":  "u?page=1",
				"next":  "u?page=3",
				"last":  "u?page=9",
			},
		},
		{
			name:     "unquoted rel value",
			header:   `<https://example.com/p2>; rel=next`,
			expected: map[string]string{"next": "https://example.com/p2"},
		},
		{
			name:     "extra parameters ignored",
			header:   `<https://example.com/p2>; type="text/html"; rel="next"`,
			expected: map[string]string{"next": "https://example.com/p2"},
		},
		{
			name:     "empty header",
			header:   "",
			expected: map[string]string{},
		},
		{
			name:     "garbage",
			header:   "this is not a link header",
			expected: map[string]string{},
		},
		{
			name:     "segment without rel skipped",
			header:   `<https://example.com/p2>; title="second page"`,
			expected: map[string]string{},
		},
		{
			name:     "segment without angle brackets skipped",
			header:   `https://example.com/p2; rel="next"`,
			expected: map[string]string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseLinkHeader(tc.header))
		})
	}
}
