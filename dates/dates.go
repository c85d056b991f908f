// Package dates resolves textual date expressions into concrete instants.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"gitrecap/models"
)

// Resolution errors.
var (
	ErrInvalidDate      = errors.New("invalid date expression")
	ErrUnreasonableDate = errors.New("date outside reasonable range")
)

// maxYearDrift bounds how far an absolute date may sit from the current year.
const maxYearDrift = 50

var relativePattern = regexp.MustCompile(`^(\d+)\s+(day|week|month|year)s?\s+ago$`)

// Resolver turns date expressions into instants. The clock is injectable so
// relative expressions stay deterministic under test.
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a Resolver backed by the system clock.
func NewResolver() Resolver {
	return Resolver{Now: time.Now}
}

func (r Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve converts expr into a concrete point in time. Supported forms:
// "today" and "yesterday" (local midnight), "<N> day|week|month|year(s) ago"
// (day and week as exact durations from now, month and year as calendar
// arithmetic), and absolute dates in ISO-8601 or common formats. Anything
// else fails with ErrInvalidDate; absolute dates more than 50 years from the
// current year fail with ErrUnreasonableDate.
func (r Resolver) Resolve(expr string) (time.Time, error) {
	trimmed := strings.TrimSpace(expr)
	lowered := strings.ToLower(trimmed)
	if lowered == "" {
		return time.Time{}, fmt.Errorf("%w: empty expression", ErrInvalidDate)
	}

	now := r.now()

	switch lowered {
	case "today":
		return midnight(now), nil
	case "yesterday":
		return midnight(now).AddDate(0, 0, -1), nil
	}

	if m := relativePattern.FindStringSubmatch(lowered); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, expr)
		}
		switch m[2] {
		case "day":
			return now.Add(-time.Duration(n) * 24 * time.Hour), nil
		case "week":
			return now.Add(-time.Duration(n) * 7 * 24 * time.Hour), nil
		case "month":
			return now.AddDate(0, -n, 0), nil
		case "year":
			return now.AddDate(-n, 0, 0), nil
		}
	}

	parsed, err := dateparse.ParseIn(trimmed, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, expr)
	}

	drift := parsed.Year() - now.Year()
	if drift > maxYearDrift || drift < -maxYearDrift {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrUnreasonableDate, parsed.Year())
	}
	return parsed, nil
}

// ResolveRange resolves both ends of a window, rejects inverted ranges, and
// extends a single-day window to the last instant of that day.
func (r Resolver) ResolveRange(sinceExpr, untilExpr string) (models.DateRange, error) {
	start, err := r.Resolve(sinceExpr)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("resolving since: %w", err)
	}

	end, err := r.Resolve(untilExpr)
	if err != nil {
		return models.DateRange{}, fmt.Errorf("resolving until: %w", err)
	}

	window := models.DateRange{Start: start, End: end}
	if !window.Valid() {
		return models.DateRange{}, fmt.Errorf("%w: since %s is after until %s",
			ErrInvalidDate, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return window.Normalized(), nil
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
