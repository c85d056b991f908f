// Package models defines the core data structures used throughout the application.
package models

import "time"

// Category is one of the fixed commit classification labels.
type Category string

// Commit categories, derived from conventional-commit title prefixes.
const (
	CategoryFeature       Category = "feature"
	CategoryBugfix        Category = "bugfix"
	CategoryDocumentation Category = "documentation"
	CategoryStyle         Category = "style"
	CategoryRefactor      Category = "refactor"
	CategoryTest          Category = "test"
	CategoryChore         Category = "chore"
	CategoryPerformance   Category = "performance"
	CategoryCI            Category = "ci"
	CategoryBuild         Category = "build"
	CategoryRevert        Category = "revert"
	CategoryMerge         Category = "merge"
	CategoryOther         Category = "other"
)

// AllCategories lists every category in display order.
var AllCategories = []Category{
	CategoryFeature,
	CategoryBugfix,
	CategoryDocumentation,
	CategoryStyle,
	CategoryRefactor,
	CategoryTest,
	CategoryChore,
	CategoryPerformance,
	CategoryCI,
	CategoryBuild,
	CategoryRevert,
	CategoryMerge,
	CategoryOther,
}

// UnknownAuthor is the display label substituted for commits whose raw
// record carried no linked author account.
const UnknownAuthor = "Unknown"

// CommitRecord is a normalized commit. Hash is always present; every other
// field may be absent and must be treated as such rather than defaulted.
type CommitRecord struct {
	Hash            string     `json:"hash"`
	Title           string     `json:"title"`
	Timestamp       *time.Time `json:"timestamp,omitempty"`
	AuthorHandle    string     `json:"author,omitempty"`
	CommitterHandle string     `json:"committer,omitempty"`
	URL             string     `json:"url,omitempty"`
	Category        Category   `json:"category,omitempty"`
}

// DateRange is an ordered pair of timestamps with Start <= End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether the range is ordered.
func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// SpansSingleDay reports whether both ends fall on the same calendar day.
func (r DateRange) SpansSingleDay() bool {
	sy, sm, sd := r.Start.Date()
	ey, em, ed := r.End.Date()
	return sy == ey && sm == em && sd == ed
}

// Normalized extends End to the last instant of its day (23:59:59.999)
// when the range collapses to a single calendar day, so that a
// "today to today" window is non-empty by default.
func (r DateRange) Normalized() DateRange {
	if !r.SpansSingleDay() {
		return r
	}
	y, m, d := r.End.Date()
	r.End = time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), r.End.Location())
	return r
}

// Stats is a read-only aggregate over a CommitRecord sequence.
// AveragePerDay is Total divided by the number of distinct active days,
// rounded to one decimal place, or 0 when no commit carries a timestamp.
type Stats struct {
	Total         int              `json:"total"`
	ByCategory    map[Category]int `json:"by_category"`
	ByAuthor      map[string]int   `json:"by_author"`
	ByDay         map[string]int   `json:"by_day"`
	ActiveDays    int              `json:"active_days"`
	AveragePerDay float64          `json:"average_per_day"`
}

// RepoInfo carries repository metadata for the archive sink.
type RepoInfo struct {
	Owner         string `json:"owner"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	DefaultBranch string `json:"default_branch,omitempty"`
	URL           string `json:"url,omitempty"`
	Stars         int    `json:"stars"`
}

// FullName returns the owner/name form.
func (r RepoInfo) FullName() string {
	return r.Owner + "/" + r.Name
}

// Report is the rendered product of one recap run.
type Report struct {
	Owner       string         `json:"owner"`
	Repo        string         `json:"repo"`
	Ref         string         `json:"ref,omitempty"`
	Window      DateRange      `json:"window"`
	GeneratedAt time.Time      `json:"generated_at"`
	Commits     []CommitRecord `json:"commits"`
	Stats       *Stats         `json:"stats,omitempty"`
}

// FullName returns the owner/repo form.
func (r *Report) FullName() string {
	return r.Owner + "/" + r.Repo
}
