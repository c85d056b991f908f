package recap

import (
	"fmt"
	"regexp"

	"gitrecap/models"
)

// mergePattern recognizes titles whose leading word is "merge", which covers
// both merge commits generated by the API and manually written ones.
var mergePattern = regexp.MustCompile(`(?i)^merge\b`)

// categoryRule pairs a title pattern with the category it assigns. Rules are
// evaluated in order and the first match wins.
type categoryRule struct {
	pattern  *regexp.Regexp
	category models.Category
}

// categoryRules is the classification table. The merge rule runs first so
// that a merge commit whose title embeds a conventional prefix still lands
// in the merge bucket.
var categoryRules = []categoryRule{
	{mergePattern, models.CategoryMerge},
	{typePrefix("feat", "feature"), models.CategoryFeature},
	{typePrefix("fix", "bugfix"), models.CategoryBugfix},
	{typePrefix("docs", "doc"), models.CategoryDocumentation},
	{typePrefix("style"), models.CategoryStyle},
	{typePrefix("refactor"), models.CategoryRefactor},
	{typePrefix("test", "tests"), models.CategoryTest},
	{typePrefix("chore"), models.CategoryChore},
	{typePrefix("perf", "performance"), models.CategoryPerformance},
	{typePrefix("ci"), models.CategoryCI},
	{typePrefix("build"), models.CategoryBuild},
	{typePrefix("revert"), models.CategoryRevert},
}

// typePrefix builds a pattern for conventional-commit prefixes: one of the
// given tokens, an optional parenthesized scope, an optional breaking-change
// marker, then a colon.
func typePrefix(tokens ...string) *regexp.Regexp {
	alternatives := ""
	for i, token := range tokens {
		if i > 0 {
			alternatives += "|"
		}
		alternatives += regexp.QuoteMeta(token)
	}
	return regexp.MustCompile(fmt.Sprintf(`(?i)^(?:%s)(?:\([^)]*\))?!?:`, alternatives))
}

// Categorize assigns a category to one title. Titles matching no rule,
// including empty ones, fall back to the other bucket.
func Categorize(title string) models.Category {
	for _, rule := range categoryRules {
		if rule.pattern.MatchString(title) {
			return rule.category
		}
	}
	return models.CategoryOther
}

// CategorizeAll fills the Category field of every record in place.
func CategorizeAll(records []models.CommitRecord) {
	for i := range records {
		records[i].Category = Categorize(records[i].Title)
	}
}
