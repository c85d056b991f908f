// Package recap turns raw API commits into normalized records and derives
// filtered, categorized views and summary statistics from them.
package recap

import (
	"strings"

	"gitrecap/github"
	"gitrecap/models"
)

// Normalize maps one raw API commit onto a CommitRecord. The title is the
// first line of the message, trimmed; the timestamp prefers author time and
// falls back to committer time; handles come from linked accounts only.
// Missing optional fields become absent values, never sentinels.
func Normalize(raw github.Commit) models.CommitRecord {
	record := models.CommitRecord{
		Hash:  raw.SHA,
		Title: firstLine(raw.Commit.Message),
		URL:   raw.HTMLURL,
	}

	if sig := raw.Commit.Author; sig != nil && !sig.Date.IsZero() {
		ts := sig.Date
		record.Timestamp = &ts
	} else if sig := raw.Commit.Committer; sig != nil && !sig.Date.IsZero() {
		ts := sig.Date
		record.Timestamp = &ts
	}

	if raw.Author != nil {
		record.AuthorHandle = raw.Author.Login
	}
	if raw.Committer != nil {
		record.CommitterHandle = raw.Committer.Login
	}

	return record
}

// NormalizeAll maps a raw commit sequence in order.
func NormalizeAll(raw []github.Commit) []models.CommitRecord {
	records := make([]models.CommitRecord, 0, len(raw))
	for _, commit := range raw {
		records = append(records, Normalize(commit))
	}
	return records
}

func firstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}
