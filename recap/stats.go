package recap

import (
	"math"
	"time"

	"gitrecap/models"
)

const dayKeyLayout = "2006-01-02"

// ComputeStats aggregates categorized records into summary statistics.
// Records without a usable author handle count under the Unknown bucket,
// records without any timestamp are skipped by the per-day histogram, and
// day keys are derived in UTC so the grouping is stable across machines.
func ComputeStats(records []models.CommitRecord) *models.Stats {
	stats := &models.Stats{
		Total:      len(records),
		ByCategory: make(map[models.Category]int),
		ByAuthor:   make(map[string]int),
		ByDay:      make(map[string]int),
	}

	for _, record := range records {
		stats.ByCategory[record.Category]++

		author := record.AuthorHandle
		if author == "" {
			author = models.UnknownAuthor
		}
		stats.ByAuthor[author]++

		if record.Timestamp != nil {
			stats.ByDay[record.Timestamp.In(time.UTC).Format(dayKeyLayout)]++
		}
	}

	stats.ActiveDays = len(stats.ByDay)
	if stats.ActiveDays > 0 {
		stats.AveragePerDay = round1(float64(stats.Total) / float64(stats.ActiveDays))
	}

	return stats
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
