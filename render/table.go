package render

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"gitrecap/models"
)

const (
	shortHashLen = 7
	dateLayout   = "2006-01-02"
)

type tableMode int

const (
	tableModeText tableMode = iota
	tableModeMarkdown
	tableModeCSV
)

// tableRenderer writes the report as a table in one of the textual modes.
// CSV output carries the commit rows only so it stays machine-friendly; the
// other modes add a heading, a footer with the total, and the optional
// statistics tables.
type tableRenderer struct {
	mode tableMode
	opts Options
}

func (r *tableRenderer) Render(w io.Writer, report *models.Report) error {
	commits := r.commitTable(report)

	if r.mode == tableModeCSV {
		if _, err := fmt.Fprintln(w, commits.RenderCSV()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
		return nil
	}

	sections := []string{r.heading(report), r.renderOne(commits)}
	if r.opts.IncludeStats && report.Stats != nil {
		sections = append(sections, r.statsSections(report.Stats)...)
	}

	for _, section := range sections {
		if _, err := fmt.Fprintln(w, section); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}

func (r *tableRenderer) heading(report *models.Report) string {
	heading := fmt.Sprintf("Commits for %s from %s to %s",
		report.FullName(),
		report.Window.Start.Format(dateLayout),
		report.Window.End.Format(dateLayout),
	)
	if r.mode == tableModeMarkdown {
		return "# " + heading
	}
	return heading
}

func (r *tableRenderer) commitTable(report *models.Report) table.Writer {
	tbl := newTableWriter(r.mode)
	tbl.AppendHeader(table.Row{"Hash", "Date", "Age", "Category", "Title", "Author"})

	for _, commit := range report.Commits {
		tbl.AppendRow(commitRow(commit, r.opts.Now()))
	}

	if r.mode != tableModeCSV {
		tbl.AppendFooter(table.Row{"Total", len(report.Commits)})
	}
	return tbl
}

func (r *tableRenderer) statsSections(stats *models.Stats) []string {
	summary := fmt.Sprintf("%d commits on %d active days, %.1f per day",
		stats.Total, stats.ActiveDays, stats.AveragePerDay)

	sections := []string{
		"", summary,
		r.renderOne(categoryTable(stats, r.mode)),
		r.renderOne(authorTable(stats, r.mode)),
	}
	return sections
}

func (r *tableRenderer) renderOne(tbl table.Writer) string {
	if r.mode == tableModeMarkdown {
		return tbl.RenderMarkdown()
	}
	return tbl.Render()
}

func newTableWriter(mode tableMode) table.Writer {
	tbl := table.NewWriter()
	if mode == tableModeText {
		tbl.SetStyle(table.StyleLight)
	}
	return tbl
}

func commitRow(commit models.CommitRecord, now time.Time) table.Row {
	date, age := "", ""
	if commit.Timestamp != nil {
		date = commit.Timestamp.In(time.UTC).Format(dateLayout)
		age = humanize.RelTime(*commit.Timestamp, now, "ago", "from now")
	}

	author := commit.AuthorHandle
	if author == "" {
		author = models.UnknownAuthor
	}

	return table.Row{shortHash(commit.Hash), date, age, string(commit.Category), commit.Title, author}
}

func categoryTable(stats *models.Stats, mode tableMode) table.Writer {
	tbl := newTableWriter(mode)
	tbl.AppendHeader(table.Row{"Category", "Commits"})
	for _, category := range models.AllCategories {
		if count := stats.ByCategory[category]; count > 0 {
			tbl.AppendRow(table.Row{string(category), count})
		}
	}
	return tbl
}

func authorTable(stats *models.Stats, mode tableMode) table.Writer {
	tbl := newTableWriter(mode)
	tbl.AppendHeader(table.Row{"Author", "Commits"})
	for _, author := range sortedAuthors(stats.ByAuthor) {
		tbl.AppendRow(table.Row{author, stats.ByAuthor[author]})
	}
	return tbl
}

// sortedAuthors orders handles by commit count, busiest first, with ties
// broken alphabetically so output stays stable.
func sortedAuthors(byAuthor map[string]int) []string {
	authors := make([]string, 0, len(byAuthor))
	for author := range byAuthor {
		authors = append(authors, author)
	}
	sort.Slice(authors, func(i, j int) bool {
		if byAuthor[authors[i]] != byAuthor[authors[j]] {
			return byAuthor[authors[i]] > byAuthor[authors[j]]
		}
		return authors[i] < authors[j]
	})
	return authors
}

// sortedDays orders day keys chronologically. Keys share one layout, so the
// lexical order is the calendar order.
func sortedDays(byDay map[string]int) []string {
	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)
	return days
}

func shortHash(hash string) string {
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}
