package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"

	"gitrecap/models"
)

//go:embed templates/report.html
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html"))

// htmlRenderer writes the report as a standalone HTML page. With statistics
// enabled the page carries the aggregate tables and two bar charts.
type htmlRenderer struct {
	opts Options
}

type reportPage struct {
	Title         string
	Window        string
	EChartsAsset  string
	CommitTable   template.HTML
	Summary       string
	CategoryTable template.HTML
	AuthorTable   template.HTML
	Charts        []template.HTML
}

func (r *htmlRenderer) Render(w io.Writer, report *models.Report) error {
	tables := &tableRenderer{mode: tableModeText, opts: r.opts}

	page := reportPage{
		Title: fmt.Sprintf("Commits for %s", report.FullName()),
		Window: fmt.Sprintf("From %s to %s",
			report.Window.Start.Format(dateLayout),
			report.Window.End.Format(dateLayout),
		),
		EChartsAsset: echartsAsset,
		CommitTable:  template.HTML(tables.commitTable(report).RenderHTML()),
	}

	if r.opts.IncludeStats && report.Stats != nil {
		stats := report.Stats
		page.Summary = fmt.Sprintf("%d commits on %d active days, %.1f per day",
			stats.Total, stats.ActiveDays, stats.AveragePerDay)
		page.CategoryTable = template.HTML(categoryTable(stats, tableModeText).RenderHTML())
		page.AuthorTable = template.HTML(authorTable(stats, tableModeText).RenderHTML())

		for _, chart := range []*charts.Bar{dayChart(stats), categoryChart(stats)} {
			fragment, err := chartFragment(chart)
			if err != nil {
				return err
			}
			page.Charts = append(page.Charts, template.HTML(fragment))
		}
	}

	if err := reportTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
