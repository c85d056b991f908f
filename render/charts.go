package render

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"gitrecap/models"
)

// errChartMarkup reports a rendered chart page without the expected shape.
var errChartMarkup = errors.New("rendering chart: unexpected page markup")

const (
	chartWidth  = "100%"
	chartHeight = "420px"

	// echartsAsset is the script the chart fragments depend on. The fragments
	// carry only their init scripts, so the page head must load this once.
	echartsAsset = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

	styleCloseTag = "</style>"
)

// dayChart builds a bar chart of commits per calendar day.
func dayChart(stats *models.Stats) *charts.Bar {
	days := sortedDays(stats.ByDay)

	data := make([]opts.BarData, len(days))
	for i, day := range days {
		data[i] = opts.BarData{Value: stats.ByDay[day]}
	}

	bar := newBarChart("Commits per day")
	bar.SetXAxis(days)
	bar.AddSeries("commits", data)
	return bar
}

// categoryChart builds a bar chart of commits per category, in the fixed
// display order with empty categories dropped.
func categoryChart(stats *models.Stats) *charts.Bar {
	labels := make([]string, 0, len(stats.ByCategory))
	data := make([]opts.BarData, 0, len(stats.ByCategory))
	for _, category := range models.AllCategories {
		if count := stats.ByCategory[category]; count > 0 {
			labels = append(labels, string(category))
			data = append(data, opts.BarData{Value: count})
		}
	}

	bar := newBarChart("Commits per category")
	bar.SetXAxis(labels)
	bar.AddSeries("commits", data)
	return bar
}

func newBarChart(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Left: "center"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	return bar
}

// chartFragment renders a chart and cuts out the embeddable piece: the chart
// element plus its init script, without the standalone page around them.
func chartFragment(chart *charts.Bar) (string, error) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", fmt.Errorf("rendering chart: %w", err)
	}

	html := buf.String()
	start := strings.Index(html, `<div class="container">`)
	end := strings.Index(html, `</body>`)
	if start == -1 || end == -1 {
		return "", errChartMarkup
	}

	fragment := html[start:end]
	fragment = strings.ReplaceAll(fragment, `class="container"`, `class="chart-box"`)
	return stripStyleTags(fragment), nil
}

func stripStyleTags(fragment string) string {
	for {
		open := strings.Index(fragment, "<style>")
		if open == -1 {
			return fragment
		}
		offset := strings.Index(fragment[open:], styleCloseTag)
		if offset == -1 {
			return fragment
		}
		fragment = fragment[:open] + fragment[open+offset+len(styleCloseTag):]
	}
}
