package dashboard

import (
	"encoding/base64"
	"fmt"

	"github.com/barreera08/energyBaleares/models"
	charts "github.com/vicanso/go-charts/v2"
)

// ChartGenerator renders datasets to base64-encoded PNG charts for embedding
// in HTML output.
type ChartGenerator struct {
	theme string
}

// NewChartGenerator creates a chart generator matching the report theme.
func NewChartGenerator() *ChartGenerator {
	return &ChartGenerator{
		theme: charts.ThemeLight,
	}
}

// DailyTotalsChart draws the total daily production across the range as a
// line chart.
func (cg *ChartGenerator) DailyTotalsChart(ds models.RangeDataset) (string, error) {
	totals := ds.TotalsByDate()
	if len(totals) == 0 {
		return "", fmt.Errorf("no daily data available")
	}

	labels := make([]string, 0, len(totals))
	values := make([]float64, 0, len(totals))
	for _, t := range totals {
		labels = append(labels, t.Date.Format("Jan 2"))
		values = append(values, t.Total)
	}

	p, err := charts.LineRender(
		[][]float64{values},
		charts.TitleTextOptionFunc("Total Daily Production"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc([]string{"Total (MWh)"}, charts.PositionRight),
		charts.ThemeOptionFunc(cg.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render daily totals chart: %w", err)
	}
	return encodeChart(p)
}

// CategoryTotalsChart draws the production per category as a horizontal bar
// chart, largest first.
func (cg *ChartGenerator) CategoryTotalsChart(ds models.RangeDataset) (string, error) {
	totals := ds.TotalsByCategory()
	if len(totals) == 0 {
		return "", fmt.Errorf("no category data available")
	}

	labels := make([]string, 0, len(totals))
	values := make([]float64, 0, len(totals))
	// Horizontal bars render bottom-up; reverse so the largest sits on top.
	for i := len(totals) - 1; i >= 0; i-- {
		labels = append(labels, totals[i].Category)
		values = append(values, totals[i].Total)
	}

	p, err := charts.HorizontalBarRender(
		[][]float64{values},
		charts.TitleTextOptionFunc("Production by Category"),
		charts.YAxisDataOptionFunc(labels),
		charts.ThemeOptionFunc(cg.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render category totals chart: %w", err)
	}
	return encodeChart(p)
}

// DailyByCategoryChart draws the daily production per category as a grouped
// bar chart over the date range.
func (cg *ChartGenerator) DailyByCategoryChart(ds models.RangeDataset) (string, error) {
	pivot := ds.Pivot()
	if len(pivot.Dates) == 0 || len(pivot.Categories) == 0 {
		return "", fmt.Errorf("no data available for pivot chart")
	}

	labels := make([]string, 0, len(pivot.Dates))
	for _, d := range pivot.Dates {
		labels = append(labels, d.Format("Jan 2"))
	}

	p, err := charts.BarRender(
		pivot.Values,
		charts.TitleTextOptionFunc("Daily Production by Category"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(pivot.Categories, charts.PositionRight),
		charts.ThemeOptionFunc(cg.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render pivot chart: %w", err)
	}
	return encodeChart(p)
}

// RollingYearChart draws the trailing twelve-month aggregate per category as
// a line chart over the date range.
func (cg *ChartGenerator) RollingYearChart(ds models.RangeDataset) (string, error) {
	dates := ds.Dates()
	categories := ds.Categories()
	if len(dates) == 0 || len(categories) == 0 {
		return "", fmt.Errorf("no rolling-year data available")
	}

	dateIndex := make(map[string]int, len(dates))
	labels := make([]string, 0, len(dates))
	for i, d := range dates {
		dateIndex[d.Format(models.DateFormat)] = i
		labels = append(labels, d.Format("Jan 2"))
	}
	categoryIndex := make(map[string]int, len(categories))
	for i, c := range categories {
		categoryIndex[c] = i
	}

	values := make([][]float64, len(categories))
	for i := range values {
		values[i] = make([]float64, len(dates))
	}
	for _, r := range ds {
		if !r.RollingYear.Valid {
			continue
		}
		values[categoryIndex[r.Category]][dateIndex[r.Date.Format(models.DateFormat)]] = r.RollingYear.Float64
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc("Rolling-Year Production by Category"),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(categories, charts.PositionRight),
		charts.ThemeOptionFunc(cg.theme),
		charts.WidthOptionFunc(1200),
		charts.HeightOptionFunc(400),
		charts.PaddingOptionFunc(charts.Box{Top: 20, Right: 20, Bottom: 20, Left: 20}),
	)
	if err != nil {
		return "", fmt.Errorf("failed to render rolling-year chart: %w", err)
	}
	return encodeChart(p)
}

func encodeChart(p *charts.Painter) (string, error) {
	buf, err := p.Bytes()
	if err != nil {
		return "", fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}
