package dashboard

import (
	"fmt"
	"html"
	"io"
	"log/slog"
	"os"

	"github.com/barreera08/energyBaleares/models"
	"github.com/barreera08/energyBaleares/scraper"
	humanize "github.com/dustin/go-humanize"
)

// Reporter generates self-contained HTML reports with embedded charts.
type Reporter struct {
	charts *ChartGenerator
}

// NewReporter creates a report generator.
func NewReporter() *Reporter {
	return &Reporter{
		charts: NewChartGenerator(),
	}
}

// Generate writes an HTML report for a fetched range. An empty outputPath
// writes to stdout.
func (r *Reporter) Generate(result *scraper.RangeResult, outputPath string) error {
	var writer io.Writer
	if outputPath == "" {
		writer = os.Stdout
	} else {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	r.writeHeader(writer, result)
	r.writeSummary(writer, result)
	r.writeCharts(writer, result.Dataset)
	r.writeTable(writer, result.Dataset)
	r.writeFooter(writer)

	if outputPath != "" {
		slog.Info("report saved", slog.String("path", outputPath))
	}
	return nil
}

func (r *Reporter) writeHeader(w io.Writer, result *scraper.RangeResult) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Balance Eléctrico Diario — Baleares</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: #f5f7fa;
            color: #1f2933;
            line-height: 1.6;
            padding: 20px;
        }
        .container { max-width: 1240px; margin: 0 auto; }
        header {
            background: linear-gradient(135deg, #005f73, #0a9396);
            color: #fff;
            padding: 32px;
            border-radius: 12px;
            margin-bottom: 24px;
        }
        .cards { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 16px; margin-bottom: 24px; }
        .card { background: #fff; border: 1px solid #d9e2ec; border-radius: 10px; padding: 18px; }
        .card .value { font-size: 1.6em; font-weight: 600; }
        .card .label { color: #627d98; font-size: 0.85em; }
        section { background: #fff; border: 1px solid #d9e2ec; border-radius: 10px; padding: 18px; margin-bottom: 24px; }
        img.chart { max-width: 100%%; }
        table { width: 100%%; border-collapse: collapse; font-size: 0.9em; }
        th, td { border-bottom: 1px solid #d9e2ec; padding: 6px 10px; text-align: right; }
        th:first-child, td:first-child, th:nth-child(2), td:nth-child(2) { text-align: left; }
        footer { color: #627d98; font-size: 0.8em; text-align: center; }
    </style>
</head>
<body>
<div class="container">
<header>
    <h1>Balance Eléctrico Diario — Baleares</h1>
    <p>%s — %s</p>
</header>
`,
		result.StartTime.Format("2006-01-02 15:04"),
		rangeLabel(result.Dataset),
	)
}

func (r *Reporter) writeSummary(w io.Writer, result *scraper.RangeResult) {
	total := 0.0
	for _, t := range result.Dataset.TotalsByDate() {
		total += t.Total
	}

	fmt.Fprintf(w, `<div class="cards">
    <div class="card"><div class="value">%s</div><div class="label">Records</div></div>
    <div class="card"><div class="value">%s MWh</div><div class="label">Total daily production</div></div>
    <div class="card"><div class="value">%d / %d</div><div class="label">Days fetched / requested</div></div>
    <div class="card"><div class="value">%d</div><div class="label">Days failed</div></div>
    <div class="card"><div class="value">%d</div><div class="label">Categories</div></div>
</div>
`,
		humanize.Comma(int64(len(result.Dataset))),
		humanize.CommafWithDigits(total, 1),
		result.FetchedCount, result.RequestCount,
		result.FailureCount,
		len(result.Dataset.Categories()),
	)
}

func (r *Reporter) writeCharts(w io.Writer, ds models.RangeDataset) {
	type chart struct {
		title  string
		render func(models.RangeDataset) (string, error)
	}
	for _, c := range []chart{
		{"Total Daily Production", r.charts.DailyTotalsChart},
		{"Production by Category", r.charts.CategoryTotalsChart},
		{"Daily Production by Category", r.charts.DailyByCategoryChart},
		{"Rolling-Year Production", r.charts.RollingYearChart},
	} {
		encoded, err := c.render(ds)
		if err != nil {
			slog.Warn("skipping chart", slog.String("chart", c.title), slog.Any("error", err))
			continue
		}
		fmt.Fprintf(w, `<section><h2>%s</h2><img class="chart" src="data:image/png;base64,%s" alt="%s"></section>
`, c.title, encoded, c.title)
	}
}

func (r *Reporter) writeTable(w io.Writer, ds models.RangeDataset) {
	fmt.Fprintf(w, `<section><h2>Records</h2><table><tr>`)
	for _, column := range models.Columns {
		fmt.Fprintf(w, "<th>%s</th>", column)
	}
	fmt.Fprintf(w, "</tr>\n")
	for _, record := range ds {
		fmt.Fprintf(w, "<tr><td>%s</td><td>%s</td>",
			record.Date.Format(models.DateFormat),
			html.EscapeString(record.Category),
		)
		for _, value := range record.Values() {
			fmt.Fprintf(w, "<td>%s</td>", value.String())
		}
		fmt.Fprintf(w, "</tr>\n")
	}
	fmt.Fprintf(w, "</table></section>\n")
}

func (r *Reporter) writeFooter(w io.Writer) {
	fmt.Fprintf(w, `<footer>Data: Red Eléctrica de España — daily balance, Balearic Islands</footer>
</div>
</body>
</html>
`)
}

func rangeLabel(ds models.RangeDataset) string {
	dates := ds.Dates()
	if len(dates) == 0 {
		return "sin datos"
	}
	return fmt.Sprintf("%s a %s",
		dates[0].Format(models.DateFormat),
		dates[len(dates)-1].Format(models.DateFormat),
	)
}
