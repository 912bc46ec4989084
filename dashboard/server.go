package dashboard

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/barreera08/energyBaleares/models"
	"github.com/barreera08/energyBaleares/scraper"
	humanize "github.com/dustin/go-humanize"
)

// DataSource yields the combined dataset for a date range.
type DataSource interface {
	FetchRange(ctx context.Context, start, end time.Time) (*scraper.RangeResult, error)
}

// Server serves the interactive dashboard.
type Server struct {
	source DataSource
	charts *ChartGenerator
	tmpl   *template.Template
	now    func() time.Time
}

// NewServer creates the dashboard server on top of a data source.
func NewServer(source DataSource) *Server {
	return &Server{
		source: source,
		charts: NewChartGenerator(),
		tmpl:   template.Must(template.New("dashboard").Parse(dashboardTemplate)),
		now:    time.Now,
	}
}

// Handler returns the HTTP handler for the dashboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleDashboard)
	return mux
}

type chartView struct {
	Title string
	// Image is a complete data URL; html/template rejects data: URLs
	// unless they are pre-marked as safe.
	Image template.URL
}

type recordView struct {
	Date     string
	Category string
	Values   []string
}

type dashboardView struct {
	State       State
	StartValue  string
	EndValue    string
	Columns     []string
	Categories  []string
	Charts      []chartView
	Records     []recordView
	RecordCount string
	TotalDaily  string
	DaysFailed  int
	Message     string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	state, err := ParseState(r.URL.Query(), s.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.source.FetchRange(r.Context(), state.Start, state.End)
	if err != nil {
		slog.Error("range fetch failed", slog.Any("error", err))
		http.Error(w, "failed to load data", http.StatusBadGateway)
		return
	}

	filtered := state.Apply(result.Dataset)
	view := s.buildView(state, result, filtered)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, view); err != nil {
		slog.Error("render dashboard", slog.Any("error", err))
	}
}

func (s *Server) buildView(state State, result *scraper.RangeResult, filtered models.RangeDataset) dashboardView {
	view := dashboardView{
		State:      state,
		StartValue: state.Start.Format(models.DateFormat),
		EndValue:   state.End.Format(models.DateFormat),
		Columns:    models.Columns,
		Categories: result.Dataset.Categories(),
		DaysFailed: result.FailureCount,
	}

	if len(filtered) == 0 {
		view.Message = "No data for the selected range."
		return view
	}

	total := 0.0
	for _, t := range filtered.TotalsByDate() {
		total += t.Total
	}
	view.RecordCount = humanize.Comma(int64(len(filtered)))
	view.TotalDaily = humanize.CommafWithDigits(total, 1)

	type chart struct {
		title  string
		render func(models.RangeDataset) (string, error)
	}
	for _, c := range []chart{
		{"Total Daily Production", s.charts.DailyTotalsChart},
		{"Production by Category", s.charts.CategoryTotalsChart},
		{"Daily Production by Category", s.charts.DailyByCategoryChart},
		{"Rolling-Year Production", s.charts.RollingYearChart},
	} {
		encoded, err := c.render(filtered)
		if err != nil {
			slog.Warn("skipping chart", slog.String("chart", c.title), slog.Any("error", err))
			continue
		}
		view.Charts = append(view.Charts, chartView{
			Title: c.title,
			Image: template.URL("data:image/png;base64," + encoded),
		})
	}

	for _, record := range filtered {
		row := recordView{
			Date:     record.Date.Format(models.DateFormat),
			Category: record.Category,
		}
		for _, value := range record.Values() {
			row.Values = append(row.Values, value.String())
		}
		view.Records = append(view.Records, row)
	}
	return view
}

// ListenAndServe runs the dashboard until the server fails or is shut down.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("dashboard listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("dashboard server: %w", err)
	}
	return nil
}

const dashboardTemplate = `<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <title>Balance Eléctrico Diario — Baleares</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f7fa; color: #1f2933; padding: 20px; }
        .container { max-width: 1240px; margin: 0 auto; }
        header { background: linear-gradient(135deg, #005f73, #0a9396); color: #fff; padding: 24px; border-radius: 12px; margin-bottom: 20px; }
        form { background: #fff; border: 1px solid #d9e2ec; border-radius: 10px; padding: 16px; margin-bottom: 20px; }
        form label { margin-right: 12px; }
        .cards { display: flex; gap: 16px; margin-bottom: 20px; }
        .card { background: #fff; border: 1px solid #d9e2ec; border-radius: 10px; padding: 14px 20px; }
        section { background: #fff; border: 1px solid #d9e2ec; border-radius: 10px; padding: 16px; margin-bottom: 20px; }
        img.chart { max-width: 100%; }
        table { width: 100%; border-collapse: collapse; font-size: 0.9em; }
        th, td { border-bottom: 1px solid #d9e2ec; padding: 6px 10px; text-align: right; }
        th:first-child, td:first-child, th:nth-child(2), td:nth-child(2) { text-align: left; }
    </style>
</head>
<body>
<div class="container">
<header><h1>Balance Eléctrico Diario — Baleares</h1></header>
<form method="get" action="/">
    <label>Desde <input type="date" name="start" value="{{.StartValue}}"></label>
    <label>Hasta <input type="date" name="end" value="{{.EndValue}}"></label>
    <label>Categoría
        <select name="category">
            <option value="">Todas</option>
            {{- $state := .State}}
            {{- range .Categories}}
            <option value="{{.}}"{{if $state.Selected .}} selected{{end}}>{{.}}</option>
            {{- end}}
        </select>
    </label>
    <button type="submit">Cargar datos</button>
</form>
{{if .Message}}
<section><p>{{.Message}}</p></section>
{{else}}
<div class="cards">
    <div class="card"><strong>{{.RecordCount}}</strong> records</div>
    <div class="card"><strong>{{.TotalDaily}}</strong> MWh total</div>
    <div class="card"><strong>{{.DaysFailed}}</strong> days failed</div>
</div>
{{range .Charts}}
<section><h2>{{.Title}}</h2><img class="chart" src="{{.Image}}" alt="{{.Title}}"></section>
{{end}}
<section>
<h2>Datos</h2>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Records}}
<tr><td>{{.Date}}</td><td>{{.Category}}</td>{{range .Values}}<td>{{.}}</td>{{end}}</tr>
{{end}}
</table>
</section>
{{end}}
</div>
</body>
</html>
`
