package dashboard

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/barreera08/energyBaleares/models"
)

func chartDataset() models.RangeDataset {
	var ds models.RangeDataset
	for day := 1; day <= 3; day++ {
		date := time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC)
		ds = append(ds,
			models.DailyRecord{Date: date, Category: "Hidráulica", Daily: models.NewMeasure(float64(day) * 10), RollingYear: models.NewMeasure(3500)},
			models.DailyRecord{Date: date, Category: "Eólica", Daily: models.NewMeasure(float64(day) * 20), RollingYear: models.NewMeasure(7000)},
		)
	}
	return ds
}

func assertPNG(t *testing.T, encoded string) {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("decode chart: %v", err)
	}
	if len(raw) < 8 || raw[1] != 'P' || raw[2] != 'N' || raw[3] != 'G' {
		t.Fatalf("chart output is not a PNG")
	}
}

func TestChartsRender(t *testing.T) {
	cg := NewChartGenerator()
	ds := chartDataset()

	tests := []struct {
		name   string
		render func(models.RangeDataset) (string, error)
	}{
		{"daily totals", cg.DailyTotalsChart},
		{"category totals", cg.CategoryTotalsChart},
		{"daily by category", cg.DailyByCategoryChart},
		{"rolling year", cg.RollingYearChart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.render(ds)
			if err != nil {
				t.Fatalf("render: %v", err)
			}
			assertPNG(t, encoded)
		})
	}
}

func TestChartsRejectEmptyDataset(t *testing.T) {
	cg := NewChartGenerator()
	if _, err := cg.DailyTotalsChart(nil); err == nil {
		t.Fatalf("expected error for empty dataset")
	}
	if _, err := cg.CategoryTotalsChart(nil); err == nil {
		t.Fatalf("expected error for empty dataset")
	}
}
