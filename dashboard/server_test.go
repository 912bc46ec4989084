package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/barreera08/energyBaleares/models"
	"github.com/barreera08/energyBaleares/scraper"
)

type stubSource struct {
	result *scraper.RangeResult
	err    error

	start time.Time
	end   time.Time
}

func (s *stubSource) FetchRange(_ context.Context, start, end time.Time) (*scraper.RangeResult, error) {
	s.start, s.end = start, end
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func stubResult() *scraper.RangeResult {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	dataset := models.RangeDataset{
		{Date: date, Category: "Hidráulica", Daily: models.NewMeasure(10.5), RollingYear: models.NewMeasure(3500)},
		{Date: date, Category: "Eólica", Daily: models.NewMeasure(20), RollingYear: models.NewMeasure(7000)},
	}
	return &scraper.RangeResult{
		Dataset:      dataset,
		RequestCount: 1,
		FetchedCount: 1,
	}
}

func TestDashboardRendersData(t *testing.T) {
	source := &stubSource{result: stubResult()}
	server := NewServer(source)

	req := httptest.NewRequest(http.MethodGet, "/?start=2024-02-29&end=2024-02-29", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Hidráulica") || !strings.Contains(body, "Eólica") {
		t.Fatalf("body missing categories")
	}
	if !strings.Contains(body, "10.5") {
		t.Fatalf("body missing daily value")
	}
	if !source.start.Equal(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("source start = %v", source.start)
	}
}

func TestDashboardRejectsInvertedRange(t *testing.T) {
	server := NewServer(&stubSource{result: stubResult()})

	req := httptest.NewRequest(http.MethodGet, "/?start=2024-03-02&end=2024-03-01", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDashboardCategoryFilter(t *testing.T) {
	server := NewServer(&stubSource{result: stubResult()})

	req := httptest.NewRequest(http.MethodGet, "/?start=2024-02-29&end=2024-02-29&category=E%C3%B3lica", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "<td>Eólica</td>") {
		t.Fatalf("body missing filtered category row")
	}
	if strings.Contains(body, "<td>Hidráulica</td>") {
		t.Fatalf("body should not contain filtered-out rows")
	}
}

func TestDashboardEmptyDataset(t *testing.T) {
	server := NewServer(&stubSource{result: &scraper.RangeResult{RequestCount: 1, EmptyCount: 1}})

	req := httptest.NewRequest(http.MethodGet, "/?start=2024-02-29&end=2024-02-29", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "No data for the selected range.") {
		t.Fatalf("body missing empty message")
	}
}
