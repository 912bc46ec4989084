package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/barreera08/energyBaleares/config"
	"github.com/jarcoal/httpmock"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://example.test/balance"
	return cfg
}

func newTestFetcher(t *testing.T, transport http.RoundTripper) *Fetcher {
	t.Helper()
	f, err := NewFetcher(testConfig())
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	f.collector.WithTransport(transport)
	return f
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(200, body)
	resp.Header.Set("Content-Type", "text/html")
	return httpmock.ResponderFromResponse(resp)
}

func balancePage(rows ...[]string) string {
	var builder strings.Builder
	builder.WriteString("<html><body><table>")
	builder.WriteString("<tr><th>Tipo</th><th>Día</th><th>Mes</th><th>%∆ Mes</th><th>Año</th><th>%∆ Año</th><th>Año móvil</th><th>%∆ Móvil</th></tr>")
	for _, cells := range rows {
		builder.WriteString(`<tr class="datos">`)
		for i, cell := range cells {
			if i == 0 {
				fmt.Fprintf(&builder, "<th>%s</th>", cell)
			} else {
				fmt.Fprintf(&builder, "<td>%s</td>", cell)
			}
		}
		builder.WriteString("</tr>")
	}
	builder.WriteString("</table></body></html>")
	return builder.String()
}

func TestBuildURLZeroPadded(t *testing.T) {
	f, err := NewFetcher(testConfig())
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}

	tests := []struct {
		date     time.Time
		expected string
	}{
		{time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), "http://example.test/balance/2024/02/29"},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), "http://example.test/balance/2024/12/01"},
		{time.Date(2023, 1, 9, 0, 0, 0, 0, time.UTC), "http://example.test/balance/2023/01/09"},
	}

	for _, tt := range tests {
		if got := f.BuildURL(tt.date); got != tt.expected {
			t.Errorf("BuildURL(%v) = %q, want %q", tt.date, got, tt.expected)
		}
	}
}

func TestFetchDayExtractsRecords(t *testing.T) {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	page := balancePage(
		[]string{"Hidráulica", "10,5", "300", "5,0", "3600", "2,1", "3500", "1,0"},
		[]string{"Eólica", "20,0", "600", "-1,0", "7200", "0,5", "7000", "-0,2"},
	)

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/balance/2024/02/29", htmlResponder(page))

	f := newTestFetcher(t, transport)
	result := f.FetchDay(context.Background(), date)

	if result.Status != DayFetched {
		t.Fatalf("status = %v, want fetched (err=%v)", result.Status, result.Err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("records = %d, want 2", len(result.Records))
	}
	first, second := result.Records[0], result.Records[1]
	if first.Category != "Hidráulica" || second.Category != "Eólica" {
		t.Fatalf("categories = %q/%q, want Hidráulica/Eólica", first.Category, second.Category)
	}
	if !first.Daily.Valid || first.Daily.Float64 != 10.5 {
		t.Fatalf("first daily = %+v, want 10.5", first.Daily)
	}
	if !second.Daily.Valid || second.Daily.Float64 != 20.0 {
		t.Fatalf("second daily = %+v, want 20.0", second.Daily)
	}
	for _, r := range result.Records {
		if !r.Date.Equal(date) {
			t.Fatalf("record date = %v, want %v", r.Date, date)
		}
	}
}

func TestFetchDaySkipsMalformedRows(t *testing.T) {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	page := balancePage(
		[]string{"Hidráulica", "10,5", "300", "5,0", "3600", "2,1", "3500", "1,0"},
		[]string{"Truncada", "20,0"},
	)

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/balance/2024/02/29", htmlResponder(page))

	f := newTestFetcher(t, transport)
	result := f.FetchDay(context.Background(), date)

	if result.Status != DayFetched {
		t.Fatalf("status = %v, want fetched", result.Status)
	}
	if len(result.Records) != 1 {
		t.Fatalf("records = %d, want 1 (malformed row skipped)", len(result.Records))
	}
	if result.Records[0].Category != "Hidráulica" {
		t.Fatalf("kept category = %q, want Hidráulica", result.Records[0].Category)
	}
}

func TestFetchDayTransportFailure(t *testing.T) {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/balance/2024/02/29",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	f := newTestFetcher(t, transport)
	result := f.FetchDay(context.Background(), date)

	if result.Status != DayFailed {
		t.Fatalf("status = %v, want failed", result.Status)
	}
	if len(result.Records) != 0 {
		t.Fatalf("records = %d, want 0", len(result.Records))
	}
	var status ErrStatus
	if !errors.As(result.Err, &status) || status.Code != http.StatusNotFound {
		t.Fatalf("err = %v, want ErrStatus 404", result.Err)
	}
}

func TestFetchDayEmptyPage(t *testing.T) {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/balance/2024/02/29",
		htmlResponder("<html><body><p>Sin datos</p></body></html>"))

	f := newTestFetcher(t, transport)
	result := f.FetchDay(context.Background(), date)

	if result.Status != DayEmpty {
		t.Fatalf("status = %v, want empty", result.Status)
	}
	if len(result.Records) != 0 {
		t.Fatalf("records = %d, want 0", len(result.Records))
	}
}

func TestFetchDayIdempotent(t *testing.T) {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	page := balancePage([]string{"Eólica", "20,0", "600", "-1,0", "7200", "0,5", "7000", "-0,2"})

	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/balance/2024/02/29", htmlResponder(page))

	f := newTestFetcher(t, transport)
	first := f.FetchDay(context.Background(), date)
	second := f.FetchDay(context.Background(), date)

	if first.Status != DayFetched || second.Status != DayFetched {
		t.Fatalf("statuses = %v/%v, want fetched/fetched", first.Status, second.Status)
	}
	if !reflect.DeepEqual(first.Records, second.Records) {
		t.Fatalf("repeated fetch records differ:\n%+v\n%+v", first.Records, second.Records)
	}
	// The second call is served from the day cache.
	if got := transport.GetCallCountInfo()["GET http://example.test/balance/2024/02/29"]; got != 1 {
		t.Fatalf("transport calls = %d, want 1", got)
	}
}

func TestFetchDayCancelledContext(t *testing.T) {
	date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := newTestFetcher(t, httpmock.NewMockTransport())
	result := f.FetchDay(ctx, date)

	if result.Status != DayFailed {
		t.Fatalf("status = %v, want failed", result.Status)
	}
	if !errors.Is(result.Err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", result.Err)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		statusCode int
		expected   string
	}{
		{name: "nil", err: nil, statusCode: 0, expected: "unknown"},
		{name: "context timeout", err: context.DeadlineExceeded, statusCode: 0, expected: "timeout"},
		{name: "net timeout", err: &net.DNSError{IsTimeout: true}, statusCode: 0, expected: "timeout"},
		{name: "connection", err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, statusCode: 0, expected: "connection"},
		{name: "not found", err: nil, statusCode: http.StatusNotFound, expected: "not_found"},
		{name: "rate limited", err: nil, statusCode: http.StatusTooManyRequests, expected: "rate_limited"},
		{name: "server error", err: nil, statusCode: http.StatusInternalServerError, expected: "http_error"},
		{name: "other", err: errors.New("some other error"), statusCode: 0, expected: "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorTypeLabel(classifyError(tt.err, tt.statusCode)); got != tt.expected {
				t.Fatalf("classifyError(%v, %d) = %q, want %q", tt.err, tt.statusCode, got, tt.expected)
			}
		})
	}
}
