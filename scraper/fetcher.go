// Package scraper retrieves the daily energy balance pages and turns their
// data rows into typed records.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barreera08/energyBaleares/config"
	"github.com/barreera08/energyBaleares/models"
	"github.com/barreera08/energyBaleares/parser"
	"github.com/gocolly/colly/v2"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Fetcher retrieves and parses one balance page per calendar day. Each fetch
// is stateless apart from the in-process memoization of parsed datasets.
type Fetcher struct {
	cfg       *config.Config
	collector *colly.Collector
	cache     *lru.Cache[string, models.DailyDataset]
	Metrics   *Metrics
}

// NewFetcher builds a fetcher configured from cfg.
func NewFetcher(cfg *config.Config) (*Fetcher, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	collector := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	f := &Fetcher{
		cfg:       cfg,
		collector: collector,
		Metrics:   NewMetrics(),
	}
	if cfg.CacheSize > 0 {
		cache, err := lru.New[string, models.DailyDataset](cfg.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("configure day cache: %w", err)
		}
		f.cache = cache
	}
	return f, nil
}

// BuildURL returns the balance page address for a date. Month and day
// segments are always two digits.
func (f *Fetcher) BuildURL(date time.Time) string {
	base := strings.TrimSuffix(f.cfg.BaseURL, "/")
	return fmt.Sprintf("%s/%04d/%02d/%02d", base, date.Year(), int(date.Month()), date.Day())
}

// FetchDay retrieves and parses the page for a single date. The outcome is
// typed: retrieval failures come back as DayFailed with a classified reason,
// pages without data rows as DayEmpty. Neither aborts a surrounding range.
func (f *Fetcher) FetchDay(ctx context.Context, date time.Time) DayResult {
	date = midnight(date)
	key := date.Format(models.DateFormat)
	start := time.Now()

	if f.cache != nil {
		if records, ok := f.cache.Get(key); ok {
			f.Metrics.IncCacheHit()
			status := DayFetched
			if len(records) == 0 {
				status = DayEmpty
			}
			return DayResult{Date: date, Status: status, Records: records, Duration: time.Since(start)}
		}
	}

	if err := ctx.Err(); err != nil {
		return DayResult{Date: date, Status: DayFailed, Err: err}
	}

	var (
		records    models.DailyDataset
		fetchErr   error
		statusCode int
	)

	c := f.collector.Clone()
	c.OnHTML("tr.datos", func(e *colly.HTMLElement) {
		cells := e.ChildTexts("th, td")
		record, err := parser.BuildRecord(date, cells)
		if err != nil {
			f.Metrics.IncSkippedRow()
			slog.Debug("skipping malformed row",
				slog.String("date", key),
				slog.Int("cells", len(cells)),
				slog.Any("error", err),
			)
			return
		}
		records = append(records, record)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = err
	})

	pageURL := f.BuildURL(date)
	if err := c.Visit(pageURL); err != nil && fetchErr == nil {
		fetchErr = err
	}
	c.Wait()

	duration := time.Since(start)
	f.Metrics.ObserveDuration(duration)

	if fetchErr != nil {
		classified := classifyError(fetchErr, statusCode)
		f.Metrics.IncFetch("failed")
		f.Metrics.IncError(errorTypeLabel(classified))
		slog.Warn("day fetch failed",
			slog.String("url", pageURL),
			slog.String("category", errorTypeLabel(classified)),
			slog.Any("error", fetchErr),
		)
		return DayResult{Date: date, Status: DayFailed, Err: classified, Duration: duration}
	}

	f.Metrics.AddRows(len(records))
	if f.cache != nil {
		f.cache.Add(key, records)
	}

	if len(records) == 0 {
		f.Metrics.IncFetch("empty")
		slog.Debug("no data rows published", slog.String("url", pageURL))
		return DayResult{Date: date, Status: DayEmpty, Duration: duration}
	}

	f.Metrics.IncFetch("fetched")
	slog.Debug("day fetched",
		slog.String("date", key),
		slog.Int("rows", len(records)),
		slog.Duration("duration", duration),
	)
	return DayResult{Date: date, Status: DayFetched, Records: records, Duration: duration}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
