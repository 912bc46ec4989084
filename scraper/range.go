package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/barreera08/energyBaleares/models"
)

// RangeFetcher walks an inclusive date range, fetches each day once, and
// concatenates the non-empty daily datasets in date order.
type RangeFetcher struct {
	fetcher *Fetcher
	workers int
}

// NewRangeFetcher wraps a Fetcher. workers bounds the number of days fetched
// at once; one worker keeps the walk strictly sequential.
func NewRangeFetcher(fetcher *Fetcher, workers int) *RangeFetcher {
	if workers <= 0 {
		workers = 1
	}
	return &RangeFetcher{fetcher: fetcher, workers: workers}
}

// FetchRange fetches every day in [start, end] and returns the combined
// dataset. A single day's failure never aborts the range; the day simply
// contributes no rows, and its outcome is reported in Days. Results are
// joined back into ascending date order regardless of worker count.
func (rf *RangeFetcher) FetchRange(ctx context.Context, start, end time.Time) (*RangeResult, error) {
	start = midnight(start)
	end = midnight(end)
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s",
			ErrInvalidRange,
			start.Format(models.DateFormat),
			end.Format(models.DateFormat),
		)
	}

	days := int(end.Sub(start).Hours()/24) + 1
	result := &RangeResult{
		Days:         make([]DayResult, days),
		StartTime:    time.Now(),
		RequestCount: days,
	}

	if rf.workers == 1 {
		for i := 0; i < days; i++ {
			result.Days[i] = rf.fetcher.FetchDay(ctx, start.AddDate(0, 0, i))
		}
	} else {
		sem := make(chan struct{}, rf.workers)
		var wg sync.WaitGroup
		for i := 0; i < days; i++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				result.Days[i] = rf.fetcher.FetchDay(ctx, start.AddDate(0, 0, i))
			}(i)
		}
		wg.Wait()
	}

	for _, day := range result.Days {
		switch day.Status {
		case DayFetched:
			result.FetchedCount++
			result.Dataset = append(result.Dataset, day.Records...)
		case DayEmpty:
			result.EmptyCount++
		case DayFailed:
			result.FailureCount++
		}
	}
	result.EndTime = time.Now()

	slog.Info("range fetch complete",
		slog.String("start", start.Format(models.DateFormat)),
		slog.String("end", end.Format(models.DateFormat)),
		slog.Int("days", days),
		slog.Int("fetched", result.FetchedCount),
		slog.Int("empty", result.EmptyCount),
		slog.Int("failed", result.FailureCount),
		slog.Int("records", len(result.Dataset)),
	)
	return result, nil
}
