package scraper

import (
	"time"

	"github.com/barreera08/energyBaleares/models"
)

// DayStatus classifies the outcome of one day's fetch. Retrieval failures and
// pages without data rows both yield zero records, but callers can still tell
// them apart.
type DayStatus int

const (
	// DayFetched means the page was retrieved and contained data rows.
	DayFetched DayStatus = iota
	// DayEmpty means the page was retrieved but held no data rows.
	DayEmpty
	// DayFailed means retrieval failed; Err carries the classified reason.
	DayFailed
)

func (s DayStatus) String() string {
	switch s {
	case DayFetched:
		return "fetched"
	case DayEmpty:
		return "empty"
	case DayFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DayResult is the typed outcome of a single day's fetch.
type DayResult struct {
	Date     time.Time
	Status   DayStatus
	Records  models.DailyDataset
	Err      error
	Duration time.Duration
}

// RangeResult holds the combined dataset for a date range along with the
// per-day outcomes and overall counters.
type RangeResult struct {
	Dataset      models.RangeDataset
	Days         []DayResult
	StartTime    time.Time
	EndTime      time.Time
	RequestCount int
	FetchedCount int
	EmptyCount   int
	FailureCount int
}
