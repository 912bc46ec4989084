// Package dashboard renders the accumulated dataset as charts, static HTML
// reports, and an interactive web page.
package dashboard

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/barreera08/energyBaleares/models"
)

// State captures the dashboard selections for one interaction: the date range
// and an optional category filter. Handlers receive a State parsed from the
// request and pass it through the render; nothing is retained between
// requests, so the fetch pipeline stays stateless.
type State struct {
	Start      time.Time
	End        time.Time
	Categories []string
}

// DefaultState selects the last seven days.
func DefaultState(now time.Time) State {
	end := midnight(now)
	return State{Start: end.AddDate(0, 0, -7), End: end}
}

// ParseState builds a State from request query parameters, falling back to
// DefaultState for absent values. An inverted range is rejected.
func ParseState(values url.Values, now time.Time) (State, error) {
	state := DefaultState(now)

	if raw := values.Get("start"); raw != "" {
		parsed, err := time.Parse(models.DateFormat, raw)
		if err != nil {
			return State{}, fmt.Errorf("invalid start date %q: %w", raw, err)
		}
		state.Start = midnight(parsed)
	}
	if raw := values.Get("end"); raw != "" {
		parsed, err := time.Parse(models.DateFormat, raw)
		if err != nil {
			return State{}, fmt.Errorf("invalid end date %q: %w", raw, err)
		}
		state.End = midnight(parsed)
	}
	if state.Start.After(state.End) {
		return State{}, fmt.Errorf("invalid range: start %s after end %s",
			state.Start.Format(models.DateFormat), state.End.Format(models.DateFormat))
	}

	for _, category := range values["category"] {
		if trimmed := strings.TrimSpace(category); trimmed != "" {
			state.Categories = append(state.Categories, trimmed)
		}
	}

	return state, nil
}

// Apply filters a dataset down to the selected categories.
func (s State) Apply(ds models.RangeDataset) models.RangeDataset {
	return ds.FilterCategories(s.Categories...)
}

// Selected reports whether a category is part of the current filter.
func (s State) Selected(category string) bool {
	for _, c := range s.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
