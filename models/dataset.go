package models

import (
	"sort"
	"time"
)

// DailyDataset holds the records extracted from one day's page, in source
// row order. It is empty when the fetch failed or the page carried no rows.
type DailyDataset []DailyRecord

// RangeDataset is the concatenation of daily datasets across a date range,
// in ascending date order with per-day row order preserved.
type RangeDataset []DailyRecord

// DateTotal is the sum of daily values for one date.
type DateTotal struct {
	Date  time.Time
	Total float64
}

// CategoryTotal is the sum of daily values for one category.
type CategoryTotal struct {
	Category string
	Total    float64
}

// Dates returns the distinct record dates in ascending order.
func (rd RangeDataset) Dates() []time.Time {
	seen := make(map[time.Time]struct{}, len(rd))
	var dates []time.Time
	for _, r := range rd {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Categories returns the distinct category labels in first-seen order.
func (rd RangeDataset) Categories() []string {
	seen := make(map[string]struct{})
	var categories []string
	for _, r := range rd {
		if _, ok := seen[r.Category]; ok {
			continue
		}
		seen[r.Category] = struct{}{}
		categories = append(categories, r.Category)
	}
	return categories
}

// TotalsByDate sums the daily values per date, ascending by date. Missing
// values contribute nothing.
func (rd RangeDataset) TotalsByDate() []DateTotal {
	sums := make(map[time.Time]float64)
	for _, r := range rd {
		if r.Daily.Valid {
			sums[r.Date] += r.Daily.Float64
		}
	}
	totals := make([]DateTotal, 0, len(sums))
	for _, date := range rd.Dates() {
		totals = append(totals, DateTotal{Date: date, Total: sums[date]})
	}
	return totals
}

// TotalsByCategory sums the daily values per category, largest first.
func (rd RangeDataset) TotalsByCategory() []CategoryTotal {
	sums := make(map[string]float64)
	for _, r := range rd {
		if r.Daily.Valid {
			sums[r.Category] += r.Daily.Float64
		}
	}
	totals := make([]CategoryTotal, 0, len(sums))
	for _, category := range rd.Categories() {
		totals = append(totals, CategoryTotal{Category: category, Total: sums[category]})
	}
	sort.SliceStable(totals, func(i, j int) bool { return totals[i].Total > totals[j].Total })
	return totals
}

// FilterCategories keeps only records for the named categories. An empty
// filter returns the dataset unchanged.
func (rd RangeDataset) FilterCategories(names ...string) RangeDataset {
	if len(names) == 0 {
		return rd
	}
	wanted := make(map[string]struct{}, len(names))
	for _, name := range names {
		wanted[name] = struct{}{}
	}
	var out RangeDataset
	for _, r := range rd {
		if _, ok := wanted[r.Category]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Between keeps only records whose date falls within [start, end].
func (rd RangeDataset) Between(start, end time.Time) RangeDataset {
	var out RangeDataset
	for _, r := range rd {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// PivotTable is a category-by-date matrix of daily values. Values[i][j] holds
// the daily value of Categories[i] on Dates[j]; absent or missing cells are
// zero, matching how the stacked chart treats gaps.
type PivotTable struct {
	Dates      []time.Time
	Categories []string
	Values     [][]float64
}

// Pivot builds the category-by-date matrix of daily values.
func (rd RangeDataset) Pivot() PivotTable {
	dates := rd.Dates()
	categories := rd.Categories()

	dateIndex := make(map[time.Time]int, len(dates))
	for i, d := range dates {
		dateIndex[d] = i
	}
	categoryIndex := make(map[string]int, len(categories))
	for i, c := range categories {
		categoryIndex[c] = i
	}

	values := make([][]float64, len(categories))
	for i := range values {
		values[i] = make([]float64, len(dates))
	}
	for _, r := range rd {
		if !r.Daily.Valid {
			continue
		}
		values[categoryIndex[r.Category]][dateIndex[r.Date]] += r.Daily.Float64
	}

	return PivotTable{Dates: dates, Categories: categories, Values: values}
}
