// Package models defines the data structures shared by the scraper, storage,
// export, and dashboard layers.
package models

import "time"

// DateFormat is the canonical layout for record dates.
const DateFormat = "2006-01-02"

// Columns is the export schema, in order.
var Columns = []string{
	"Date",
	"Category",
	"DailyValue",
	"MonthlyValue",
	"MonthlyPctChange",
	"YearlyValue",
	"YearlyPctChange",
	"RollingYearValue",
	"RollingYearPctChange",
}

// DailyRecord is one row of the daily balance table: one energy category on
// one date, plus the seven numeric columns published by the source (daily,
// monthly, and yearly figures with their percentage deltas, and the trailing
// twelve-month aggregate).
type DailyRecord struct {
	Date             time.Time `json:"date"`
	Category         string    `json:"category"`
	Daily            Measure   `json:"daily_value"`
	Monthly          Measure   `json:"monthly_value"`
	MonthlyDelta     Measure   `json:"monthly_pct_change"`
	Yearly           Measure   `json:"yearly_value"`
	YearlyDelta      Measure   `json:"yearly_pct_change"`
	RollingYear      Measure   `json:"rolling_year_value"`
	RollingYearDelta Measure   `json:"rolling_year_pct_change"`
}

// Values returns the seven numeric columns in export order.
func (r DailyRecord) Values() []Measure {
	return []Measure{
		r.Daily,
		r.Monthly,
		r.MonthlyDelta,
		r.Yearly,
		r.YearlyDelta,
		r.RollingYear,
		r.RollingYearDelta,
	}
}
