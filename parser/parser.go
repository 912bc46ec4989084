// Package parser turns raw table cells into typed daily records.
package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/barreera08/energyBaleares/models"
)

// CellsPerRow is the expected cell count of a data row: one category label
// followed by seven numeric columns.
const CellsPerRow = 8

// NormalizeNumber converts the source's locale formatting (comma as decimal
// separator, spaces or dots as thousands grouping) into a float. The boolean
// reports whether the cell held a parsable number; callers treat false as a
// missing value, never as zero.
func NormalizeNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// BuildRecord assembles a DailyRecord from the cells of one data row. The
// first cell is the category label, the remaining cells the numeric columns.
// Rows with fewer than CellsPerRow cells are rejected; callers skip them.
// Numeric cells that fail coercion come back as missing without failing the
// row.
func BuildRecord(date time.Time, cells []string) (models.DailyRecord, error) {
	if len(cells) < CellsPerRow {
		return models.DailyRecord{}, fmt.Errorf("short row: %d cells, want %d", len(cells), CellsPerRow)
	}

	values := make([]models.Measure, CellsPerRow-1)
	for i := range values {
		if v, ok := NormalizeNumber(cells[i+1]); ok {
			values[i] = models.NewMeasure(v)
		}
	}

	return models.DailyRecord{
		Date:             date,
		Category:         strings.TrimSpace(cells[0]),
		Daily:            values[0],
		Monthly:          values[1],
		MonthlyDelta:     values[2],
		Yearly:           values[3],
		YearlyDelta:      values[4],
		RollingYear:      values[5],
		RollingYearDelta: values[6],
	}, nil
}

// ValidateRecord ensures a record carries the fields every downstream
// consumer relies on.
func ValidateRecord(r models.DailyRecord) error {
	if r.Date.IsZero() {
		return fmt.Errorf("record missing date")
	}
	if strings.TrimSpace(r.Category) == "" {
		return fmt.Errorf("record missing category for %s", r.Date.Format(models.DateFormat))
	}
	return nil
}
