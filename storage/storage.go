// Package storage persists fetched balance records in a local SQLite
// database so the dashboard can be rebuilt without re-fetching.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/barreera08/energyBaleares/models"
	_ "modernc.org/sqlite"
)

// Store wraps the database connection.
type Store struct {
	conn *sql.DB
}

// Open creates a store at path and initializes the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &Store{conn: conn}
	if err := store.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS balance_records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		category TEXT NOT NULL,
		daily REAL,
		monthly REAL,
		monthly_delta REAL,
		yearly REAL,
		yearly_delta REAL,
		rolling_year REAL,
		rolling_year_delta REAL,
		created_at TEXT NOT NULL,
		UNIQUE(date, category)
	);
	CREATE INDEX IF NOT EXISTS idx_balance_date ON balance_records(date);
	CREATE INDEX IF NOT EXISTS idx_balance_category ON balance_records(category);
	`

	_, err := s.conn.Exec(schema)
	return err
}

// InsertRecords stores records, ignoring (date, category) duplicates.
// It returns the number of newly inserted rows.
func (s *Store) InsertRecords(records []models.DailyRecord) (int, error) {
	tx, err := s.conn.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO balance_records
	(date, category, daily, monthly, monthly_delta, yearly, yearly_delta, rolling_year, rolling_year_delta, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	createdAt := time.Now().UTC().Format(time.RFC3339)
	inserted := 0
	for _, r := range records {
		res, err := stmt.Exec(
			r.Date.Format(models.DateFormat),
			r.Category,
			r.Daily.NullFloat64(),
			r.Monthly.NullFloat64(),
			r.MonthlyDelta.NullFloat64(),
			r.Yearly.NullFloat64(),
			r.YearlyDelta.NullFloat64(),
			r.RollingYear.NullFloat64(),
			r.RollingYearDelta.NullFloat64(),
			createdAt,
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

// LoadRange retrieves records whose date falls within [start, end], in
// ascending date order with insertion order preserved within a day.
func (s *Store) LoadRange(start, end time.Time) (models.RangeDataset, error) {
	query := `
	SELECT date, category, daily, monthly, monthly_delta, yearly, yearly_delta, rolling_year, rolling_year_delta
	FROM balance_records
	WHERE date >= ? AND date <= ?
	ORDER BY date, id
	`

	rows, err := s.conn.Query(query, start.Format(models.DateFormat), end.Format(models.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var dataset models.RangeDataset
	for rows.Next() {
		var (
			dateStr string
			r       models.DailyRecord
			values  [7]sql.NullFloat64
		)
		if err := rows.Scan(&dateStr, &r.Category,
			&values[0], &values[1], &values[2], &values[3], &values[4], &values[5], &values[6]); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		r.Date, err = time.Parse(models.DateFormat, dateStr)
		if err != nil {
			return nil, fmt.Errorf("parsing stored date %q: %w", dateStr, err)
		}
		r.Daily = models.MeasureFromNull(values[0])
		r.Monthly = models.MeasureFromNull(values[1])
		r.MonthlyDelta = models.MeasureFromNull(values[2])
		r.Yearly = models.MeasureFromNull(values[3])
		r.YearlyDelta = models.MeasureFromNull(values[4])
		r.RollingYear = models.MeasureFromNull(values[5])
		r.RollingYearDelta = models.MeasureFromNull(values[6])
		dataset = append(dataset, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return dataset, nil
}

// Categories returns the distinct stored category labels.
func (s *Store) Categories() ([]string, error) {
	rows, err := s.conn.Query(`SELECT DISTINCT category FROM balance_records ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
