package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/barreera08/energyBaleares/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "balance.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func storedRecord(day int, category string, daily float64) models.DailyRecord {
	return models.DailyRecord{
		Date:     time.Date(2024, 2, day, 0, 0, 0, 0, time.UTC),
		Category: category,
		Daily:    models.NewMeasure(daily),
		Monthly:  models.NewMeasure(daily * 30),
	}
}

func TestInsertAndLoadRange(t *testing.T) {
	store := openTestStore(t)

	records := []models.DailyRecord{
		storedRecord(1, "Hidráulica", 10.5),
		storedRecord(1, "Eólica", 20),
		storedRecord(2, "Hidráulica", 11),
	}
	inserted, err := store.InsertRecords(records)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if inserted != 3 {
		t.Fatalf("inserted=%d, want 3", inserted)
	}

	loaded, err := store.LoadRange(
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded=%d, want 2", len(loaded))
	}
	if loaded[0].Category != "Hidráulica" || loaded[1].Category != "Eólica" {
		t.Fatalf("categories = %q/%q, want insertion order", loaded[0].Category, loaded[1].Category)
	}
	if !loaded[0].Daily.Valid || loaded[0].Daily.Float64 != 10.5 {
		t.Fatalf("daily = %+v, want 10.5", loaded[0].Daily)
	}
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	store := openTestStore(t)

	record := storedRecord(1, "Eólica", 20)
	if _, err := store.InsertRecords([]models.DailyRecord{record}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	inserted, err := store.InsertRecords([]models.DailyRecord{record})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("inserted=%d, want 0 for duplicate", inserted)
	}
}

func TestMissingValuesRoundTrip(t *testing.T) {
	store := openTestStore(t)

	record := models.DailyRecord{
		Date:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		Category: "Solar fotovoltaica",
		Daily:    models.NewMeasure(5),
		// remaining measures missing
	}
	if _, err := store.InsertRecords([]models.DailyRecord{record}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	loaded, err := store.LoadRange(record.Date, record.Date)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded=%d, want 1", len(loaded))
	}
	if loaded[0].Monthly.Valid {
		t.Fatalf("monthly should round-trip as missing, got %+v", loaded[0].Monthly)
	}
	if !loaded[0].Daily.Valid || loaded[0].Daily.Float64 != 5 {
		t.Fatalf("daily = %+v, want 5", loaded[0].Daily)
	}
}

func TestCategories(t *testing.T) {
	store := openTestStore(t)

	records := []models.DailyRecord{
		storedRecord(1, "Hidráulica", 1),
		storedRecord(1, "Eólica", 2),
		storedRecord(2, "Eólica", 3),
	}
	if _, err := store.InsertRecords(records); err != nil {
		t.Fatalf("insert: %v", err)
	}

	categories, err := store.Categories()
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("categories=%v, want 2 distinct", categories)
	}
}
