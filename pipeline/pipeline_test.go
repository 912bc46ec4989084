package pipeline

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/barreera08/energyBaleares/models"
)

type mockWriter struct {
	mu      sync.Mutex
	batches [][]models.DailyRecord
	closed  bool
}

func (mw *mockWriter) Write(records []models.DailyRecord) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	copyBatch := make([]models.DailyRecord, len(records))
	copy(copyBatch, records)
	mw.batches = append(mw.batches, copyBatch)
	return nil
}

func (mw *mockWriter) Close() error {
	mw.mu.Lock()
	mw.closed = true
	mw.mu.Unlock()
	return nil
}

func (mw *mockWriter) Validate() error {
	return nil
}

func (mw *mockWriter) totalWritten() int {
	mw.mu.Lock()
	defer mw.mu.Unlock()
	total := 0
	for _, batch := range mw.batches {
		total += len(batch)
	}
	return total
}

func testRecord(day int, category string) models.DailyRecord {
	return models.DailyRecord{
		Date:     time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Category: category,
		Daily:    models.NewMeasure(float64(day)),
	}
}

func TestPipelineProcessAndClose(t *testing.T) {
	writer := &mockWriter{}
	p := NewPipeline(writer)
	p.Start(1)

	records := make([]models.DailyRecord, 0, 10)
	for i := 1; i <= 10; i++ {
		records = append(records, testRecord(i, "Eólica"))
	}
	if err := p.Process(records); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := writer.totalWritten(); got != 10 {
		t.Fatalf("written=%d, want 10", got)
	}
	metrics := p.GetMetrics()
	if processed := metrics["processed_records"].(int64); processed != 10 {
		t.Fatalf("processed=%d, want 10", processed)
	}
}

func TestPipelineDropsDuplicates(t *testing.T) {
	writer := &mockWriter{}
	p := NewPipeline(writer)
	p.Start(1)

	record := testRecord(1, "Hidráulica")
	if err := p.Process([]models.DailyRecord{record, record}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := writer.totalWritten(); got != 1 {
		t.Fatalf("written=%d, want 1", got)
	}
	metrics := p.GetMetrics()
	validation := metrics["validation_errors"].(map[string]int)
	if validation["duplicate_record"] != 1 {
		t.Fatalf("duplicate count = %d, want 1", validation["duplicate_record"])
	}
}

func TestPipelineDropsInvalidRecords(t *testing.T) {
	writer := &mockWriter{}
	p := NewPipeline(writer)
	p.Start(1)

	invalid := models.DailyRecord{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)} // no category
	if err := p.Process([]models.DailyRecord{invalid}); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if got := writer.totalWritten(); got != 0 {
		t.Fatalf("written=%d, want 0", got)
	}
	metrics := p.GetMetrics()
	validation := metrics["validation_errors"].(map[string]int)
	if validation["invalid_record"] != 1 {
		t.Fatalf("invalid count = %d, want 1", validation["invalid_record"])
	}
}

func TestPipelineProcessAfterClose(t *testing.T) {
	writer := &mockWriter{}
	p := NewPipeline(writer)
	p.Start(1)

	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := p.Process([]models.DailyRecord{testRecord(1, "Eólica")}); err != ErrPipelineClosed {
		t.Fatalf("process after close = %v, want ErrPipelineClosed", err)
	}
}

func TestPipelinePreservesOrderSingleWorker(t *testing.T) {
	writer := &mockWriter{}
	p := NewPipeline(writer)
	p.Start(1)

	var records []models.DailyRecord
	for i := 1; i <= 28; i++ {
		records = append(records, testRecord(i, "cat"+strconv.Itoa(i)))
	}
	if err := p.Process(records); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var flat []models.DailyRecord
	writer.mu.Lock()
	for _, batch := range writer.batches {
		flat = append(flat, batch...)
	}
	writer.mu.Unlock()

	if len(flat) != 28 {
		t.Fatalf("written=%d, want 28", len(flat))
	}
	for i, r := range flat {
		if r.Date.Day() != i+1 {
			t.Fatalf("record %d day = %d, want %d", i, r.Date.Day(), i+1)
		}
	}
}
