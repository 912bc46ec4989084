package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/barreera08/energyBaleares/config"
	"github.com/barreera08/energyBaleares/models"
	"github.com/barreera08/energyBaleares/pipeline"
	"github.com/barreera08/energyBaleares/scraper"
	"github.com/barreera08/energyBaleares/storage"
	humanize "github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var (
	fetchStart   string
	fetchEnd     string
	fetchOutput  string
	fetchFormat  string
	fetchDB      string
	fetchWorkers int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch a date range and export the combined dataset",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchStart, "start", "", "first date to fetch (YYYY-MM-DD, default one week ago)")
	fetchCmd.Flags().StringVar(&fetchEnd, "end", "", "last date to fetch (YYYY-MM-DD, default today)")
	fetchCmd.Flags().StringVar(&fetchOutput, "output", "", "output file path")
	fetchCmd.Flags().StringVar(&fetchFormat, "format", "", "output format: csv, json, or dual")
	fetchCmd.Flags().StringVar(&fetchDB, "db", "", "SQLite database to persist records into")
	fetchCmd.Flags().IntVar(&fetchWorkers, "parallel", 0, "number of days fetched at once (default sequential)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if fetchOutput != "" {
		cfg.OutputFile = fetchOutput
	}
	if fetchFormat != "" {
		cfg.OutputFormat = strings.ToLower(fetchFormat)
	}
	if fetchDB != "" {
		cfg.StoragePath = fetchDB
	}
	if fetchWorkers > 0 {
		cfg.Parallelism = fetchWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	start, end, err := resolveRange(fetchStart, fetchEnd)
	if err != nil {
		return err
	}

	fetcher, err := scraper.NewFetcher(cfg)
	if err != nil {
		return fmt.Errorf("initialising fetcher: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsServer := startMetricsServer(cfg, fetcher)

	slog.Info("starting range fetch",
		slog.String("base_url", cfg.BaseURL),
		slog.String("start", start.Format(models.DateFormat)),
		slog.String("end", end.Format(models.DateFormat)),
		slog.Int("workers", cfg.Parallelism),
	)

	rangeFetcher := scraper.NewRangeFetcher(fetcher, cfg.Parallelism)
	result, err := rangeFetcher.FetchRange(ctx, start, end)
	if err != nil {
		return err
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	p := pipeline.NewPipeline(writer)
	p.Start(1)
	if err := p.Process(result.Dataset); err != nil {
		return fmt.Errorf("processing records: %w", err)
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("pipeline shutdown: %w", err)
	}
	if len(result.Dataset) > 0 {
		if err := writer.Validate(); err != nil {
			return fmt.Errorf("output validation: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing writer: %w", err)
	}

	if cfg.StoragePath != "" {
		store, err := storage.Open(cfg.StoragePath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer store.Close()
		inserted, err := store.InsertRecords(result.Dataset)
		if err != nil {
			return fmt.Errorf("persisting records: %w", err)
		}
		slog.Info("records persisted",
			slog.String("path", cfg.StoragePath),
			slog.Int("inserted", inserted),
		)
	}

	shutdownMetricsServer(metricsServer)
	printSummary(result, cfg.OutputFile, p.GetMetrics())
	return nil
}

func resolveRange(startFlag, endFlag string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -7)

	var err error
	if startFlag != "" {
		start, err = time.Parse(models.DateFormat, startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid start date %q: %w", startFlag, err)
		}
	}
	if endFlag != "" {
		end, err = time.Parse(models.DateFormat, endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid end date %q: %w", endFlag, err)
		}
	}
	return start, end, nil
}

func createWriter(format, filename string) (pipeline.OutputWriter, error) {
	switch format {
	case "json":
		return pipeline.NewJSONWriter(filename)
	case "csv":
		return pipeline.NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".jsonl"
		return pipeline.NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func startMetricsServer(cfg *config.Config, fetcher *scraper.Fetcher) *http.Server {
	if cfg.MetricsAddr == "" || fetcher.Metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: promhttp.HandlerFor(fetcher.Metrics.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", cfg.MetricsAddr))
	return server
}

func shutdownMetricsServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("metrics server shutdown failed", slog.Any("error", err))
	}
}

func printSummary(result *scraper.RangeResult, outputFile string, metrics map[string]interface{}) {
	separator := "--------------------------------------------------"
	fmt.Println("\n" + separator)
	fmt.Println("Fetch complete")

	processed := int64(0)
	if v, ok := metrics["processed_records"].(int64); ok {
		processed = v
	}

	fmt.Printf("  Records:       %s\n", humanize.Comma(processed))
	fmt.Printf("  Days fetched:  %d of %d\n", result.FetchedCount, result.RequestCount)
	fmt.Printf("  Days empty:    %d\n", result.EmptyCount)
	fmt.Printf("  Days failed:   %d\n", result.FailureCount)
	if valErrors, ok := metrics["validation_errors"].(map[string]int); ok && len(valErrors) > 0 {
		fmt.Printf("  Validation:    %v\n", valErrors)
	}
	fmt.Printf("  Duration:      %v\n", result.EndTime.Sub(result.StartTime).Round(time.Millisecond))
	fmt.Printf("  Output file:   %s\n", outputFile)
	fmt.Println(separator)
}
