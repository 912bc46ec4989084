package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/barreera08/energyBaleares/pipeline"
	"github.com/barreera08/energyBaleares/storage"
	"github.com/spf13/cobra"
)

var (
	exportStart      string
	exportEnd        string
	exportOutput     string
	exportFormat     string
	exportDB         string
	exportCategories []string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export previously stored records without re-fetching",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportStart, "start", "", "first date to export (YYYY-MM-DD, default one week ago)")
	exportCmd.Flags().StringVar(&exportEnd, "end", "", "last date to export (YYYY-MM-DD, default today)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "", "output file path")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "output format: csv, json, or dual")
	exportCmd.Flags().StringVar(&exportDB, "db", "", "SQLite database to read from")
	exportCmd.Flags().StringSliceVar(&exportCategories, "category", nil, "restrict the export to these categories")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if exportOutput != "" {
		cfg.OutputFile = exportOutput
	}
	if exportFormat != "" {
		cfg.OutputFormat = strings.ToLower(exportFormat)
	}
	if exportDB != "" {
		cfg.StoragePath = exportDB
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.StoragePath == "" {
		return fmt.Errorf("no database configured: pass --db or set storage_path")
	}

	start, end, err := resolveRange(exportStart, exportEnd)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.StoragePath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	dataset, err := store.LoadRange(start, end)
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}
	dataset = dataset.FilterCategories(exportCategories...)
	if len(dataset) == 0 {
		stored, err := store.Categories()
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}
		return fmt.Errorf("no stored records match the selection (stored categories: %s)",
			strings.Join(stored, ", "))
	}

	writer, err := createWriter(cfg.OutputFormat, cfg.OutputFile)
	if err != nil {
		return fmt.Errorf("creating writer: %w", err)
	}

	p := pipeline.NewPipeline(writer)
	p.Start(1)
	if err := p.Process(dataset); err != nil {
		return fmt.Errorf("processing records: %w", err)
	}
	if err := p.Close(); err != nil {
		return fmt.Errorf("pipeline shutdown: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return fmt.Errorf("output validation: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing writer: %w", err)
	}

	slog.Info("export complete",
		slog.String("db", cfg.StoragePath),
		slog.String("output", cfg.OutputFile),
		slog.Int("records", len(dataset)),
	)
	return nil
}
