// Command retail-etl runs the batch processing pipeline for an online
// retail transactions workbook: extract, clean, validate, enhance, report,
// export CSVs, and optionally load PostgreSQL.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"retailetl/internal/config"
	"retailetl/internal/extractor"
	"retailetl/internal/infrastructure"
	"retailetl/internal/pipeline"
	"retailetl/internal/storage"
)

func main() {
	inputFile := flag.String("input", "", "input .xlsx file (defaults to paths.input_file from config)")
	skipDB := flag.Bool("skip-db", false, "skip the PostgreSQL load, export CSVs only")
	snapshot := flag.Bool("snapshot", false, "also export the raw extracted dataset before cleaning")
	analyze := flag.Bool("analyze", false, "run the analysis queries after a successful load")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall run timeout")
	flag.Parse()

	if err := run(*inputFile, *skipDB, *snapshot, *analyze, *timeout); err != nil {
		slog.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}
}

func run(inputFile string, skipDB, snapshot, analyze bool, timeout time.Duration) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if inputFile != "" {
		cfg.Paths.InputFile = inputFile
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Storage is best effort: an unreachable database downgrades the run
	// to CSV-only instead of failing it.
	var store pipeline.Store
	var loader *storage.Loader
	if !skipDB {
		loader, err = storage.NewLoader(ctx, cfg.Database, logger)
		if err != nil {
			logger.Warn("database unavailable, continuing with csv output only", "error", err)
		} else {
			defer loader.Close()
			store = loader
		}
	}

	p := pipeline.New(cfg, extractor.NewExcelExtractor(logger), store, pipeline.Options{SnapshotRaw: snapshot}, logger)

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.Info("run summary",
		slog.String("run_id", result.RunID),
		slog.Int("valid_records", result.ValidCount),
		slog.Int("error_records", result.ErrorCount),
		slog.Float64("data_loss_percentage", result.Report.DataLossPercent),
		slog.Float64("total_revenue", result.Report.TotalRevenue),
		slog.String("processed_csv", result.ProcessedCSV),
		slog.Duration("duration", result.Duration))

	if analyze && loader != nil {
		if err := printAnalysis(ctx, loader); err != nil {
			logger.Warn("analysis queries failed", "error", err)
		}
	}

	return nil
}

// printAnalysis runs the canned queries and writes a human-readable summary
// to stdout, independent of the structured log stream.
func printAnalysis(ctx context.Context, loader *storage.Loader) error {
	results, err := loader.RunAnalysis(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\nLoaded table: %d rows, %d returns, %.2f revenue, %s to %s\n",
		results.Summary.TotalRows, results.Summary.ReturnRows, results.Summary.TotalRevenue,
		results.Summary.FirstInvoice.Format("2006-01-02"), results.Summary.LastInvoice.Format("2006-01-02"))

	fmt.Println("\nTop products by revenue:")
	for i, p := range results.TopProducts {
		fmt.Printf("  %2d. %-12s %-40s %10.2f\n", i+1, p.StockCode, p.Description.String, p.TotalRevenue)
	}

	fmt.Println("\nMonthly revenue:")
	for _, m := range results.MonthlyRevenue {
		fmt.Printf("  %04d-%02d  %12.2f  (%d transactions, %d customers)\n",
			m.Year, m.Month, m.Revenue, m.TransactionCount, m.UniqueCustomers)
	}

	fmt.Println("\nTop countries by revenue:")
	for i, c := range results.TopCountries {
		fmt.Printf("  %2d. %-20s %12.2f  (%d customers)\n", i+1, c.Country, c.TotalRevenue, c.UniqueCustomers)
	}

	fmt.Println("\nTop repeat customers:")
	for i, c := range results.RepeatCustomers {
		fmt.Printf("  %2d. %-10s %4d purchases  %12.2f total  %10.2f avg\n",
			i+1, c.CustomerID, c.TransactionCount, c.TotalSpent, c.AvgTransaction)
	}

	return nil
}
