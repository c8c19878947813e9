// Package pipeline orchestrates a full ETL run: extraction, cleaning,
// validation, enhancement, quality reporting, CSV export, and the optional
// database load. Stage semantics live in their own packages; this package
// only sequences them and decides which failures abort the run.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"retailetl/internal/config"
	"retailetl/internal/dataprocessing"
	"retailetl/internal/exporter"
	"retailetl/internal/infrastructure"
	"retailetl/pkg/contracts/domain"
)

// Output file names inside the processed data directory.
const (
	processedFileName = "processed_retail_data.csv"
	errorsFileName    = "validation_errors.csv"
	snapshotFileName  = "extracted_snapshot.csv"
)

// Extractor reads the source file into the tabular dataset the cleaner
// consumes.
type Extractor interface {
	Extract(ctx context.Context, path string) (dataprocessing.Dataset, error)
}

// Store persists enhanced records. A nil Store means the run exports CSVs
// only; a failing Store degrades the run but never fails it.
type Store interface {
	EnsureSchema(ctx context.Context) error
	LoadRecords(ctx context.Context, records []domain.EnhancedRecord) error
}

// Options tunes run behavior beyond the wired collaborators.
type Options struct {
	// SnapshotRaw also exports the extracted dataset before cleaning,
	// for auditing what the source file actually contained.
	SnapshotRaw bool
}

// Pipeline wires the processing stages for a single-file batch run.
type Pipeline struct {
	cfg     *config.Config
	opts    Options
	logger  *slog.Logger
	extract Extractor
	cleaner *dataprocessing.Cleaner
	valid   *dataprocessing.Validator
	enhance *dataprocessing.Enhancer
	report  *dataprocessing.Reporter
	writer  *exporter.CSVWriter
	store   Store
}

// New builds a pipeline from its collaborators. A nil logger falls back to
// slog.Default(); a nil store disables the database load.
func New(cfg *config.Config, extract Extractor, store Store, opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		extract: extract,
		cleaner: dataprocessing.NewCleaner(logger),
		valid:   dataprocessing.NewValidator(logger),
		enhance: dataprocessing.NewEnhancer(logger),
		report:  dataprocessing.NewReporter(logger),
		writer:  exporter.NewCSVWriter(logger),
		store:   store,
	}
}

// Run processes the configured input file end to end. Structural failures
// (unreadable file, schema mismatch, empty dataset, export errors) abort
// the run; data-quality problems and storage failures do not.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunResult, error) {
	runID := uuid.NewString()
	ctx = infrastructure.WithRunID(ctx, runID)
	start := time.Now()

	p.logger.InfoContext(ctx, "pipeline run started",
		slog.String("input_file", p.cfg.Paths.InputFile))

	raw, err := p.extract.Extract(ctx, p.cfg.Paths.InputFile)
	if err != nil {
		return nil, err
	}

	if p.opts.SnapshotRaw {
		snapshotPath := p.cfg.GetRawPath(snapshotFileName)
		if err := p.writer.WriteDataset(snapshotPath, raw); err != nil {
			return nil, err
		}
	}

	cleaned, err := p.cleaner.Clean(ctx, raw)
	if err != nil {
		return nil, err
	}

	validRecords, errored := p.valid.Partition(ctx, cleaned)
	enhanced := p.enhance.Enhance(ctx, validRecords)

	report, err := p.report.Report(ctx, cleaned, enhanced)
	if err != nil {
		return nil, err
	}

	processedPath := p.cfg.GetProcessedPath(processedFileName)
	if err := p.writer.WriteEnhancedRecords(processedPath, enhanced); err != nil {
		return nil, err
	}
	if len(errored) > 0 {
		if err := p.writer.WriteErrorRecords(p.cfg.GetProcessedPath(errorsFileName), errored); err != nil {
			return nil, err
		}
	}

	p.loadRecords(ctx, enhanced)

	result := &domain.RunResult{
		RunID:        runID,
		ValidCount:   len(enhanced),
		ErrorCount:   len(errored),
		Report:       report,
		ProcessedCSV: processedPath,
		Duration:     time.Since(start),
	}

	p.logger.InfoContext(ctx, "pipeline run completed",
		slog.Int("valid_count", result.ValidCount),
		slog.Int("error_count", result.ErrorCount),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// loadRecords pushes the batch to the store. Persistence is best effort:
// the CSVs already hold the run's output, so a database outage only
// degrades the run.
func (p *Pipeline) loadRecords(ctx context.Context, records []domain.EnhancedRecord) {
	if p.store == nil {
		p.logger.InfoContext(ctx, "no store configured, skipping database load")
		return
	}

	if err := p.store.EnsureSchema(ctx); err != nil {
		p.logger.WarnContext(ctx, "schema setup failed, skipping database load",
			slog.String("error", err.Error()))
		return
	}
	if err := p.store.LoadRecords(ctx, records); err != nil {
		p.logger.WarnContext(ctx, "database load failed, continuing with csv output",
			slog.String("error", err.Error()))
	}
}
