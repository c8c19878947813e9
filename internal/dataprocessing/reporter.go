package dataprocessing

import (
	"context"
	"log/slog"
	"time"

	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

// Reporter computes the data-quality report for a completed run. It is a
// pure function of the cleaned dataset and the enhanced output; its only
// side effect is a log line with the final numbers.
type Reporter struct {
	logger *slog.Logger
}

// NewReporter creates a reporter. A nil logger falls back to slog.Default().
func NewReporter(logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{logger: logger}
}

// Report aggregates the run's quality numbers. An empty cleaned dataset
// makes the loss ratio undefined, so it fails with an EMPTY_DATASET error
// instead of dividing by zero.
func (r *Reporter) Report(ctx context.Context, cleaned Dataset, enhanced []domain.EnhancedRecord) (domain.QualityReport, error) {
	if cleaned.Len() == 0 {
		return domain.QualityReport{}, errors.NewEmptyDataset("no rows reached the quality reporter")
	}

	report := domain.QualityReport{
		OriginalRecords:  cleaned.Len(),
		ProcessedRecords: len(enhanced),
		DataLossPercent:  float64(cleaned.Len()-len(enhanced)) / float64(cleaned.Len()) * 100,
		GeneratedAt:      time.Now().UTC(),
	}

	customers := map[string]struct{}{}
	products := map[string]struct{}{}
	countries := map[string]struct{}{}
	returns := 0

	for _, rec := range enhanced {
		if rec.CustomerID != nil {
			customers[*rec.CustomerID] = struct{}{}
		}
		products[rec.StockCode] = struct{}{}
		countries[rec.Country] = struct{}{}

		if report.DateRange.Start.IsZero() || rec.InvoiceDate.Before(report.DateRange.Start) {
			report.DateRange.Start = rec.InvoiceDate
		}
		if rec.InvoiceDate.After(report.DateRange.End) {
			report.DateRange.End = rec.InvoiceDate
		}

		if rec.IsReturn {
			returns++
		} else {
			report.TotalRevenue += rec.TotalAmount
		}
	}

	report.UniqueCustomers = len(customers)
	report.UniqueProducts = len(products)
	report.UniqueCountries = len(countries)
	if len(enhanced) > 0 {
		report.ReturnsPercent = float64(returns) / float64(len(enhanced)) * 100
	}

	r.logger.InfoContext(ctx, "data quality report",
		slog.Int("original_records", report.OriginalRecords),
		slog.Int("processed_records", report.ProcessedRecords),
		slog.Float64("data_loss_percentage", report.DataLossPercent),
		slog.Int("unique_customers", report.UniqueCustomers),
		slog.Int("unique_products", report.UniqueProducts),
		slog.Int("unique_countries", report.UniqueCountries),
		slog.Float64("returns_percentage", report.ReturnsPercent),
		slog.Float64("total_revenue", report.TotalRevenue))

	return report, nil
}
