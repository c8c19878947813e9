package dataprocessing

import (
	"context"
	"log/slog"

	"retailetl/pkg/contracts/domain"
)

// Enhancer computes derived analytical fields for validated records.
// Enhancement failures are non-fatal: the record is passed through without
// derived fields rather than dropped, so output count always equals input
// count.
type Enhancer struct {
	logger *slog.Logger
}

// NewEnhancer creates an enhancer. A nil logger falls back to slog.Default().
func NewEnhancer(logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enhancer{logger: logger}
}

// Enhance derives total_amount, is_return, year, and month for each record
// and rebuilds it through the extended schema. Order is preserved.
func (e *Enhancer) Enhance(ctx context.Context, records []domain.RetailRecord) []domain.EnhancedRecord {
	e.logger.InfoContext(ctx, "enhancing records", slog.Int("record_count", len(records)))

	enhanced := make([]domain.EnhancedRecord, 0, len(records))
	failures := 0

	for _, rec := range records {
		derived, err := domain.Derive(rec)
		if err != nil {
			e.logger.ErrorContext(ctx, "failed to derive fields, keeping original record",
				slog.String("invoice_no", rec.InvoiceNo),
				slog.String("error", err.Error()))
			enhanced = append(enhanced, domain.EnhancedRecord{RetailRecord: rec})
			failures++
			continue
		}

		out, violations := domain.BuildEnhanced(rec, derived)
		if len(violations) > 0 {
			e.logger.ErrorContext(ctx, "enhanced record failed re-validation, keeping original record",
				slog.String("invoice_no", rec.InvoiceNo),
				slog.Any("violations", violations))
			enhanced = append(enhanced, domain.EnhancedRecord{RetailRecord: rec})
			failures++
			continue
		}
		enhanced = append(enhanced, out)
	}

	e.logger.InfoContext(ctx, "enhancement completed",
		slog.Int("enhanced_records", len(enhanced)),
		slog.Int("fallback_records", failures))

	return enhanced
}
