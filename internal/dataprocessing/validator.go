package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"retailetl/pkg/contracts/domain"
)

// errorLogSample caps how many error descriptors the warning summary
// includes.
const errorLogSample = 3

// Validator converts cleaned rows into validated records or error
// descriptors. Every row ends up in exactly one of the two outputs.
type Validator struct {
	logger *slog.Logger
}

// NewValidator creates a validator. A nil logger falls back to slog.Default().
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Partition validates each cleaned row in order. Valid rows become
// RetailRecords; rows with cast or schema violations become
// ErrorDescriptors carrying the original row and every violation. The two
// slices preserve input order and together cover the whole dataset.
func (v *Validator) Partition(ctx context.Context, ds Dataset) ([]domain.RetailRecord, []domain.ErrorDescriptor) {
	v.logger.InfoContext(ctx, "validating records", slog.Int("row_count", ds.Len()))

	valid := make([]domain.RetailRecord, 0, ds.Len())
	var errored []domain.ErrorDescriptor

	for idx, row := range ds.Rows {
		candidate, castErrs := buildCandidate(row)
		if len(castErrs) > 0 {
			errored = append(errored, describeError(idx, row, castErrs))
			continue
		}

		rec, violations := domain.BuildRecord(candidate)
		if len(violations) > 0 {
			errored = append(errored, describeError(idx, row, violations))
			continue
		}
		valid = append(valid, rec)
	}

	v.logger.InfoContext(ctx, "validation completed",
		slog.Int("valid_records", len(valid)),
		slog.Int("error_records", len(errored)))

	if len(errored) > 0 {
		sample := errored
		if len(sample) > errorLogSample {
			sample = sample[:errorLogSample]
		}
		v.logger.WarnContext(ctx, "validation rejected rows",
			slog.Int("error_count", len(errored)),
			slog.Any("first_errors", sample))
	}

	return valid, errored
}

// buildCandidate casts a cleaned row's cells to the record's field types.
// Optional fields pass through as absent when missing.
func buildCandidate(row Row) (domain.RetailRecord, []domain.FieldError) {
	var candidate domain.RetailRecord
	var castErrs []domain.FieldError

	castErrs = appendCastString(castErrs, row, ColInvoiceNo, &candidate.InvoiceNo)
	castErrs = appendCastString(castErrs, row, ColStockCode, &candidate.StockCode)

	if value, ok := row[ColDescription]; ok && value != nil {
		desc := coerceString(value)
		candidate.Description = &desc
	}

	if quantity, ok := row[ColQuantity].(int64); ok {
		candidate.Quantity = quantity
	} else {
		castErrs = append(castErrs, castError(ColQuantity, row[ColQuantity], "integer"))
	}

	if ts, ok := row[ColInvoiceDate].(time.Time); ok {
		candidate.InvoiceDate = ts
	} else {
		castErrs = append(castErrs, castError(ColInvoiceDate, row[ColInvoiceDate], "timestamp"))
	}

	if price, ok := row[ColUnitPrice].(float64); ok {
		candidate.UnitPrice = price
	} else {
		castErrs = append(castErrs, castError(ColUnitPrice, row[ColUnitPrice], "float"))
	}

	if value, ok := row[ColCustomerID]; ok && value != nil {
		id := coerceString(value)
		candidate.CustomerID = &id
	}

	castErrs = appendCastString(castErrs, row, ColCountry, &candidate.Country)

	return candidate, castErrs
}

func appendCastString(errs []domain.FieldError, row Row, col string, dst *string) []domain.FieldError {
	if s, ok := row[col].(string); ok {
		*dst = s
		return errs
	}
	return append(errs, castError(col, row[col], "string"))
}

func castError(field string, value interface{}, want string) domain.FieldError {
	return domain.FieldError{
		Field:   field,
		Message: fmt.Sprintf("cannot cast %v (%T) to %s", value, value, want),
	}
}

// describeError builds the descriptor for one rejected row, copying the
// original field mapping so later stages cannot alias it.
func describeError(idx int, row Row, violations []domain.FieldError) domain.ErrorDescriptor {
	original := make(map[string]interface{}, len(row))
	for key, value := range row {
		original[key] = value
	}
	return domain.ErrorDescriptor{
		RowIndex: idx,
		Original: original,
		Errors:   violations,
	}
}
