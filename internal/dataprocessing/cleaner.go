package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"retailetl/internal/errors"
	"retailetl/pkg/contracts/domain"
)

// Removal reasons tracked by the cleaner for observability.
const (
	reasonMissingIdentity    = "missing_identity"
	reasonMissingDescription = "missing_description"
	reasonMissingUnitPrice   = "missing_unit_price"
	reasonCoercionFailed     = "coercion_failed"
)

// requiredColumns must all be present after normalization; a dataset
// without them is structurally wrong and the run aborts.
var requiredColumns = []string{
	ColInvoiceNo,
	ColStockCode,
	ColDescription,
	ColQuantity,
	ColInvoiceDate,
	ColUnitPrice,
	ColCountry,
}

// Cleaner normalizes a raw tabular dataset into the shape the validator
// expects. It drops unrecoverable rows and coerces the remaining cells to
// their schema types; it never errors for data-quality reasons.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default().
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}

// Clean applies the fixed sequence of dataset-wide operations: column
// normalization, required-row drops, type coercion, text trimming, and the
// customer_id sentinel fill. The input dataset is not mutated.
func (c *Cleaner) Clean(ctx context.Context, ds Dataset) (Dataset, error) {
	c.logger.InfoContext(ctx, "starting data cleaning",
		slog.Int("input_rows", ds.Len()),
		slog.Int("columns", len(ds.Columns)))

	normalized := NormalizeColumns(ds)

	if err := c.checkSchema(normalized); err != nil {
		return Dataset{}, err
	}

	removed := map[string]int{}
	cleaned := Dataset{Columns: append([]string(nil), normalized.Columns...)}
	if !cleaned.HasColumn(ColCustomerID) {
		cleaned.Columns = append(cleaned.Columns, ColCustomerID)
	}

	for _, row := range normalized.Rows {
		out, reason := c.cleanRow(row)
		if reason != "" {
			removed[reason]++
			continue
		}
		cleaned.Rows = append(cleaned.Rows, out)
	}

	c.logger.InfoContext(ctx, "data cleaning completed",
		slog.Int("input_rows", ds.Len()),
		slog.Int("output_rows", cleaned.Len()),
		slog.Int("removed_rows", ds.Len()-cleaned.Len()),
		slog.Any("removal_reasons", removed))

	return cleaned, nil
}

// checkSchema verifies the dataset declares every required column.
func (c *Cleaner) checkSchema(ds Dataset) error {
	var missing []string
	for _, col := range requiredColumns {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.NewSchemaMismatch(
			fmt.Sprintf("dataset is missing required columns: %s", strings.Join(missing, ", ")), nil)
	}
	return nil
}

// cleanRow produces the typed row for one raw row, or a removal reason.
func (c *Cleaner) cleanRow(row Row) (Row, string) {
	// Identity fields are unrecoverable when missing.
	if isMissing(row[ColInvoiceNo]) || isMissing(row[ColStockCode]) {
		return nil, reasonMissingIdentity
	}

	invoiceNo := coerceString(row[ColInvoiceNo])

	// Cancellation rows from the source dataset typically lack a
	// description; keep them anyway.
	descriptionMissing := isMissing(row[ColDescription])
	if descriptionMissing && !strings.HasPrefix(strings.TrimSpace(invoiceNo), "C") {
		return nil, reasonMissingDescription
	}

	if isMissing(row[ColUnitPrice]) {
		return nil, reasonMissingUnitPrice
	}

	quantity, err := coerceInt(row[ColQuantity])
	if err != nil {
		return nil, reasonCoercionFailed
	}
	unitPrice, err := coerceFloat(row[ColUnitPrice])
	if err != nil {
		return nil, reasonCoercionFailed
	}
	invoiceDate, err := coerceTime(row[ColInvoiceDate])
	if err != nil {
		return nil, reasonCoercionFailed
	}

	out := Row{
		ColInvoiceNo:   invoiceNo,
		ColStockCode:   coerceString(row[ColStockCode]),
		ColQuantity:    quantity,
		ColInvoiceDate: invoiceDate,
		ColUnitPrice:   unitPrice,
		ColCountry:     strings.TrimSpace(coerceString(row[ColCountry])),
	}

	if descriptionMissing {
		out[ColDescription] = nil
	} else {
		out[ColDescription] = strings.TrimSpace(coerceString(row[ColDescription]))
	}

	if isMissing(row[ColCustomerID]) {
		out[ColCustomerID] = domain.UnknownCustomerID
	} else {
		out[ColCustomerID] = coerceString(row[ColCustomerID])
	}

	return out, ""
}
