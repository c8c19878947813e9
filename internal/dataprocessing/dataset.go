package dataprocessing

import (
	"strings"
)

// Canonical column names used throughout the pipeline.
const (
	ColInvoiceNo   = "invoice_no"
	ColStockCode   = "stock_code"
	ColDescription = "description"
	ColQuantity    = "quantity"
	ColInvoiceDate = "invoice_date"
	ColUnitPrice   = "unit_price"
	ColCustomerID  = "customer_id"
	ColCountry     = "country"
)

// columnAliases maps the source workbook's header spellings to canonical
// names. Keys are already lower-cased with whitespace collapsed, so the
// rename is idempotent: canonical names are never keys.
var columnAliases = map[string]string{
	"invoiceno":   ColInvoiceNo,
	"stockcode":   ColStockCode,
	"invoicedate": ColInvoiceDate,
	"unitprice":   ColUnitPrice,
	"customerid":  ColCustomerID,
}

// Row is one record of a tabular dataset, keyed by column name. Values are
// untyped before cleaning and carry the cleaner's coerced types afterwards.
type Row map[string]interface{}

// Dataset is an in-memory tabular dataset: named columns in a stable order
// plus one Row per source record.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows in the dataset.
func (d Dataset) Len() int {
	return len(d.Rows)
}

// HasColumn reports whether the dataset declares the named column.
func (d Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// NormalizeColumnName trims the name, lower-cases it, collapses internal
// whitespace to underscores, and maps known source spellings to canonical
// names. Applying it to an already-normalized name is a no-op.
func NormalizeColumnName(name string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(name)), "_")
	if canonical, ok := columnAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// NormalizeColumns returns a copy of the dataset with every column name
// normalized, on both the column list and the row keys. Idempotent.
func NormalizeColumns(ds Dataset) Dataset {
	out := Dataset{
		Columns: make([]string, len(ds.Columns)),
		Rows:    make([]Row, len(ds.Rows)),
	}
	for i, col := range ds.Columns {
		out.Columns[i] = NormalizeColumnName(col)
	}
	for i, row := range ds.Rows {
		normalized := make(Row, len(row))
		for key, value := range row {
			normalized[NormalizeColumnName(key)] = value
		}
		out.Rows[i] = normalized
	}
	return out
}
