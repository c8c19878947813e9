package exporter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"retailetl/internal/dataprocessing"
	"retailetl/pkg/contracts/domain"
)

// timestampLayout is the format used for invoice dates in exported CSVs.
const timestampLayout = "2006-01-02 15:04:05"

var enhancedHeaders = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate",
	"UnitPrice", "CustomerID", "Country", "TotalAmount", "IsReturn", "Year", "Month",
}

var errorHeaders = []string{"RowIndex", "Errors", "OriginalRow"}

// WriteEnhancedRecords exports the processed records to path.
func (w *CSVWriter) WriteEnhancedRecords(path string, records []domain.EnhancedRecord) error {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.InvoiceNo,
			rec.StockCode,
			stringOrEmpty(rec.Description),
			strconv.FormatInt(rec.Quantity, 10),
			rec.InvoiceDate.Format(timestampLayout),
			strconv.FormatFloat(rec.UnitPrice, 'f', 2, 64),
			stringOrEmpty(rec.CustomerID),
			rec.Country,
			strconv.FormatFloat(rec.TotalAmount, 'f', 2, 64),
			strconv.FormatBool(rec.IsReturn),
			strconv.Itoa(rec.Year),
			strconv.Itoa(rec.Month),
		})
	}
	return w.WriteSimpleCSV(path, enhancedHeaders, rows)
}

// WriteErrorRecords exports the rejected rows and their violations to path
// so rejected data stays inspectable after a run.
func (w *CSVWriter) WriteErrorRecords(path string, descriptors []domain.ErrorDescriptor) error {
	rows := make([][]string, 0, len(descriptors))
	for _, desc := range descriptors {
		messages := make([]string, 0, len(desc.Errors))
		for _, fe := range desc.Errors {
			messages = append(messages, fe.Error())
		}

		original, err := json.Marshal(desc.Original)
		if err != nil {
			original = []byte(fmt.Sprintf("%v", desc.Original))
		}

		rows = append(rows, []string{
			strconv.Itoa(desc.RowIndex),
			strings.Join(messages, "; "),
			string(original),
		})
	}
	return w.WriteSimpleCSV(path, errorHeaders, rows)
}

// WriteDataset exports a tabular dataset as-is, one column per dataset
// column. Used to snapshot the raw extracted data for audit.
func (w *CSVWriter) WriteDataset(path string, ds dataprocessing.Dataset) error {
	rows := make([][]string, 0, ds.Len())
	for _, row := range ds.Rows {
		cells := make([]string, len(ds.Columns))
		for i, col := range ds.Columns {
			cells[i] = formatCell(row[col])
		}
		rows = append(rows, cells)
	}
	return w.WriteSimpleCSV(path, ds.Columns, rows)
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatCell(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
