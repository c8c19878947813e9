package extractor

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"retailetl/internal/errors"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	path := filepath.Join(t.TempDir(), "retail.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestExcelExtractor_Extract(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"InvoiceNo", "StockCode", "Description", "Quantity", "InvoiceDate", "UnitPrice", "CustomerID", "Country"},
		{"10001", "A123", "Product A", "1", "2021-01-01 10:00", "10.0", "12345", "United Kingdom"},
		{"C10002", "B456", "", "-2", "2021-01-02 12:00", "20.0", "", "France"},
	})

	extractor := NewExcelExtractor(slog.Default())
	ds, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)

	assert.Len(t, ds.Columns, 8)
	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "10001", ds.Rows[0]["InvoiceNo"])
	assert.Equal(t, "United Kingdom", ds.Rows[0]["Country"])
	assert.Equal(t, "C10002", ds.Rows[1]["InvoiceNo"])
}

func TestExcelExtractor_Extract_MissingFile(t *testing.T) {
	extractor := NewExcelExtractor(slog.Default())

	_, err := extractor.Extract(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeExtraction))
}

func TestExcelExtractor_Extract_HeaderOnly(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"InvoiceNo", "StockCode"},
	})

	extractor := NewExcelExtractor(slog.Default())
	ds, err := extractor.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
	assert.Equal(t, []string{"InvoiceNo", "StockCode"}, ds.Columns)
}
