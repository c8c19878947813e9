package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailetl/internal/errors"
)

var sourceColumns = []string{
	"InvoiceNo", "StockCode", "Description", "Quantity",
	"InvoiceDate", "UnitPrice", "CustomerID", "Country",
}

func sourceRow(overrides Row) Row {
	row := Row{
		"InvoiceNo":   "10001",
		"StockCode":   "A123",
		"Description": "Product A",
		"Quantity":    "1",
		"InvoiceDate": "2021-01-01T10:00",
		"UnitPrice":   "10.0",
		"CustomerID":  "12345",
		"Country":     "United Kingdom",
	}
	for key, value := range overrides {
		row[key] = value
	}
	return row
}

func TestCleaner_Clean_ValidRow(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{
		Columns: sourceColumns,
		Rows:    []Row{sourceRow(nil)},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())

	row := cleaned.Rows[0]
	assert.Equal(t, "10001", row[ColInvoiceNo])
	assert.Equal(t, "A123", row[ColStockCode])
	assert.Equal(t, "Product A", row[ColDescription])
	assert.Equal(t, int64(1), row[ColQuantity])
	assert.Equal(t, time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC), row[ColInvoiceDate])
	assert.Equal(t, 10.0, row[ColUnitPrice])
	assert.Equal(t, "12345", row[ColCustomerID])
	assert.Equal(t, "United Kingdom", row[ColCountry])
}

func TestCleaner_Clean_DropRules(t *testing.T) {
	tests := []struct {
		name      string
		overrides Row
		wantRows  int
	}{
		{
			name:      "missing invoice number dropped",
			overrides: Row{"InvoiceNo": nil},
			wantRows:  0,
		},
		{
			name:      "missing stock code dropped",
			overrides: Row{"StockCode": ""},
			wantRows:  0,
		},
		{
			name:      "missing description dropped for regular invoice",
			overrides: Row{"Description": nil},
			wantRows:  0,
		},
		{
			name:      "missing description kept for cancellation",
			overrides: Row{"InvoiceNo": "C10002", "Description": nil},
			wantRows:  1,
		},
		{
			name:      "missing unit price dropped",
			overrides: Row{"UnitPrice": ""},
			wantRows:  0,
		},
		{
			name:      "unparseable quantity dropped",
			overrides: Row{"Quantity": "three"},
			wantRows:  0,
		},
		{
			name:      "fractional quantity dropped",
			overrides: Row{"Quantity": "1.5"},
			wantRows:  0,
		},
		{
			name:      "unparseable invoice date dropped",
			overrides: Row{"InvoiceDate": "not-a-date"},
			wantRows:  0,
		},
		{
			name:      "unparseable unit price dropped",
			overrides: Row{"UnitPrice": "ten"},
			wantRows:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaner := NewCleaner(slog.Default())
			cleaned, err := cleaner.Clean(context.Background(), Dataset{
				Columns: sourceColumns,
				Rows:    []Row{sourceRow(tt.overrides)},
			})
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, cleaned.Len())
		})
	}
}

func TestCleaner_Clean_CancellationKeepsNilDescription(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{
		Columns: sourceColumns,
		Rows:    []Row{sourceRow(Row{"InvoiceNo": "C10002", "Description": nil})},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())
	assert.Nil(t, cleaned.Rows[0][ColDescription])
}

func TestCleaner_Clean_FillsMissingCustomerID(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{
		Columns: sourceColumns,
		Rows:    []Row{sourceRow(Row{"CustomerID": nil})},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())
	assert.Equal(t, "UNKNOWN", cleaned.Rows[0][ColCustomerID])
}

func TestCleaner_Clean_CoercesCustomerIDFloat(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{
		Columns: sourceColumns,
		Rows:    []Row{sourceRow(Row{"CustomerID": 12345.0})},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())
	assert.Equal(t, "12345", cleaned.Rows[0][ColCustomerID])
}

func TestCleaner_Clean_TrimsTextFields(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{
		Columns: sourceColumns,
		Rows:    []Row{sourceRow(Row{"Description": "  Product A  ", "Country": " France "})},
	})
	require.NoError(t, err)
	require.Equal(t, 1, cleaned.Len())
	assert.Equal(t, "Product A", cleaned.Rows[0][ColDescription])
	assert.Equal(t, "France", cleaned.Rows[0][ColCountry])
}

func TestCleaner_Clean_SchemaMismatch(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	_, err := cleaner.Clean(context.Background(), Dataset{
		Columns: []string{"InvoiceNo", "StockCode"},
		Rows:    []Row{{"InvoiceNo": "10001", "StockCode": "A123"}},
	})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeSchemaMismatch))
}

func TestCleaner_Clean_EmptyDatasetIsNotAnError(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{Columns: sourceColumns})
	require.NoError(t, err)
	assert.Equal(t, 0, cleaned.Len())
}

func TestCleaner_Clean_PreservesRowOrder(t *testing.T) {
	cleaner := NewCleaner(slog.Default())

	cleaned, err := cleaner.Clean(context.Background(), Dataset{
		Columns: sourceColumns,
		Rows: []Row{
			sourceRow(Row{"InvoiceNo": "10001"}),
			sourceRow(Row{"InvoiceNo": nil}), // dropped
			sourceRow(Row{"InvoiceNo": "10003"}),
		},
	})
	require.NoError(t, err)
	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, "10001", cleaned.Rows[0][ColInvoiceNo])
	assert.Equal(t, "10003", cleaned.Rows[1][ColInvoiceNo])
}
