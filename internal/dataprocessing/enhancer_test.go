package dataprocessing

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retailetl/pkg/contracts/domain"
)

func validatedRecord(overrides func(*domain.RetailRecord)) domain.RetailRecord {
	description := "Product A"
	customerID := "12345"
	rec := domain.RetailRecord{
		InvoiceNo:   "10001",
		StockCode:   "A123",
		Description: &description,
		Quantity:    1,
		InvoiceDate: time.Date(2021, 1, 1, 10, 0, 0, 0, time.UTC),
		UnitPrice:   10.0,
		CustomerID:  &customerID,
		Country:     "United Kingdom",
	}
	if overrides != nil {
		overrides(&rec)
	}
	return rec
}

func TestEnhancer_Enhance_Purchase(t *testing.T) {
	enhancer := NewEnhancer(slog.Default())

	enhanced := enhancer.Enhance(context.Background(), []domain.RetailRecord{validatedRecord(nil)})
	require.Len(t, enhanced, 1)

	rec := enhanced[0]
	assert.Equal(t, 10.0, rec.TotalAmount)
	assert.False(t, rec.IsReturn)
	assert.Equal(t, 2021, rec.Year)
	assert.Equal(t, 1, rec.Month)
	assert.Equal(t, "10001", rec.InvoiceNo)
}

func TestEnhancer_Enhance_Return(t *testing.T) {
	enhancer := NewEnhancer(slog.Default())

	rec := validatedRecord(func(r *domain.RetailRecord) {
		r.InvoiceNo = "C10002"
		r.Quantity = -2
		r.UnitPrice = 20.0
		r.InvoiceDate = time.Date(2021, 1, 2, 12, 0, 0, 0, time.UTC)
		r.Country = "France"
		r.Description = nil
		r.CustomerID = nil
	})

	enhanced := enhancer.Enhance(context.Background(), []domain.RetailRecord{rec})
	require.Len(t, enhanced, 1)

	out := enhanced[0]
	assert.Equal(t, -40.0, out.TotalAmount)
	assert.True(t, out.IsReturn)
	assert.Equal(t, 2021, out.Year)
	assert.Equal(t, 1, out.Month)
}

func TestEnhancer_Enhance_CountPreservedOnFailure(t *testing.T) {
	enhancer := NewEnhancer(slog.Default())

	// A zero invoice date cannot happen for a validated record, but the
	// enhancer still falls back to the unenhanced record rather than drop it.
	broken := validatedRecord(func(r *domain.RetailRecord) { r.InvoiceDate = time.Time{} })
	records := []domain.RetailRecord{validatedRecord(nil), broken}

	enhanced := enhancer.Enhance(context.Background(), records)
	require.Len(t, enhanced, len(records))

	// The fallback keeps the core fields and leaves the derived fields zero.
	assert.Equal(t, broken, enhanced[1].RetailRecord)
	assert.Equal(t, domain.DerivedFields{}, enhanced[1].DerivedFields)
}

func TestEnhancer_Enhance_CoreFieldsUnchanged(t *testing.T) {
	enhancer := NewEnhancer(slog.Default())

	records := []domain.RetailRecord{
		validatedRecord(nil),
		validatedRecord(func(r *domain.RetailRecord) { r.InvoiceNo = "10002"; r.Quantity = 3 }),
	}

	enhanced := enhancer.Enhance(context.Background(), records)
	require.Len(t, enhanced, 2)
	for i := range records {
		assert.Equal(t, records[i], enhanced[i].RetailRecord)
	}
}

func TestEnhancer_Enhance_Empty(t *testing.T) {
	enhancer := NewEnhancer(slog.Default())
	assert.Empty(t, enhancer.Enhance(context.Background(), nil))
}
