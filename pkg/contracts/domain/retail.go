package domain

import (
	"strings"
	"time"
)

// UnknownCustomerID is the sentinel substituted for a missing customer_id
// during cleaning. Analysis queries exclude it when counting repeat customers.
const UnknownCustomerID = "UNKNOWN"

// RetailRecord represents a single validated invoice-level transaction from
// the online retail dataset. Construction goes through BuildRecord; a value
// of this type either satisfies every field constraint or does not exist.
type RetailRecord struct {
	InvoiceNo   string    `json:"invoice_no" db:"invoice_no" csv:"InvoiceNo" validate:"required"`
	StockCode   string    `json:"stock_code" db:"stock_code" csv:"StockCode" validate:"required"`
	Description *string   `json:"description,omitempty" db:"description" csv:"Description"`
	Quantity    int64     `json:"quantity" db:"quantity" csv:"Quantity" validate:"required"`
	InvoiceDate time.Time `json:"invoice_date" db:"invoice_date" csv:"InvoiceDate" validate:"required"`
	UnitPrice   float64   `json:"unit_price" db:"unit_price" csv:"UnitPrice" validate:"gte=0"`
	CustomerID  *string   `json:"customer_id,omitempty" db:"customer_id" csv:"CustomerID"`
	Country     string    `json:"country" db:"country" csv:"Country" validate:"required"`
}

// IsCancellation reports whether the record is an order cancellation,
// identified by the dataset's "C" invoice number prefix. The prefix is a
// convention of the source dataset and is preserved verbatim.
func (r RetailRecord) IsCancellation() bool {
	return strings.HasPrefix(r.InvoiceNo, "C")
}

// DerivedFields holds the analytical fields computed from a RetailRecord.
// They are always derived, never sourced from input.
type DerivedFields struct {
	TotalAmount float64 `json:"total_amount" db:"total_amount" csv:"TotalAmount"`
	IsReturn    bool    `json:"is_return" db:"is_return" csv:"IsReturn"`
	Year        int     `json:"year" db:"year" csv:"Year" validate:"required"`
	Month       int     `json:"month" db:"month" csv:"Month" validate:"min=1,max=12"`
}

// EnhancedRecord composes a validated record with its derived fields.
// It is produced by BuildEnhanced and re-validated as a whole, so the
// derived fields are always consistent with the core fields they come from.
type EnhancedRecord struct {
	RetailRecord
	DerivedFields
}
