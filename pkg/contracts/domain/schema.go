package domain

import (
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// schemaValidator returns the shared struct validator used for re-validating
// composed records against their tag constraints.
func schemaValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report violations under wire field names, not Go field names.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// FieldError describes one schema violation on one field. Field is empty
// when the violation is not attributable to a single field (cast failures
// reported by the validation stage carry their own field names).
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// recordChecks is the ordered validation pipeline for RetailRecord
// candidates. Presence checks run before per-field constraint checks; every
// failing check contributes one FieldError, so a row with several problems
// reports all of them.
var recordChecks = []func(RetailRecord) *FieldError{
	checkInvoiceNo,
	checkStockCode,
	checkInvoiceDate,
	checkCountry,
	checkQuantity,
	checkUnitPrice,
}

// BuildRecord validates a candidate and returns the canonical record.
// String identity fields are trimmed here, as part of validation, not
// before. Construction is all or nothing: any violation yields a nil-value
// record and the full ordered list of violations.
func BuildRecord(candidate RetailRecord) (RetailRecord, []FieldError) {
	rec := candidate
	rec.InvoiceNo = strings.TrimSpace(rec.InvoiceNo)
	rec.Country = strings.TrimSpace(rec.Country)

	var violations []FieldError
	for _, check := range recordChecks {
		if fe := check(rec); fe != nil {
			violations = append(violations, *fe)
		}
	}
	if len(violations) > 0 {
		return RetailRecord{}, violations
	}
	return rec, nil
}

func checkInvoiceNo(r RetailRecord) *FieldError {
	if r.InvoiceNo == "" {
		return &FieldError{Field: "invoice_no", Message: "invoice number cannot be empty"}
	}
	return nil
}

func checkStockCode(r RetailRecord) *FieldError {
	if r.StockCode == "" {
		return &FieldError{Field: "stock_code", Message: "stock code cannot be empty"}
	}
	return nil
}

func checkInvoiceDate(r RetailRecord) *FieldError {
	if r.InvoiceDate.IsZero() {
		return &FieldError{Field: "invoice_date", Message: "invoice date is required"}
	}
	return nil
}

func checkCountry(r RetailRecord) *FieldError {
	if r.Country == "" {
		return &FieldError{Field: "country", Message: "country cannot be empty"}
	}
	return nil
}

func checkQuantity(r RetailRecord) *FieldError {
	if r.Quantity == 0 {
		return &FieldError{Field: "quantity", Message: "quantity cannot be zero"}
	}
	return nil
}

func checkUnitPrice(r RetailRecord) *FieldError {
	if r.UnitPrice < 0 {
		return &FieldError{Field: "unit_price", Message: "unit price cannot be negative"}
	}
	return nil
}

// Derive computes the analytical fields for a validated record. Monetary
// rounding to two decimal places happens here, at the point of computation.
func Derive(rec RetailRecord) (DerivedFields, error) {
	if rec.InvoiceDate.IsZero() {
		return DerivedFields{}, fmt.Errorf("derive fields for invoice %s: invoice date is zero", rec.InvoiceNo)
	}
	return DerivedFields{
		TotalAmount: math.Round(float64(rec.Quantity)*rec.UnitPrice*100) / 100,
		IsReturn:    rec.Quantity < 0,
		Year:        rec.InvoiceDate.Year(),
		Month:       int(rec.InvoiceDate.Month()),
	}, nil
}

// BuildEnhanced composes a validated record with its derived fields and
// re-validates the result against the extended schema's tag constraints.
func BuildEnhanced(rec RetailRecord, derived DerivedFields) (EnhancedRecord, []FieldError) {
	enhanced := EnhancedRecord{RetailRecord: rec, DerivedFields: derived}

	if err := schemaValidator().Struct(enhanced); err != nil {
		var violations []FieldError
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, ve := range verrs {
				violations = append(violations, FieldError{
					Field:   ve.Field(),
					Message: fmt.Sprintf("failed %q constraint", ve.Tag()),
				})
			}
		} else {
			violations = append(violations, FieldError{Message: err.Error()})
		}
		return EnhancedRecord{}, violations
	}
	return enhanced, nil
}
