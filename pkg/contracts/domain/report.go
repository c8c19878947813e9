package domain

import (
	"time"
)

// ErrorDescriptor captures one row that failed validation. It carries the
// row's position in the cleaned dataset, the original field mapping for
// diagnostics, and the full ordered list of violations. Exactly one
// descriptor is produced per failing row; rejected rows are never retried.
type ErrorDescriptor struct {
	RowIndex int                    `json:"row_index"`
	Original map[string]interface{} `json:"original_row"`
	Errors   []FieldError           `json:"errors"`
}

// DateRange is the span of invoice dates observed in a processed batch.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// QualityReport summarizes a pipeline run by comparing the cleaned input
// dataset with the enhanced output records. It is computed once per run
// and logged; it is not persisted as an entity.
type QualityReport struct {
	OriginalRecords  int       `json:"original_records"`
	ProcessedRecords int       `json:"processed_records"`
	DataLossPercent  float64   `json:"data_loss_percentage"`
	UniqueCustomers  int       `json:"unique_customers"`
	UniqueProducts   int       `json:"unique_products"`
	UniqueCountries  int       `json:"unique_countries"`
	DateRange        DateRange `json:"date_range"`
	ReturnsPercent   float64   `json:"returns_percentage"`
	TotalRevenue     float64   `json:"total_revenue"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// RunResult is what a completed pipeline run always yields, even when some
// rows were rejected: the valid/error split plus the quality report.
type RunResult struct {
	RunID        string        `json:"run_id"`
	ValidCount   int           `json:"valid_count"`
	ErrorCount   int           `json:"error_count"`
	Report       QualityReport `json:"report"`
	ProcessedCSV string        `json:"processed_csv,omitempty"`
	Duration     time.Duration `json:"duration"`
}
