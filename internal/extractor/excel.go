// Package extractor reads the online retail workbook into the in-memory
// tabular dataset the pipeline consumes. It is a boundary collaborator:
// file formats stop here.
package extractor

import (
	"context"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"retailetl/internal/dataprocessing"
	"retailetl/internal/errors"
)

// ExcelExtractor loads a spreadsheet's first sheet as a Dataset.
type ExcelExtractor struct {
	logger *slog.Logger
}

// NewExcelExtractor creates an extractor. A nil logger falls back to
// slog.Default().
func NewExcelExtractor(logger *slog.Logger) *ExcelExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExtractor{logger: logger}
}

// Extract reads the first sheet of the workbook at path. The first row is
// taken as the header; remaining rows become Row mappings keyed by the raw
// header names. Column normalization is the cleaner's job, not ours.
func (e *ExcelExtractor) Extract(ctx context.Context, path string) (dataprocessing.Dataset, error) {
	e.logger.InfoContext(ctx, "reading excel file", slog.String("path", path))

	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataprocessing.Dataset{}, errors.NewExtractionError("failed to open workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataprocessing.Dataset{}, errors.NewExtractionError("workbook has no sheets", nil).
			WithContext("path", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return dataprocessing.Dataset{}, errors.NewExtractionError("failed to read sheet", err).
			WithContext("sheet", sheets[0])
	}
	if len(rows) == 0 {
		return dataprocessing.Dataset{}, errors.NewExtractionError("sheet has no header row", nil).
			WithContext("sheet", sheets[0])
	}

	header := rows[0]
	ds := dataprocessing.Dataset{
		Columns: append([]string(nil), header...),
		Rows:    make([]dataprocessing.Row, 0, len(rows)-1),
	}

	for _, cells := range rows[1:] {
		row := make(dataprocessing.Row, len(header))
		for i, col := range header {
			// GetRows trims trailing empty cells; absent cells stay
			// absent from the row mapping and read back as missing.
			if i < len(cells) {
				row[col] = cells[i]
			}
		}
		ds.Rows = append(ds.Rows, row)
	}

	e.logger.InfoContext(ctx, "extraction completed",
		slog.String("sheet", sheets[0]),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns)))

	return ds, nil
}
