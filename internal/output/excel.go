// internal/output/excel.go
package output

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/MovieScrapexter/internal/utils"
	"github.com/valpere/MovieScrapexter/pkg/types"
)

const excelSheetName = "Movies"

// ExcelWriter writes records to an .xlsx workbook with a bold header row.
type ExcelWriter struct {
	path    string
	book    *excelize.File
	mu      sync.Mutex
	nextRow int
	closed  bool
}

// NewExcelWriter creates an Excel workbook writer.
func NewExcelWriter(path string) (*ExcelWriter, error) {
	if path == "" {
		return nil, utils.NewError(utils.ErrCodeOutputFailed, "excel writer needs a file path")
	}

	book := excelize.NewFile()
	index, err := book.NewSheet(excelSheetName)
	if err != nil {
		return nil, utils.WrapError(utils.ErrCodeOutputFailed, "creating sheet", err)
	}
	book.SetActiveSheet(index)
	book.DeleteSheet("Sheet1")

	w := &ExcelWriter{path: path, book: book, nextRow: 1}
	if err := w.writeHeader(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *ExcelWriter) writeHeader() error {
	style, err := w.book.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return utils.WrapError(utils.ErrCodeOutputFailed, "creating header style", err)
	}

	headers := headerNames()
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return utils.WrapError(utils.ErrCodeOutputFailed, "addressing header cell", err)
		}
		if err := w.book.SetCellValue(excelSheetName, cell, header); err != nil {
			return utils.WrapError(utils.ErrCodeOutputFailed, "writing header cell", err)
		}
	}

	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := w.book.SetCellStyle(excelSheetName, "A1", last, style); err != nil {
		return utils.WrapError(utils.ErrCodeOutputFailed, "styling header row", err)
	}
	w.nextRow = 2
	return nil
}

// Write appends one worksheet row per record.
func (w *ExcelWriter) Write(_ context.Context, records []types.MovieRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return utils.NewError(utils.ErrCodeOutputFailed, "write after close")
	}

	for _, record := range records {
		cell := fmt.Sprintf("A%d", w.nextRow)
		values := recordValues(record)
		row := make([]interface{}, len(values))
		for i, v := range values {
			row[i] = v
		}
		if err := w.book.SetSheetRow(excelSheetName, cell, &row); err != nil {
			return utils.WrapError(utils.ErrCodeOutputFailed, "writing worksheet row", err)
		}
		w.nextRow++
	}
	return nil
}

// Close saves the workbook.
func (w *ExcelWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.book.SaveAs(w.path); err != nil {
		return utils.WrapError(utils.ErrCodeOutputFailed, "saving "+w.path, err)
	}
	return w.book.Close()
}
