// Package export writes batch summaries as spreadsheets.
package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/docoutline/internal/pipeline"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Documents"
	outlineSheet = "Outline"
)

// BatchXLSX returns a workbook with one row per document and one row per
// heading.
func BatchXLSX(results []pipeline.FileResult, stats pipeline.BatchStats) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// NewFile starts with "Sheet1"; rename it rather than leave it empty.
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(outlineSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	writeRow(f, summarySheet, 1, "Document", "Status", "Title", "Headings", "Duration (ms)", "Error")
	row := 2
	for _, r := range results {
		status := "ok"
		if !r.Success {
			status = "failed"
		}
		writeRow(f, summarySheet, row,
			r.Filename,
			status,
			strings.TrimSpace(r.Result.Title),
			len(r.Result.Outline),
			r.Duration.Milliseconds(),
			r.Error,
		)
		row++
	}
	row++
	writeRow(f, summarySheet, row, "Total", stats.Total)
	writeRow(f, summarySheet, row+1, "Succeeded", stats.Succeeded)
	writeRow(f, summarySheet, row+2, "Failed", stats.Failed)
	writeRow(f, summarySheet, row+3, "Duration (ms)", stats.Duration.Milliseconds())

	writeRow(f, outlineSheet, 1, "Document", "Level", "Text", "Page")
	row = 2
	for _, r := range results {
		for _, h := range r.Result.Outline {
			writeRow(f, outlineSheet, row, r.Filename, h.Level.String(), strings.TrimSpace(h.Text), h.Page)
			row++
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 32)
	_ = f.SetColWidth(summarySheet, "C", "C", 48)
	_ = f.SetColWidth(summarySheet, "F", "F", 60)
	_ = f.SetColWidth(outlineSheet, "A", "A", 32)
	_ = f.SetColWidth(outlineSheet, "C", "C", 64)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteBatchXLSX writes BatchXLSX output to path.
func WriteBatchXLSX(path string, results []pipeline.FileResult, stats pipeline.BatchStats) error {
	data, err := BatchXLSX(results, stats)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}
