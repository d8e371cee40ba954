package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	insights "github.com/goliatone/go-insights/components/insights"
)

// ReadXLSXFile loads an XLSX export from disk. An empty sheet name selects
// the workbook's first sheet.
func ReadXLSXFile(path, sheet string) (insights.DatasetInput, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return insights.DatasetInput{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

// ReadXLSX decodes XLSX content from a reader.
func ReadXLSX(r io.Reader, sheet string) (insights.DatasetInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return insights.DatasetInput{}, fmt.Errorf("ingest: parse xlsx: %w", err)
	}
	defer f.Close()
	return readWorkbook(f, sheet)
}

func readWorkbook(f *excelize.File, sheet string) (insights.DatasetInput, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return insights.DatasetInput{}, fmt.Errorf("ingest: workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return insights.DatasetInput{}, fmt.Errorf("ingest: read sheet %s: %w", sheet, err)
	}
	return buildDataset(rows)
}
