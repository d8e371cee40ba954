package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	insights "github.com/goliatone/go-insights/components/insights"
)

// ReadCSVFile loads a CSV export from disk.
func ReadCSVFile(path string) (insights.DatasetInput, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return insights.DatasetInput{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV decodes CSV content from a reader. Rows shorter than the header are
// padded with empty cells.
func ReadCSV(r io.Reader) (insights.DatasetInput, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return insights.DatasetInput{}, fmt.Errorf("ingest: parse csv: %w", err)
	}
	return buildDataset(records)
}
