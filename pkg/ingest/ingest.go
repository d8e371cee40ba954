// Package ingest turns CSV and XLSX exports into dataset payloads the
// insights pipeline can load.
package ingest

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	insights "github.com/goliatone/go-insights/components/insights"
)

// numericThreshold is the share of non-empty sampled cells that must parse as
// numbers for a column to be typed numeric.
const numericThreshold = 0.8

// maxTypeSample caps how many rows type inference examines per column.
const maxTypeSample = 500

// ReadFile loads a spreadsheet by extension (.csv or .xlsx).
func ReadFile(path string) (insights.DatasetInput, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ReadCSVFile(path)
	case ".xlsx":
		return ReadXLSXFile(path, "")
	default:
		return insights.DatasetInput{}, fmt.Errorf("ingest: unsupported file type %q", filepath.Ext(path))
	}
}

// FromRecords builds a dataset payload from in-memory string records. The
// first record is the header row.
func FromRecords(records [][]string) (insights.DatasetInput, error) {
	return buildDataset(records)
}

// buildDataset converts raw string rows into a dataset payload with inferred
// column types. The first row is the header row.
func buildDataset(records [][]string) (insights.DatasetInput, error) {
	if len(records) == 0 {
		return insights.DatasetInput{}, fmt.Errorf("ingest: file has no rows")
	}
	columns := make([]string, 0, len(records[0]))
	headers := make([]string, 0, len(records[0]))
	for _, header := range records[0] {
		name := strings.TrimSpace(header)
		columns = append(columns, name)
		if name != "" {
			headers = append(headers, name)
		}
	}

	rows := make([]map[string]any, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]any, len(headers))
		for i, header := range columns {
			if header == "" {
				continue
			}
			if i < len(record) {
				row[header] = strings.TrimSpace(record[i])
			} else {
				row[header] = ""
			}
		}
		rows = append(rows, row)
	}

	input := insights.DatasetInput{
		Headers: headers,
		Types:   inferTypes(headers, rows),
		Rows:    rows,
	}
	return input, nil
}

// inferTypes samples cell values per column and types a column numeric when
// most non-empty values parse as numbers.
func inferTypes(headers []string, rows []map[string]any) map[string]insights.ColumnType {
	types := make(map[string]insights.ColumnType, len(headers))
	sample := len(rows)
	if sample > maxTypeSample {
		sample = maxTypeSample
	}
	for _, header := range headers {
		if header == "" {
			continue
		}
		numeric, total := 0, 0
		for _, row := range rows[:sample] {
			value, _ := row[header].(string)
			if value == "" {
				continue
			}
			total++
			if isNumeric(value) {
				numeric++
			}
		}
		if total > 0 && float64(numeric)/float64(total) >= numericThreshold {
			types[header] = insights.ColumnNumber
		} else {
			types[header] = insights.ColumnString
		}
	}
	return types
}

// isNumeric accepts plain floats plus the decimal-comma form common in
// Brazilian exports.
func isNumeric(value string) bool {
	if _, err := strconv.ParseFloat(value, 64); err == nil {
		return true
	}
	if strings.Count(value, ",") == 1 && !strings.Contains(value, ".") {
		if _, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64); err == nil {
			return true
		}
	}
	return false
}
