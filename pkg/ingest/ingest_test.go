package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	insights "github.com/goliatone/go-insights/components/insights"
)

func TestFromRecordsInfersColumnTypes(t *testing.T) {
	input, err := FromRecords([][]string{
		{"Data da Venda", "Produto", "Valor Total"},
		{"01/03/2024", "Curso", "100,00"},
		{"02/03/2024", "E-book", "49.90"},
		{"03/03/2024", "Curso", "30"},
	})
	if err != nil {
		t.Fatalf("FromRecords returned error: %v", err)
	}
	if len(input.Headers) != 3 {
		t.Fatalf("expected 3 headers, got %v", input.Headers)
	}
	if got := input.Types["Valor Total"]; got != insights.ColumnNumber {
		t.Fatalf("expected Valor Total typed number, got %q", got)
	}
	if got := input.Types["Produto"]; got != insights.ColumnString {
		t.Fatalf("expected Produto typed string, got %q", got)
	}
	if got := input.Types["Data da Venda"]; got != insights.ColumnString {
		t.Fatalf("expected dates typed string, got %q", got)
	}
}

func TestFromRecordsNumericThreshold(t *testing.T) {
	// Four of five values parse as numbers, which meets the 80% threshold.
	input, err := FromRecords([][]string{
		{"Valor"},
		{"10"}, {"20,5"}, {"30"}, {"40"}, {"sem valor"},
	})
	if err != nil {
		t.Fatalf("FromRecords returned error: %v", err)
	}
	if got := input.Types["Valor"]; got != insights.ColumnNumber {
		t.Fatalf("expected numeric column at threshold, got %q", got)
	}

	// Three of five is below the threshold.
	input, err = FromRecords([][]string{
		{"Valor"},
		{"10"}, {"20"}, {"30"}, {"x"}, {"y"},
	})
	if err != nil {
		t.Fatalf("FromRecords returned error: %v", err)
	}
	if got := input.Types["Valor"]; got != insights.ColumnString {
		t.Fatalf("expected string column below threshold, got %q", got)
	}
}

func TestFromRecordsPadsShortRowsAndSkipsBlankHeaders(t *testing.T) {
	input, err := FromRecords([][]string{
		{"Produto", "", "Cidade"},
		{"Curso", "ignored"},
	})
	if err != nil {
		t.Fatalf("FromRecords returned error: %v", err)
	}
	if len(input.Headers) != 2 {
		t.Fatalf("expected blank header dropped, got %v", input.Headers)
	}
	row := input.Rows[0]
	if row["Produto"] != "Curso" {
		t.Fatalf("expected Produto cell, got %v", row["Produto"])
	}
	if row["Cidade"] != "" {
		t.Fatalf("expected short row padded with empty cell, got %v", row["Cidade"])
	}
	if _, ok := row[""]; ok {
		t.Fatalf("expected blank header excluded from rows")
	}
}

func TestFromRecordsRejectsEmptyInput(t *testing.T) {
	if _, err := FromRecords(nil); err == nil {
		t.Fatalf("expected error for empty records")
	}
}

func TestReadCSV(t *testing.T) {
	data := "Data da Venda,Produto,Valor Total\n" +
		"01/03/2024,Curso,\"100,00\"\n" +
		"02/03/2024,E-book,50\n"
	input, err := ReadCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ReadCSV returned error: %v", err)
	}
	if len(input.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(input.Rows))
	}
	if input.Rows[0]["Valor Total"] != "100,00" {
		t.Fatalf("expected quoted decimal-comma cell preserved, got %v", input.Rows[0]["Valor Total"])
	}
}

func TestReadCSVRejectsMalformedInput(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("a,\"b\nc")); err == nil {
		t.Fatalf("expected parse error for unterminated quote")
	}
}

func TestReadFileDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendas.csv")
	if err := os.WriteFile(path, []byte("Produto\nCurso\n"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	input, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile returned error: %v", err)
	}
	if len(input.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(input.Rows))
	}

	if _, err := ReadFile(filepath.Join(dir, "vendas.txt")); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}
