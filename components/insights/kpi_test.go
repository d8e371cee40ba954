package insights

import (
	"math"
	"testing"
	"time"
)

func almostEqual(t *testing.T, want, got float64, label string) {
	t.Helper()
	if math.Abs(want-got) > 1e-9 {
		t.Fatalf("%s: expected %v, got %v", label, want, got)
	}
}

func TestSummarizeKPIs(t *testing.T) {
	ds := newSalesDataset()
	rows := Apply(ds, NewFilterState(), time.Now())
	summary := SummarizeKPIs(rows, ds.Roles().Revenue, 50)

	if summary.Sales != 4 {
		t.Fatalf("expected 4 sales, got %d", summary.Sales)
	}
	almostEqual(t, 190, summary.Revenue, "revenue")
	almostEqual(t, 190*0.06, summary.Tax, "tax")
	almostEqual(t, 50, summary.Investment, "investment")
	almostEqual(t, 190-50-190*0.06, summary.Profit, "profit")
	almostEqual(t, 190.0/50.0, summary.ROAS, "roas")
	almostEqual(t, (190-50-190*0.06)/190*100, summary.Margin, "margin")
	almostEqual(t, 47.5, summary.AvgOrder, "avg order")
	almostEqual(t, 40, summary.MedianOrder, "median order")
}

func TestSummarizeKPIsZeroInvestment(t *testing.T) {
	rows := []Row{
		{ID: 0, Cells: map[string]any{"Valor": "100"}},
		{ID: 1, Cells: map[string]any{"Valor": "80"}},
	}
	summary := SummarizeKPIs(rows, "Valor", 0)
	almostEqual(t, 0, summary.ROAS, "roas with zero investment")
	almostEqual(t, 180, summary.Revenue, "revenue")
	almostEqual(t, 180-180*0.06, summary.Profit, "profit without investment")
}

func TestSummarizeKPIsMissingRevenueRole(t *testing.T) {
	rows := []Row{{ID: 0, Cells: map[string]any{"Valor": "100"}}}
	summary := SummarizeKPIs(rows, "", 25)
	if summary.Sales != 1 {
		t.Fatalf("expected sale count to survive, got %d", summary.Sales)
	}
	almostEqual(t, 0, summary.Revenue, "revenue without role")
	almostEqual(t, 0, summary.Margin, "margin without revenue")
	almostEqual(t, 0, summary.AvgOrder, "avg without revenue")
}

func TestSummarizeKPIsEmptyRows(t *testing.T) {
	summary := SummarizeKPIs(nil, "Valor", 10)
	if summary.Sales != 0 {
		t.Fatalf("expected zero sales, got %d", summary.Sales)
	}
	almostEqual(t, 0, summary.Revenue, "revenue over no rows")
	almostEqual(t, 0, summary.Margin, "margin over no rows")
	almostEqual(t, 0, summary.MedianOrder, "median over no rows")
}

func TestSummarizeKPIsNonNumericCellsCountZero(t *testing.T) {
	rows := []Row{
		{ID: 0, Cells: map[string]any{"Valor": "abc"}},
		{ID: 1, Cells: map[string]any{"Valor": "100,50"}},
	}
	summary := SummarizeKPIs(rows, "Valor", 0)
	almostEqual(t, 100.5, summary.Revenue, "revenue with decimal comma and garbage")
}
