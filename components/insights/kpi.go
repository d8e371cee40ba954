package insights

import "github.com/montanaflynn/stats"

// taxRate is the fixed 6% sales tax applied to gross revenue.
const taxRate = 0.06

// KPISummary is the scalar view over the filtered row set. Revenue always
// equals the sum of the revenue column over exactly those rows.
type KPISummary struct {
	Sales      int     `json:"sales"`
	Revenue    float64 `json:"revenue"`
	Tax        float64 `json:"tax"`
	Investment float64 `json:"investment"`
	Profit     float64 `json:"profit"`
	ROAS       float64 `json:"roas"`
	Margin     float64 `json:"margin"`

	AvgOrder    float64 `json:"avg_order"`
	MedianOrder float64 `json:"median_order"`
	P90Order    float64 `json:"p90_order"`
}

// SummarizeKPIs reduces the filtered rows into the KPI view. A missing
// revenue role degrades to an all-zero summary with only the sale count set.
// Ratios are exactly zero (never NaN or Inf) when their denominator is.
func SummarizeKPIs(rows []Row, revenueHeader string, investment float64) KPISummary {
	summary := KPISummary{
		Sales:      len(rows),
		Investment: investment,
	}
	if revenueHeader == "" {
		return summary
	}
	values := make([]float64, 0, len(rows))
	for _, row := range rows {
		v := cellNumber(row.Cells[revenueHeader])
		summary.Revenue += v
		values = append(values, v)
	}
	summary.Tax = summary.Revenue * taxRate
	summary.Profit = summary.Revenue - investment - summary.Tax
	if investment > 0 {
		summary.ROAS = summary.Revenue / investment
	}
	if summary.Revenue > 0 {
		summary.Margin = summary.Profit / summary.Revenue * 100
	}
	if len(values) > 0 {
		if mean, err := stats.Mean(values); err == nil {
			summary.AvgOrder = mean
		}
		if median, err := stats.Median(values); err == nil {
			summary.MedianOrder = median
		}
		if p90, err := stats.Percentile(values, 90); err == nil {
			summary.P90Order = p90
		}
	}
	return summary
}
