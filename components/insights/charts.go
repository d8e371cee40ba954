package insights

import "sort"

const (
	// chartPlaceholder labels chart buckets for rows missing the category
	// cell. Deliberately distinct from the cluster placeholder so both views
	// can show missing data their own way.
	chartPlaceholder = "Unknown"

	topGroupLimit    = 15
	topCategoryLimit = 5
)

// CrossTab groups the filtered rows by the categorical header and sums the
// numeric header per group, descending by summed value, truncated to the top
// 15 groups. Either header missing degrades to an empty series.
func CrossTab(rows []Row, category, metric string) []ChartBucket {
	if category == "" || metric == "" {
		return nil
	}
	sums := map[string]float64{}
	for _, row := range rows {
		label := cellString(row.Cells[category])
		if label == "" {
			label = chartPlaceholder
		}
		sums[label] += cellNumber(row.Cells[metric])
	}
	return topBuckets(sums, topGroupLimit, byValueDesc)
}

// DailySales counts sales per distinct calendar day from the date role,
// ascending by day. Rows with unparseable dates contribute nothing.
func DailySales(ds *Dataset, rows []Row) []ChartBucket {
	if ds == nil || ds.Roles().Date == "" {
		return nil
	}
	dateHeader := ds.Roles().Date
	counts := map[string]float64{}
	for _, row := range rows {
		day, ok := ParseSaleDate(row.Cells[dateHeader])
		if !ok {
			continue
		}
		counts[day.Format("2006-01-02")]++
	}
	out := make([]ChartBucket, 0, len(counts))
	for label, value := range counts {
		out = append(out, ChartBucket{Label: label, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// CategoryDistribution counts occurrences per distinct value of the header,
// descending by count, truncated to the top 5.
func CategoryDistribution(rows []Row, header string) []ChartBucket {
	if header == "" {
		return nil
	}
	counts := map[string]float64{}
	for _, row := range rows {
		label := cellString(row.Cells[header])
		if label == "" {
			label = chartPlaceholder
		}
		counts[label]++
	}
	return topBuckets(counts, topCategoryLimit, byValueDesc)
}

// BuildChartSet assembles the three chart views for one snapshot: the
// cross-tab for the selected axes, the daily time series, and top-5
// distributions for each resolved categorical role.
func BuildChartSet(ds *Dataset, rows []Row, axes ChartAxes) ChartSet {
	set := ChartSet{
		CrossTab:      CrossTab(rows, axes.Category, axes.Metric),
		Daily:         DailySales(ds, rows),
		Distributions: map[string][]ChartBucket{},
	}
	if ds == nil {
		return set
	}
	roles := ds.Roles()
	for role, header := range map[string]string{
		"product":  roles.Product,
		"campaign": roles.Campaign,
		"term":     roles.Term,
	} {
		if header == "" {
			continue
		}
		set.Distributions[role] = CategoryDistribution(rows, header)
	}
	return set
}

func byValueDesc(a, b ChartBucket) bool {
	if a.Value != b.Value {
		return a.Value > b.Value
	}
	return a.Label < b.Label
}

func topBuckets(sums map[string]float64, limit int, less func(a, b ChartBucket) bool) []ChartBucket {
	out := make([]ChartBucket, 0, len(sums))
	for label, value := range sums {
		out = append(out, ChartBucket{Label: label, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
