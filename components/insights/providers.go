package insights

import "context"

// ReportDefinition describes a board report: its code, display metadata, and
// the JSON schema its configuration must satisfy.
type ReportDefinition struct {
	Code        string
	Name        string
	Description string
	Category    string
	Schema      map[string]any
}

// ReportContext carries what a provider needs to build its payload.
type ReportContext struct {
	Snapshot Snapshot
	Config   map[string]any
	Viewer   ViewerContext
}

// ReportData is an opaque payload passed to templates and JSON responses.
type ReportData map[string]any

// ReportProvider builds the payload for one report over a snapshot.
type ReportProvider interface {
	Build(ctx context.Context, meta ReportContext) (ReportData, error)
}

// ReportProviderFunc adapts a function to the ReportProvider interface.
type ReportProviderFunc func(ctx context.Context, meta ReportContext) (ReportData, error)

// Build satisfies ReportProvider.
func (f ReportProviderFunc) Build(ctx context.Context, meta ReportContext) (ReportData, error) {
	return f(ctx, meta)
}

// NewKPISummaryProvider exposes the KPI view as report data.
func NewKPISummaryProvider() ReportProvider {
	return ReportProviderFunc(func(_ context.Context, meta ReportContext) (ReportData, error) {
		kpis := meta.Snapshot.KPIs
		return ReportData{
			"sales":        kpis.Sales,
			"revenue":      kpis.Revenue,
			"tax":          kpis.Tax,
			"investment":   kpis.Investment,
			"profit":       kpis.Profit,
			"roas":         kpis.ROAS,
			"margin":       kpis.Margin,
			"avg_order":    kpis.AvgOrder,
			"median_order": kpis.MedianOrder,
			"p90_order":    kpis.P90Order,
		}, nil
	})
}

// NewClusterTableProvider exposes the sorted cluster list, truncated to the
// configured limit.
func NewClusterTableProvider() ReportProvider {
	return ReportProviderFunc(func(_ context.Context, meta ReportContext) (ReportData, error) {
		limit := intOr(meta.Config["limit"], 25)
		clusters := meta.Snapshot.Clusters
		if limit > 0 && len(clusters) > limit {
			clusters = clusters[:limit]
		}
		rows := make([]map[string]any, 0, len(clusters))
		for _, cluster := range clusters {
			investment := any(cluster.Investment)
			if !cluster.InvestmentSet {
				investment = nil
			}
			rows = append(rows, map[string]any{
				"key":        string(cluster.Key),
				"product":    cluster.Product,
				"campaign":   cluster.Campaign,
				"term":       cluster.Term,
				"sales":      cluster.Sales,
				"revenue":    cluster.Revenue,
				"dates":      cluster.Dates,
				"investment": investment,
				"profit":     cluster.Profit,
				"roas":       cluster.ROAS,
				"cpa":        cluster.CPA,
			})
		}
		return ReportData{
			"total":    len(meta.Snapshot.Clusters),
			"clusters": rows,
		}, nil
	})
}

func stringOr(value any, fallback string) string {
	if v, ok := value.(string); ok && v != "" {
		return v
	}
	return fallback
}

func intOr(value any, fallback int) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}
