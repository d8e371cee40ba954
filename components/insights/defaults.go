package insights

import "github.com/go-echarts/go-echarts/v2/types"

// defaultRoleRequests maps semantic roles to header-name heuristics. The
// fragments cover both English and Portuguese exports since the source
// spreadsheets come in either.
var defaultRoleRequests = map[string]RoleRequest{
	"date": {
		Fragments: []string{"data", "date", "dia", "day"},
	},
	"product": {
		Fragments: []string{"produto", "product", "item", "sku"},
	},
	"revenue": {
		Fragments: []string{"valor", "value", "receita", "revenue", "total", "amount", "price"},
	},
	"campaign": {
		Fragments: []string{"campanha", "campaign", "utm_campaign"},
	},
	"term": {
		Fragments: []string{"termo", "term", "utm_term", "keyword", "anuncio", "ad"},
	},
}

var defaultReportDefinitions = []ReportDefinition{
	{
		Code:        "insights.report.kpi_summary",
		Name:        "KPI Summary",
		Description: "Revenue, tax, profit, ROAS, and margin over the filtered rows.",
		Category:    "kpis",
		Schema: map[string]any{
			"type":                 "object",
			"properties":           map[string]any{},
			"additionalProperties": false,
		},
	},
	{
		Code:        "insights.report.cluster_table",
		Name:        "Attribution Clusters",
		Description: "Sales grouped by the product/campaign/term triple.",
		Category:    "tables",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"limit": map[string]any{
					"type":    "integer",
					"minimum": 1,
					"maximum": 500,
					"default": 25,
				},
			},
			"additionalProperties": false,
		},
	},
	{
		Code:        "insights.report.cross_tab",
		Name:        "Category Cross Tab",
		Description: "Top groups of the selected category summed by the selected metric.",
		Category:    "charts",
		Schema:      chartReportSchema([]string{"bar", "pie", "line"}, "bar", nil),
	},
	{
		Code:        "insights.report.sales_timeline",
		Name:        "Sales Timeline",
		Description: "Sale counts per calendar day.",
		Category:    "charts",
		Schema:      chartReportSchema([]string{"line", "bar"}, "line", nil),
	},
	{
		Code:        "insights.report.category_breakdown",
		Name:        "Category Breakdown",
		Description: "Top-5 value distribution for a categorical role.",
		Category:    "charts",
		Schema: chartReportSchema([]string{"pie", "bar"}, "pie", map[string]any{
			"role": map[string]any{
				"type":    "string",
				"enum":    []string{"product", "campaign", "term"},
				"default": "product",
			},
		}),
	},
}

func chartReportSchema(chartTypes []string, defaultType string, extra map[string]any) map[string]any {
	props := map[string]any{
		"chart_type": map[string]any{
			"type":    "string",
			"enum":    chartTypes,
			"default": defaultType,
		},
		"title": map[string]any{
			"type": "string",
		},
		"subtitle": map[string]any{
			"type": "string",
		},
		"theme": map[string]any{
			"type": "string",
			"enum": []string{
				string(types.ThemeWesteros),
				string(types.ThemeWalden),
				string(types.ThemeWonderland),
				string(types.ThemeChalk),
			},
		},
	}
	for key, value := range extra {
		props[key] = value
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

var defaultReportProviders = map[string]ReportProvider{
	"insights.report.kpi_summary":        NewKPISummaryProvider(),
	"insights.report.cluster_table":      NewClusterTableProvider(),
	"insights.report.cross_tab":          NewCrossTabChartProvider(nil),
	"insights.report.sales_timeline":     NewSalesTimelineProvider(nil),
	"insights.report.category_breakdown": NewCategoryBreakdownProvider(nil),
}

// DefaultReportDefinitions returns copies of the built-in report definitions.
func DefaultReportDefinitions() []ReportDefinition {
	out := make([]ReportDefinition, len(defaultReportDefinitions))
	copy(out, defaultReportDefinitions)
	return out
}

// DefaultBoardReports is the report lineup a board renders when no manifest
// overrides it.
func DefaultBoardReports() []BoardReport {
	return []BoardReport{
		{Code: "insights.report.kpi_summary"},
		{Code: "insights.report.cross_tab"},
		{Code: "insights.report.sales_timeline"},
		{Code: "insights.report.category_breakdown", Config: map[string]any{"role": "campaign"}},
		{Code: "insights.report.cluster_table"},
	}
}
