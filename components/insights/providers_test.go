package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshotForProviders(t *testing.T) Snapshot {
	t.Helper()
	ctx := context.Background()
	service := NewService(Options{})
	require.NoError(t, service.LoadDataset(ctx, salesInput()))
	require.NoError(t, service.SetGlobalInvestment(ctx, 50))
	require.NoError(t, service.SetClusterInvestment(ctx, MakeClusterKey("Curso", "camp1", "termo1"), 20))
	snapshot, err := service.Snapshot(ctx)
	require.NoError(t, err)
	return snapshot
}

func TestKPISummaryProviderFlattensKPIs(t *testing.T) {
	snapshot := snapshotForProviders(t)
	data, err := NewKPISummaryProvider().Build(context.Background(), ReportContext{Snapshot: snapshot})
	require.NoError(t, err)
	assert.Equal(t, 3, data["sales"])
	assert.InDelta(t, 180.0, data["revenue"].(float64), 1e-9)
	assert.InDelta(t, 50.0, data["investment"].(float64), 1e-9)
}

func TestClusterTableProviderHonorsLimit(t *testing.T) {
	snapshot := snapshotForProviders(t)
	data, err := NewClusterTableProvider().Build(context.Background(), ReportContext{
		Snapshot: snapshot,
		Config:   map[string]any{"limit": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, data["total"])
	rows := data["clusters"].([]map[string]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Curso", rows[0]["product"])
}

func TestClusterTableProviderNilInvestmentWhenPending(t *testing.T) {
	snapshot := snapshotForProviders(t)
	data, err := NewClusterTableProvider().Build(context.Background(), ReportContext{Snapshot: snapshot})
	require.NoError(t, err)
	rows := data["clusters"].([]map[string]any)
	for _, row := range rows {
		if row["campaign"] == "camp2" {
			assert.Nil(t, row["investment"], "pending cluster should expose nil investment")
		}
		if row["term"] == "termo1" {
			assert.InDelta(t, 20.0, row["investment"].(float64), 1e-9)
		}
	}
}

func TestCrossTabChartProviderRendersHTML(t *testing.T) {
	snapshot := snapshotForProviders(t)
	provider := NewCrossTabChartProvider(NewEChartsRenderer(WithChartCache(NewChartCache(time.Minute))))
	data, err := provider.Build(context.Background(), ReportContext{Snapshot: snapshot})
	require.NoError(t, err)
	assert.Equal(t, "bar", data["chart_type"])
	assert.NotEmpty(t, data["chart_html"])
	points := data["points"].([]map[string]any)
	require.NotEmpty(t, points)
	assert.Equal(t, "Curso", points[0]["label"])
}

func TestSalesTimelineProviderDefaultsToLine(t *testing.T) {
	snapshot := snapshotForProviders(t)
	data, err := NewSalesTimelineProvider(nil).Build(context.Background(), ReportContext{Snapshot: snapshot})
	require.NoError(t, err)
	assert.Equal(t, "line", data["chart_type"])
	assert.NotEmpty(t, data["chart_html"])
}

func TestCategoryBreakdownProviderUsesRoleConfig(t *testing.T) {
	snapshot := snapshotForProviders(t)
	data, err := NewCategoryBreakdownProvider(nil).Build(context.Background(), ReportContext{
		Snapshot: snapshot,
		Config:   map[string]any{"role": "campaign", "chart_type": "bar"},
	})
	require.NoError(t, err)
	assert.Equal(t, "campaign", data["role"])
	assert.Equal(t, "bar", data["chart_type"])
}

func TestChartProviderEmptyBucketsSkipRender(t *testing.T) {
	snapshot := Snapshot{ImportID: "empty", Filters: NewFilterState()}
	data, err := NewSalesTimelineProvider(nil).Build(context.Background(), ReportContext{Snapshot: snapshot})
	require.NoError(t, err)
	assert.Empty(t, data["chart_html"])
}

func TestEChartsRendererRejectsUnknownChartType(t *testing.T) {
	renderer := NewEChartsRenderer()
	_, err := renderer.Render("scatter", "", "t", "", "", []ChartBucket{{Label: "a", Value: 1}})
	require.Error(t, err)
}
