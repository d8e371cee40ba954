package insights

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const defaultChartHeight = "360px"

var sharedChartCache = NewChartCache(5 * time.Minute)

// EChartsRenderer turns chart buckets into server-side echarts HTML.
type EChartsRenderer struct {
	cache      RenderCache
	theme      string
	assetsHost string
}

// EChartsRendererOption customizes renderer behavior.
type EChartsRendererOption func(*EChartsRenderer)

// WithChartCache injects a render cache.
func WithChartCache(cache RenderCache) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.cache = cache
	}
}

// WithChartTheme sets a static theme (defaults to Westeros).
func WithChartTheme(theme string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.theme = theme
	}
}

// WithChartAssetsHost rewrites the assets host so ECharts JS loads from a CDN.
func WithChartAssetsHost(host string) EChartsRendererOption {
	return func(r *EChartsRenderer) {
		r.assetsHost = host
	}
}

// NewEChartsRenderer builds a renderer with shared cache and default theme.
func NewEChartsRenderer(options ...EChartsRendererOption) *EChartsRenderer {
	r := &EChartsRenderer{
		cache: sharedChartCache,
		theme: types.ThemeWesteros,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Render produces chart HTML for the buckets. Supported chart types: bar,
// line, pie. The cache key should change whenever the buckets can.
func (r *EChartsRenderer) Render(chartType, cacheKey, title, subtitle, theme string, buckets []ChartBucket) (string, error) {
	renderFn := func() (string, error) {
		return r.render(chartType, title, subtitle, theme, buckets)
	}
	if r.cache != nil && cacheKey != "" {
		return r.cache.GetOrRender(cacheKey, renderFn)
	}
	return renderFn()
}

func (r *EChartsRenderer) render(chartType, title, subtitle, theme string, buckets []ChartBucket) (string, error) {
	switch strings.ToLower(chartType) {
	case "bar":
		return r.renderBarChart(title, subtitle, theme, buckets)
	case "line":
		return r.renderLineChart(title, subtitle, theme, buckets)
	case "pie":
		return r.renderPieChart(title, subtitle, theme, buckets)
	default:
		return "", fmt.Errorf("insights: unsupported chart type: %s", chartType)
	}
}

func (r *EChartsRenderer) renderBarChart(title, subtitle, theme string, buckets []ChartBucket) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalChartOptions(title, subtitle, theme)...)
	bar.SetXAxis(bucketLabels(buckets))
	bar.AddSeries(title, toBarData(buckets))
	return renderChart(bar)
}

func (r *EChartsRenderer) renderLineChart(title, subtitle, theme string, buckets []ChartBucket) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalChartOptions(title, subtitle, theme)...)
	line.SetXAxis(bucketLabels(buckets))
	line.AddSeries(title, toLineData(buckets))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

func (r *EChartsRenderer) renderPieChart(title, subtitle, theme string, buckets []ChartBucket) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalChartOptions(title, subtitle, theme)...)
	pie.AddSeries(title, toPieData(buckets))
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *EChartsRenderer) globalChartOptions(title, subtitle, theme string) []charts.GlobalOpts {
	if theme == "" {
		theme = r.theme
	}
	initOpts := opts.Initialization{
		Theme:  theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithToolboxOpts(opts.Toolbox{Show: opts.Bool(true)}),
	}
}

func bucketLabels(buckets []ChartBucket) []string {
	labels := make([]string, len(buckets))
	for i, bucket := range buckets {
		labels[i] = bucket.Label
	}
	return labels
}

func toBarData(buckets []ChartBucket) []opts.BarData {
	data := make([]opts.BarData, len(buckets))
	for i, bucket := range buckets {
		data[i] = opts.BarData{Name: bucket.Label, Value: bucket.Value}
	}
	return data
}

func toLineData(buckets []ChartBucket) []opts.LineData {
	data := make([]opts.LineData, len(buckets))
	for i, bucket := range buckets {
		data[i] = opts.LineData{Name: bucket.Label, Value: bucket.Value}
	}
	return data
}

func toPieData(buckets []ChartBucket) []opts.PieData {
	data := make([]opts.PieData, len(buckets))
	for i, bucket := range buckets {
		name := bucket.Label
		if name == "" {
			name = fmt.Sprintf("Slice %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: bucket.Value}
	}
	return data
}

// NewCrossTabChartProvider renders the category-by-metric cross-tab.
func NewCrossTabChartProvider(renderer *EChartsRenderer) ReportProvider {
	if renderer == nil {
		renderer = NewEChartsRenderer()
	}
	return ReportProviderFunc(func(_ context.Context, meta ReportContext) (ReportData, error) {
		chartType := stringOr(meta.Config["chart_type"], "bar")
		title := stringOr(meta.Config["title"], crossTabTitle(meta.Snapshot.Axes))
		return buildChartReport(renderer, meta, chartType, title, meta.Snapshot.Charts.CrossTab)
	})
}

// NewSalesTimelineProvider renders the sales-per-day time series.
func NewSalesTimelineProvider(renderer *EChartsRenderer) ReportProvider {
	if renderer == nil {
		renderer = NewEChartsRenderer()
	}
	return ReportProviderFunc(func(_ context.Context, meta ReportContext) (ReportData, error) {
		chartType := stringOr(meta.Config["chart_type"], "line")
		title := stringOr(meta.Config["title"], "Sales per day")
		return buildChartReport(renderer, meta, chartType, title, meta.Snapshot.Charts.Daily)
	})
}

// NewCategoryBreakdownProvider renders the top-5 distribution for one of the
// categorical roles.
func NewCategoryBreakdownProvider(renderer *EChartsRenderer) ReportProvider {
	if renderer == nil {
		renderer = NewEChartsRenderer()
	}
	return ReportProviderFunc(func(_ context.Context, meta ReportContext) (ReportData, error) {
		role := stringOr(meta.Config["role"], "product")
		chartType := stringOr(meta.Config["chart_type"], "pie")
		title := stringOr(meta.Config["title"], "Top "+role+" values")
		buckets := meta.Snapshot.Charts.Distributions[role]
		data, err := buildChartReport(renderer, meta, chartType, title, buckets)
		if err != nil {
			return nil, err
		}
		data["role"] = role
		return data, nil
	})
}

func buildChartReport(renderer *EChartsRenderer, meta ReportContext, chartType, title string, buckets []ChartBucket) (ReportData, error) {
	theme := stringOr(meta.Config["theme"], "")
	subtitle := stringOr(meta.Config["subtitle"], "")
	html := ""
	if len(buckets) > 0 {
		cacheKey := fmt.Sprintf("%s:%s:%s", chartType, title, snapshotHash(meta.Snapshot))
		rendered, err := renderer.Render(chartType, cacheKey, title, subtitle, theme, buckets)
		if err != nil {
			return nil, err
		}
		html = rendered
	}
	points := make([]map[string]any, 0, len(buckets))
	for _, bucket := range buckets {
		points = append(points, map[string]any{
			"label": bucket.Label,
			"value": bucket.Value,
		})
	}
	return ReportData{
		"chart_type": chartType,
		"chart_html": html,
		"title":      title,
		"points":     points,
	}, nil
}

func crossTabTitle(axes ChartAxes) string {
	if axes.Category == "" || axes.Metric == "" {
		return "Cross tab"
	}
	return fmt.Sprintf("%s by %s", axes.Metric, axes.Category)
}
