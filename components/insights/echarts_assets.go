package insights

import (
	"os"
	"strings"
)

const (
	// defaultEChartsAssetsHost is where rendered charts load the ECharts
	// runtime from when no override is configured.
	defaultEChartsAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	// envEChartsCDN overrides the assets host (e.g., a self-hosted bucket).
	envEChartsCDN = "GO_INSIGHTS_ECHARTS_CDN"
)

// DefaultEChartsAssetsHost returns the assets host, respecting
// GO_INSIGHTS_ECHARTS_CDN if set.
func DefaultEChartsAssetsHost() string {
	if host := strings.TrimSpace(os.Getenv(envEChartsCDN)); host != "" {
		return ensureTrailingSlash(host)
	}
	return defaultEChartsAssetsHost
}

func ensureTrailingSlash(value string) string {
	if value == "" {
		return ""
	}
	if strings.HasSuffix(value, "/") {
		return value
	}
	return value + "/"
}
