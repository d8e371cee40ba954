package insights

import (
	"context"
	"time"
)

// ColumnType is the declared type of a dataset column. The ingestion
// collaborator supplies one tag per header.
type ColumnType string

const (
	// ColumnString marks free-form text columns.
	ColumnString ColumnType = "string"
	// ColumnNumber marks numeric metric columns.
	ColumnNumber ColumnType = "number"
)

// Row is a single dataset record. ID is the row's original position in the
// import and never changes or gets reused; Cells maps header name to a string
// or float64 value. Missing cells may be absent from the map or empty strings.
type Row struct {
	ID    int
	Cells map[string]any
}

// DatasetInput is the contract with the ingestion collaborator: ordered
// headers, per-header declared types, and raw rows in import order.
type DatasetInput struct {
	Headers []string             `json:"headers" yaml:"headers"`
	Types   map[string]ColumnType `json:"types" yaml:"types"`
	Rows    []map[string]any     `json:"rows" yaml:"rows"`
}

// ChartAxes selects the cross-tab chart dimensions: one categorical header
// grouped, one numeric header summed.
type ChartAxes struct {
	Category string `json:"category"`
	Metric   string `json:"metric"`
}

// ChartBucket is a single labeled value within a chart series.
type ChartBucket struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// ChartSet bundles the three chart views derived from the filtered rows.
type ChartSet struct {
	CrossTab      []ChartBucket            `json:"cross_tab"`
	Daily         []ChartBucket            `json:"daily"`
	Distributions map[string][]ChartBucket `json:"distributions"`
}

// Snapshot is the full set of derived views for one recomputation pass.
// Presentation layers read it; they never mutate it.
type Snapshot struct {
	ImportID string          `json:"import_id"`
	TakenAt  time.Time       `json:"taken_at"`
	Rows     []Row           `json:"rows"`
	KPIs     KPISummary      `json:"kpis"`
	Clusters []ClusterRecord `json:"clusters"`
	Charts   ChartSet        `json:"charts"`
	Filters  FilterState     `json:"filters"`
	Axes     ChartAxes       `json:"axes"`
}

// SnapshotEvent describes a state change transports might care about.
type SnapshotEvent struct {
	ImportID string `json:"import_id"`
	Reason   string `json:"reason"`
}

// SnapshotHook notifies transports (REST/WebSocket) that derived views are
// stale and should be recomputed.
type SnapshotHook interface {
	SnapshotInvalidated(ctx context.Context, event SnapshotEvent) error
}

// ViewerContext captures the active user/locale information needed to render
// boards.
type ViewerContext struct {
	UserID string
	Roles  []string
	Locale string
}
