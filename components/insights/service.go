package insights

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	errMissingDataset = errors.New("insights: no dataset loaded")
	errUnknownHeader  = errors.New("insights: header not present in dataset")
	errInvalidPreset  = errors.New("insights: unknown date preset")
)

// Options configures the Service. Every collaborator is provided via
// interface so applications can swap implementations.
type Options struct {
	Investments  InvestmentStore
	Telemetry    Telemetry
	SnapshotHook SnapshotHook
	Validator    *DatasetValidator
	Now          func() time.Time
}

// Service is the single owner of pipeline state: the loaded dataset, the
// filter state, and the chart-axis selection. Derived views are pure
// functions of that state and are recomputed in full on every Snapshot call;
// nothing is incremental.
type Service struct {
	opts Options

	dataset *Dataset
	filters FilterState
	axes    ChartAxes
}

// NewService builds a Service with safe defaults.
func NewService(opts Options) *Service {
	if opts.Investments == nil {
		opts.Investments = NewInMemoryInvestmentStore()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	if opts.SnapshotHook == nil {
		opts.SnapshotHook = noopSnapshotHook{}
	}
	if opts.Validator == nil {
		opts.Validator = NewDatasetValidator()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		opts:    opts,
		filters: NewFilterState(),
	}
}

// Investments exposes the backing store so transports can wire commands to it.
func (s *Service) Investments() InvestmentStore {
	return s.opts.Investments
}

// Dataset returns the currently loaded dataset, or nil.
func (s *Service) Dataset() *Dataset {
	return s.dataset
}

// LoadDataset validates the ingestion payload, replaces the dataset, and
// resets filters and axes to their defaults. Manual investment entries are
// left alone; they belong to the user, not the dataset.
func (s *Service) LoadDataset(ctx context.Context, input DatasetInput) error {
	if err := s.opts.Validator.Validate(input); err != nil {
		return err
	}
	s.dataset = NewDataset(input)
	s.filters = NewFilterState()
	s.axes = defaultAxes(s.dataset)
	s.record(ctx, "insights.dataset.load", map[string]any{
		"import_id": s.dataset.ImportID,
		"headers":   len(s.dataset.Headers),
		"rows":      len(s.dataset.Rows),
	})
	return s.invalidate(ctx, "dataset.load")
}

// ToggleFilterValue adds or removes a value from a header's selected set.
func (s *Service) ToggleFilterValue(ctx context.Context, header, value string) error {
	if s.dataset == nil {
		return errMissingDataset
	}
	if !s.dataset.HasHeader(header) {
		return fmt.Errorf("%w: %s", errUnknownHeader, header)
	}
	s.filters.Toggle(header, value)
	s.record(ctx, "insights.filter.toggle", map[string]any{
		"header": header,
		"value":  value,
	})
	return s.invalidate(ctx, "filter.toggle")
}

// SetDatePreset switches the relative date range.
func (s *Service) SetDatePreset(ctx context.Context, preset DatePreset) error {
	if !preset.Valid() {
		return fmt.Errorf("%w: %q", errInvalidPreset, preset)
	}
	s.filters.Preset = preset
	if preset != PresetCustom {
		s.filters.CustomStart = nil
		s.filters.CustomEnd = nil
	}
	s.record(ctx, "insights.filter.preset", map[string]any{"preset": string(preset)})
	return s.invalidate(ctx, "filter.preset")
}

// SetCustomRange switches to the custom preset with explicit bounds. Either
// bound may be nil; the date predicate then passes unconditionally.
func (s *Service) SetCustomRange(ctx context.Context, start, end *time.Time) error {
	s.filters.Preset = PresetCustom
	s.filters.CustomStart = start
	s.filters.CustomEnd = end
	s.record(ctx, "insights.filter.custom_range", map[string]any{
		"has_start": start != nil,
		"has_end":   end != nil,
	})
	return s.invalidate(ctx, "filter.custom_range")
}

// SetSearch replaces the free-text search string.
func (s *Service) SetSearch(ctx context.Context, text string) error {
	s.filters.Search = text
	s.record(ctx, "insights.filter.search", map[string]any{"length": len(text)})
	return s.invalidate(ctx, "filter.search")
}

// SetChartAxes selects the cross-tab dimensions. The category must be a
// string-typed header and the metric a number-typed header.
func (s *Service) SetChartAxes(ctx context.Context, axes ChartAxes) error {
	if s.dataset == nil {
		return errMissingDataset
	}
	if axes.Category != "" && s.dataset.Types[axes.Category] != ColumnString {
		return fmt.Errorf("insights: chart category %q is not a string column", axes.Category)
	}
	if axes.Metric != "" && s.dataset.Types[axes.Metric] != ColumnNumber {
		return fmt.Errorf("insights: chart metric %q is not a number column", axes.Metric)
	}
	s.axes = axes
	s.record(ctx, "insights.chart.axes", map[string]any{
		"category": axes.Category,
		"metric":   axes.Metric,
	})
	return s.invalidate(ctx, "chart.axes")
}

// SetGlobalInvestment records the manual KPI investment figure.
func (s *Service) SetGlobalInvestment(ctx context.Context, value float64) error {
	s.opts.Investments.SetGlobalInvestment(value)
	s.record(ctx, "insights.investment.global", map[string]any{"value": value})
	return s.invalidate(ctx, "investment.global")
}

// SetClusterInvestment records a per-cluster investment figure.
func (s *Service) SetClusterInvestment(ctx context.Context, key ClusterKey, value float64) error {
	if key == "" {
		return errors.New("insights: cluster key is required")
	}
	s.opts.Investments.SetClusterInvestment(key, value)
	s.record(ctx, "insights.investment.cluster", map[string]any{
		"key":   string(key),
		"value": value,
	})
	return s.invalidate(ctx, "investment.cluster")
}

// ClearFilters resets filter state, search, and axes back to their defaults.
// Investment entries are never touched by a reset.
func (s *Service) ClearFilters(ctx context.Context) error {
	s.filters = NewFilterState()
	s.axes = defaultAxes(s.dataset)
	s.record(ctx, "insights.filter.clear", nil)
	return s.invalidate(ctx, "filter.clear")
}

// Snapshot recomputes every derived view from current state. Identical state
// produces an identical snapshot, including ordering.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	if s.dataset == nil {
		return Snapshot{}, errMissingDataset
	}
	now := s.opts.Now()
	rows := Apply(s.dataset, s.filters, now)
	snapshot := Snapshot{
		ImportID: s.dataset.ImportID,
		TakenAt:  now,
		Rows:     rows,
		KPIs:     SummarizeKPIs(rows, s.dataset.Roles().Revenue, s.opts.Investments.GlobalInvestment()),
		Clusters: ReduceClusters(s.dataset, rows, s.opts.Investments),
		Charts:   BuildChartSet(s.dataset, rows, s.axes),
		Filters:  s.filters.Clone(),
		Axes:     s.axes,
	}
	s.record(ctx, "insights.snapshot", map[string]any{
		"import_id": snapshot.ImportID,
		"rows":      len(rows),
		"clusters":  len(snapshot.Clusters),
	})
	return snapshot, nil
}

func (s *Service) invalidate(ctx context.Context, reason string) error {
	importID := ""
	if s.dataset != nil {
		importID = s.dataset.ImportID
	}
	return s.opts.SnapshotHook.SnapshotInvalidated(ctx, SnapshotEvent{
		ImportID: importID,
		Reason:   reason,
	})
}

func (s *Service) record(ctx context.Context, event string, payload map[string]any) {
	s.opts.Telemetry.Record(ctx, event, payload)
}

func defaultAxes(ds *Dataset) ChartAxes {
	if ds == nil {
		return ChartAxes{}
	}
	roles := ds.Roles()
	axes := ChartAxes{}
	if roles.Product != "" && ds.Types[roles.Product] == ColumnString {
		axes.Category = roles.Product
	}
	if roles.Revenue != "" && ds.Types[roles.Revenue] == ColumnNumber {
		axes.Metric = roles.Revenue
	}
	return axes
}

type noopSnapshotHook struct{}

func (noopSnapshotHook) SnapshotInvalidated(context.Context, SnapshotEvent) error {
	return nil
}
