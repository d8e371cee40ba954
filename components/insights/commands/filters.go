package commands

import (
	"context"
	"errors"
	"time"

	gocommand "github.com/goliatone/go-command"
	insights "github.com/goliatone/go-insights/components/insights"
)

type filterService interface {
	ToggleFilterValue(ctx context.Context, header, value string) error
	SetDatePreset(ctx context.Context, preset insights.DatePreset) error
	SetCustomRange(ctx context.Context, start, end *time.Time) error
	SetSearch(ctx context.Context, text string) error
	ClearFilters(ctx context.Context) error
}

// ToggleFilterInput identifies a header/value pair to toggle.
type ToggleFilterInput struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// ToggleFilterCommand adds or removes a category filter value.
type ToggleFilterCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewToggleFilterCommand creates the command.
func NewToggleFilterCommand(service filterService, telemetry Telemetry) *ToggleFilterCommand {
	return &ToggleFilterCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleFilterInput] = (*ToggleFilterCommand)(nil)

// Execute toggles the filter value on the pipeline.
func (c *ToggleFilterCommand) Execute(ctx context.Context, msg ToggleFilterInput) error {
	if c.service == nil {
		return errors.New("filter command requires service")
	}
	if msg.Header == "" {
		return errors.New("filter command requires header")
	}
	if err := c.service.ToggleFilterValue(ctx, msg.Header, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.filter.toggle", map[string]any{
		"header": msg.Header,
		"value":  msg.Value,
	})
	return nil
}

// SetDateRangeInput selects either a relative preset or custom bounds. When
// Preset is "custom" the bounds are applied; otherwise they are ignored.
type SetDateRangeInput struct {
	Preset insights.DatePreset `json:"preset"`
	Start  *time.Time          `json:"start,omitempty"`
	End    *time.Time          `json:"end,omitempty"`
}

// SetDateRangeCommand switches the date filter.
type SetDateRangeCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewSetDateRangeCommand creates the command.
func NewSetDateRangeCommand(service filterService, telemetry Telemetry) *SetDateRangeCommand {
	return &SetDateRangeCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetDateRangeInput] = (*SetDateRangeCommand)(nil)

// Execute applies the date selection.
func (c *SetDateRangeCommand) Execute(ctx context.Context, msg SetDateRangeInput) error {
	if c.service == nil {
		return errors.New("date range command requires service")
	}
	if msg.Preset == insights.PresetCustom {
		if err := c.service.SetCustomRange(ctx, msg.Start, msg.End); err != nil {
			return err
		}
	} else if err := c.service.SetDatePreset(ctx, msg.Preset); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.filter.dates", map[string]any{
		"preset": string(msg.Preset),
	})
	return nil
}

// SetSearchInput carries the free-text search string.
type SetSearchInput struct {
	Text string `json:"text"`
}

// SetSearchCommand replaces the search text.
type SetSearchCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewSetSearchCommand creates the command.
func NewSetSearchCommand(service filterService, telemetry Telemetry) *SetSearchCommand {
	return &SetSearchCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetSearchInput] = (*SetSearchCommand)(nil)

// Execute replaces the search text on the pipeline.
func (c *SetSearchCommand) Execute(ctx context.Context, msg SetSearchInput) error {
	if c.service == nil {
		return errors.New("search command requires service")
	}
	if err := c.service.SetSearch(ctx, msg.Text); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.filter.search", map[string]any{
		"length": len(msg.Text),
	})
	return nil
}

// ClearFiltersInput is empty; clearing needs no parameters.
type ClearFiltersInput struct{}

// ClearFiltersCommand resets filters, search, and chart axes.
type ClearFiltersCommand struct {
	service   filterService
	telemetry Telemetry
}

// NewClearFiltersCommand creates the command.
func NewClearFiltersCommand(service filterService, telemetry Telemetry) *ClearFiltersCommand {
	return &ClearFiltersCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ClearFiltersInput] = (*ClearFiltersCommand)(nil)

// Execute resets the pipeline filter state.
func (c *ClearFiltersCommand) Execute(ctx context.Context, _ ClearFiltersInput) error {
	if c.service == nil {
		return errors.New("clear command requires service")
	}
	if err := c.service.ClearFilters(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.filter.clear", nil)
	return nil
}
