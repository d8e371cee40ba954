package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	insights "github.com/goliatone/go-insights/components/insights"
)

// SetChartAxesInput selects the cross-tab category and metric headers.
type SetChartAxesInput struct {
	Category string `json:"category"`
	Metric   string `json:"metric"`
}

type chartService interface {
	SetChartAxes(ctx context.Context, axes insights.ChartAxes) error
}

// SetChartAxesCommand updates the cross-tab dimensions.
type SetChartAxesCommand struct {
	service   chartService
	telemetry Telemetry
}

// NewSetChartAxesCommand creates the command.
func NewSetChartAxesCommand(service chartService, telemetry Telemetry) *SetChartAxesCommand {
	return &SetChartAxesCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetChartAxesInput] = (*SetChartAxesCommand)(nil)

// Execute applies the axis selection.
func (c *SetChartAxesCommand) Execute(ctx context.Context, msg SetChartAxesInput) error {
	if c.service == nil {
		return errors.New("chart axes command requires service")
	}
	axes := insights.ChartAxes{Category: msg.Category, Metric: msg.Metric}
	if err := c.service.SetChartAxes(ctx, axes); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.chart.axes", map[string]any{
		"category": msg.Category,
		"metric":   msg.Metric,
	})
	return nil
}
