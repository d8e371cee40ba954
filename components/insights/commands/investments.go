package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	insights "github.com/goliatone/go-insights/components/insights"
)

type investmentService interface {
	SetGlobalInvestment(ctx context.Context, value float64) error
	SetClusterInvestment(ctx context.Context, key insights.ClusterKey, value float64) error
}

// SetInvestmentInput records a manual investment figure. An empty Cluster sets
// the global figure; otherwise the entry belongs to that cluster key.
type SetInvestmentInput struct {
	Cluster string  `json:"cluster,omitempty"`
	Value   float64 `json:"value"`
}

// SetInvestmentCommand stores manual investment entries used by the ROAS and
// profit calculations.
type SetInvestmentCommand struct {
	service   investmentService
	telemetry Telemetry
}

// NewSetInvestmentCommand creates the command.
func NewSetInvestmentCommand(service investmentService, telemetry Telemetry) *SetInvestmentCommand {
	return &SetInvestmentCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetInvestmentInput] = (*SetInvestmentCommand)(nil)

// Execute records the investment figure.
func (c *SetInvestmentCommand) Execute(ctx context.Context, msg SetInvestmentInput) error {
	if c.service == nil {
		return errors.New("investment command requires service")
	}
	if msg.Value < 0 {
		return errors.New("investment command rejects negative values")
	}
	if msg.Cluster == "" {
		if err := c.service.SetGlobalInvestment(ctx, msg.Value); err != nil {
			return err
		}
	} else if err := c.service.SetClusterInvestment(ctx, insights.ClusterKey(msg.Cluster), msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.investment.set", map[string]any{
		"cluster": msg.Cluster,
		"value":   msg.Value,
	})
	return nil
}
