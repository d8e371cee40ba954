package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	insights "github.com/goliatone/go-insights/components/insights"
)

// LoadDatasetInput carries a parsed ingestion payload into the pipeline.
type LoadDatasetInput struct {
	Dataset insights.DatasetInput `json:"dataset"`
}

type datasetService interface {
	LoadDataset(ctx context.Context, input insights.DatasetInput) error
}

// LoadDatasetCommand replaces the active dataset so transports can ingest new
// spreadsheets without linking directly against the service.
type LoadDatasetCommand struct {
	service   datasetService
	telemetry Telemetry
}

// NewLoadDatasetCommand creates the command.
func NewLoadDatasetCommand(service datasetService, telemetry Telemetry) *LoadDatasetCommand {
	return &LoadDatasetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadDatasetInput] = (*LoadDatasetCommand)(nil)

// Execute validates and loads the dataset.
func (c *LoadDatasetCommand) Execute(ctx context.Context, msg LoadDatasetInput) error {
	if c.service == nil {
		return errors.New("dataset command requires service")
	}
	if err := c.service.LoadDataset(ctx, msg.Dataset); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "insights.command.dataset.load", map[string]any{
		"headers": len(msg.Dataset.Headers),
		"rows":    len(msg.Dataset.Rows),
	})
	return nil
}
