package remote

import (
	"context"
	"sync"

	insights "github.com/goliatone/go-insights/components/insights"
)

// MockClient implements ExportClient using an in-memory fixture, for tests or
// local demos without an upstream platform.
type MockClient struct {
	data insights.DatasetInput
	mu   sync.RWMutex
}

// NewMockClient builds a mock export client from the provided fixture.
func NewMockClient(data insights.DatasetInput) *MockClient {
	return &MockClient{data: data}
}

// FetchExport returns the configured dataset ignoring query filters.
func (c *MockClient) FetchExport(context.Context, ExportQuery) (insights.DatasetInput, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return cloneDataset(c.data), nil
}

func cloneDataset(input insights.DatasetInput) insights.DatasetInput {
	out := insights.DatasetInput{
		Headers: append([]string(nil), input.Headers...),
		Rows:    make([]map[string]any, len(input.Rows)),
	}
	if input.Types != nil {
		out.Types = make(map[string]insights.ColumnType, len(input.Types))
		for header, columnType := range input.Types {
			out.Types[header] = columnType
		}
	}
	for i, row := range input.Rows {
		clone := make(map[string]any, len(row))
		for header, value := range row {
			clone[header] = value
		}
		out.Rows[i] = clone
	}
	return out
}
