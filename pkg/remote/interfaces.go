// Package remote pulls sales exports from upstream platforms over HTTP so
// boards can load data without a local spreadsheet.
package remote

import (
	"context"

	insights "github.com/goliatone/go-insights/components/insights"
)

// ExportQuery narrows which export the upstream platform should return.
type ExportQuery struct {
	Source string
	Since  string
	Limit  int
}

// ExportClient fetches sales exports from upstream sales platforms.
type ExportClient interface {
	FetchExport(ctx context.Context, query ExportQuery) (insights.DatasetInput, error)
}
