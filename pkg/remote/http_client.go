package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	insights "github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/pkg/ingest"
)

// HTTPConfig configures the HTTP export client.
type HTTPConfig struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// HTTPClient talks to remote sales platforms via REST endpoints.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient builds a client capable of hitting live export APIs.
func NewHTTPClient(cfg HTTPConfig) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("remote: base url is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  httpClient,
	}, nil
}

// FetchExport implements ExportClient by calling the remote export endpoint.
// The response carries raw string cells; column types are inferred the same
// way local spreadsheet imports are.
func (c *HTTPClient) FetchExport(ctx context.Context, query ExportQuery) (insights.DatasetInput, error) {
	req := exportRequest{
		Source: query.Source,
		Since:  query.Since,
		Limit:  query.Limit,
	}
	var resp exportResponse
	if err := c.do(ctx, http.MethodPost, "/exports/query", req, &resp); err != nil {
		return insights.DatasetInput{}, err
	}
	return resp.toDataset()
}

func (c *HTTPClient) do(ctx context.Context, method, path string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("remote: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("remote: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote: http request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return fmt.Errorf("remote: upstream error %d: %s", resp.StatusCode, buf.String())
	}
	if target == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("remote: decode response: %w", err)
	}
	return nil
}

type exportRequest struct {
	Source string `json:"source"`
	Since  string `json:"since,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

type exportResponse struct {
	Source  string     `json:"source"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

func (r exportResponse) toDataset() (insights.DatasetInput, error) {
	if len(r.Headers) == 0 {
		return insights.DatasetInput{}, fmt.Errorf("remote: export has no headers")
	}
	records := make([][]string, 0, len(r.Rows)+1)
	records = append(records, r.Headers)
	records = append(records, r.Rows...)
	return ingest.FromRecords(records)
}
