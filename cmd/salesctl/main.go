package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	insights "github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/pkg/ingest"
	"github.com/goliatone/go-insights/pkg/remote"
)

type cli struct {
	Report   reportCmd   `cmd:"" help:"Load a sales export and print the filtered KPIs and clusters."`
	Scaffold scaffoldCmd `cmd:"" help:"Scaffold a board manifest entry and report provider stub."`
}

type reportCmd struct {
	File       string   `arg:"" optional:"" type:"path" help:"CSV or XLSX sales export (omit when using --url)."`
	Sheet      string   `help:"Worksheet name for XLSX files (defaults to the first sheet)."`
	URL        string   `help:"Fetch the export from a remote platform instead of a local file."`
	Token      string   `env:"INSIGHTS_API_TOKEN" help:"Bearer token for the remote export API."`
	Source     string   `default:"sales" help:"Remote export source name (requires --url)."`
	Preset     string   `default:"all" help:"Date preset: all, today, 7days, 15days, 30days, custom."`
	Start      string   `help:"Custom range start (YYYY-MM-DD, requires --preset custom)."`
	End        string   `help:"Custom range end (YYYY-MM-DD, requires --preset custom)."`
	Filter     []string `help:"Category filters as header=value pairs (repeatable)."`
	Search     string   `help:"Free-text search across all cells."`
	Investment float64  `help:"Global investment figure for ROAS/profit."`
	JSON       bool     `help:"Emit the full snapshot as JSON instead of a text summary."`
	HTMLOut    string   `name:"html-out" type:"path" help:"Write the rendered board HTML to this file."`
	Limit      int      `default:"10" help:"Number of clusters to print."`
}

type scaffoldCmd struct {
	Code         string `required:"" help:"Fully-qualified report code (e.g. acme.report.funnel)."`
	Description  string `required:"" help:"One-line description used in the provider stub."`
	Board        string `default:"insights.board.default" help:"Board code the report is appended to."`
	ManifestPath string `required:"" type:"path" help:"Path to the board manifest YAML file to update."`
	ConfigPath   string `type:"path" help:"Optional path to a JSON file with the report configuration."`
	ProviderOut  string `help:"File path for the generated provider stub (defaults to components/insights/providers/<code>_provider.go)."`
	Overwrite    bool   `help:"Overwrite an existing manifest entry / provider stub."`
	SkipProvider bool   `name:"skip-provider" help:"Skip provider stub generation."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Sales insights utility: offline reports and manifest scaffolding."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

func (cmd *reportCmd) Run(ctx context.Context) error {
	input, err := cmd.loadInput(ctx)
	if err != nil {
		return err
	}

	service := insights.NewService(insights.Options{})
	if err := service.LoadDataset(ctx, input); err != nil {
		return err
	}
	if err := cmd.applyFilters(ctx, service); err != nil {
		return err
	}
	if cmd.Investment > 0 {
		if err := service.SetGlobalInvestment(ctx, cmd.Investment); err != nil {
			return err
		}
	}

	snapshot, err := service.Snapshot(ctx)
	if err != nil {
		return err
	}

	if cmd.HTMLOut != "" {
		if err := cmd.writeHTML(ctx, service); err != nil {
			return err
		}
	}

	if cmd.JSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snapshot)
	}
	cmd.printSummary(snapshot)
	return nil
}

func (cmd *reportCmd) loadInput(ctx context.Context) (insights.DatasetInput, error) {
	switch {
	case cmd.URL != "":
		client, err := remote.NewHTTPClient(remote.HTTPConfig{BaseURL: cmd.URL, APIKey: cmd.Token})
		if err != nil {
			return insights.DatasetInput{}, err
		}
		return client.FetchExport(ctx, remote.ExportQuery{Source: cmd.Source})
	case cmd.File == "":
		return insights.DatasetInput{}, fmt.Errorf("salesctl: provide an export file or --url")
	case strings.EqualFold(filepath.Ext(cmd.File), ".xlsx"):
		return ingest.ReadXLSXFile(cmd.File, cmd.Sheet)
	default:
		return ingest.ReadFile(cmd.File)
	}
}

func (cmd *reportCmd) applyFilters(ctx context.Context, service *insights.Service) error {
	preset := insights.DatePreset(cmd.Preset)
	if preset == insights.PresetCustom {
		start, err := parseBound(cmd.Start)
		if err != nil {
			return err
		}
		end, err := parseBound(cmd.End)
		if err != nil {
			return err
		}
		if err := service.SetCustomRange(ctx, start, end); err != nil {
			return err
		}
	} else if err := service.SetDatePreset(ctx, preset); err != nil {
		return err
	}
	for _, pair := range cmd.Filter {
		header, value, ok := strings.Cut(pair, "=")
		if !ok {
			return fmt.Errorf("salesctl: filter %q must be header=value", pair)
		}
		if err := service.ToggleFilterValue(ctx, header, value); err != nil {
			return err
		}
	}
	if cmd.Search != "" {
		if err := service.SetSearch(ctx, cmd.Search); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *reportCmd) writeHTML(ctx context.Context, service *insights.Service) error {
	renderer, err := insights.NewTemplateRenderer()
	if err != nil {
		return err
	}
	controller := insights.NewController(service, insights.NewRegistry(), insights.WithRenderer(renderer))
	html, err := controller.RenderBoard(ctx, insights.ViewerContext{})
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.HTMLOut, []byte(html), 0o644); err != nil {
		return fmt.Errorf("salesctl: write %s: %w", cmd.HTMLOut, err)
	}
	fmt.Fprintf(os.Stdout, "✓ Board written to %s\n", cmd.HTMLOut)
	return nil
}

func (cmd *reportCmd) printSummary(snapshot insights.Snapshot) {
	kpis := snapshot.KPIs
	fmt.Printf("Import %s — %d rows after filters\n\n", snapshot.ImportID, len(snapshot.Rows))
	fmt.Printf("  Sales        %d\n", kpis.Sales)
	fmt.Printf("  Revenue      %.2f\n", kpis.Revenue)
	fmt.Printf("  Tax          %.2f\n", kpis.Tax)
	fmt.Printf("  Investment   %.2f\n", kpis.Investment)
	fmt.Printf("  Profit       %.2f\n", kpis.Profit)
	fmt.Printf("  ROAS         %.2f\n", kpis.ROAS)
	fmt.Printf("  Margin       %.2f%%\n", kpis.Margin)
	fmt.Printf("  Avg order    %.2f\n", kpis.AvgOrder)
	fmt.Printf("  Median order %.2f\n", kpis.MedianOrder)
	fmt.Printf("  P90 order    %.2f\n\n", kpis.P90Order)

	limit := cmd.Limit
	if limit <= 0 || limit > len(snapshot.Clusters) {
		limit = len(snapshot.Clusters)
	}
	if limit == 0 {
		fmt.Println("No clusters matched the current filters.")
		return
	}
	fmt.Printf("Top %d clusters (of %d):\n", limit, len(snapshot.Clusters))
	for _, cluster := range snapshot.Clusters[:limit] {
		fmt.Printf("  %-40s sales=%-5d revenue=%.2f roas=%.2f\n",
			clusterLabel(cluster), cluster.Sales, cluster.Revenue, cluster.ROAS)
	}
}

func clusterLabel(cluster insights.ClusterRecord) string {
	return fmt.Sprintf("%s / %s / %s", cluster.Product, cluster.Campaign, cluster.Term)
}

func parseBound(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("salesctl: parse date %q: %w", value, err)
	}
	return &t, nil
}

func (cmd *scaffoldCmd) Run(_ context.Context) error {
	if !strings.Contains(cmd.Code, ".") {
		return fmt.Errorf("salesctl: report code %s must contain at least one '.' segment", cmd.Code)
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("salesctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}

	config, err := cmd.loadConfig()
	if err != nil {
		return err
	}

	board := findBoard(doc, cmd.Board)
	if board == nil {
		doc.Boards = append(doc.Boards, insights.ManifestBoard{
			Code: cmd.Board,
			Name: strcase.ToCase(strings.TrimPrefix(cmd.Board, "insights.board."), strcase.TitleCase, ' '),
		})
		board = &doc.Boards[len(doc.Boards)-1]
	}
	entry := insights.BoardReport{Code: cmd.Code, Config: config}
	replaced := false
	for idx := range board.Reports {
		if board.Reports[idx].Code == cmd.Code {
			if !cmd.Overwrite {
				return fmt.Errorf("salesctl: board %s already lists report %s (use --overwrite to replace)", board.Code, cmd.Code)
			}
			board.Reports[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		board.Reports = append(board.Reports, entry)
	}
	sort.Slice(board.Reports, func(i, j int) bool {
		return board.Reports[i].Code < board.Reports[j].Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}

	if cmd.SkipProvider {
		fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Code, manifestPath)
		return nil
	}

	providerPath := cmd.ProviderOut
	if providerPath == "" {
		providerPath = filepath.Join("components", "insights", "providers", fmt.Sprintf("%s_provider.go", sanitizeFileName(cmd.Code)))
	}
	providerType := deriveBaseName(cmd.Code) + "Provider"
	if err := writeProviderStub(providerPath, providerType, cmd.Code, cmd.Description, cmd.Overwrite); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s and generated %s\n", cmd.Code, manifestPath, providerPath)
	return nil
}

func (cmd *scaffoldCmd) loadConfig() (map[string]any, error) {
	if cmd.ConfigPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(cmd.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("salesctl: read config file: %w", err)
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("salesctl: parse config JSON: %w", err)
	}
	return config, nil
}

func loadOrInitManifest(path string) (*insights.BoardManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &insights.BoardManifestDocument{
				Version: insights.ManifestVersion,
				Boards:  []insights.ManifestBoard{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("salesctl: stat manifest: %w", err)
	}
	return insights.ReadManifest(path)
}

func findBoard(doc *insights.BoardManifestDocument, code string) *insights.ManifestBoard {
	for idx := range doc.Boards {
		if doc.Boards[idx].Code == code {
			return &doc.Boards[idx]
		}
	}
	return nil
}

func writeManifest(path string, doc *insights.BoardManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("salesctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("salesctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(tmpDoc); err != nil {
		return fmt.Errorf("salesctl: write manifest: %w", err)
	}
	return nil
}

func writeProviderStub(path, providerType, code, description string, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return fmt.Errorf("salesctl: provider stub %s already exists (use --overwrite or --provider-out)", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("salesctl: mkdir provider dir: %w", err)
	}
	content := fmt.Sprintf(`package insights

import (
	"context"
)

// %s builds data for %s reports: %s.
type %s struct{}

// New%s wires the provider into the insights registry.
func New%s() ReportProvider {
	return &%s{}
}

// Build computes the report payload. Replace with your implementation.
func (p *%s) Build(ctx context.Context, meta ReportContext) (ReportData, error) {
	return ReportData{
		"message": "replace with real data",
	}, nil
}
`, providerType, code, description, providerType, providerType, providerType, providerType, providerType)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("salesctl: write provider stub: %w", err)
	}
	return nil
}

func deriveBaseName(code string) string {
	parts := strings.Split(code, ".")
	slug := parts[len(parts)-1]
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = code
	}
	return strcase.ToCamel(slug)
}

func sanitizeFileName(code string) string {
	replacer := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return strings.ToLower(replacer.Replace(code))
}
