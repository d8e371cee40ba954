package insights

import (
	"context"
	"strings"
	"testing"
)

func newTestController(t *testing.T, options ...ControllerOption) *Controller {
	t.Helper()
	service := NewService(Options{})
	if err := service.LoadDataset(context.Background(), salesInput()); err != nil {
		t.Fatalf("LoadDataset returned error: %v", err)
	}
	return NewController(service, NewRegistry(), options...)
}

func TestControllerBuildBoardRunsDefaultLineup(t *testing.T) {
	controller := newTestController(t)
	view, err := controller.BuildBoard(context.Background(), ViewerContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("BuildBoard returned error: %v", err)
	}
	if len(view.Reports) != len(DefaultBoardReports()) {
		t.Fatalf("expected %d reports, got %d", len(DefaultBoardReports()), len(view.Reports))
	}
	if view.Reports[0].Definition.Code != "insights.report.kpi_summary" {
		t.Fatalf("expected lineup order preserved, got %s first", view.Reports[0].Definition.Code)
	}
	if view.Snapshot.ImportID == "" {
		t.Fatalf("expected snapshot attached to the view")
	}
}

func TestControllerBuildBoardRejectsUnknownReport(t *testing.T) {
	controller := newTestController(t, WithBoard(ManifestBoard{
		Code:    "acme.board.broken",
		Name:    "Broken",
		Reports: []BoardReport{{Code: "acme.report.missing"}},
	}))
	if _, err := controller.BuildBoard(context.Background(), ViewerContext{}); err == nil {
		t.Fatalf("expected unknown report error")
	}
}

func TestControllerBuildBoardValidatesReportConfig(t *testing.T) {
	controller := newTestController(t, WithBoard(ManifestBoard{
		Code: "acme.board.badconfig",
		Name: "Bad Config",
		Reports: []BoardReport{
			{Code: "insights.report.cluster_table", Config: map[string]any{"limit": 0}},
		},
	}))
	if _, err := controller.BuildBoard(context.Background(), ViewerContext{}); err == nil {
		t.Fatalf("expected config validation error")
	}
}

func TestControllerRenderBoardRequiresRenderer(t *testing.T) {
	controller := newTestController(t)
	if _, err := controller.RenderBoard(context.Background(), ViewerContext{}); err == nil {
		t.Fatalf("expected missing renderer error")
	}
}

func TestControllerRenderBoardProducesHTML(t *testing.T) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		t.Fatalf("NewTemplateRenderer returned error: %v", err)
	}
	controller := newTestController(t, WithRenderer(renderer))
	html, err := controller.RenderBoard(context.Background(), ViewerContext{UserID: "u1"})
	if err != nil {
		t.Fatalf("RenderBoard returned error: %v", err)
	}
	if !strings.Contains(html, "Sales Insights") {
		t.Fatalf("expected board title in rendered HTML")
	}
	if !strings.Contains(html, "insights.report.kpi_summary") {
		t.Fatalf("expected report sections in rendered HTML")
	}
}
