package insights

import (
	"context"
	"fmt"
)

// BoardView is the fully materialized payload a transport serves: the
// snapshot header plus every report's data in lineup order.
type BoardView struct {
	Board    ManifestBoard  `json:"board"`
	Snapshot Snapshot       `json:"snapshot"`
	Reports  []ReportResult `json:"reports"`
}

// ReportResult pairs a report definition with the data its provider built.
type ReportResult struct {
	Definition ReportDefinition `json:"definition"`
	Data       ReportData       `json:"data"`
}

// Controller orchestrates the pipeline service, the report registry, and the
// HTML renderer for transports.
type Controller struct {
	service  *Service
	registry *Registry
	renderer Renderer
	board    ManifestBoard
}

// ControllerOption customizes the controller.
type ControllerOption func(*Controller)

// WithBoard replaces the default report lineup.
func WithBoard(board ManifestBoard) ControllerOption {
	return func(c *Controller) {
		c.board = board
	}
}

// WithRenderer injects the template renderer used by RenderBoard.
func WithRenderer(renderer Renderer) ControllerOption {
	return func(c *Controller) {
		c.renderer = renderer
	}
}

// NewController wires the service and registry into a controller. Without a
// manifest board it serves the default lineup.
func NewController(service *Service, registry *Registry, options ...ControllerOption) *Controller {
	c := &Controller{
		service:  service,
		registry: registry,
		board: ManifestBoard{
			Code:    "insights.board.default",
			Name:    "Sales Insights",
			Reports: DefaultBoardReports(),
		},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Snapshot exposes the current pipeline snapshot without running providers.
func (c *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	return c.service.Snapshot(ctx)
}

// Board returns the lineup this controller serves.
func (c *Controller) Board() ManifestBoard {
	return c.board
}

// BuildBoard snapshots the pipeline and runs every report provider in lineup
// order. A provider error aborts the build; reports never render partially.
func (c *Controller) BuildBoard(ctx context.Context, viewer ViewerContext) (BoardView, error) {
	snapshot, err := c.service.Snapshot(ctx)
	if err != nil {
		return BoardView{}, err
	}
	view := BoardView{
		Board:    c.board,
		Snapshot: snapshot,
		Reports:  make([]ReportResult, 0, len(c.board.Reports)),
	}
	for _, report := range c.board.Reports {
		def, ok := c.registry.Definition(report.Code)
		if !ok {
			return BoardView{}, fmt.Errorf("insights: board references unknown report %s", report.Code)
		}
		provider, ok := c.registry.Provider(report.Code)
		if !ok {
			return BoardView{}, fmt.Errorf("insights: report %s has no provider", report.Code)
		}
		if err := c.registry.ValidateConfig(report.Code, report.Config); err != nil {
			return BoardView{}, err
		}
		data, err := provider.Build(ctx, ReportContext{
			Snapshot: snapshot,
			Config:   report.Config,
			Viewer:   viewer,
		})
		if err != nil {
			return BoardView{}, fmt.Errorf("insights: report %s: %w", report.Code, err)
		}
		view.Reports = append(view.Reports, ReportResult{Definition: def, Data: data})
	}
	return view, nil
}

// RenderBoard builds the board and renders the HTML page for it.
func (c *Controller) RenderBoard(ctx context.Context, viewer ViewerContext) (string, error) {
	if c.renderer == nil {
		return "", fmt.Errorf("insights: controller has no renderer")
	}
	view, err := c.BuildBoard(ctx, viewer)
	if err != nil {
		return "", err
	}
	return c.renderer.Render("board", map[string]any{
		"board":    view.Board,
		"snapshot": view.Snapshot,
		"reports":  view.Reports,
	})
}
