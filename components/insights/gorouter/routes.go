package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	router "github.com/goliatone/go-router"

	"github.com/goliatone/go-insights/components/insights"
	"github.com/goliatone/go-insights/components/insights/commands"
	"github.com/goliatone/go-insights/components/insights/httpapi"
)

// ViewerResolver converts a router.Context into an insights.ViewerContext.
type ViewerResolver func(router.Context) insights.ViewerContext

// Config wires go-router with insights controllers, APIs, and hooks.
type Config[T any] struct {
	Router         router.Router[T]
	Controller     *insights.Controller
	API            httpapi.Executor
	Broadcast      *insights.BroadcastHook
	ViewerResolver ViewerResolver
	BasePath       string
	Routes         RouteConfig
}

// RouteConfig customizes the relative paths used for insights endpoints.
type RouteConfig struct {
	HTML       string
	Board      string
	Snapshot   string
	Dataset    string
	Filter     string
	Dates      string
	Search     string
	Axes       string
	Investment string
	Clear      string
	WebSocket  string
}

// Register mounts insights routes (HTML, JSON, REST, WebSocket) on a go-router router.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.Controller == nil {
		return errors.New("gorouter: controller is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/insights"
	}
	viewerResolver := cfg.ViewerResolver
	if viewerResolver == nil {
		viewerResolver = defaultViewerResolver
	}

	group := cfg.Router.Group(base)

	group.Get(routes.HTML, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		html, err := cfg.Controller.RenderBoard(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		return ctx.Send([]byte(html))
	}))

	group.Get(routes.Board, router.WrapHandler(func(ctx router.Context) error {
		viewer := viewerResolver(ctx)
		view, err := cfg.Controller.BuildBoard(ctx.Context(), viewer)
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, view)
	}))

	group.Get(routes.Snapshot, router.WrapHandler(func(ctx router.Context) error {
		snapshot, err := cfg.Controller.Snapshot(ctx.Context())
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, snapshot)
	}))

	if cfg.API != nil {
		registerAPI(group, cfg.API, routes)
	}

	if cfg.Broadcast != nil {
		registerWebSocket(group, cfg.Broadcast, routes.WebSocket)
	}

	return nil
}

func registerAPI[T any](r router.Router[T], api httpapi.Executor, routes RouteConfig) {
	r.Post(routes.Dataset, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.LoadDatasetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.LoadDataset(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "loaded"})
	}))

	r.Post(routes.Filter, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.ToggleFilterInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.ToggleFilter(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "toggled"})
	}))

	r.Post(routes.Dates, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetDateRangeInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetDates(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Search, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetSearchInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetSearch(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Axes, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetChartAxesInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetChartAxes(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "applied"})
	}))

	r.Post(routes.Investment, router.WrapHandler(func(ctx router.Context) error {
		var payload commands.SetInvestmentInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.SetInvestment(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "saved"})
	}))

	r.Post(routes.Clear, router.WrapHandler(func(ctx router.Context) error {
		if err := api.ClearFilters(ctx.Context(), commands.ClearFiltersInput{}); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	}))
}

func registerWebSocket[T any](r router.Router[T], hook *insights.BroadcastHook, path string) {
	cfg := router.DefaultWebSocketConfig()
	r.WebSocket(path, cfg, func(ws router.WebSocketContext) error {
		events, cancel := hook.Subscribe()
		defer cancel()
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return nil
				}
				if err := ws.WriteJSON(event); err != nil {
					return err
				}
			case <-ws.Context().Done():
				return ws.Close()
			}
		}
	})
}

func defaultViewerResolver(ctx router.Context) insights.ViewerContext {
	var viewer insights.ViewerContext
	if v, ok := ctx.Locals("user_id").(string); ok {
		viewer.UserID = v
	}
	if roles, ok := ctx.Locals("roles").([]string); ok {
		viewer.Roles = roles
	}
	viewer.Locale = inferLocale(ctx)
	return viewer
}

func inferLocale(ctx router.Context) string {
	if locale, ok := ctx.Locals("locale").(string); ok && locale != "" {
		return locale
	}
	if locale := strings.TrimSpace(ctx.Query("locale")); locale != "" {
		return strings.ToLower(locale)
	}
	if header := ctx.Header("Accept-Language"); header != "" {
		for _, token := range strings.Split(header, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			if idx := strings.Index(token, ";"); idx >= 0 {
				token = token[:idx]
			}
			if token != "" {
				return strings.ToLower(token)
			}
		}
	}
	return ""
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.HTML == "" {
		routes.HTML = "/board"
	}
	if routes.Board == "" {
		routes.Board = "/board/_data"
	}
	if routes.Snapshot == "" {
		routes.Snapshot = "/snapshot"
	}
	if routes.Dataset == "" {
		routes.Dataset = "/dataset"
	}
	if routes.Filter == "" {
		routes.Filter = "/filters/toggle"
	}
	if routes.Dates == "" {
		routes.Dates = "/filters/dates"
	}
	if routes.Search == "" {
		routes.Search = "/filters/search"
	}
	if routes.Axes == "" {
		routes.Axes = "/charts/axes"
	}
	if routes.Investment == "" {
		routes.Investment = "/investments"
	}
	if routes.Clear == "" {
		routes.Clear = "/filters/clear"
	}
	if routes.WebSocket == "" {
		routes.WebSocket = "/ws"
	}
	return routes
}
