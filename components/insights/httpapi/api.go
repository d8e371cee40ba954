package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-insights/components/insights/commands"
)

// Executor is the command surface transports call to mutate pipeline state.
type Executor interface {
	LoadDataset(ctx context.Context, input commands.LoadDatasetInput) error
	ToggleFilter(ctx context.Context, input commands.ToggleFilterInput) error
	SetDates(ctx context.Context, input commands.SetDateRangeInput) error
	SetSearch(ctx context.Context, input commands.SetSearchInput) error
	SetChartAxes(ctx context.Context, input commands.SetChartAxesInput) error
	SetInvestment(ctx context.Context, input commands.SetInvestmentInput) error
	ClearFilters(ctx context.Context, input commands.ClearFiltersInput) error
}

// CommandExecutor satisfies Executor by delegating to shared commands.
type CommandExecutor struct {
	Dataset    gocommand.Commander[commands.LoadDatasetInput]
	Toggle     gocommand.Commander[commands.ToggleFilterInput]
	Dates      gocommand.Commander[commands.SetDateRangeInput]
	Search     gocommand.Commander[commands.SetSearchInput]
	Axes       gocommand.Commander[commands.SetChartAxesInput]
	Investment gocommand.Commander[commands.SetInvestmentInput]
	Clear      gocommand.Commander[commands.ClearFiltersInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) LoadDataset(ctx context.Context, input commands.LoadDatasetInput) error {
	if e.Dataset == nil {
		return errors.New("httpapi: dataset command not configured")
	}
	return e.Dataset.Execute(ctx, input)
}

func (e *CommandExecutor) ToggleFilter(ctx context.Context, input commands.ToggleFilterInput) error {
	if e.Toggle == nil {
		return errors.New("httpapi: toggle command not configured")
	}
	return e.Toggle.Execute(ctx, input)
}

func (e *CommandExecutor) SetDates(ctx context.Context, input commands.SetDateRangeInput) error {
	if e.Dates == nil {
		return errors.New("httpapi: dates command not configured")
	}
	return e.Dates.Execute(ctx, input)
}

func (e *CommandExecutor) SetSearch(ctx context.Context, input commands.SetSearchInput) error {
	if e.Search == nil {
		return errors.New("httpapi: search command not configured")
	}
	return e.Search.Execute(ctx, input)
}

func (e *CommandExecutor) SetChartAxes(ctx context.Context, input commands.SetChartAxesInput) error {
	if e.Axes == nil {
		return errors.New("httpapi: chart axes command not configured")
	}
	return e.Axes.Execute(ctx, input)
}

func (e *CommandExecutor) SetInvestment(ctx context.Context, input commands.SetInvestmentInput) error {
	if e.Investment == nil {
		return errors.New("httpapi: investment command not configured")
	}
	return e.Investment.Execute(ctx, input)
}

func (e *CommandExecutor) ClearFilters(ctx context.Context, input commands.ClearFiltersInput) error {
	if e.Clear == nil {
		return errors.New("httpapi: clear command not configured")
	}
	return e.Clear.Execute(ctx, input)
}

// Handlers exposes HTTP endpoints backed by shared commands for callers that
// mount plain net/http servers.
type Handlers struct {
	API Executor
}

func (h *Handlers) HandleLoadDataset(w http.ResponseWriter, r *http.Request) {
	var payload commands.LoadDatasetInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.LoadDataset(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleToggleFilter(w http.ResponseWriter, r *http.Request) {
	var payload commands.ToggleFilterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.ToggleFilter(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSetDates(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetDateRangeInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetDates(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSetSearch(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetSearchInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetSearch(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSetChartAxes(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetChartAxesInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetChartAxes(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSetInvestment(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetInvestmentInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.API.SetInvestment(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleClearFilters(w http.ResponseWriter, r *http.Request) {
	if err := h.API.ClearFilters(r.Context(), commands.ClearFiltersInput{}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
