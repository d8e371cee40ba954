package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-insights/components/insights/commands"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(_ context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

func TestCommandExecutorDelegates(t *testing.T) {
	toggle := &stubCommander[commands.ToggleFilterInput]{}
	executor := &CommandExecutor{Toggle: toggle}
	input := commands.ToggleFilterInput{Header: "Produto", Value: "Curso"}
	if err := executor.ToggleFilter(context.Background(), input); err != nil {
		t.Fatalf("ToggleFilter returned error: %v", err)
	}
	if toggle.calls != 1 || toggle.last.Header != "Produto" {
		t.Fatalf("expected delegation, got %+v", toggle)
	}
}

func TestCommandExecutorErrorsWhenUnconfigured(t *testing.T) {
	executor := &CommandExecutor{}
	if err := executor.ToggleFilter(context.Background(), commands.ToggleFilterInput{}); err == nil {
		t.Fatalf("expected unconfigured toggle error")
	}
	if err := executor.LoadDataset(context.Background(), commands.LoadDatasetInput{}); err == nil {
		t.Fatalf("expected unconfigured dataset error")
	}
	if err := executor.ClearFilters(context.Background(), commands.ClearFiltersInput{}); err == nil {
		t.Fatalf("expected unconfigured clear error")
	}
}

func TestHandleToggleFilter(t *testing.T) {
	toggle := &stubCommander[commands.ToggleFilterInput]{}
	api := &Handlers{API: &CommandExecutor{Toggle: toggle}}
	payload := commands.ToggleFilterInput{Header: "Produto", Value: "Curso"}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/filters/toggle", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleToggleFilter(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if toggle.last.Header != "Produto" {
		t.Fatalf("expected payload propagation")
	}
}

func TestHandleToggleFilterRejectsBadJSON(t *testing.T) {
	api := &Handlers{API: &CommandExecutor{Toggle: &stubCommander[commands.ToggleFilterInput]{}}}
	req := httptest.NewRequest(http.MethodPost, "/filters/toggle", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	api.HandleToggleFilter(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleLoadDataset(t *testing.T) {
	dataset := &stubCommander[commands.LoadDatasetInput]{}
	api := &Handlers{API: &CommandExecutor{Dataset: dataset}}
	payload := map[string]any{"dataset": map[string]any{"headers": []string{"Produto"}}}
	buf, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/dataset", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleLoadDataset(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if len(dataset.last.Dataset.Headers) != 1 {
		t.Fatalf("expected dataset payload propagation")
	}
}

func TestHandleSetInvestment(t *testing.T) {
	investment := &stubCommander[commands.SetInvestmentInput]{}
	api := &Handlers{API: &CommandExecutor{Investment: investment}}
	buf, _ := json.Marshal(commands.SetInvestmentInput{Value: 120})
	req := httptest.NewRequest(http.MethodPost, "/investments", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleSetInvestment(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if investment.last.Value != 120 {
		t.Fatalf("expected value propagation")
	}
}

func TestHandleClearFilters(t *testing.T) {
	clear := &stubCommander[commands.ClearFiltersInput]{}
	api := &Handlers{API: &CommandExecutor{Clear: clear}}
	req := httptest.NewRequest(http.MethodPost, "/filters/clear", nil)
	rec := httptest.NewRecorder()
	api.HandleClearFilters(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if clear.calls != 1 {
		t.Fatalf("expected clear execution")
	}
}
