package insights

import "testing"

func TestInMemoryInvestmentStore(t *testing.T) {
	store := NewInMemoryInvestmentStore()
	if got := store.GlobalInvestment(); got != 0 {
		t.Fatalf("expected zero global default, got %v", got)
	}
	store.SetGlobalInvestment(120)
	if got := store.GlobalInvestment(); got != 120 {
		t.Fatalf("expected 120, got %v", got)
	}

	key := MakeClusterKey("Curso", "camp1", "termo1")
	if _, ok := store.ClusterInvestment(key); ok {
		t.Fatalf("expected pending cluster investment")
	}
	store.SetClusterInvestment(key, 0)
	value, ok := store.ClusterInvestment(key)
	if !ok || value != 0 {
		t.Fatalf("expected explicit zero to be stored, got %v (ok=%v)", value, ok)
	}
	store.SetClusterInvestment(key, 45)
	value, ok = store.ClusterInvestment(key)
	if !ok || value != 45 {
		t.Fatalf("expected 45, got %v (ok=%v)", value, ok)
	}
}
