package insights

import "sync"

// InvestmentStore holds user-entered investment figures: one global figure
// for the KPI view plus one per cluster key. The store lives outside the
// dataset and survives filter resets.
type InvestmentStore interface {
	GlobalInvestment() float64
	SetGlobalInvestment(value float64)
	ClusterInvestment(key ClusterKey) (float64, bool)
	SetClusterInvestment(key ClusterKey, value float64)
}

// InMemoryInvestmentStore provides a concurrency-safe default store.
type InMemoryInvestmentStore struct {
	mu       sync.RWMutex
	global   float64
	clusters map[ClusterKey]float64
}

// NewInMemoryInvestmentStore creates an empty investment store.
func NewInMemoryInvestmentStore() *InMemoryInvestmentStore {
	return &InMemoryInvestmentStore{
		clusters: make(map[ClusterKey]float64),
	}
}

// GlobalInvestment returns the manual figure backing the KPI view.
func (s *InMemoryInvestmentStore) GlobalInvestment() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global
}

// SetGlobalInvestment replaces the manual KPI figure.
func (s *InMemoryInvestmentStore) SetGlobalInvestment(value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.global = value
}

// ClusterInvestment returns the figure for a cluster key. The second return
// is false while the figure is pending (never entered), which display layers
// show differently from an explicit zero.
func (s *InMemoryInvestmentStore) ClusterInvestment(key ClusterKey) (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.clusters[key]
	return value, ok
}

// SetClusterInvestment records a per-cluster figure.
func (s *InMemoryInvestmentStore) SetClusterInvestment(key ClusterKey, value float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters[key] = value
}
