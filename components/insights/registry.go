package insights

import (
	"fmt"
	"sync"
)

// ReportHook lets packages register reports/providers during init().
type ReportHook func(reg *Registry) error

var (
	globalHookMu sync.Mutex
	globalHooks  []ReportHook
)

// RegisterReportHook registers a hook executed against new registries.
func RegisterReportHook(h ReportHook) {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	globalHooks = append(globalHooks, h)
}

// Registry stores report definitions and providers discoverable via hooks or
// board manifests.
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]ReportDefinition
	providers   map[string]ReportProvider
	validator   *ReportConfigValidator
}

// NewRegistry builds a registry preloaded with the default reports and
// applies global hooks.
func NewRegistry() *Registry {
	reg := &Registry{
		definitions: map[string]ReportDefinition{},
		providers:   map[string]ReportProvider{},
		validator:   NewReportConfigValidator(),
	}
	reg.registerDefaults()
	_ = reg.ApplyHooks()
	return reg
}

func (r *Registry) registerDefaults() {
	for _, def := range DefaultReportDefinitions() {
		_ = r.RegisterDefinition(def)
		if provider, ok := defaultReportProviders[def.Code]; ok {
			_ = r.RegisterProvider(def.Code, provider)
		}
	}
}

// ApplyHooks executes registered report hooks.
func (r *Registry) ApplyHooks() error {
	globalHookMu.Lock()
	defer globalHookMu.Unlock()
	for _, hook := range globalHooks {
		if err := hook(r); err != nil {
			return err
		}
	}
	return nil
}

// RegisterDefinition stores report metadata.
func (r *Registry) RegisterDefinition(def ReportDefinition) error {
	if def.Code == "" {
		return fmt.Errorf("insights: report definition code is required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.definitions[def.Code] = def
	return nil
}

// RegisterProvider associates a provider implementation with a definition.
func (r *Registry) RegisterProvider(code string, provider ReportProvider) error {
	if code == "" {
		return fmt.Errorf("insights: report code is required to register provider")
	}
	if provider == nil {
		return fmt.Errorf("insights: provider cannot be nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.definitions[code]; !ok {
		return fmt.Errorf("insights: report definition %s not found", code)
	}
	r.providers[code] = provider
	return nil
}

// Definition fetches a report definition by code.
func (r *Registry) Definition(code string) (ReportDefinition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.definitions[code]
	return def, ok
}

// Provider fetches a report provider by code.
func (r *Registry) Provider(code string) (ReportProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[code]
	return provider, ok
}

// Definitions returns all registered definitions.
func (r *Registry) Definitions() []ReportDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]ReportDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		defs = append(defs, def)
	}
	return defs
}

// ValidateConfig checks a report configuration against its schema.
func (r *Registry) ValidateConfig(code string, config map[string]any) error {
	def, ok := r.Definition(code)
	if !ok {
		return fmt.Errorf("insights: unknown report %s", code)
	}
	return r.validator.Validate(def, config)
}
