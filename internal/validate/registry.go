package validate

import (
	"sort"

	"github.com/ppiankov/clearview/internal/model"
	"github.com/ppiankov/clearview/internal/validate/sources"
)

// Registry maps source names to their adapters
type Registry struct {
	sources map[string]sources.Source
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]sources.Source)}
}

// Register adds a source, replacing any previous adapter with the same name
func (r *Registry) Register(s sources.Source) {
	r.sources[s.Name()] = s
}

// Get returns the adapter for a source name
func (r *Registry) Get(name string) (sources.Source, bool) {
	s, ok := r.sources[name]
	return s, ok
}

// Names returns the registered source names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry wires up all built-in data sources
func DefaultRegistry(httpCfg model.HTTPConfig, rateCfg model.RateLimitConfig, fredAPIKey, eiaAPIKey string) *Registry {
	limiter := newSharedLimiter(rateCfg)
	// The Comtrade preview API throttles aggressively
	limiter.SetDomainRate("comtradeapi.un.org", 1, 1)
	client := sources.NewClient(httpCfg, limiter)

	r := NewRegistry()
	r.Register(sources.NewFRED(client, fredAPIKey))
	r.Register(sources.NewWorldBank(client))
	r.Register(sources.NewCommodity(client))
	r.Register(sources.NewComtrade(client))
	r.Register(sources.NewRESTCountries(client))
	r.Register(sources.NewEIA(client, eiaAPIKey))
	r.Register(sources.NewEurostat(client))
	return r
}
