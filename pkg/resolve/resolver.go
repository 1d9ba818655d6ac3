package resolve

import (
	"log/slog"
	"sort"
	"strings"

	"evalhq/hermes/pkg/bridge"
	"evalhq/hermes/pkg/registry"
)

// DefaultCandidates is the conventional fallback order for engine module
// names, tried after any explicit override. The order is a configuration
// decision and is preserved exactly; resolution is strictly first-match.
var DefaultCandidates = []string{
	"app.main",
	"app",
	"deepeval_wrapper.app.main",
	"deepeval_wrapper.api",
}

// ResolverConfig configures module resolution.
type ResolverConfig struct {
	// Override is an explicit module name tried before all other
	// candidates. Empty means no override.
	Override string

	// Candidates replaces the conventional fallback list when non-empty.
	Candidates []string
}

// Resolver locates a loadable engine module by walking an ordered candidate
// list.
type Resolver struct {
	reg        *registry.Registry
	candidates []string
	logger     *slog.Logger
}

// NewResolver creates a resolver over the given registry.
func NewResolver(reg *registry.Registry, cfg ResolverConfig) *Resolver {
	fallbacks := cfg.Candidates
	if len(fallbacks) == 0 {
		fallbacks = DefaultCandidates
	}

	var candidates []string
	if cfg.Override != "" {
		candidates = append(candidates, cfg.Override)
	}
	for _, name := range fallbacks {
		if name != cfg.Override {
			candidates = append(candidates, name)
		}
	}

	return &Resolver{
		reg:        reg,
		candidates: candidates,
		logger:     slog.Default().With("component", "resolve.resolver"),
	}
}

// Candidates returns the effective candidate order.
func (r *Resolver) Candidates() []string {
	out := make([]string, len(r.candidates))
	copy(out, r.candidates)
	return out
}

// Resolve returns the first candidate module that loads, along with the
// candidate name that succeeded. Later candidates are never consulted after
// a success. When every candidate fails, the error aggregates the attempted
// names in order and wraps the last load failure.
func (r *Resolver) Resolve() (*registry.Module, string, error) {
	var lastErr error

	for _, name := range r.candidates {
		module, err := r.reg.Load(name)
		if err != nil {
			r.logger.Debug("candidate module not loadable", "candidate", name, "error", err)
			lastErr = err
			continue
		}
		r.logger.Info("engine module resolved", "candidate", name)
		return module, name, nil
	}

	// Name what is actually registered so a near-miss module name is
	// obvious from the error alone.
	msg := "unable to load engine module"
	if names := r.reg.Names(); len(names) > 0 {
		sort.Strings(names)
		msg += "; registered modules: " + strings.Join(names, ", ")
	}
	return nil, "", bridge.NewResolutionError(msg, r.candidates, lastErr)
}
