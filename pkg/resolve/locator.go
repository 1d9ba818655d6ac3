package resolve

import (
	"log/slog"
	"net/http"
	"strings"

	"evalhq/hermes/pkg/bridge"
	"evalhq/hermes/pkg/registry"
)

// wellKnownTargets are conventional handler locations tried after the
// explicit and default targets.
var wellKnownTargets = []string{"app.main:app", "app:app"}

// factoryNames are zero-argument factory exports probed as a last resort.
var factoryNames = []string{"create_app", "build_app", "get_app"}

// strategy is one named probe for a handler. Probes are pure: a failed probe
// leaves no state behind and the search simply continues.
type strategy struct {
	name   string
	locate func(l *Locator, m *registry.Module) (http.Handler, bool)
}

// strategies is the fixed probe order. The first strategy producing a valid
// handler wins.
var strategies = []strategy{
	{"explicit-target", (*Locator).fromExplicitTarget},
	{"default-target", (*Locator).fromDefaultTarget},
	{"well-known-target", (*Locator).fromWellKnownTargets},
	{"attribute-scan", (*Locator).fromAttributeScan},
	{"factory", (*Locator).fromFactory},
}

// Locator extracts a usable engine handler from a resolved module.
type Locator struct {
	reg    *registry.Registry
	target string
	logger *slog.Logger
}

// NewLocator creates a locator. target, when non-empty, is an explicit
// "<module>:<attribute>" override evaluated independently of the resolved
// module.
func NewLocator(reg *registry.Registry, target string) *Locator {
	return &Locator{
		reg:    reg,
		target: strings.TrimSpace(target),
		logger: slog.Default().With("component", "resolve.locator"),
	}
}

// Locate returns the first handler produced by the strategy chain, along
// with the name of the winning strategy. When no strategy succeeds, the
// error names every attempted strategy in order.
func (l *Locator) Locate(m *registry.Module) (http.Handler, string, error) {
	attempted := make([]string, 0, len(strategies))

	for _, s := range strategies {
		attempted = append(attempted, s.name)
		handler, ok := s.locate(l, m)
		if !ok {
			l.logger.Debug("locator strategy produced no handler",
				"strategy", s.name,
				"module", m.Name(),
			)
			continue
		}
		l.logger.Info("engine handler located",
			"strategy", s.name,
			"module", m.Name(),
		)
		return handler, s.name, nil
	}

	return nil, "", bridge.NewResolutionError(
		"no usable engine handler in module "+m.Name(), attempted, nil)
}

// fromExplicitTarget resolves the configured "<module>:<attribute>" target.
func (l *Locator) fromExplicitTarget(_ *registry.Module) (http.Handler, bool) {
	if l.target == "" {
		return nil, false
	}
	return l.fromTarget(l.target)
}

// fromDefaultTarget tries "<resolved module>:app".
func (l *Locator) fromDefaultTarget(m *registry.Module) (http.Handler, bool) {
	return l.fromTarget(m.Name() + ":app")
}

// fromWellKnownTargets tries the fixed conventional locations.
func (l *Locator) fromWellKnownTargets(_ *registry.Module) (http.Handler, bool) {
	for _, target := range wellKnownTargets {
		if handler, ok := l.fromTarget(target); ok {
			return handler, true
		}
	}
	return nil, false
}

// fromTarget resolves a single "<module>:<attribute>" reference against the
// registry.
func (l *Locator) fromTarget(target string) (http.Handler, bool) {
	moduleName, attr, ok := strings.Cut(target, ":")
	if !ok || moduleName == "" || attr == "" {
		return nil, false
	}

	module, err := l.reg.Load(moduleName)
	if err != nil {
		return nil, false
	}

	value, ok := module.Lookup(attr)
	if !ok {
		return nil, false
	}
	return asHandler(value)
}

// fromAttributeScan inspects the module's exports directly: the conventional
// "app" export first, then every export in insertion order. Names with a "_"
// prefix are treated as private and skipped. Non-callable matches are
// rejected silently and the scan continues.
func (l *Locator) fromAttributeScan(m *registry.Module) (http.Handler, bool) {
	if value, ok := m.Lookup("app"); ok {
		if handler, ok := asHandler(value); ok {
			return handler, true
		}
	}

	for _, name := range m.Exports() {
		if strings.HasPrefix(name, "_") {
			continue
		}
		value, _ := m.Lookup(name)
		if handler, ok := asHandler(value); ok {
			return handler, true
		}
	}
	return nil, false
}

// fromFactory invokes zero-argument factories from the fixed name list.
// Factories that return an error, panic, or yield something that is not
// handler-shaped are discarded and the next name is tried.
func (l *Locator) fromFactory(m *registry.Module) (http.Handler, bool) {
	for _, name := range factoryNames {
		value, ok := m.Lookup(name)
		if !ok {
			continue
		}

		candidate, err := l.invokeFactory(name, m.Name(), value)
		if err != nil {
			l.logger.Debug("engine factory failed",
				"factory", name,
				"module", m.Name(),
				"error", err,
			)
			continue
		}
		if handler, ok := asHandler(candidate); ok {
			return handler, true
		}
	}
	return nil, false
}

// invokeFactory calls one factory export, converting a panic into an error.
func (l *Locator) invokeFactory(name, module string, value any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &factoryPanicError{factory: name, module: module, value: r}
		}
	}()

	switch f := value.(type) {
	case func() (http.Handler, error):
		return f()
	case func() http.Handler:
		return f(), nil
	case func() (any, error):
		return f()
	case func() any:
		return f(), nil
	default:
		return nil, &notAFactoryError{factory: name}
	}
}

type factoryPanicError struct {
	factory string
	module  string
	value   any
}

func (e *factoryPanicError) Error() string {
	return "factory " + e.factory + " in module " + e.module + " panicked"
}

type notAFactoryError struct {
	factory string
}

func (e *notAFactoryError) Error() string {
	return "export " + e.factory + " is not a zero-argument factory"
}

// asHandler reports whether a module export is shaped like an engine
// handler: anything invocable through the in-process transport's calling
// convention.
func asHandler(value any) (http.Handler, bool) {
	switch v := value.(type) {
	case http.Handler:
		if v == nil {
			return nil, false
		}
		return v, true
	case func(http.ResponseWriter, *http.Request):
		if v == nil {
			return nil, false
		}
		return http.HandlerFunc(v), true
	default:
		return nil, false
	}
}
