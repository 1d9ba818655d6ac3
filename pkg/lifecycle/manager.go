package lifecycle

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"

	"evalhq/hermes/pkg/bridge"
	"evalhq/hermes/pkg/config"
	"evalhq/hermes/pkg/registry"
	"evalhq/hermes/pkg/resolve"
)

// Manager resolves the engine handler once and publishes the bridge client
// for the process lifetime. All methods are safe for concurrent use; after
// publication the client is only ever read.
type Manager struct {
	cfg    config.BridgeConfig
	reg    *registry.Registry
	logger *slog.Logger

	client   atomic.Pointer[bridge.Client]
	stopOnce sync.Once

	mu      sync.Mutex
	handler http.Handler
	lastErr error
	started bool
}

// NewManager creates a manager over the given registry with the bridge
// configuration.
func NewManager(cfg config.BridgeConfig, reg *registry.Registry) *Manager {
	return &Manager{
		cfg:    cfg,
		reg:    reg,
		logger: slog.Default().With("component", "lifecycle"),
	}
}

// Start resolves the engine module, locates its handler, and publishes a
// bridge client bound to it. It runs at most once: subsequent calls are
// no-ops returning the recorded outcome. A returned error means the bridge
// is degraded, not that the process should exit.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return m.lastErr
	}
	m.started = true

	if err := ctx.Err(); err != nil {
		m.lastErr = err
		return err
	}

	resolver := resolve.NewResolver(m.reg, resolve.ResolverConfig{
		Override:   m.cfg.ImportPath,
		Candidates: m.cfg.Candidates,
	})

	module, candidate, err := resolver.Resolve()
	if err != nil {
		m.logger.Error("engine module resolution failed; bridge will run degraded",
			"error", err,
		)
		m.lastErr = err
		return err
	}

	handler, strategyName, err := resolve.NewLocator(m.reg, m.cfg.Target).Locate(module)
	if err != nil {
		m.logger.Error("engine handler location failed; bridge will run degraded",
			"module", module.Name(),
			"error", err,
		)
		m.lastErr = err
		return err
	}

	client := bridge.NewClient(handler, bridge.ClientConfig{
		BaseURL:  m.cfg.BaseURL,
		Timeout:  m.cfg.Timeout,
		Strategy: strategyName,
	})
	m.client.Store(client)
	m.handler = handler
	m.lastErr = nil

	m.logger.Info("bridge client initialised",
		"module", candidate,
		"strategy", strategyName,
		"timeout", m.cfg.Timeout.String(),
	)
	return nil
}

// Client returns the published bridge client. The second return value is
// false while the bridge is degraded (startup failed or Start not called).
func (m *Manager) Client() (*bridge.Client, bool) {
	c := m.client.Load()
	return c, c != nil
}

// Handler returns the raw engine handler for direct mounting, bypassing the
// client's envelope and timeout machinery. The second return value is false
// while the bridge is degraded.
func (m *Manager) Handler() (http.Handler, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handler, m.handler != nil
}

// Ready reports whether a client has been published.
func (m *Manager) Ready() bool {
	return m.client.Load() != nil
}

// LastError returns the startup failure, if any.
func (m *Manager) LastError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Stop releases the client's transport resources exactly once. Additional
// calls are no-ops, and stopping a manager that never published a client is
// not an error. In-flight dispatches are not interrupted; they complete or
// time out naturally.
func (m *Manager) Stop() error {
	var err error
	m.stopOnce.Do(func() {
		client := m.client.Load()
		if client == nil {
			m.logger.Debug("stop: no bridge client to release")
			return
		}
		err = client.Close()
		m.logger.Info("bridge client shut down")
	})
	return err
}
