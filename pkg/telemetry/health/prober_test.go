package health

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"evalhq/hermes/pkg/config"
	"evalhq/hermes/pkg/lifecycle"
	"evalhq/hermes/pkg/registry"
)

type recorderStub struct {
	mu   sync.Mutex
	last *bool
}

func (r *recorderStub) SetEngineUp(up bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = &up
}

func (r *recorderStub) value(t *testing.T) bool {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		t.Fatal("no probe outcome recorded")
	}
	return *r.last
}

func managerWith(t *testing.T, engine http.Handler) *lifecycle.Manager {
	t.Helper()
	reg := registry.New()
	reg.MustRegister(registry.NewModule("app.main").Export("app", engine))
	mgr := lifecycle.NewManager(config.BridgeConfig{Timeout: time.Second}, reg)
	if err := mgr.Start(t.Context()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = mgr.Stop() })
	return mgr
}

func TestRunOnceHealthyEngine(t *testing.T) {
	engine := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	rec := &recorderStub{}
	p := NewProber(managerWith(t, engine), config.HealthConfig{}, rec)

	if !p.RunOnce(context.Background()) {
		t.Fatal("RunOnce() = false for a healthy engine")
	}
	if !rec.value(t) {
		t.Error("recorder should see the engine up")
	}
}

func TestRunOnceFailingEngine(t *testing.T) {
	engine := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unwell", http.StatusInternalServerError)
	})
	rec := &recorderStub{}
	p := NewProber(managerWith(t, engine), config.HealthConfig{}, rec)

	if p.RunOnce(context.Background()) {
		t.Fatal("RunOnce() = true for a failing engine")
	}
	if rec.value(t) {
		t.Error("recorder should see the engine down")
	}
}

func TestRunOnceDegradedBridge(t *testing.T) {
	mgr := lifecycle.NewManager(config.BridgeConfig{Timeout: time.Second}, registry.New())
	_ = mgr.Start(t.Context())

	rec := &recorderStub{}
	p := NewProber(mgr, config.HealthConfig{}, rec)

	if p.RunOnce(context.Background()) {
		t.Fatal("RunOnce() = true with no published client")
	}
	if rec.value(t) {
		t.Error("recorder should see the engine down while degraded")
	}
}

func TestStartValidatesSchedule(t *testing.T) {
	mgr := lifecycle.NewManager(config.BridgeConfig{Timeout: time.Second}, registry.New())
	_ = mgr.Start(t.Context())

	t.Run("empty schedule is a no-op", func(t *testing.T) {
		p := NewProber(mgr, config.HealthConfig{}, &recorderStub{})
		if err := p.Start(); err != nil {
			t.Errorf("Start() error = %v", err)
		}
		p.Stop()
	})

	t.Run("bad expression", func(t *testing.T) {
		p := NewProber(mgr, config.HealthConfig{ProbeSchedule: "not a cron spec"}, &recorderStub{})
		if err := p.Start(); err == nil {
			t.Error("Start() should reject an invalid schedule")
		}
	})

	t.Run("valid expression", func(t *testing.T) {
		p := NewProber(mgr, config.HealthConfig{ProbeSchedule: "@every 1h"}, &recorderStub{})
		if err := p.Start(); err != nil {
			t.Errorf("Start() error = %v", err)
		}
		p.Stop()
	})
}
