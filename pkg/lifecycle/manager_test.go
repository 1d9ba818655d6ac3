package lifecycle

import (
	"context"
	"net/http"
	"testing"
	"time"

	"evalhq/hermes/pkg/bridge"
	"evalhq/hermes/pkg/config"
	"evalhq/hermes/pkg/registry"
)

func engineModule() *registry.Module {
	return registry.NewModule("app.main").Export("app",
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}))
}

func TestManagerStartPublishesClient(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(engineModule())

	m := NewManager(config.BridgeConfig{Timeout: time.Second}, reg)
	if m.Ready() {
		t.Fatal("manager should not be ready before Start")
	}

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	client, ok := m.Client()
	if !ok {
		t.Fatal("Client() should return the published client")
	}
	if client.Strategy() == "" {
		t.Error("published client should carry the winning strategy name")
	}

	result, err := client.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() through published client failed: %v", err)
	}
	if result["status"] != "ok" {
		t.Errorf("Ping() = %v", result)
	}

	if _, ok := m.Handler(); !ok {
		t.Error("Handler() should return the raw engine handler after Start")
	}
}

func TestManagerStartFailureIsDegradedNotFatal(t *testing.T) {
	m := NewManager(config.BridgeConfig{Timeout: time.Second}, registry.New())

	err := m.Start(context.Background())
	if err == nil {
		t.Fatal("Start() should fail with an empty registry")
	}
	if bridge.KindOf(err) != bridge.KindResolution {
		t.Errorf("kind = %q, want %q", bridge.KindOf(err), bridge.KindResolution)
	}

	if m.Ready() {
		t.Error("manager must not be ready after a failed start")
	}
	if _, ok := m.Client(); ok {
		t.Error("Client() must report absence after a failed start")
	}
	if _, ok := m.Handler(); ok {
		t.Error("Handler() must report absence after a failed start")
	}
	if m.LastError() == nil {
		t.Error("LastError() should retain the startup failure")
	}

	// Stop in the degraded state must be a clean no-op.
	if err := m.Stop(); err != nil {
		t.Errorf("Stop() in degraded state error = %v", err)
	}
}

func TestManagerStartRunsOnce(t *testing.T) {
	reg := registry.New()
	m := NewManager(config.BridgeConfig{Timeout: time.Second}, reg)

	if err := m.Start(context.Background()); err == nil {
		t.Fatal("first Start() should fail")
	}

	// Registering the module afterwards must not change the outcome:
	// there is no re-resolution mid-flight.
	reg.MustRegister(engineModule())
	if err := m.Start(context.Background()); err == nil {
		t.Error("second Start() should replay the recorded failure")
	}
	if m.Ready() {
		t.Error("manager must not resolve again after the first Start")
	}
}

func TestManagerStopIsIdempotent(t *testing.T) {
	reg := registry.New()
	reg.MustRegister(engineModule())

	m := NewManager(config.BridgeConfig{Timeout: time.Second}, reg)
	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := m.Stop(); err != nil {
		t.Errorf("first Stop() error = %v", err)
	}
	if err := m.Stop(); err != nil {
		t.Errorf("second Stop() error = %v", err)
	}
}
