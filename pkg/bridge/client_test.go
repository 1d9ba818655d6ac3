package bridge

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestClientDispatchSuccess(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/evaluate/" {
			t.Errorf("path = %q, want /evaluate/", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decoding request body failed: %v", err)
		}
		if payload["input"] != "2+2" {
			t.Errorf("payload input = %v", payload["input"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"score": 1.0}`))
	})

	c := NewClient(handler, ClientConfig{})
	defer c.Close()

	result, err := c.Evaluate(context.Background(), map[string]any{
		"input":         "2+2",
		"actual_output": "4",
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result["score"] != 1.0 {
		t.Errorf("score = %v, want 1.0", result["score"])
	}
}

func TestClientTimeoutClassification(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})

	c := NewClient(handler, ClientConfig{Timeout: 30 * time.Millisecond})
	defer c.Close()

	_, err := c.Evaluate(context.Background(), map[string]any{"input": "slow"})
	if err == nil {
		t.Fatal("Evaluate() should fail on timeout")
	}
	if KindOf(err) != KindTimeout {
		t.Errorf("kind = %q, want %q", KindOf(err), KindTimeout)
	}
}

func TestClientTimeoutDoesNotAffectConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/evaluate/" {
			select {
			case <-release:
			case <-r.Context().Done():
			}
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	c := NewClient(handler, ClientConfig{Timeout: 50 * time.Millisecond})
	defer c.Close()

	var wg sync.WaitGroup

	// One call that will time out.
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := c.Evaluate(context.Background(), map[string]any{"input": "slow"})
		if KindOf(err) != KindTimeout {
			t.Errorf("slow call kind = %q, want %q", KindOf(err), KindTimeout)
		}
	}()

	// Several unrelated calls that must succeed regardless.
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := c.Ping(context.Background())
			if err != nil {
				t.Errorf("Ping() error = %v", err)
				return
			}
			if result["status"] != "ok" {
				t.Errorf("Ping() result = %v", result)
			}
		}()
	}

	wg.Wait()
}

func TestClientUpstreamErrorIncludesStatusAndBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("not found"))
	})

	c := NewClient(handler, ClientConfig{})
	defer c.Close()

	_, err := c.AvailableMetrics(context.Background())
	if err == nil {
		t.Fatal("AvailableMetrics() should fail on status 404")
	}
	if KindOf(err) != KindUpstream {
		t.Fatalf("kind = %q, want %q", KindOf(err), KindUpstream)
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("error %q should contain the status code", err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error %q should contain the body text", err)
	}
}

func TestClientUpstreamErrorBodyIsBounded(t *testing.T) {
	huge := strings.Repeat("x", maxErrorBodyBytes*2)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(huge))
	})

	c := NewClient(handler, ClientConfig{})
	defer c.Close()

	_, err := c.AvailableMetrics(context.Background())
	if err == nil {
		t.Fatal("expected upstream error")
	}
	if len(err.Error()) > maxErrorBodyBytes+256 {
		t.Errorf("error message length = %d, should be bounded", len(err.Error()))
	}
	if !strings.Contains(err.Error(), "truncated") {
		t.Errorf("bounded error %q should note the truncation", err.Error()[:80])
	}
}

func TestClientEmptyBodyNormalizesToEmptyResult(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := NewClient(handler, ClientConfig{})
	defer c.Close()

	result, err := c.DispatchJSON(context.Background(), http.MethodGet, "/metrics/", nil)
	if err != nil {
		t.Fatalf("DispatchJSON() error = %v", err)
	}
	if result == nil || len(result) != 0 {
		t.Errorf("result = %v, want empty map", result)
	}
}

func TestClientDecodeErrorOnMalformedBody(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>definitely not json</html>"))
	})

	c := NewClient(handler, ClientConfig{})
	defer c.Close()

	_, err := c.DispatchJSON(context.Background(), http.MethodGet, "/metrics/", nil)
	if err == nil {
		t.Fatal("DispatchJSON() should fail on a malformed body")
	}
	if KindOf(err) != KindDecode {
		t.Errorf("kind = %q, want %q", KindOf(err), KindDecode)
	}
}

func TestClientTransportFailureNamesMethodAndPath(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	c := NewClient(handler, ClientConfig{})
	defer c.Close()

	_, err := c.Evaluate(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("Evaluate() should fail when the handler panics")
	}
	if KindOf(err) != KindTransport {
		t.Errorf("kind = %q, want %q", KindOf(err), KindTransport)
	}
	if !strings.Contains(err.Error(), "POST") || !strings.Contains(err.Error(), "/evaluate/") {
		t.Errorf("error %q should name method and path", err)
	}
}
