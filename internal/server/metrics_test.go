package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agbru/sqfree/internal/logging"
	"github.com/agbru/sqfree/internal/metrics"
)

// TestNewMetrics tests the Metrics constructor.
func TestNewMetrics(t *testing.T) {
	m := NewMetrics(nil)

	if m == nil {
		t.Fatal("NewMetrics returned nil")
	}
	if m.handler == nil {
		t.Error("Metrics.handler should be initialized")
	}
	if m.Registry() == nil {
		t.Error("Metrics.Registry should not be nil")
	}
}

// TestMetrics_IncrementDecrementActiveRequests tests the active requests gauge.
func TestMetrics_IncrementDecrementActiveRequests(t *testing.T) {
	m := NewMetrics(nil)

	m.IncrementActiveRequests()
	m.IncrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 2 {
		t.Errorf("active requests = %v, want 2", got)
	}

	m.DecrementActiveRequests()
	if got := testutil.ToFloat64(m.activeRequests); got != 1 {
		t.Errorf("active requests = %v, want 1", got)
	}
}

// TestMetrics_WritePrometheus tests the Prometheus metrics endpoint.
func TestMetrics_WritePrometheus(t *testing.T) {
	reg := metrics.NewRegistry()
	rec := metrics.NewRecorder(reg)
	rec.ObserveBatch(128)
	m := NewMetrics(reg)

	m.IncrementActiveRequests()
	defer m.DecrementActiveRequests()

	req := httptest.NewRequest("GET", "/metrics", http.NoBody)
	w := httptest.NewRecorder()

	m.WritePrometheus(w, req)

	body := w.Body.String()

	t.Run("Contains active requests metric", func(t *testing.T) {
		if !strings.Contains(body, "sqfree_active_requests 1") {
			t.Error("metrics output should contain sqfree_active_requests")
		}
	})

	t.Run("Contains sampling metrics", func(t *testing.T) {
		if !strings.Contains(body, "sqfree_trials_total 128") {
			t.Error("metrics output should contain sqfree_trials_total")
		}
	})

	t.Run("Contains Go runtime metrics", func(t *testing.T) {
		if !strings.Contains(body, "go_") {
			t.Error("metrics output should contain Go runtime metrics")
		}
	})
}

// TestServer_metricsMiddleware tests the metrics tracking middleware.
func TestServer_metricsMiddleware(t *testing.T) {
	t.Run("Next handler is called", func(t *testing.T) {
		s := &Server{metrics: NewMetrics(nil)}

		nextCalled := false
		next := func(w http.ResponseWriter, r *http.Request) {
			nextCalled = true
			w.WriteHeader(http.StatusOK)
		}

		handler := s.metricsMiddleware(next)
		req := httptest.NewRequest("GET", "/test", http.NoBody)
		rec := httptest.NewRecorder()

		handler(rec, req)

		if !nextCalled {
			t.Error("next handler was not called")
		}
	})

	t.Run("Requests are counted by status", func(t *testing.T) {
		s := &Server{metrics: NewMetrics(nil)}

		next := func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}

		handler := s.metricsMiddleware(next)
		for range 3 {
			handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/test", http.NoBody))
		}

		got := testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/test", "418"))
		if got != 3 {
			t.Errorf("requests_total{path=/test,code=418} = %v, want 3", got)
		}
		if active := testutil.ToFloat64(s.metrics.activeRequests); active != 0 {
			t.Errorf("active requests = %v after completion, want 0", active)
		}
	})

	t.Run("Implicit 200 is recorded", func(t *testing.T) {
		s := &Server{metrics: NewMetrics(nil)}
		handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("ok"))
		})
		handler(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok", http.NoBody))

		if got := testutil.ToFloat64(s.metrics.requestsTotal.WithLabelValues("/ok", "200")); got != 1 {
			t.Errorf("requests_total{code=200} = %v, want 1", got)
		}
	})
}

// TestServer_handleMetrics tests the /metrics endpoint handler.
func TestServer_handleMetrics(t *testing.T) {
	t.Run("GET returns metrics", func(t *testing.T) {
		s := &Server{metrics: NewMetrics(nil)}

		req := httptest.NewRequest("GET", "/metrics", http.NoBody)
		rec := httptest.NewRecorder()

		s.handleMetrics(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "sqfree_") {
			t.Error("response should contain sqfree metrics")
		}
	})

	for _, method := range []string{"POST", "PUT", "DELETE"} {
		t.Run(method+" returns method not allowed", func(t *testing.T) {
			s := &Server{
				metrics: NewMetrics(nil),
				logger:  newTestLogger(),
			}

			req := httptest.NewRequest(method, "/metrics", http.NoBody)
			rec := httptest.NewRecorder()

			s.handleMetrics(rec, req)

			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
			}
		})
	}
}

// TestServer_handleHealth tests the /healthz endpoint handler.
func TestServer_handleHealth(t *testing.T) {
	s := &Server{
		metrics: NewMetrics(nil),
		logger:  newTestLogger(),
		health: func() Health {
			return Health{Status: "ok", State: "running", N: "1000000", Done: 512, Total: 1000}
		},
	}

	rec := httptest.NewRecorder()
	s.handleHealth(rec, httptest.NewRequest("GET", "/healthz", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var got Health
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.State != "running" || got.Done != 512 || got.Total != 1000 {
		t.Errorf("health = %+v", got)
	}
}

// TestServer_StartShutdown serves a real listener end to end.
func TestServer_StartShutdown(t *testing.T) {
	s := New("127.0.0.1:0", nil, WithLogger(newTestLogger()))
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("healthz = %d %s", resp.StatusCode, body)
	}
	if resp.Header.Get("X-Frame-Options") != "DENY" {
		t.Error("security headers should be applied to routed handlers")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestServer_StartBindError(t *testing.T) {
	s := New("256.0.0.1:bad", nil, WithLogger(newTestLogger()))
	if err := s.Start(); err == nil {
		t.Error("expected bind error")
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown before a successful Start: %v", err)
	}
}

// testLogger is a minimal logger for testing that implements logging.Logger.
type testLogger struct{}

func newTestLogger() *testLogger                                  { return &testLogger{} }
func (l *testLogger) Info(_ string, _ ...logging.Field)           {}
func (l *testLogger) Error(_ string, _ error, _ ...logging.Field) {}
func (l *testLogger) Debug(_ string, _ ...logging.Field)          {}
func (l *testLogger) Printf(_ string, _ ...any)                   {}
func (l *testLogger) Println(_ ...any)                            {}
