package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func TestPrometheusRecordsRequests(t *testing.T) {
	registry := prometheus.NewRegistry()

	r := chi.NewRouter()
	r.Use(Prometheus(WithRegistry(registry), WithNamespace("testns")))
	r.Get("/displays/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/displays/abc", nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
	}

	metricsReq := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP(metricsRec, metricsReq)

	body := metricsRec.Body.String()
	if !strings.Contains(body, `testns_http_requests_total{method="GET",route="/displays/{id}",status="200"} 3`) {
		t.Errorf("requests_total not recorded with route pattern:\n%s", body)
	}
	if !strings.Contains(body, "testns_http_request_duration_seconds") {
		t.Error("request duration histogram missing")
	}
}

func TestStatusWriterDefaultsTo200(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec}
	sw.Write([]byte("ok"))
	if sw.status != http.StatusOK {
		t.Errorf("implicit status: got %d", sw.status)
	}
}

func TestOpenTelemetryPassesThrough(t *testing.T) {
	var called bool
	h := OpenTelemetry()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if !called {
		t.Fatal("handler not called")
	}
	if rec.Code != http.StatusAccepted {
		t.Errorf("status: got %d", rec.Code)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	h := OpenTelemetry(WithRequestFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, "/healthz")
	}))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("filtered request: got %d", rec.Code)
	}
}
