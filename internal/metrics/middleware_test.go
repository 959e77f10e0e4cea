package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func entityRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Route("/entities", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("[]"))
		})
		r.Post("/{type}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
		})
		r.Post("/{type}/find", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("[]"))
		})
	})
	r.Post("/collections/{collection}/count", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	})
	return r
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	h := entityRouter()

	tests := []struct {
		method string
		path   string
		route  string
		status string
	}{
		{http.MethodGet, "/entities", "/entities", "200"},
		{http.MethodGet, "/entities/", "/entities", "200"},
		{http.MethodPost, "/entities/user", "/entities/{type}", "201"},
		{http.MethodPost, "/entities/order/find", "/entities/{type}/find", "200"},
		{http.MethodPost, "/collections/audit/count", "/collections/{collection}/count", "422"},
	}
	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			c := httpRequestsTotal.WithLabelValues(tc.method, tc.route, tc.status)
			before := testutil.ToFloat64(c)

			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tc.method, tc.path, http.NoBody))

			if got := testutil.ToFloat64(c) - before; got != 1 {
				t.Errorf("requests_total{%s %s %s} grew by %v, want 1", tc.method, tc.route, tc.status, got)
			}
		})
	}

	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
	if v := testutil.ToFloat64(httpRequestsInFlight); v != 0 {
		t.Errorf("in-flight should return to 0, got %v", v)
	}
}

func TestMiddleware_UnknownPathsShareOneSeries(t *testing.T) {
	h := entityRouter()
	c := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	before := testutil.ToFloat64(c)

	for _, p := range []string{"/nope", "/entities/user/find/extra", "/collections"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, http.NoBody))
	}

	if got := testutil.ToFloat64(c) - before; got != 3 {
		t.Errorf("unmatched series grew by %v, want 3", got)
	}
}

func TestMiddleware_WithoutRouter(t *testing.T) {
	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	c := httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "204")
	before := testutil.ToFloat64(c)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("grew by %v, want 1", got)
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", unmatchedRoute},
		{"/entities/*", unmatchedRoute},
		{"/", "/"},
		{"/entities/", "/entities"},
		{"/collections/{collection}/count", "/collections/{collection}/count"},
	}
	for _, tc := range tests {
		if got := normalizeRoute(tc.input); got != tc.expected {
			t.Errorf("normalizeRoute(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestStoreMetrics_Labels(t *testing.T) {
	StoreOperationsTotal.WithLabelValues("users", "insertOne", "ok").Inc()
	ValidationFailuresTotal.WithLabelValues("users", "UNIQUE").Inc()

	if v := testutil.ToFloat64(StoreOperationsTotal.WithLabelValues("users", "insertOne", "ok")); v < 1 {
		t.Errorf("expected store_operations_total >= 1, got %f", v)
	}
	if v := testutil.ToFloat64(ValidationFailuresTotal.WithLabelValues("users", "UNIQUE")); v < 1 {
		t.Errorf("expected validation_failures_total >= 1, got %f", v)
	}
}

func TestRegisterStoreMetrics_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			RegisterStoreMetrics()
		}()
	}
	wg.Wait()

	err := prometheus.Register(StoreOperationsTotal)
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		t.Fatalf("expected collector on the default registry, got %v", err)
	}
}

func TestRegisterStoreMetricsOn_Reuse(t *testing.T) {
	reg := prometheus.NewRegistry()
	if err := RegisterStoreMetricsOn(reg); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := RegisterStoreMetricsOn(reg); err != nil {
		t.Fatalf("second register should reuse collectors: %v", err)
	}
}
