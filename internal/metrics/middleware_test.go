package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/organizations/{id}/cache/invalidate", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"org-1", "org-2"} {
		req := httptest.NewRequest(http.MethodPost, "/organizations/"+id+"/cache/invalidate", http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rr.Code)
		}
	}

	// Both ids collapse into one label set.
	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(
		http.MethodPost, "/organizations/{id}/cache/invalidate", "204"))
	if val < 2 {
		t.Errorf("http_requests_total = %f, want >= 2", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected http_request_duration_seconds observations")
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in flight = %f after requests finished", got)
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("q") {
		case "":
			w.WriteHeader(http.StatusBadRequest)
		case "down":
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte("[]"))
		}
	})

	tests := []struct {
		query  string
		status string
	}{
		{"", "400"},
		{"down", "503"},
		{"router", "200"},
	}
	for _, tc := range tests {
		t.Run(tc.status, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/search?q="+tc.query, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/search", tc.status))
			if val < 1 {
				t.Errorf("http_requests_total{status=%s} = %f", tc.status, val)
			}
		})
	}
}

func TestMiddleware_SkipsPaths(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware("/metrics"))
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# scrape"))
	})

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")); val != 0 {
		t.Errorf("skipped path recorded: %f", val)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/search", "/search"},
		{"/organizations/{id}/cache/invalidate", "/organizations/{id}/cache/invalidate"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}

func TestRegisterSearchMetrics_Idempotent(t *testing.T) {
	RegisterSearchMetrics()
	RegisterSearchMetrics()
}
