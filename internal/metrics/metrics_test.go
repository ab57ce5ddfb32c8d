package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/prices/{region}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	for _, region := range []string{"texas", "ohio"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/prices/"+region, nil))
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/prices/{region}", "418"))
	if got != 2 {
		t.Errorf("expected 2 requests under the route pattern, got %v", got)
	}
}

func TestMiddlewareLabelsUnmatchedRoutes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedPath, "404"))
	for _, path := range []string{"/random-a", "/random-b", "/x/y/z"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, unmatchedPath, "404"))
	if got-before != 3 {
		t.Errorf("expected 3 unmatched requests, got %v", got-before)
	}
	if n := testutil.CollectAndCount(httpRequestsTotal, "fuelstops_http_requests_total"); n == 0 {
		t.Fatal("no request series collected")
	}
	for _, path := range []string{"/random-a", "/random-b", "/x/y/z"} {
		if v := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, path, "404")); v != 0 {
			t.Errorf("raw path %q became a label", path)
		}
	}
}

func TestHandler(t *testing.T) {
	CacheHits.WithLabelValues("geocode").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), `fuelstops_cache_hits_total{cache="geocode"}`) {
		t.Error("cache hit counter missing from metrics output")
	}
}
