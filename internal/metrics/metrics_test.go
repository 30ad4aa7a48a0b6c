package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddlewareLabelsByPattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /workouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Middleware(mux)

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "GET /workouts/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/workouts/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "GET /workouts/{id}", "418"))

	if after-before != 2 {
		t.Errorf("expected 2 requests counted under the route pattern, got %v", after-before)
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	FeaturedImported(3)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "fitfam_featured_workouts_imported_total") {
		t.Error("metrics output is missing the featured import counter")
	}
}
