package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_CountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/courses/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/courses/{id}", "418"))
	for _, id := range []string{"1", "2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/courses/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rr.Code)
	}
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "/courses/{id}", "418"))
	assert.Equal(t, 2.0, after-before)
}

func TestMiddleware_DefaultStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	before := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "200"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))
	after := testutil.ToFloat64(HTTPRequests.WithLabelValues(http.MethodGet, "unmatched", "200"))
	assert.Equal(t, 1.0, after-before)
}
