package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestProviderMetrics(t *testing.T) {
	Convey("Given a metrics manager", t, func() {
		m := NewManager()

		Convey("When provider attempts and fallbacks are observed", func() {
			m.ObserveProviderCall("openai", "mentor", nil, 120*time.Millisecond)
			m.ObserveProviderCall("openai", "mentor", errors.New("boom"), time.Second)
			m.ObserveProviderCall("gemini", "mentor", errors.New("boom"), time.Second)
			m.ObserveFallback("mentor")

			Convey("Then the counters reflect each outcome", func() {
				So(testutil.ToFloat64(m.providerCalls.WithLabelValues("openai", "mentor", OutcomeSuccess)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.providerCalls.WithLabelValues("openai", "mentor", OutcomeError)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.providerCalls.WithLabelValues("gemini", "mentor", OutcomeError)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.fallbacks.WithLabelValues("mentor")), ShouldEqual, 1)
			})
		})
	})
}

func TestHTTPMiddleware(t *testing.T) {
	Convey("Given a router instrumented with the middleware", t, func() {
		m := NewManager()
		r := chi.NewRouter()
		r.Use(m.Middleware)
		r.Get("/api/projects/{id}", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		r.Get("/metrics", m.Handler().ServeHTTP)

		Convey("When a parameterised route is hit", func() {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/projects/7", nil))

			Convey("Then the request is labelled by its route pattern", func() {
				c := m.httpRequests.WithLabelValues("/api/projects/{id}", http.MethodGet, "404")
				So(testutil.ToFloat64(c), ShouldEqual, 1)
			})

			Convey("Then the exposition endpoint lists the metric", func() {
				rec := httptest.NewRecorder()
				r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(strings.Contains(rec.Body.String(), "dataprosim_http_requests_total"), ShouldBeTrue)
			})
		})
	})
}
