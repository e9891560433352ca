package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveAction(t *testing.T) {
	m := New()

	m.ObserveAction("MARK_PROJECT_PAID", true, 2*time.Millisecond)
	m.ObserveAction("MARK_PROJECT_PAID", false, time.Millisecond)
	m.ObserveAction("MARK_PROJECT_PAID", false, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("MARK_PROJECT_PAID", "true")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.actions.WithLabelValues("MARK_PROJECT_PAID", "false")))
	require.Equal(t, 1, testutil.CollectAndCount(m.actionDuration))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/projects/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/projects/42", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTeapot, rec.Code)
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/projects/{id}", "418")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
}

func TestMiddleware_UnmatchedRoutesShareOneLabel(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {})

	for _, path := range []string{"/wp-login.php", "/.env", "/admin/config"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	require.Equal(t, 3.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "unmatched", "404")))
	require.Equal(t, 1, testutil.CollectAndCount(m.httpRequests))
}

func TestMiddleware_ImplicitOKAndFlush(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/stream", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("data"))
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)
		flusher.Flush()
	})
	r.Get("/empty", func(http.ResponseWriter, *http.Request) {})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stream", nil))
	require.True(t, rec.Flushed)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/empty", nil))

	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/stream", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/empty", "200")))
}

func TestHandler_ServesRegistry(t *testing.T) {
	m := New()
	m.ObserveAction("ADD_CLIENT", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `gigboard_store_actions_total{changed="true",kind="ADD_CLIENT"} 1`))
}
