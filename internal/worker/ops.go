package worker

import (
	"net/http"

	chi "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewOpsHandler serves liveness, readiness and Prometheus metrics for the
// worker. Readiness turns green after the first successful sync.
func NewOpsHandler(w *SyncWorker) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	r.Get("/readyz", func(rw http.ResponseWriter, _ *http.Request) {
		if w.LastSync().IsZero() {
			http.Error(rw, "no successful sync yet", http.StatusServiceUnavailable)
			return
		}
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ready"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
