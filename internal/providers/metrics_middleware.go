package providers

import (
	"net/http"
	"time"
)

// statusRecorder remembers the first status code a handler commits.
type statusRecorder struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.code = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	rec.wroteHeader = true
	return rec.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// routeLabel is the mux pattern that served r, e.g. "POST /api/sessions/{id}/end".
// Raw paths carry user and session ids and are never used as labels.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return "unmatched"
	}
	return r.Pattern
}

// MetricsMiddleware counts API requests and their latency per route.
func MetricsMiddleware(metrics MetricsProviderInterface, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		began := time.Now()
		next.ServeHTTP(rec, r)

		route := routeLabel(r)
		metrics.ObserveRequestDuration(route, time.Since(began))
		metrics.IncRequestsTotal(route, rec.code)
	})
}
