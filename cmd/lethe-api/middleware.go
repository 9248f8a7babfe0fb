package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/lethe-storage/lethe/pkg/hermes"
)

// requestIDHeader carries the per-request correlation ID.
const requestIDHeader = "X-Request-Id"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withMiddleware wraps the mux with request-ID tagging, rate limiting,
// request logging and metrics.
func (s *server) withMiddleware(next http.Handler) http.Handler {
	// The control socket serves one local settings-applier; the limiter
	// only guards against a stuck caller hot-looping on failures.
	limiter := rate.NewLimiter(rate.Limit(50), 100)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		if !limiter.Allow() {
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		s.logger.Info(r.Context(), "request", map[string]any{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"elapsed_ms": elapsed.Milliseconds(),
		})
		s.metrics.IncCounter("lethe_http_requests_total", 1,
			hermes.Label{Key: "path", Value: r.URL.Path},
			hermes.Label{Key: "status", Value: strconv.Itoa(rec.status)},
		)
		s.metrics.ObserveHistogram("lethe_http_request_seconds", elapsed.Seconds(),
			hermes.Label{Key: "path", Value: r.URL.Path},
		)
	})
}
