package server

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"blagbl/internal/metrics"
)

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// loggingMiddleware logs the incoming HTTP request and its duration, and counts it by route.
func loggingMiddleware(log *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		duration := time.Since(start)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()

		if r.URL.Path == "/favicon.ico" || r.URL.Path == "/health" {
			return
		}
		log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", GetRealIP(r),
			"status", rec.status,
			"duration", duration,
		)
	})
}
