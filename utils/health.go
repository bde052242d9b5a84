package utils

import (
	"log/slog"
	"net/http"
)

// HealthCheck returns a handler answering 200 "OK" once ready reports true, 503 before that.
func HealthCheck(ready func() bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusOK, "OK"
		if ready != nil && !ready() {
			status, body = http.StatusServiceUnavailable, "index not loaded"
		}
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			slog.Warn("failed to write healthcheck response",
				"component", "healthcheck",
				"method", r.Method,
				"path", r.URL.Path,
				"error", err,
			)
		}
	})
}
