package middleware

import (
	"net/http"
	"time"

	"github.com/kbukum/compapol/logger"
)

// healthPaths are polled by load balancers and are not logged.
var healthPaths = map[string]bool{
	"/":        true,
	"/healthz": true,
	"/health":  true,
}

// RequestLogger logs one line per request with method, path, status, size
// and duration. The level follows the status class.
func RequestLogger(log *logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && healthPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			fields := logger.Fields(
				"method", r.Method,
				logger.FieldPath, r.URL.Path,
				logger.FieldStatus, rec.status,
				"bytes", rec.written,
				logger.FieldDuration, time.Since(start).Milliseconds(),
			)
			if r.ContentLength > 0 {
				fields["request_bytes"] = r.ContentLength
			}
			logByStatus(log.WithContext(r.Context()), fields, rec.status)
		})
	}
}

func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Info("request completed", fields)
	}
}
