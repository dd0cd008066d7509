// File: internal/middleware/logger.go
package middleware

import (
	"net/http"
	"time"
)

// RequestLogger logs incoming HTTP request & response details. For the
// websocket route the duration covers the whole connection lifetime.
func RequestLogger(logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			logger.Debug("request handled",
				"method", r.Method,
				"uri", r.RequestURI,
				"remote", r.RemoteAddr,
				"duration", time.Since(start).String(),
			)
		})
	}
}
