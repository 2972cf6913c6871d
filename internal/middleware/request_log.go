package middleware

import (
	"net/http"
	"time"

	"github.com/messenger/frontend/internal/logger"
)

// RequestLog логирует каждый HTTP-запрос: method, path, статус и время выполнения.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrap := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrap, r)
		if wrap.status >= http.StatusInternalServerError {
			logger.Errorf("http %s %s -> %d (%s)", r.Method, r.URL.Path, wrap.status, time.Since(start))
			return
		}
		logger.LogDuration("http "+r.Method+" "+r.URL.Path, start)
	})
}
