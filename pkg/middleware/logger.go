package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/reqid"
)

// quietPaths are polled by load balancers and Prometheus; they log at DEBUG.
var quietPaths = map[string]bool{
	"/api/health": true,
	"/metrics":    true,
}

// statusWriter captures the status code and body size.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Logger writes one line per request and stores a request-scoped logger,
// tagged with the request_id from reqid.Middleware, in the context so
// services can log through logger.WithCtx.
//
// 5xx lines log at ERROR and rejected requests (4xx) at WARN, so failed
// logins and bad order payloads stand out from catalog browsing.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		reqLog.Log(r.Context(), requestLevel(r.URL.Path, sw.status), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", routeOf(r),
			"status", sw.status,
			"bytes", sw.bytes,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		)
	})
}

func requestLevel(path string, status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	case quietPaths[path]:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
