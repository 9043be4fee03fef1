package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/go-chi/chi/v5"

	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/metrics"
	"github.com/sadekstore/storefront/pkg/response"
)

// Recovery turns a panic in any API handler into the storefront's generic
// {"success":false,"error":"Server error"} 500, the same body a failed store
// write produces, so clients see one shape for every server fault.
//
// Register it after Logger so the request line records the 500 and the
// panic is logged with the request_id:
//
//	r.Use(metrics.Middleware())
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger)
//	r.Use(middleware.Recovery)
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			route := routeOf(r)
			metrics.PanicsRecovered.WithLabelValues(route).Inc()
			logger.WithCtx(r.Context()).Error("handler panicked",
				"error", fmt.Sprint(rec),
				"stack", string(debug.Stack()),
				"method", r.Method,
				"route", route,
			)
			response.Error(w, http.StatusInternalServerError, "Server error")
		}()
		next.ServeHTTP(w, r)
	})
}

// routeOf returns the matched route pattern, which keeps metric labels
// bounded for paths carrying ids.
func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return "unmatched"
}
