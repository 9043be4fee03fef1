package app

import (
	"net/http"
	"time"

	"github.com/sadekstore/storefront/app/routes"
	"github.com/sadekstore/storefront/pkg/metrics"
	"github.com/sadekstore/storefront/pkg/middleware"
	"github.com/sadekstore/storefront/pkg/reqid"
	"github.com/sadekstore/storefront/pkg/response"
	"github.com/sadekstore/storefront/pkg/router"
	"github.com/sadekstore/storefront/pkg/storage"
)

// Router builds the route table. Global middleware, outermost first:
//
//  1. Prometheus metrics  outermost, so latency covers everything
//  2. Request ID          before anything logs
//  3. Logger              one line per request, tagged with request_id
//  4. Recovery            panics become a logged 500
//  5. CORS
//  6. Rate limiter
func (a *Application) Router() *router.Router {
	r := router.New()

	r.Use(metrics.Middleware())
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.Recovery)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(a.RateLimit, time.Minute))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())

	if local, ok := a.localDisk(); ok {
		r.Mount("/uploads/*", "uploads", uploadsHandler(local.Root()))
	}

	routes.RegisterAPI(r, routes.Deps{
		Env:       a.Env,
		Signer:    a.Signer,
		Auth:      a.Auth,
		Settings:  a.Settings,
		Catalog:   a.Catalog,
		Orders:    a.Orders,
		Uploads:   a.Uploads,
		Dashboard: a.Dashboard,
	})

	return r
}

// Handler is the finished http.Handler.
func (a *Application) Handler() http.Handler {
	return a.Router().Handler()
}

func (a *Application) localDisk() (*storage.LocalDisk, bool) {
	d, ok := a.Disks.Disk("local")
	if !ok {
		return nil, false
	}
	local, ok := d.(*storage.LocalDisk)
	return local, ok
}
