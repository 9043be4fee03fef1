package routes

import (
	"github.com/sadekstore/storefront/app/controllers"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/ctx"
	"github.com/sadekstore/storefront/pkg/middleware"
	"github.com/sadekstore/storefront/pkg/router"
)

// Deps are the services the API routes dispatch to.
type Deps struct {
	Env       string
	Signer    *auth.Signer
	Auth      *services.AuthService
	Settings  *services.SettingsService
	Catalog   *services.CatalogService
	Orders    *services.OrderService
	Uploads   *services.UploadService
	Dashboard *services.DashboardService
}

func RegisterAPI(r *router.Router, d Deps) {
	authController := controllers.NewAuthController(d.Auth)
	settingsController := controllers.NewSettingsController(d.Settings)
	categoryController := controllers.NewCategoryController(d.Catalog)
	productController := controllers.NewProductController(d.Catalog)
	orderController := controllers.NewOrderController(d.Orders)
	uploadController := controllers.NewUploadController(d.Uploads)
	dashboardController := controllers.NewDashboardController(d.Dashboard)

	api := r.Group("/api")
	api.Get("/health", "health", ctx.Wrap(controllers.Health(d.Env)))
	api.Post("/login", "auth.login", ctx.Wrap(authController.Login))

	api.Get("/settings", "settings.show", ctx.Wrap(settingsController.Show))
	api.Get("/categories", "categories.index", ctx.Wrap(categoryController.Index))
	api.Get("/products", "products.index", ctx.Wrap(productController.Index))
	api.Get("/products/{id}", "products.show", ctx.Wrap(productController.Show))
	api.Post("/orders", "orders.store", ctx.Wrap(orderController.Store))
	api.Post("/analytics/visitor", "analytics.visitor", ctx.Wrap(dashboardController.TrackVisitor))

	admin := api.Group("", middleware.Auth(d.Signer))
	admin.Put("/user/password", "auth.password", ctx.Wrap(authController.ChangePassword))
	admin.Put("/settings", "settings.update", ctx.Wrap(settingsController.Update))

	admin.Post("/categories", "categories.store", ctx.Wrap(categoryController.Store))
	admin.Put("/categories", "categories.update.body", ctx.Wrap(categoryController.Update))
	admin.Put("/categories/{id}", "categories.update", ctx.Wrap(categoryController.Update))
	admin.Delete("/categories/{id}", "categories.destroy", ctx.Wrap(categoryController.Destroy))

	admin.Post("/products", "products.store", ctx.Wrap(productController.Store))
	admin.Put("/products/{id}", "products.update", ctx.Wrap(productController.Update))
	admin.Delete("/products/{id}", "products.destroy", ctx.Wrap(productController.Destroy))

	admin.Get("/orders", "orders.index", ctx.Wrap(orderController.Index))
	admin.Get("/orders/{id}", "orders.show", ctx.Wrap(orderController.Show))
	admin.Put("/orders/{id}/status", "orders.status", ctx.Wrap(orderController.UpdateStatus))

	admin.Post("/upload", "upload.store", ctx.Wrap(uploadController.Store))

	admin.Get("/analytics", "analytics.show", ctx.Wrap(dashboardController.Analytics))
	admin.Get("/dashboard/stats", "dashboard.stats", ctx.Wrap(dashboardController.Stats))
	admin.Post("/reset-data", "dashboard.reset", ctx.Wrap(dashboardController.Reset))
}
