// Package app boots the storefront: it opens the document store, wires the
// services to their infrastructure and builds the HTTP handler.
//
//	a, err := app.Boot(ctx)
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//	return a.Serve(ctx)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/sadekstore/storefront/app/listeners"
	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/config"
	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/cache"
	"github.com/sadekstore/storefront/pkg/database"
	"github.com/sadekstore/storefront/pkg/event"
	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/storage"
	"github.com/sadekstore/storefront/pkg/workerpool"
)

// Options carries everything New needs. Boot fills it from config.
type Options struct {
	Env               string
	Store             database.Store[models.Document]
	AdminPassword     string
	Signer            *auth.Signer
	Cache             *cache.Cache
	Disks             *storage.Manager
	PoolSize          int
	LoginFailureDelay time.Duration
	UploadMaxBytes    int64
	RateLimit         int
}

// Application is the wired storefront.
type Application struct {
	Env       string
	RateLimit int

	DB     *database.DB[models.Document]
	Repo   *repositories.StoreRepository
	Bus    *event.Bus
	Cache  *cache.Cache
	Disks  *storage.Manager
	Pool   *workerpool.Pool
	Signer *auth.Signer

	Auth      *services.AuthService
	Settings  *services.SettingsService
	Catalog   *services.CatalogService
	Orders    *services.OrderService
	Uploads   *services.UploadService
	Dashboard *services.DashboardService

	logSink *logger.MongoHandler
}

// New wires an Application around opts. It does not touch the store; call
// Init before serving.
func New(opts Options) *Application {
	if opts.Cache == nil {
		opts.Cache = cache.Disabled()
	}

	a := &Application{
		Env:       opts.Env,
		RateLimit: opts.RateLimit,
		DB:        database.New[models.Document](opts.Store, models.SeedWithPassword(opts.AdminPassword)),
		Bus:       event.New(),
		Cache:     opts.Cache,
		Disks:     opts.Disks,
		Pool:      workerpool.New("image-cleanup", opts.PoolSize),
		Signer:    opts.Signer,
	}
	a.Repo = repositories.NewStoreRepository(a.DB, a.Bus)
	listeners.Register(a.Bus, a.Cache)

	disk := a.Disks.Default()
	a.Uploads = services.NewUploadService(disk, a.Pool, opts.UploadMaxBytes)
	a.Auth = services.NewAuthService(a.Repo, a.Signer, opts.LoginFailureDelay)
	a.Settings = services.NewSettingsService(a.Repo, a.Cache)
	a.Catalog = services.NewCatalogService(a.Repo, a.Cache, a.Uploads)
	a.Orders = services.NewOrderService(a.Repo, a.Bus)
	a.Dashboard = services.NewDashboardService(a.Repo)
	return a
}

// Boot reads config, opens every backing service and initialises the
// document. A store that cannot be opened or initialised is fatal; a
// missing Redis only disables caching.
func Boot(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	logger.Setup(config.AppEnv(), os.Stdout)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if config.DefaultJWTSecret() {
		logger.Component("auth").Warn("JWT_SECRET not set, signing tokens with the built-in development secret")
	}

	store, err := database.Open[models.Document](ctx, database.Options{
		Driver:   config.DatabaseDriver(),
		File:     config.DataFile(),
		DSN:      config.DatabaseDSN(),
		MongoURI: config.MongoURI(),
		MongoDB:  config.MongoDB(),
	})
	if err != nil {
		return nil, err
	}

	var sink *logger.MongoHandler
	if ms, ok := store.(*database.MongoStore[models.Document]); ok {
		if name := config.MongoLogCollection(); name != "" {
			sink = logger.NewMongoHandler(ms.Collection(name), slog.LevelInfo)
			logger.Attach(sink)
		}
	}

	c, err := cache.Connect(ctx)
	if err != nil {
		logger.Component("cache").Warn("redis unavailable, catalog cache disabled", "error", err)
	}

	a := New(Options{
		Env:               config.AppEnv(),
		Store:             store,
		AdminPassword:     config.AdminPassword(),
		Signer:            auth.Default(),
		Cache:             c,
		Disks:             storage.FromConfig(ctx),
		PoolSize:          config.WorkerPoolSize(),
		LoginFailureDelay: config.LoginFailureDelay(),
		UploadMaxBytes:    config.UploadMaxBytes(),
		RateLimit:         config.RateLimit(),
	})
	a.logSink = sink

	if err := a.Init(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Init loads the store document, seeding it when missing or corrupt.
func (a *Application) Init(ctx context.Context) error {
	if err := a.DB.Init(ctx); err != nil {
		return fmt.Errorf("storage init: %w", err)
	}
	return nil
}

// Close drains background work and releases connections.
func (a *Application) Close() error {
	a.Pool.Shutdown()
	a.Bus.Wait()
	if err := a.Cache.Close(); err != nil {
		logger.Component("cache").Warn("close failed", "error", err)
	}
	if a.logSink != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		a.logSink.Close(ctx)
		cancel()
	}
	return a.DB.Close()
}
