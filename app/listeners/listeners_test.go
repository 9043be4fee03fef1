package listeners_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/app/listeners"
	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/cache"
	"github.com/sadekstore/storefront/pkg/database"
	"github.com/sadekstore/storefront/pkg/event"
	"github.com/sadekstore/storefront/pkg/metrics"
)

func TestRegister_CountsOrderEvents(t *testing.T) {
	ctx := context.Background()
	bus := event.New()
	listeners.Register(bus, cache.Disabled())

	created := testutil.ToFloat64(metrics.OrdersCreated)
	moved := testutil.ToFloat64(metrics.OrderTransitions.WithLabelValues("pending", "completed"))

	bus.Fire(ctx, services.EventOrderCreated, models.Order{ID: 1})
	bus.Fire(ctx, services.EventOrderStatusChanged, services.StatusChange{
		From: models.StatusPending,
		To:   models.StatusCompleted,
	})
	// unknown payloads are ignored
	bus.Fire(ctx, services.EventOrderStatusChanged, "bogus")

	assert.Equal(t, created+1, testutil.ToFloat64(metrics.OrdersCreated))
	assert.Equal(t, moved+1, testutil.ToFloat64(metrics.OrderTransitions.WithLabelValues("pending", "completed")))
}

func TestFlushCatalog_DisabledCacheIsNoop(t *testing.T) {
	bus := event.New()
	listeners.Register(bus, cache.Disabled())
	assert.NotPanics(t, func() {
		bus.Fire(context.Background(), repositories.EventDocumentSaved, repositories.DocumentSaved{
			Change:   repositories.ChangeProducts,
			Document: &models.Document{},
		})
	})
}

type countingFlusher struct{ flushes int }

func (f *countingFlusher) Flush(context.Context) error {
	f.flushes++
	return nil
}

func TestFlushCatalog_OnlyCatalogWrites(t *testing.T) {
	ctx := context.Background()
	flusher := &countingFlusher{}
	flush := listeners.FlushCatalog(flusher)

	for _, change := range []repositories.Change{
		repositories.ChangeAnalytics,
		repositories.ChangeOrders,
		repositories.ChangeUser,
	} {
		flush(ctx, repositories.DocumentSaved{Change: change, Document: &models.Document{}})
	}
	flush(ctx, "not a save")
	assert.Zero(t, flusher.flushes)

	for _, change := range []repositories.Change{
		repositories.ChangeSettings,
		repositories.ChangeCategories,
		repositories.ChangeProducts,
		repositories.ChangeAll,
	} {
		flush(ctx, repositories.DocumentSaved{Change: change, Document: &models.Document{}})
	}
	assert.Equal(t, 4, flusher.flushes)
}

func TestFlushCatalog_VisitorWriteKeepsCache(t *testing.T) {
	ctx := context.Background()
	store, err := database.NewFileStore[models.Document](filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	db := database.New[models.Document](store, models.SeedWithPassword("changeme"))
	require.NoError(t, db.Init(ctx))

	bus := event.New()
	flusher := &countingFlusher{}
	bus.Listen(repositories.EventDocumentSaved, listeners.FlushCatalog(flusher))
	repo := repositories.NewStoreRepository(db, bus)

	_, err = repo.TrackVisitor(ctx)
	require.NoError(t, err)
	assert.Zero(t, flusher.flushes)

	_, err = repo.AddCategory(ctx, "Phones", "")
	require.NoError(t, err)
	assert.Equal(t, 1, flusher.flushes)
}
