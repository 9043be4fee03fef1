package services_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/database"
	"github.com/sadekstore/storefront/pkg/event"
)

const testPassword = "changeme"

func newRepo(t *testing.T) (*repositories.StoreRepository, *event.Bus) {
	t.Helper()
	store, err := database.NewFileStore[models.Document](filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)

	db := database.New[models.Document](store, models.SeedWithPassword(testPassword))
	require.NoError(t, db.Init(context.Background()))

	bus := event.New()
	return repositories.NewStoreRepository(db, bus), bus
}

func ptr[T any](v T) *T { return &v }
