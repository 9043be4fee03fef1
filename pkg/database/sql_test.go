package database_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/pkg/database"
)

func TestSQLStore_SQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "store.db")

	s, err := database.Open[sample](ctx, database.Options{Driver: "sqlite", DSN: dsn, Name: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, database.ErrNoDocument)

	require.NoError(t, s.Save(ctx, &sample{Name: "first", Count: 1}))
	require.NoError(t, s.Save(ctx, &sample{Name: "second", Count: 2}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", out.Name)
	assert.Equal(t, 2, out.Count)
}

func TestSQLStore_BodyLargerThanTextColumn(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "store.db")

	s, err := database.Open[sample](ctx, database.Options{Driver: "sqlite", DSN: dsn, Name: "big"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	big := strings.Repeat("x", 96<<10)
	require.NoError(t, s.Save(ctx, &sample{Name: big, Count: 3}))

	out, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, out.Name, len(big))
	assert.Equal(t, big, out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestOpenSQL_RequiresDSN(t *testing.T) {
	_, err := database.OpenSQL[sample]("postgres", "", "store")
	assert.Error(t, err)
}
