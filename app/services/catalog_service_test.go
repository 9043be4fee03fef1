package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/app/services"
	"github.com/sadekstore/storefront/pkg/cache"
)

type recordingRemover struct {
	mu   sync.Mutex
	urls []string
}

func (r *recordingRemover) RemoveImages(_ context.Context, urls []string) {
	r.mu.Lock()
	r.urls = append(r.urls, urls...)
	r.mu.Unlock()
}

func TestCatalog_CategoryNameRequired(t *testing.T) {
	repo, _ := newRepo(t)
	svc := services.NewCatalogService(repo, cache.Disabled(), nil)

	_, err := svc.AddCategory(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateCategory(context.Background(), 1, "", "x")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCatalog_CategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	svc := services.NewCatalogService(repo, cache.Disabled(), nil)

	c, err := svc.AddCategory(ctx, "Phones", "Mobile phones")
	require.NoError(t, err)

	u, err := svc.UpdateCategory(ctx, c.ID, "Smartphones", "")
	require.NoError(t, err)
	assert.Equal(t, c.ID, u.ID)
	assert.Equal(t, "Smartphones", u.Name)

	_, err = svc.DeleteCategory(ctx, c.ID)
	require.NoError(t, err)
	_, err = svc.DeleteCategory(ctx, c.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCatalog_ProductValidation(t *testing.T) {
	repo, _ := newRepo(t)
	svc := services.NewCatalogService(repo, cache.Disabled(), nil)

	_, err := svc.AddProduct(context.Background(), repositories.ProductInput{Price: ptr(10.0)})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.AddProduct(context.Background(), repositories.ProductInput{Name: ptr("P"), Price: ptr(-1.0)})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestCatalog_DroppedImagesAreRemoved(t *testing.T) {
	ctx := context.Background()
	repo, _ := newRepo(t)
	rm := &recordingRemover{}
	svc := services.NewCatalogService(repo, cache.Disabled(), rm)

	p, err := svc.AddProduct(ctx, repositories.ProductInput{
		Name:   ptr("P"),
		Price:  ptr(10.0),
		Images: []string{"/uploads/a.png", "/uploads/b.png"},
	})
	require.NoError(t, err)

	// omitted images are kept
	_, err = svc.UpdateProduct(ctx, p.ID, repositories.ProductInput{Price: ptr(12.0)})
	require.NoError(t, err)
	assert.Empty(t, rm.urls)

	updated, err := svc.UpdateProduct(ctx, p.ID, repositories.ProductInput{Images: []string{"/uploads/b.png"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/b.png"}, updated.Images)
	assert.Equal(t, 12.0, updated.Price)
	assert.Equal(t, []string{"/uploads/a.png"}, rm.urls)

	_, err = svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, rm.urls)

	_, err = svc.Product(ctx, p.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}
