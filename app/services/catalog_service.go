package services

import (
	"context"
	"strings"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/cache"
	"github.com/sadekstore/storefront/pkg/logger"
)

// ImageRemover deletes stored images by their public URL. URLs that are not
// hosted by us are ignored.
type ImageRemover interface {
	RemoveImages(ctx context.Context, urls []string)
}

type CatalogService struct {
	repo   *repositories.StoreRepository
	cache  *cache.Cache
	images ImageRemover
}

// NewCatalogService wires categories and products. images may be nil, in
// which case no cleanup happens.
func NewCatalogService(repo *repositories.StoreRepository, c *cache.Cache, images ImageRemover) *CatalogService {
	return &CatalogService{repo: repo, cache: c, images: images}
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return cache.Remember(ctx, s.cache, cache.KeyCategories, func() ([]models.Category, error) {
		return s.repo.ListCategories(ctx)
	})
}

func (s *CatalogService) AddCategory(ctx context.Context, name, description string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fail(ErrValidation, "Category name is required")
	}
	return s.repo.AddCategory(ctx, name, description)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id int64, name, description string) (models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Category{}, fail(ErrValidation, "Category name is required")
	}
	return s.repo.UpdateCategory(ctx, id, name, description)
}

// DeleteCategory removes the category. Products keep their category label.
func (s *CatalogService) DeleteCategory(ctx context.Context, id int64) (models.Category, error) {
	return s.repo.DeleteCategory(ctx, id)
}

// ─── Products ─────────────────────────────────────────────────────────────────

func (s *CatalogService) Products(ctx context.Context) ([]models.Product, error) {
	return cache.Remember(ctx, s.cache, cache.KeyProducts, func() ([]models.Product, error) {
		return s.repo.ListProducts(ctx)
	})
}

func (s *CatalogService) Product(ctx context.Context, id int64) (models.Product, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *CatalogService) AddProduct(ctx context.Context, in repositories.ProductInput) (models.Product, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return models.Product{}, fail(ErrValidation, "Product name is required")
	}
	if err := checkPrice(in.Price); err != nil {
		return models.Product{}, err
	}
	return s.repo.AddProduct(ctx, in)
}

// UpdateProduct merges in over the stored product. Images dropped from the
// list are removed from storage once the update is saved.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in repositories.ProductInput) (models.Product, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return models.Product{}, fail(ErrValidation, "Product name is required")
	}
	if err := checkPrice(in.Price); err != nil {
		return models.Product{}, err
	}

	p, dropped, err := s.repo.UpdateProduct(ctx, id, in)
	if err != nil {
		return models.Product{}, err
	}
	s.removeImages(ctx, dropped)
	return p, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (models.Product, error) {
	p, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	s.removeImages(ctx, p.Images)
	return p, nil
}

func (s *CatalogService) removeImages(ctx context.Context, urls []string) {
	if s.images == nil || len(urls) == 0 {
		return
	}
	logger.WithCtx(ctx).Debug("removing product images", "count", len(urls))
	s.images.RemoveImages(ctx, urls)
}

func checkPrice(price *float64) error {
	if price != nil && *price < 0 {
		return fail(ErrValidation, "Price must not be negative")
	}
	return nil
}
