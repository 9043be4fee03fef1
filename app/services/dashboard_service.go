package services

import (
	"context"

	"github.com/sadekstore/storefront/app/models"
	"github.com/sadekstore/storefront/app/repositories"
	"github.com/sadekstore/storefront/pkg/logger"
)

// DashboardService backs the analytics and admin maintenance endpoints.
type DashboardService struct {
	repo *repositories.StoreRepository
}

func NewDashboardService(repo *repositories.StoreRepository) *DashboardService {
	return &DashboardService{repo: repo}
}

func (s *DashboardService) TrackVisitor(ctx context.Context) error {
	_, err := s.repo.TrackVisitor(ctx)
	return err
}

func (s *DashboardService) Analytics(ctx context.Context) (models.Analytics, error) {
	return s.repo.Analytics(ctx)
}

func (s *DashboardService) Stats(ctx context.Context) (models.DashboardStats, error) {
	return s.repo.DashboardStats(ctx)
}

// Reset wipes the store back to its seed.
func (s *DashboardService) Reset(ctx context.Context) (repositories.ResetSummary, error) {
	summary, err := s.repo.Reset(ctx)
	if err != nil {
		return repositories.ResetSummary{}, err
	}
	logger.WithCtx(ctx).Warn("store data reset",
		"products_deleted", summary.ProductsDeleted,
		"orders_deleted", summary.OrdersDeleted,
	)
	return summary, nil
}
