package service

import (
	"context"
	"time"

	"github.com/AhmadAdewumi/inventro/internal/dto"
	"github.com/AhmadAdewumi/inventro/internal/repository"
)

// ReportService aggregates daily figures for the dashboard. Profit is frozen
// unit price minus the variant's current average cost.
type ReportService interface {
	Dashboard(ctx context.Context, day time.Time) (*dto.DashboardResponse, error)
	TopSellers(ctx context.Context, limit int) ([]dto.TopSellerRow, error)
}

type reportService struct {
	orders   repository.OrderRepository
	variants repository.VariantRepository
}

func NewReportService(orders repository.OrderRepository, variants repository.VariantRepository) ReportService {
	return &reportService{orders: orders, variants: variants}
}

func (s *reportService) Dashboard(ctx context.Context, day time.Time) (*dto.DashboardResponse, error) {
	revenue, err := s.orders.RevenueForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	profit, err := s.orders.ProfitForDay(ctx, day)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.variants.CountBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		Date:          day.Format("2006-01-02"),
		Revenue:       revenue.Round(2),
		Profit:        profit.Round(2),
		LowStockItems: lowStock,
	}, nil
}

func (s *reportService) TopSellers(ctx context.Context, limit int) ([]dto.TopSellerRow, error) {
	return s.orders.TopSellers(ctx, limit)
}
