package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

// ReportingService computes admin dashboard aggregates over payment history.
type ReportingService struct {
	repo ports.StatsRepository
}

func NewReportingService(repo ports.StatsRepository) *ReportingService {
	return &ReportingService{repo: repo}
}

// SummaryStats sums every payment price and reports store cardinalities.
// Revenue is recomputed on each call.
func (s *ReportingService) SummaryStats(ctx context.Context) (*domain.SummaryStats, error) {
	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	menuItems, err := s.repo.CountMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("count menu items: %w", err)
	}
	orders, err := s.repo.CountPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count payments: %w", err)
	}
	prices, err := s.repo.PaymentPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan payment prices: %w", err)
	}

	revenue := decimal.Zero
	for _, p := range prices {
		revenue = revenue.Add(decimal.NewFromFloat(p))
	}

	return &domain.SummaryStats{
		Revenue:   domain.RoundMoney(revenue),
		Users:     users,
		MenuItems: menuItems,
		Orders:    orders,
	}, nil
}

// CategoryBreakdown groups purchased menu items by category. The result order is
// unspecified.
func (s *ReportingService) CategoryBreakdown(ctx context.Context) ([]domain.CategoryStat, error) {
	lines, err := s.repo.OrderLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("order lines: %w", err)
	}

	type bucket struct {
		count int64
		total decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	for _, l := range lines {
		b, ok := buckets[l.Category]
		if !ok {
			b = &bucket{total: decimal.Zero}
			buckets[l.Category] = b
		}
		b.count++
		b.total = b.total.Add(decimal.NewFromFloat(l.Price))
	}

	out := make([]domain.CategoryStat, 0, len(buckets))
	for category, b := range buckets {
		out = append(out, domain.CategoryStat{
			Category: category,
			Count:    b.count,
			Total:    domain.RoundMoney(b.total),
		})
	}
	return out, nil
}
