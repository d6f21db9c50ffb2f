package ports

import (
	"context"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// StatsRepository exposes the raw reads behind the admin reports.
type StatsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountMenuItems(ctx context.Context) (int64, error)
	CountPayments(ctx context.Context) (int64, error)
	// PaymentPrices scans every payment and returns its price.
	PaymentPrices(ctx context.Context) ([]float64, error)
	// OrderLines joins every purchased menu item id with the menu collection.
	OrderLines(ctx context.Context) ([]domain.OrderLine, error)
}

type ReportingService interface {
	SummaryStats(ctx context.Context) (*domain.SummaryStats, error)
	CategoryBreakdown(ctx context.Context) ([]domain.CategoryStat, error)
}
