package ports

import (
	"context"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Insert(ctx context.Context, item *domain.MenuItem) (string, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type ReviewRepository interface {
	List(ctx context.Context) ([]domain.Review, error)
}

// MenuItemInput is the DTO passed from the transport layer to MenuService.
type MenuItemInput struct {
	Name     string
	Recipe   string
	Image    string
	Category string
	Price    float64
}

type MenuService interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Create(ctx context.Context, in MenuItemInput) (string, error)
	Delete(ctx context.Context, id string) (int64, error)
}

type ReviewService interface {
	List(ctx context.Context) ([]domain.Review, error)
}
