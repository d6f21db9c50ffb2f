package ports

import (
	"context"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// CartRepository persists cart entries.
type CartRepository interface {
	Insert(ctx context.Context, entry *domain.CartEntry) (string, error)
	FindByEmail(ctx context.Context, email string) ([]domain.CartEntry, error)
	Delete(ctx context.Context, id string) (int64, error)
	// DeleteMany removes the given entries owned by email.
	DeleteMany(ctx context.Context, email string, ids []string) (int64, error)
}

type CartService interface {
	Add(ctx context.Context, entry domain.CartEntry) (string, error)
	ListByOwner(ctx context.Context, email string) ([]domain.CartEntry, error)
	Remove(ctx context.Context, id string) (int64, error)
	RemoveMany(ctx context.Context, email string, ids []string) (int64, error)
}
