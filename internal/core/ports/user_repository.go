package ports

import (
	"context"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// UpdateResult mirrors the store's update outcome.
type UpdateResult struct {
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// UserRepository defines the interface for identity persistence.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// Create returns domain.ErrUserExists when the email is already registered.
	Create(ctx context.Context, user *domain.User) (string, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) (int64, error)
	SetRole(ctx context.Context, id, role string) (*UpdateResult, error)
}
