package ports

import (
	"context"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

type RegisterInput struct {
	Name     string
	Email    string
	PhotoURL string
}

// RegisterResult carries the new id, or Existing=true when the email was taken.
type RegisterResult struct {
	InsertedID string
	Existing   bool
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*RegisterResult, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id string) (int64, error)
	Promote(ctx context.Context, id string) (*UpdateResult, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	// CheckAdmin answers the admin question for email on behalf of claimEmail; a
	// caller may only ask about itself.
	CheckAdmin(ctx context.Context, claimEmail, email string) (bool, error)
}
