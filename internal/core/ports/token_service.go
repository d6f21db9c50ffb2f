package ports

import "github.com/awesome-restaurant/restaurant-api/internal/core/domain"

// TokenService issues and verifies stateless session tokens.
type TokenService interface {
	Issue(email string) (string, error)
	Verify(token string) (*domain.Claims, error)
}
