package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

// CartService is the per-user cart ledger.
type CartService struct {
	repo ports.CartRepository
	log  zerolog.Logger
}

func NewCartService(repo ports.CartRepository, log zerolog.Logger) *CartService {
	return &CartService{repo: repo, log: log}
}

// Add always creates a new entry; repeated adds are not merged.
func (s *CartService) Add(ctx context.Context, entry domain.CartEntry) (string, error) {
	entry.Email = strings.TrimSpace(entry.Email)
	if entry.Email == "" {
		return "", domain.ErrInvalidIdentity
	}
	if entry.MenuItemID == "" {
		return "", fmt.Errorf("%w: menu item id is required", domain.ErrInvalidReference)
	}
	if entry.Quantity <= 0 {
		entry.Quantity = 1
	}

	id, err := s.repo.Insert(ctx, &entry)
	if err != nil {
		return "", fmt.Errorf("add cart entry: %w", err)
	}
	s.log.Debug().Str("email", entry.Email).Str("cart_id", id).Str("menu_id", entry.MenuItemID).Msg("cart entry added")
	return id, nil
}

// ListByOwner returns an empty slice when email is empty or nothing matches.
func (s *CartService) ListByOwner(ctx context.Context, email string) ([]domain.CartEntry, error) {
	if email == "" {
		return []domain.CartEntry{}, nil
	}
	entries, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}
	if entries == nil {
		entries = []domain.CartEntry{}
	}
	return entries, nil
}

// Remove deletes one entry; removing an absent id reports zero deleted.
func (s *CartService) Remove(ctx context.Context, id string) (int64, error) {
	return s.repo.Delete(ctx, id)
}

// RemoveMany retires entries consumed by a payment.
func (s *CartService) RemoveMany(ctx context.Context, email string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.DeleteMany(ctx, email, ids)
}
