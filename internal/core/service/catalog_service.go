package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type MenuService struct {
	repo ports.MenuRepository
	log  zerolog.Logger
}

func NewMenuService(repo ports.MenuRepository, log zerolog.Logger) *MenuService {
	return &MenuService{repo: repo, log: log}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list menu: %w", err)
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	return items, nil
}

func (s *MenuService) Create(ctx context.Context, in ports.MenuItemInput) (string, error) {
	item := &domain.MenuItem{
		Name:     strings.TrimSpace(in.Name),
		Recipe:   in.Recipe,
		Image:    in.Image,
		Category: strings.ToLower(strings.TrimSpace(in.Category)),
		Price:    in.Price,
	}

	id, err := s.repo.Insert(ctx, item)
	if err != nil {
		return "", fmt.Errorf("create menu item: %w", err)
	}
	s.log.Info().Str("menu_id", id).Str("category", item.Category).Msg("menu item created")
	return id, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Str("menu_id", id).Msg("menu item deleted")
	}
	return n, nil
}

type ReviewService struct {
	repo ports.ReviewRepository
}

func NewReviewService(repo ports.ReviewRepository) *ReviewService {
	return &ReviewService{repo: repo}
}

func (s *ReviewService) List(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
