package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

// UserService implements registration and role management.
type UserService struct {
	repo ports.UserRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// Register stores a new identity. Registering an existing email is a no-op and
// reports Existing=true.
func (s *UserService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, domain.ErrInvalidIdentity
	}

	existing, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil && existing != nil:
		return &ports.RegisterResult{Existing: true}, nil
	case err != nil && !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("register: %w", err)
	}

	id, err := s.repo.Create(ctx, &domain.User{
		Name:     in.Name,
		Email:    email,
		PhotoURL: in.PhotoURL,
	})
	if err != nil {
		// Lost a race against a concurrent registration of the same email.
		if errors.Is(err, domain.ErrUserExists) {
			return &ports.RegisterResult{Existing: true}, nil
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("email", email).Str("user_id", id).Msg("user registered")
	return &ports.RegisterResult{InsertedID: id}, nil
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (int64, error) {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info().Str("user_id", id).Msg("user removed")
	}
	return n, nil
}

// Promote grants the admin role. It is the only write path for roles.
func (s *UserService) Promote(ctx context.Context, id string) (*ports.UpdateResult, error) {
	res, err := s.repo.SetRole(ctx, id, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if res.ModifiedCount > 0 {
		s.log.Info().Str("user_id", id).Msg("user promoted to admin")
	}
	return res, nil
}

// IsAdmin reports whether email belongs to an admin. Unknown emails are not admins.
func (s *UserService) IsAdmin(ctx context.Context, email string) (bool, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("role lookup: %w", err)
	}
	return user.IsAdmin(), nil
}

func (s *UserService) CheckAdmin(ctx context.Context, claimEmail, email string) (bool, error) {
	if claimEmail == "" || claimEmail != email {
		return false, domain.ErrForbidden
	}
	return s.IsAdmin(ctx, email)
}
