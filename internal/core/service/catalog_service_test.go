package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type stubMenuRepo struct {
	items []domain.MenuItem
	err   error
}

func (r *stubMenuRepo) List(context.Context) ([]domain.MenuItem, error) {
	return r.items, r.err
}

func (r *stubMenuRepo) Insert(_ context.Context, item *domain.MenuItem) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	item.ID = "menu-1"
	r.items = append(r.items, *item)
	return item.ID, nil
}

func (r *stubMenuRepo) Delete(_ context.Context, id string) (int64, error) {
	for i, it := range r.items {
		if it.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

type stubReviewRepo struct {
	reviews []domain.Review
}

func (r *stubReviewRepo) List(context.Context) ([]domain.Review, error) {
	return r.reviews, nil
}

func TestMenuService_Create_NormalizesCategory(t *testing.T) {
	repo := &stubMenuRepo{}
	svc := NewMenuService(repo, zerolog.Nop())

	id, err := svc.Create(context.Background(), ports.MenuItemInput{Name: " Caesar ", Category: " Salad ", Price: 8.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "menu-1" {
		t.Fatalf("expected menu-1, got %q", id)
	}
	if got := repo.items[0]; got.Name != "Caesar" || got.Category != "salad" {
		t.Fatalf("unexpected stored item: %+v", got)
	}
}

func TestMenuService_List_EmptyIsNotNil(t *testing.T) {
	svc := NewMenuService(&stubMenuRepo{}, zerolog.Nop())

	items, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty slice, got %#v", items)
	}
}

func TestMenuService_List_StoreError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewMenuService(&stubMenuRepo{err: boom}, zerolog.Nop())

	if _, err := svc.List(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestMenuService_Delete_Absent(t *testing.T) {
	repo := &stubMenuRepo{items: []domain.MenuItem{{ID: "a"}}}
	svc := NewMenuService(repo, zerolog.Nop())

	for i, want := range []int64{1, 0} {
		n, err := svc.Delete(context.Background(), "a")
		if err != nil {
			t.Fatalf("call %d: unexpected error: %v", i, err)
		}
		if n != want {
			t.Fatalf("call %d: expected %d deleted, got %d", i, want, n)
		}
	}
}

func TestReviewService_List(t *testing.T) {
	svc := NewReviewService(&stubReviewRepo{reviews: []domain.Review{{ID: "r1", Name: "Ana", Rating: 5}}})

	reviews, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reviews) != 1 || reviews[0].Name != "Ana" {
		t.Fatalf("unexpected reviews: %+v", reviews)
	}

	empty, _ := NewReviewService(&stubReviewRepo{}).List(context.Background())
	if empty == nil {
		t.Fatal("expected empty slice, not nil")
	}
}
