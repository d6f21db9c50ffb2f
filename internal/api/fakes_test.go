package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/text/currency"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

// memStore is a single in-memory backing store for every repository port.
type memStore struct {
	mu       sync.Mutex
	seq      int
	users    map[string]domain.User
	carts    map[string]domain.CartEntry
	menu     map[string]domain.MenuItem
	payments []domain.Payment
	reviews  []domain.Review
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[string]domain.User),
		carts: make(map[string]domain.CartEntry),
		menu:  make(map[string]domain.MenuItem),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type memUsers struct{ *memStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) Create(_ context.Context, user *domain.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return "", domain.ErrUserExists
		}
	}
	u := *user
	u.ID = r.nextID("user")
	r.users[u.ID] = u
	return u.ID, nil
}

func (r memUsers) List(context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r memUsers) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func (r memUsers) SetRole(_ context.Context, id, role string) (*ports.UpdateResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return &ports.UpdateResult{}, nil
	}
	res := &ports.UpdateResult{MatchedCount: 1}
	if u.Role != role {
		u.Role = role
		r.users[id] = u
		res.ModifiedCount = 1
	}
	return res, nil
}

type memCarts struct{ *memStore }

func (r memCarts) Insert(_ context.Context, e *domain.CartEntry) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry := *e
	entry.ID = r.nextID("cart")
	r.carts[entry.ID] = entry
	return entry.ID, nil
}

func (r memCarts) FindByEmail(_ context.Context, email string) ([]domain.CartEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.CartEntry
	for _, e := range r.carts {
		if e.Email == email {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCarts) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.carts[id]; !ok {
		return 0, nil
	}
	delete(r.carts, id)
	return 1, nil
}

func (r memCarts) DeleteMany(_ context.Context, email string, ids []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleteOwned(email, ids), nil
}

func (s *memStore) deleteOwned(email string, ids []string) int64 {
	var n int64
	for _, id := range ids {
		if e, ok := s.carts[id]; ok && e.Email == email {
			delete(s.carts, id)
			n++
		}
	}
	return n
}

type memPayments struct{ *memStore }

// Settle is all-or-nothing, like the transactional store.
func (r memPayments) Settle(_ context.Context, p *domain.Payment) (*ports.Settlement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range p.CartItemIDs {
		if e, ok := r.carts[id]; !ok || e.Email != p.Email {
			return nil, fmt.Errorf("%w: cart entry %s", domain.ErrInvalidReference, id)
		}
	}
	payment := *p
	payment.ID = r.nextID("payment")
	n := r.deleteOwned(p.Email, p.CartItemIDs)
	r.payments = append(r.payments, payment)
	return &ports.Settlement{PaymentID: payment.ID, Requested: len(p.CartItemIDs), Deleted: n, Atomic: true}, nil
}

func (r memPayments) FindByEmail(_ context.Context, email string) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, p := range r.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r memPayments) PendingCleanups(context.Context) ([]ports.CartCleanupJob, error) {
	return nil, nil
}

type memMenu struct{ *memStore }

func (r memMenu) List(context.Context) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.MenuItem, 0, len(r.menu))
	for _, m := range r.menu {
		out = append(out, m)
	}
	return out, nil
}

func (r memMenu) Insert(_ context.Context, item *domain.MenuItem) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m := *item
	m.ID = r.nextID("menu")
	r.menu[m.ID] = m
	return m.ID, nil
}

func (r memMenu) Delete(_ context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.menu[id]; !ok {
		return 0, nil
	}
	delete(r.menu, id)
	return 1, nil
}

type memReviews struct{ *memStore }

func (r memReviews) List(context.Context) ([]domain.Review, error) {
	return r.reviews, nil
}

type memStats struct{ *memStore }

func (r memStats) CountUsers(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func (r memStats) CountMenuItems(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.menu)), nil
}

func (r memStats) CountPayments(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.payments)), nil
}

func (r memStats) PaymentPrices(context.Context) ([]float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, 0, len(r.payments))
	for _, p := range r.payments {
		out = append(out, p.Price)
	}
	return out, nil
}

func (r memStats) OrderLines(context.Context) ([]domain.OrderLine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.OrderLine
	for _, p := range r.payments {
		for _, id := range p.MenuItemIDs {
			if m, ok := r.menu[id]; ok {
				out = append(out, domain.OrderLine{Category: m.Category, Price: m.Price})
			}
		}
	}
	return out, nil
}

type recordingGateway struct {
	mu      sync.Mutex
	amounts []domain.MinorUnits
}

func (g *recordingGateway) CreateIntent(_ context.Context, amount domain.MinorUnits, _ currency.Unit) (*ports.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.amounts = append(g.amounts, amount)
	return &ports.PaymentIntent{ID: "pi_test", ClientSecret: fmt.Sprintf("pi_test_secret_%d", amount)}, nil
}

type noLock struct{}

func (noLock) Acquire(context.Context, string) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

type discardQueue struct{}

func (discardQueue) Enqueue(ports.CartCleanupJob) bool { return true }
