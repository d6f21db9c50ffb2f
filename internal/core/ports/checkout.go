package ports

import (
	"context"

	"golang.org/x/text/currency"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// PaymentIntent is the gateway's charge authorization.
type PaymentIntent struct {
	ID           string
	ClientSecret string
}

// PaymentGateway is the card-payment collaborator. Implementations must honour
// ctx cancellation and return domain.ErrPaymentDeclined for rejected charges.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount domain.MinorUnits, cur currency.Unit) (*PaymentIntent, error)
}

// SettlementLock serialises settlements of the same payer. Acquire returns
// domain.ErrSettlementInProgress when the lock is held elsewhere.
type SettlementLock interface {
	Acquire(ctx context.Context, email string) (release func(context.Context) error, err error)
}

// CartCleanupJob replays the cart deletion of a recorded payment.
type CartCleanupJob struct {
	Email       string
	PaymentID   string
	CartItemIDs []string
}

type CleanupQueue interface {
	Enqueue(job CartCleanupJob) bool
}

// Settlement reports both effects of recording a payment.
type Settlement struct {
	PaymentID string
	Requested int
	Deleted   int64
	// Atomic is true when insert and delete committed in one transaction.
	Atomic bool
	// CleanupPending is true when some referenced cart entries are still queued
	// for deletion.
	CleanupPending bool
	// ReconciliationRequired is true when leftover cart entries could not be
	// queued. They are picked up by the next startup replay.
	ReconciliationRequired bool
}

// PaymentRepository records payments and retires the cart entries they consume.
type PaymentRepository interface {
	// Settle inserts the payment and deletes its cart entries. A non-nil
	// Settlement alongside an error means the payment was recorded but the cart
	// deletion failed.
	Settle(ctx context.Context, p *domain.Payment) (*Settlement, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Payment, error)
	// PendingCleanups lists recorded payments whose cart entries still exist,
	// one job per payment carrying only the leftover ids.
	PendingCleanups(ctx context.Context) ([]CartCleanupJob, error)
}

type IntentResult struct {
	ClientSecret string
	Amount       domain.MinorUnits
	Currency     string
}

type SettleInput struct {
	ClaimEmail    string
	Email         string
	Price         string
	TransactionID string
	CartItemIDs   []string
	MenuItemIDs   []string
}

type CheckoutService interface {
	CreateIntent(ctx context.Context, email, rawPrice string) (*IntentResult, error)
	Settle(ctx context.Context, in SettleInput) (*Settlement, error)
	History(ctx context.Context, email string) ([]domain.Payment, error)
}
