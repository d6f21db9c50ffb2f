package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/currency"

	"github.com/awesome-restaurant/restaurant-api/internal/api/metrics"
	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

const defaultGatewayTimeout = 10 * time.Second

// CheckoutOptions tunes the payment authorization step.
type CheckoutOptions struct {
	Currency currency.Unit
	Timeout  time.Duration
}

// CheckoutService drives a checkout attempt from amount validation through
// charge authorization to settlement.
type CheckoutService struct {
	payments ports.PaymentRepository
	gateway  ports.PaymentGateway
	lock     ports.SettlementLock
	cleanup  ports.CleanupQueue
	currency currency.Unit
	timeout  time.Duration
	log      zerolog.Logger
}

func NewCheckoutService(
	payments ports.PaymentRepository,
	gateway ports.PaymentGateway,
	lock ports.SettlementLock,
	cleanup ports.CleanupQueue,
	opts CheckoutOptions,
	log zerolog.Logger,
) *CheckoutService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultGatewayTimeout
	}
	if opts.Currency == (currency.Unit{}) {
		opts.Currency = currency.USD
	}
	return &CheckoutService{
		payments: payments,
		gateway:  gateway,
		lock:     lock,
		cleanup:  cleanup,
		currency: opts.Currency,
		timeout:  opts.Timeout,
		log:      log,
	}
}

// CreateIntent validates the price and asks the gateway for a charge
// authorization. No money moves and the cart is not touched.
func (s *CheckoutService) CreateIntent(ctx context.Context, email, rawPrice string) (*ports.IntentResult, error) {
	checkout := domain.NewCheckout()

	_, amount, err := domain.ParseAmount(rawPrice)
	if err != nil {
		s.fail(checkout, "invalid_amount")
		return nil, err
	}

	intent, err := s.authorize(ctx, amount)
	if err != nil {
		s.fail(checkout, failureReason(err))
		s.log.Warn().Err(err).Str("email", email).Int64("amount", int64(amount)).Msg("payment authorization failed")
		return nil, err
	}

	s.advance(checkout, domain.CheckoutAuthorized)
	s.log.Info().
		Str("email", email).
		Str("intent_id", intent.ID).
		Int64("amount", int64(amount)).
		Str("currency", s.currency.String()).
		Msg("payment authorized")

	return &ports.IntentResult{
		ClientSecret: intent.ClientSecret,
		Amount:       amount,
		Currency:     s.currency.String(),
	}, nil
}

// authorize calls the gateway bounded by the configured timeout. The call returns
// at the deadline even if the gateway ignores ctx; done is buffered so the
// gateway goroutine always exits.
func (s *CheckoutService) authorize(ctx context.Context, amount domain.MinorUnits) (*ports.PaymentIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	type outcome struct {
		intent *ports.PaymentIntent
		err    error
	}
	done := make(chan outcome, 1)
	start := time.Now()

	go func() {
		intent, err := s.gateway.CreateIntent(ctx, amount, s.currency)
		done <- outcome{intent: intent, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}

	if errors.Is(out.err, context.DeadlineExceeded) {
		out.err = fmt.Errorf("%w after %s", domain.ErrPaymentTimeout, s.timeout)
	}
	metrics.GatewayDuration.WithLabelValues(gatewayOutcome(out.err)).Observe(time.Since(start).Seconds())

	if out.err != nil {
		return nil, out.err
	}
	if out.intent == nil || out.intent.ClientSecret == "" {
		return nil, errors.New("payment gateway returned no client secret")
	}
	return out.intent, nil
}

// Settle records a completed payment and retires the cart entries it consumed.
func (s *CheckoutService) Settle(ctx context.Context, in ports.SettleInput) (*ports.Settlement, error) {
	checkout := domain.ResumeCheckout()

	if in.Email != "" && in.Email != in.ClaimEmail {
		s.fail(checkout, "payer_mismatch")
		return nil, domain.ErrForbidden
	}
	ids := uniqueIDs(in.CartItemIDs)
	if len(ids) == 0 {
		s.fail(checkout, "no_cart_items")
		return nil, fmt.Errorf("%w: at least one cart item id is required", domain.ErrInvalidReference)
	}
	price, _, err := domain.ParseAmount(in.Price)
	if err != nil {
		s.fail(checkout, "invalid_amount")
		return nil, err
	}

	release, err := s.lock.Acquire(ctx, in.ClaimEmail)
	switch {
	case errors.Is(err, domain.ErrSettlementInProgress):
		s.fail(checkout, "in_progress")
		return nil, err
	case err != nil:
		s.log.Warn().Err(err).Str("email", in.ClaimEmail).Msg("settlement lock unavailable, settling without it")
	default:
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.log.Warn().Err(err).Str("email", in.ClaimEmail).Msg("failed to release settlement lock")
			}
		}()
	}

	payment := &domain.Payment{
		Email:         in.ClaimEmail,
		Price:         domain.RoundMoney(price),
		TransactionID: in.TransactionID,
		CartItemIDs:   ids,
		MenuItemIDs:   in.MenuItemIDs,
		Status:        domain.PaymentStatusSettled,
		CreatedAt:     time.Now().UTC(),
	}

	settlement, err := s.payments.Settle(ctx, payment)
	if err != nil && settlement == nil {
		s.fail(checkout, failureReason(err))
		return nil, fmt.Errorf("settle payment: %w", err)
	}

	switch {
	case err != nil:
		// Payment is recorded; only the cart deletion failed.
		s.log.Error().Err(err).Str("payment_id", settlement.PaymentID).Msg("cart cleanup failed after payment insert")
		s.queueCleanup(settlement, payment)
	case !settlement.Atomic && int(settlement.Deleted) < settlement.Requested:
		s.log.Warn().
			Str("payment_id", settlement.PaymentID).
			Int("requested", settlement.Requested).
			Int64("deleted", settlement.Deleted).
			Msg("partial cart cleanup after payment insert")
		s.queueCleanup(settlement, payment)
	}

	s.advance(checkout, domain.CheckoutSettled)
	metrics.SettlementsTotal.WithLabelValues(settlementMode(settlement), cleanupLabel(settlement)).Inc()
	s.log.Info().
		Str("email", payment.Email).
		Str("payment_id", settlement.PaymentID).
		Float64("price", payment.Price).
		Int("cart_items", len(ids)).
		Msg("payment settled")

	return settlement, nil
}

// History lists the payer's recorded payments.
func (s *CheckoutService) History(ctx context.Context, email string) ([]domain.Payment, error) {
	if email == "" {
		return []domain.Payment{}, nil
	}
	payments, err := s.payments.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("payment history: %w", err)
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

// ReplayCleanups queues cart deletions for recorded payments whose entries are
// still present. Payments are the durable record; jobs dropped on a full queue
// or lost on restart are redone here.
func (s *CheckoutService) ReplayCleanups(ctx context.Context) (int, error) {
	jobs, err := s.payments.PendingCleanups(ctx)
	if err != nil {
		return 0, fmt.Errorf("pending cleanups: %w", err)
	}

	queued := 0
	for _, job := range jobs {
		if !s.cleanup.Enqueue(job) {
			s.log.Warn().Int("remaining", len(jobs)-queued).Msg("cart cleanup queue full, replay stopped early")
			break
		}
		queued++
	}
	if queued > 0 {
		s.log.Info().Int("jobs", queued).Msg("cart cleanup replayed")
	}
	return queued, nil
}

func (s *CheckoutService) queueCleanup(settlement *ports.Settlement, payment *domain.Payment) {
	job := ports.CartCleanupJob{
		Email:       payment.Email,
		PaymentID:   settlement.PaymentID,
		CartItemIDs: payment.CartItemIDs,
	}
	if s.cleanup.Enqueue(job) {
		settlement.CleanupPending = true
		return
	}
	settlement.ReconciliationRequired = true
	s.log.Error().
		Str("payment_id", settlement.PaymentID).
		Strs("cart_ids", job.CartItemIDs).
		Msg("cart cleanup queue full, entries left for startup replay")
}

func (s *CheckoutService) advance(c *domain.Checkout, next domain.CheckoutState) {
	if err := c.Advance(next); err != nil {
		s.log.Error().Err(err).Msg("checkout state machine violation")
		return
	}
	metrics.CheckoutTransitionsTotal.WithLabelValues(string(next), "").Inc()
}

func (s *CheckoutService) fail(c *domain.Checkout, reason string) {
	if err := c.Fail(reason); err != nil {
		s.log.Error().Err(err).Msg("checkout state machine violation")
		return
	}
	metrics.CheckoutTransitionsTotal.WithLabelValues(string(domain.CheckoutFailed), reason).Inc()
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrPaymentDeclined):
		return "declined"
	case errors.Is(err, domain.ErrPaymentTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrInvalidReference):
		return "invalid_reference"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func gatewayOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrPaymentDeclined):
		return "declined"
	case errors.Is(err, domain.ErrPaymentTimeout):
		return "timeout"
	default:
		return "error"
	}
}

func settlementMode(s *ports.Settlement) string {
	if s.Atomic {
		return "transaction"
	}
	return "sequential"
}

func cleanupLabel(s *ports.Settlement) string {
	switch {
	case s.ReconciliationRequired:
		return "reconcile"
	case s.CleanupPending:
		return "pending"
	default:
		return "complete"
	}
}

// uniqueIDs drops empty and repeated ids, keeping first-seen order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
