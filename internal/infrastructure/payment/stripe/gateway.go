// Package stripe adapts the Stripe PaymentIntents API to ports.PaymentGateway.
package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"golang.org/x/text/currency"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type intentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Gateway creates card payment intents.
type Gateway struct {
	intents intentCreator
}

func NewGateway(secretKey string) *Gateway {
	sc := client.New(secretKey, nil)
	return &Gateway{intents: sc.PaymentIntents}
}

// CreateIntent authorizes a card charge of amount minor units. Card errors are
// reported as domain.ErrPaymentDeclined.
func (g *Gateway) CreateIntent(ctx context.Context, amount domain.MinorUnits, cur currency.Unit) (*ports.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(amount)),
		Currency:           stripe.String(strings.ToLower(cur.String())),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := g.intents.New(params)
	if err != nil {
		return nil, mapError(err)
	}
	return &ports.PaymentIntent{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func mapError(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch se.Type {
		case stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s", domain.ErrPaymentDeclined, se.Msg)
		case stripe.ErrorTypeInvalidRequest:
			if se.Code == stripe.ErrorCodeAmountTooSmall || se.Code == stripe.ErrorCodeAmountTooLarge {
				return fmt.Errorf("%w: %s", domain.ErrInvalidAmount, se.Msg)
			}
		}
		return fmt.Errorf("stripe %s: %s", se.Type, se.Msg)
	}
	return fmt.Errorf("stripe: %w", err)
}
