package domain

import "fmt"

// CheckoutState is the lifecycle state of a single checkout attempt.
type CheckoutState string

const (
	CheckoutRequested  CheckoutState = "requested"
	CheckoutAuthorized CheckoutState = "authorized"
	CheckoutSettled    CheckoutState = "settled"
	CheckoutFailed     CheckoutState = "failed"
)

// checkoutTransitions defines the allowed state machine transitions.
// Settled and failed are terminal.
var checkoutTransitions = map[CheckoutState][]CheckoutState{
	CheckoutRequested:  {CheckoutAuthorized, CheckoutFailed},
	CheckoutAuthorized: {CheckoutSettled, CheckoutFailed},
}

// CanTransitionTo reports whether a transition from current state to next is valid.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	for _, allowed := range checkoutTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s CheckoutState) Terminal() bool {
	return len(checkoutTransitions[s]) == 0
}

// Checkout tracks one attempt through the state machine.
type Checkout struct {
	State  CheckoutState
	Reason string
}

// NewCheckout starts an attempt in the requested state.
func NewCheckout() *Checkout {
	return &Checkout{State: CheckoutRequested}
}

// ResumeCheckout picks up an attempt whose charge was completed out-of-band with the
// payment gateway; settlement requests always start here.
func ResumeCheckout() *Checkout {
	return &Checkout{State: CheckoutAuthorized}
}

// Advance moves the checkout to next or reports an invalid transition.
func (c *Checkout) Advance(next CheckoutState) error {
	if !c.State.CanTransitionTo(next) {
		return fmt.Errorf("%w (from %s to %s)", ErrInvalidTransition, c.State, next)
	}
	c.State = next
	return nil
}

// Fail moves the checkout to the failed state, recording why.
func (c *Checkout) Fail(reason string) error {
	if err := c.Advance(CheckoutFailed); err != nil {
		return err
	}
	c.Reason = reason
	return nil
}
