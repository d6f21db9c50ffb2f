package domain

import "errors"

var (
	ErrUnauthenticated      = errors.New("unauthorized access")
	ErrForbidden            = errors.New("forbidden access")
	ErrInvalidIdentity      = errors.New("invalid identity")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidReference     = errors.New("invalid reference")
	ErrPaymentDeclined      = errors.New("payment declined")
	ErrPaymentTimeout       = errors.New("payment authorization timed out")
	ErrSettlementInProgress = errors.New("settlement already in progress")
	ErrInvalidTransition    = errors.New("invalid checkout transition")
)
