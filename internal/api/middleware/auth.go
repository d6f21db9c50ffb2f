package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/api/metrics"
	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// EmailKey is the echo context key holding the authenticated email.
const EmailKey = "email"

// Guard is a single access check. A non-nil error stops the request.
type Guard func(c echo.Context) error

// Chain runs guards in order and calls the handler only when all pass.
func Chain(guards ...Guard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			for _, g := range guards {
				if err := g(c); err != nil {
					return err
				}
			}
			return next(c)
		}
	}
}

// TokenVerifier checks a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// Authenticate requires "Authorization: Bearer <token>" and stores the verified
// email under EmailKey.
func Authenticate(verifier TokenVerifier) Guard {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return reject("authenticate", "missing_header", domain.ErrUnauthenticated)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			return reject("authenticate", "malformed_header", domain.ErrUnauthenticated)
		}

		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			return reject("authenticate", "invalid_token", err)
		}

		c.Set(EmailKey, claims.Email)
		return nil
	}
}

// ClaimEmail returns the authenticated email, or "" outside an authenticated route.
func ClaimEmail(c echo.Context) string {
	email, _ := c.Get(EmailKey).(string)
	return email
}

func reject(guard, reason string, err error) error {
	metrics.GuardRejectionsTotal.WithLabelValues(guard, reason).Inc()
	return err
}
