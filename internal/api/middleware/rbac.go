package middleware

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// RoleLookup reports whether an email carries the admin role.
type RoleLookup interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin admits only authenticated admins. It must follow Authenticate.
// Lookup failures are returned unchanged so they surface as server errors.
func RequireAdmin(lookup RoleLookup) Guard {
	return func(c echo.Context) error {
		email := ClaimEmail(c)
		if email == "" {
			return reject("admin", "unauthenticated", domain.ErrUnauthenticated)
		}

		admin, err := lookup.IsAdmin(c.Request().Context(), email)
		if err != nil {
			return fmt.Errorf("admin lookup: %w", err)
		}
		if !admin {
			return reject("admin", "not_admin", domain.ErrForbidden)
		}
		return nil
	}
}

// OwnerFunc extracts the email a route is scoped to.
type OwnerFunc func(c echo.Context) string

// QueryOwner reads the owner from a query parameter.
func QueryOwner(name string) OwnerFunc {
	return func(c echo.Context) string { return c.QueryParam(name) }
}

// PathOwner reads the owner from a path parameter.
func PathOwner(name string) OwnerFunc {
	return func(c echo.Context) string { return c.Param(name) }
}

// RequireSelf admits the request only when the owner named by the route is the
// authenticated user. An absent owner passes; the handler then sees no data.
func RequireSelf(owner OwnerFunc) Guard {
	return func(c echo.Context) error {
		claim := ClaimEmail(c)
		if claim == "" {
			return reject("self", "unauthenticated", domain.ErrUnauthenticated)
		}
		if o := owner(c); o != "" && o != claim {
			return reject("self", "owner_mismatch", domain.ErrForbidden)
		}
		return nil
	}
}
