package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/api/middleware"
	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
)

// claimEmail returns the email injected by the Authenticate guard. An empty
// claim means the route was mounted without it, which is rejected as 401.
func claimEmail(c echo.Context) (string, error) {
	email := middleware.ClaimEmail(c)
	if email == "" {
		return "", domain.ErrUnauthenticated
	}
	return email, nil
}

// bindAndValidate decodes the body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
