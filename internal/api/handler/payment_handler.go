package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type PaymentHandler struct {
	checkout ports.CheckoutService
}

func NewPaymentHandler(checkout ports.CheckoutService) *PaymentHandler {
	return &PaymentHandler{checkout: checkout}
}

// CreateIntent obtains a card charge authorization for a price.
//
// @Summary      Create payment intent
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      paymentIntentRequest  true  "Price in major units"
// @Success      200   {object}  paymentIntentResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      402   {object}  ErrorResponse
// @Failure      504   {object}  ErrorResponse
// @Router       /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c echo.Context) error {
	email, err := claimEmail(c)
	if err != nil {
		return err
	}
	var req paymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	res, err := h.checkout.CreateIntent(c.Request().Context(), email, string(req.Price))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentIntentResponse{ClientSecret: res.ClientSecret})
}

// Settle records a completed payment and clears the cart entries it paid for.
//
// @Summary      Settle payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      paymentRequest  true  "Completed payment"
// @Success      200   {object}  settlementResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /payments [post]
func (h *PaymentHandler) Settle(c echo.Context) error {
	email, err := claimEmail(c)
	if err != nil {
		return err
	}
	var req paymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	s, err := h.checkout.Settle(c.Request().Context(), ports.SettleInput{
		ClaimEmail:    email,
		Email:         req.Email,
		Price:         string(req.Price),
		TransactionID: req.TransactionID,
		CartItemIDs:   req.CartIDs,
		MenuItemIDs:   req.MenuItemIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, settlementResponse{
		InsertResult:           insertResponse{InsertedID: stringPtr(s.PaymentID)},
		DeleteResult:           deleteResponse{DeletedCount: s.Deleted},
		CleanupPending:         s.CleanupPending,
		ReconciliationRequired: s.ReconciliationRequired,
	})
}

// History lists the caller's payments, newest first.
//
// @Summary      Payment history
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Payer email (must be the caller's)"
// @Success      200    {array}   domain.Payment
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse
// @Router       /payments/{email} [get]
func (h *PaymentHandler) History(c echo.Context) error {
	payments, err := h.checkout.History(c.Request().Context(), c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, payments)
}
