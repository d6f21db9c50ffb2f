package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/domain"
	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type CartHandler struct {
	carts ports.CartService
}

func NewCartHandler(carts ports.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// Add appends an entry to a cart. Repeated adds create separate entries.
//
// @Summary      Add cart entry
// @Tags         carts
// @Accept       json
// @Produce      json
// @Param        body  body      cartEntryRequest  true  "Cart entry"
// @Success      200   {object}  insertResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /carts [post]
func (h *CartHandler) Add(c echo.Context) error {
	var req cartEntryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.carts.Add(c.Request().Context(), domain.CartEntry{
		Email:      req.Email,
		MenuItemID: req.MenuID,
		Name:       req.Name,
		Image:      req.Image,
		Price:      req.Price,
		Quantity:   req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, insertResponse{InsertedID: stringPtr(id)})
}

// List returns the caller's cart.
//
// @Summary      List cart entries
// @Tags         carts
// @Produce      json
// @Security     BearerAuth
// @Param        email  query     string  false  "Owner email (must be the caller's)"
// @Success      200    {array}   domain.CartEntry
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse
// @Router       /carts [get]
func (h *CartHandler) List(c echo.Context) error {
	entries, err := h.carts.ListByOwner(c.Request().Context(), c.QueryParam("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// Remove deletes one cart entry. Removing an absent id reports zero deleted.
//
// @Summary      Remove cart entry
// @Tags         carts
// @Produce      json
// @Param        id   path      string  true  "Cart entry id"
// @Success      200  {object}  deleteResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /carts/{id} [delete]
func (h *CartHandler) Remove(c echo.Context) error {
	n, err := h.carts.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{DeletedCount: n})
}
