package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type MenuHandler struct {
	menu ports.MenuService
}

func NewMenuHandler(menu ports.MenuService) *MenuHandler {
	return &MenuHandler{menu: menu}
}

// List returns the menu.
//
// @Summary      List menu items
// @Tags         menu
// @Produce      json
// @Success      200  {array}  domain.MenuItem
// @Router       /menu [get]
func (h *MenuHandler) List(c echo.Context) error {
	items, err := h.menu.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create adds a menu item.
//
// @Summary      Create menu item
// @Tags         menu
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      menuItemRequest  true  "Menu item"
// @Success      200   {object}  insertResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Router       /menu [post]
func (h *MenuHandler) Create(c echo.Context) error {
	var req menuItemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	id, err := h.menu.Create(c.Request().Context(), ports.MenuItemInput{
		Name:     req.Name,
		Recipe:   req.Recipe,
		Image:    req.Image,
		Category: req.Category,
		Price:    req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, insertResponse{InsertedID: stringPtr(id)})
}

// Delete removes a menu item.
//
// @Summary      Delete menu item
// @Tags         menu
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Menu item id"
// @Success      200  {object}  deleteResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /menu/{id} [delete]
func (h *MenuHandler) Delete(c echo.Context) error {
	n, err := h.menu.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{DeletedCount: n})
}

type ReviewHandler struct {
	reviews ports.ReviewService
}

func NewReviewHandler(reviews ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// List returns customer reviews.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Success      200  {array}  domain.Review
// @Router       /reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	reviews, err := h.reviews.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}
