package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/awesome-restaurant/restaurant-api/internal/core/ports"
)

type UserHandler struct {
	users ports.UserService
}

func NewUserHandler(users ports.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register stores a new identity; an existing email is reported, not overwritten.
//
// @Summary      Register identity
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Identity"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  ErrorResponse
// @Router       /users [post]
func (h *UserHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.users.Register(c.Request().Context(), ports.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}
	if res.Existing {
		return c.JSON(http.StatusOK, registerResponse{Message: "user already exists"})
	}
	return c.JSON(http.StatusOK, registerResponse{InsertedID: stringPtr(res.InsertedID)})
}

// List returns every identity.
//
// @Summary      List identities
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Delete removes an identity by id.
//
// @Summary      Remove identity
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  deleteResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	n, err := h.users.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteResponse{DeletedCount: n})
}

// Promote grants the admin role.
//
// @Summary      Promote identity to admin
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  ports.UpdateResult
// @Failure      400  {object}  ErrorResponse
// @Router       /users/admin/{id} [patch]
func (h *UserHandler) Promote(c echo.Context) error {
	res, err := h.users.Promote(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// CheckAdmin tells the caller whether its own email is an admin.
//
// @Summary      Check admin role
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        email  path      string  true  "Email (must be the caller's)"
// @Success      200    {object}  adminResponse
// @Failure      401    {object}  ErrorResponse
// @Failure      403    {object}  ErrorResponse
// @Router       /users/admin/{email} [get]
func (h *UserHandler) CheckAdmin(c echo.Context) error {
	claim, err := claimEmail(c)
	if err != nil {
		return err
	}
	admin, err := h.users.CheckAdmin(c.Request().Context(), claim, c.Param("email"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, adminResponse{Admin: admin})
}
