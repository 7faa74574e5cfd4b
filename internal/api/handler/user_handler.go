package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorny/user-api/internal/core/ports"
)

type UserHandler struct {
	userService ports.UserService
}

func NewUserHandler(userService ports.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List returns every user. Restricted to super admins.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single user by id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.userService.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Update applies a partial profile update.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to update"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.userService.Update(c.Request().Context(), c.Param("id"), ports.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Age:      req.Age,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a user account. Restricted to super admins; super-admin
// targets are refused no matter who asks.
//
// @Summary      Delete a user
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	actorID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.userService.Remove(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// AddSkills associates named skills with a user, creating unknown names.
//
// @Summary      Add skills to a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "User id"
// @Param        body  body      addSkillsRequest  true  "Skill names"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/{id}/skills [post]
func (h *UserHandler) AddSkills(c echo.Context) error {
	var req addSkillsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.AddSkills(c.Request().Context(), c.Param("id"), req.Skills)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListSkills returns every known skill.
//
// @Summary      List skills
// @Tags         skills
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Skill
// @Router       /skills [get]
func (h *UserHandler) ListSkills(c echo.Context) error {
	skills, err := h.userService.ListSkills(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, skills)
}
