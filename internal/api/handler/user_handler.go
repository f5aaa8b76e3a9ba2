package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/contalink/backoffice/internal/core/navigation"
	"github.com/contalink/backoffice/internal/core/ports"
	"github.com/contalink/backoffice/internal/core/schema"
)

type UserHandler struct {
	users ports.UserService
	menu  navigation.Menu
	views *Views
}

func NewUserHandler(users ports.UserService, menu navigation.Menu, views *Views) *UserHandler {
	return &UserHandler{users: users, menu: menu, views: views}
}

// Index handles GET /api/users. With a search or role parameter it answers
// the user picker (a plain array); otherwise the paged admin list.
//
// @Summary      Search or list users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "Name or email (picker)"
// @Param        role    query     string  false  "Role (picker)"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Rows per page"
// @Success      200     {object}  Response
// @Failure      403     {object}  Response
// @Router       /api/users [get]
func (h *UserHandler) Index(c echo.Context) error {
	params := c.QueryParams()
	if params.Has("search") || params.Has("role") {
		return h.search(c)
	}

	var q schema.ListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	return h.views.list(c, ports.UsersPath, func(ctx context.Context) (any, error) {
		page, err := h.users.List(ctx, actorFrom(c), &q)
		if err != nil {
			return nil, err
		}
		return listData(page), nil
	})
}

func (h *UserHandler) search(c echo.Context) error {
	var q schema.UserSearchQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	users, err := h.users.Search(c.Request().Context(), actorFrom(c), &q)
	if err != nil {
		return err
	}
	return ok(c, users)
}

// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      schema.UserForm  true  "User"
// @Success      201   {object}  Response
// @Failure      403   {object}  Response
// @Failure      409   {object}  Response
// @Failure      422   {object}  Response
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var form schema.UserForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	user, err := h.users.Create(c.Request().Context(), actorFrom(c), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusCreated, "Usuario creado correctamente", user)
}

// @Summary      Assign role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "User ID"
// @Param        body  body      schema.RoleForm  true  "Role"
// @Success      200   {object}  Response
// @Failure      403   {object}  Response
// @Failure      404   {object}  Response
// @Router       /api/users/{id}/role [patch]
func (h *UserHandler) AssignRole(c echo.Context) error {
	var form schema.RoleForm
	if err := bindBody(c, &form); err != nil {
		return err
	}
	user, err := h.users.AssignRole(c.Request().Context(), actorFrom(c), c.Param("id"), &form)
	if err != nil {
		return err
	}
	return done(c, http.StatusOK, "Rol asignado correctamente", user)
}

// @Summary      Delete user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "User ID"
// @Param        confirm  query     bool    true  "Must be true"
// @Success      200      {object}  Response
// @Failure      403      {object}  Response
// @Failure      404      {object}  Response
// @Failure      428      {object}  Response
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := requireConfirmation(c); err != nil {
		return err
	}
	if err := h.users.Delete(c.Request().Context(), actorFrom(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, http.StatusOK, "Usuario eliminado correctamente", nil)
}

// Me returns the signed-in user.
//
// @Summary      Current user
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Router       /api/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.users.Current(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, user)
}

// Permissions returns the signed-in user together with what its role grants.
//
// @Summary      Current user with permissions
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Router       /api/me/permissions [get]
func (h *UserHandler) Permissions(c echo.Context) error {
	current, err := h.users.CurrentWithPermissions(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, current)
}

// Sidebar returns the navigation entries the caller's role may see.
//
// @Summary      Authorized sidebar items
// @Tags         session
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Response
// @Failure      401  {object}  Response
// @Router       /api/sidebar [get]
func (h *UserHandler) Sidebar(c echo.Context) error {
	user, err := h.users.Current(c.Request().Context(), actorFrom(c))
	if err != nil {
		return err
	}
	return ok(c, navigation.Authorize(user.Role, h.menu))
}
