package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/pagination"
	"github.com/Skotchmaster/bag_shop/internal/service"
	"github.com/Skotchmaster/bag_shop/internal/transport"
	"github.com/Skotchmaster/bag_shop/internal/validation"
)

type UsersHTTP struct {
	Svc *service.UserService
}

// GetUsers clamps loose page/limit input instead of rejecting it.
func (h *UsersHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_users")

	page, limit := 1, pagination.DefaultPageSize
	if err := echo.QueryParamsBinder(c).Int("page", &page).Int("limit", &limit).BindError(); err != nil {
		return fail(l, "get_users_error", validation.FromBinding(err))
	}

	items, p, err := h.Svc.ListUsers(ctx, page, limit)
	if err != nil {
		return fail(l, "get_users_error", err)
	}
	return respondPage(c, items, p)
}

func (h *UsersHTTP) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		return fail(l, "get_stats_error", err)
	}
	return respond(c, http.StatusOK, "", st)
}

func (h *UsersHTTP) GetUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_user")

	id, err := parseID(l, c, "get_user_error")
	if err != nil {
		return err
	}

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return fail(l, "get_user_error", err)
	}
	return respond(c, http.StatusOK, "", user)
}

func (h *UsersHTTP) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.update_role")

	id, err := parseID(l, c, "update_role_error")
	if err != nil {
		return err
	}

	var req transport.UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_role_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}

	user, err := h.Svc.UpdateRole(ctx, id, req.Role)
	if err != nil {
		return fail(l, "update_role_error", err)
	}

	l.Info("update_role_success", "target_id", user.ID, "role", user.Role)
	return respond(c, http.StatusOK, "User role updated successfully", user)
}

func (h *UsersHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.delete_user")

	id, err := parseID(l, c, "delete_user_error")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteUser(ctx, id); err != nil {
		return fail(l, "delete_user_error", err)
	}

	l.Info("delete_user_success", "target_id", id)
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}
