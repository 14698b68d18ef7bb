package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/middleware/auth"
	"github.com/Skotchmaster/bag_shop/internal/service"
	"github.com/Skotchmaster/bag_shop/internal/session"
	"github.com/Skotchmaster/bag_shop/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
	// SecureCookie marks the session cookie Secure; set in production.
	SecureCookie bool
	Now          func() time.Time
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return fail(l, "register_error", err)
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return fail(l, "register_error", err)
	}

	h.setSession(c, res)
	l.Info("register_success", "user_id", res.User.ID)
	return respond(c, http.StatusCreated, "Registration successful", res.User)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return fail(l, "login_error", err)
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err)
	}

	h.setSession(c, res)
	l.Info("login_success", "user_id", res.User.ID)
	return respond(c, http.StatusOK, "Login successful", res.User)
}

// Logout only clears the cookie; the token stays valid until it expires.
func (h *AuthHTTP) Logout(c echo.Context) error {
	l := logging.FromContext(c.Request().Context()).With("handler", "auth.logout")

	c.SetCookie(session.DeleteCookie(h.SecureCookie))

	l.Info("logout_success")
	return respond(c, http.StatusOK, "Logged out successfully", nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	id, _ := auth.IdentityFrom(c)
	user, err := h.Svc.Me(ctx, id.SubjectID)
	if err != nil {
		return fail(l, "me_error", err)
	}
	return respond(c, http.StatusOK, "", user)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_profile")

	var req transport.ProfileUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return fail(l, "update_profile_error", err)
	}

	id, _ := auth.IdentityFrom(c)
	user, err := h.Svc.UpdateProfile(ctx, id.SubjectID, req)
	if err != nil {
		return fail(l, "update_profile_error", err)
	}

	l.Info("update_profile_success")
	return respond(c, http.StatusOK, "Profile updated successfully", user)
}

func (h *AuthHTTP) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.update_password")

	var req transport.PasswordUpdateRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_password_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	if err := c.Validate(&req); err != nil {
		return fail(l, "update_password_error", err)
	}

	id, _ := auth.IdentityFrom(c)
	res, err := h.Svc.UpdatePassword(ctx, id.SubjectID, req)
	if err != nil {
		return fail(l, "update_password_error", err)
	}

	h.setSession(c, res)
	l.Info("update_password_success")
	return respond(c, http.StatusOK, "Password updated successfully", nil)
}

func (h *AuthHTTP) setSession(c echo.Context, res *service.AuthResult) {
	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	c.SetCookie(session.CreateCookie(res.Token, res.ExpiresAt.Sub(now()), h.SecureCookie))
}
