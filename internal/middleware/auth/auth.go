package auth

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/metrics"
	"github.com/Skotchmaster/bag_shop/internal/session"
)

const (
	CtxUserID = "user_id"
	CtxRole   = "role"

	MsgNoToken      = "Not authorized, no token provided"
	MsgInvalidToken = "Not authorized, invalid token"
	MsgExpiredToken = "Not authorized, token expired"
)

type Verifier interface {
	Verify(token string) (*session.Identity, error)
}

type Gate struct {
	Sessions Verifier
}

func NewGate(v Verifier) *Gate {
	return &Gate{Sessions: v}
}

// RequireAuth resolves the session identity from the token cookie or a
// bearer header and puts it into the request context.
func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		l := logging.FromContext(c.Request().Context()).With("middleware", "auth.require_auth")

		raw := tokenFromRequest(c)
		if raw == "" {
			metrics.AuthRejected("missing")
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "no token")
			return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
		}

		id, err := g.Sessions.Verify(raw)
		if err != nil {
			if errors.Is(err, session.ErrExpired) {
				metrics.AuthRejected("expired")
				l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "expired", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, MsgExpiredToken).SetInternal(err)
			}
			metrics.AuthRejected("invalid")
			l.Warn("auth_rejected", "status", http.StatusUnauthorized, "reason", "invalid", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, MsgInvalidToken).SetInternal(err)
		}

		ctx := session.IntoContext(c.Request().Context(), id)
		ctx = logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", id.SubjectID))
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(CtxUserID, id.SubjectID)
		c.Set(CtxRole, id.Role)

		return next(c)
	}
}

// RequireRole must be chained after RequireAuth.
func RequireRole(allowed ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				metrics.AuthRejected("missing")
				return echo.NewHTTPError(http.StatusUnauthorized, MsgNoToken)
			}
			if !slices.Contains(allowed, id.Role) {
				metrics.AuthRejected("role")
				logging.FromContext(c.Request().Context()).Warn("auth_forbidden",
					"status", http.StatusForbidden, "role", id.Role, "allowed", allowed)
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("Role '%s' is not authorized to access this route", id.Role))
			}
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (*session.Identity, bool) {
	return session.FromContext(c.Request().Context())
}

func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if token, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
