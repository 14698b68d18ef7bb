package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/metrics"
	"github.com/Skotchmaster/bag_shop/internal/middleware/auth"
	"github.com/Skotchmaster/bag_shop/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CatalogHandler *CatalogHTTP
	UsersHandler   *UsersHTTP
	Gate           *auth.Gate
	// AuthRateLimit is requests per second per client IP on login and
	// register. Zero disables the limiter.
	AuthRateLimit float64
	// Ready reports whether the backing store is reachable.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", ready(d.Ready))
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"success":   true,
			"message":   "Server is running",
			"timestamp": time.Now().UTC(),
		})
	})

	admin := []echo.MiddlewareFunc{d.Gate.RequireAuth, auth.RequireRole(models.RoleAdmin)}

	authGroup := api.Group("/auth")
	limited := authLimiter(d.AuthRateLimit)
	authGroup.POST("/register", d.AuthHandler.Register, limited...)
	authGroup.POST("/login", d.AuthHandler.Login, limited...)
	authGroup.POST("/logout", d.AuthHandler.Logout, d.Gate.RequireAuth)
	authGroup.GET("/me", d.AuthHandler.Me, d.Gate.RequireAuth)
	authGroup.PUT("/profile", d.AuthHandler.UpdateProfile, d.Gate.RequireAuth)
	authGroup.PUT("/password", d.AuthHandler.UpdatePassword, d.Gate.RequireAuth)

	bags := api.Group("/bags")
	bags.GET("", d.CatalogHandler.GetBags)
	bags.GET("/categories", d.CatalogHandler.GetCategories)
	bags.GET("/search", d.CatalogHandler.SearchBags)
	bags.GET("/:id", d.CatalogHandler.GetBag)
	bags.POST("", d.CatalogHandler.CreateBag, admin...)
	bags.PUT("/:id", d.CatalogHandler.UpdateBag, admin...)
	bags.DELETE("/:id", d.CatalogHandler.DeleteBag, admin...)

	users := api.Group("/users", admin...)
	users.GET("", d.UsersHandler.GetUsers)
	users.GET("/stats", d.UsersHandler.GetStats)
	users.GET("/:id", d.UsersHandler.GetUser)
	users.PUT("/:id/role", d.UsersHandler.UpdateRole)
	users.DELETE("/:id", d.UsersHandler.DeleteUser)
}

func ready(check func(ctx context.Context) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		if check == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := check(ctx); err != nil {
			logging.FromContext(ctx).Warn("readiness_failed", "status", 503, "error", err)
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	}
}

func authLimiter(perSecond float64) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     max(1, int(perSecond*2)),
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logging.FromContext(c.Request().Context()).Warn("rate_limited", "status", 429, "ip", identifier)
			return echo.NewHTTPError(http.StatusTooManyRequests, msgTooManyReqs)
		},
	})}
}
