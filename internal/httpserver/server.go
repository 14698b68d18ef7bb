package httpserver

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/bag_shop/internal/metrics"
	loggingmw "github.com/Skotchmaster/bag_shop/internal/middleware/logging"
	"github.com/Skotchmaster/bag_shop/internal/validation"
)

type Options struct {
	Logger     *slog.Logger
	Production bool
	// AllowOrigins is the CORS allowlist; credentials are allowed for it.
	AllowOrigins []string
}

// New builds the echo instance with the shared middleware stack and all routes.
func New(d *Deps, o Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = ErrorHandler(o.Production)

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(o.Logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     o.AllowOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echomw.Secure())
	e.Use(echomw.BodyLimit("10M"))

	Register(e, d)
	return e
}
