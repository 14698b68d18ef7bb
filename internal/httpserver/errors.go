package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/db"
	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/middleware/auth"
	"github.com/Skotchmaster/bag_shop/internal/service"
	"github.com/Skotchmaster/bag_shop/internal/session"
	"github.com/Skotchmaster/bag_shop/internal/validation"
)

const (
	msgServerError    = "Server Error"
	msgInvalidID      = "Invalid id"
	msgInvalidBody    = "Invalid request body"
	msgDuplicateValue = "Duplicate field value"
	msgTooManyReqs    = "Too many requests, please try again later"
)

// ErrorHandler renders every error returned by the handler chain as an
// Envelope. The error chain is exposed as stack outside production.
func ErrorHandler(production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := status(err)
		body := Envelope{Success: false, Message: msg}

		var verrs validation.Errors
		if errors.As(err, &verrs) {
			body.Errors = verrs
		}
		if errors.Is(err, echo.ErrNotFound) {
			body.Message = fmt.Sprintf("Route %s not found", c.Request().URL.Path)
		}
		if !production {
			body.Stack = chain(err)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, body)
		}
		if werr != nil {
			logging.FromContext(c.Request().Context()).Error("error_response_failed", "error", werr)
		}
	}
}

// status maps an error to the response code and the caller facing message.
func status(err error) (int, string) {
	var (
		verrs validation.Errors
		he    *echo.HTTPError
		se    *service.Error
	)

	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, validation.Message
	case errors.As(err, &he):
		return he.Code, fmt.Sprint(he.Message)
	case errors.As(err, &se):
		return kindStatus(se.Kind), se.Msg
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "Resource not found"
	case db.IsDuplicateKey(err):
		return http.StatusBadRequest, msgDuplicateValue
	case errors.Is(err, session.ErrExpired):
		return http.StatusUnauthorized, auth.MsgExpiredToken
	case errors.Is(err, session.ErrMalformed), errors.Is(err, session.ErrSignatureInvalid):
		return http.StatusUnauthorized, auth.MsgInvalidToken
	}
	return http.StatusInternalServerError, msgServerError
}

func kindStatus(kind error) int {
	switch kind {
	case service.ErrValidation, service.ErrConflict:
		return http.StatusBadRequest
	case service.ErrUnauthenticated:
		return http.StatusUnauthorized
	case service.ErrForbidden:
		return http.StatusForbidden
	case service.ErrNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// fail logs err under event and turns it into the error handed to echo.
// Validation errors pass through so their field list survives.
func fail(l *slog.Logger, event string, err error) error {
	code, msg := status(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err)
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		return verrs
	}
	return echo.NewHTTPError(code, msg).SetInternal(err)
}

func chain(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Internal != nil {
		return fmt.Sprintf("%v: %v", he.Message, he.Internal)
	}
	return err.Error()
}
