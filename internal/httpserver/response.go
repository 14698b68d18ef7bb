package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bag_shop/internal/pagination"
	"github.com/Skotchmaster/bag_shop/internal/validation"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       any               `json:"data,omitempty"`
	Pagination *pagination.Page  `json:"pagination,omitempty"`
	Errors     validation.Errors `json:"errors,omitempty"`
	Stack      string            `json:"stack,omitempty"`
}

func respond(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, Envelope{Success: true, Message: message, Data: data})
}

func respondPage(c echo.Context, data any, page pagination.Page) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Pagination: &page})
}
