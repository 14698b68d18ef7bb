package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bag_shop/internal/catalog"
	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/service"
	"github.com/Skotchmaster/bag_shop/internal/transport"
	"github.com/Skotchmaster/bag_shop/internal/validation"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetBags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bags.get_bags")

	q := transport.ListBagsQuery{Page: 1, Limit: catalog.DefaultPageSize, Sort: catalog.DefaultSort}
	b := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		String("category", &q.Category).
		String("search", &q.Search).
		String("sort", &q.Sort)
	q.MinPrice = optionalFloat(c, b, "minPrice")
	q.MaxPrice = optionalFloat(c, b, "maxPrice")
	if err := b.BindError(); err != nil {
		return fail(l, "get_bags_error", validation.FromBinding(err))
	}
	if err := c.Validate(&q); err != nil {
		return fail(l, "get_bags_error", err)
	}

	items, page, err := h.Svc.ListBags(ctx, catalog.Filter{
		Category:   q.Category,
		SearchText: strings.TrimSpace(q.Search),
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		SortKey:    q.Sort,
		Page:       q.Page,
		PageSize:   q.Limit,
	})
	if err != nil {
		return fail(l, "get_bags_error", err)
	}

	l.Info("get_bags_success", "total", page.Total)
	return respondPage(c, items, page)
}

func (h *CatalogHTTP) SearchBags(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bags.search_bags")

	q := transport.SearchBagsQuery{Page: 1, Limit: catalog.DefaultPageSize}
	err := echo.QueryParamsBinder(c).
		String("q", &q.Query).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return fail(l, "search_bags_error", validation.FromBinding(err))
	}
	q.Query = strings.TrimSpace(q.Query)
	if err := c.Validate(&q); err != nil {
		return fail(l, "search_bags_error", err)
	}

	items, page, err := h.Svc.SearchBags(ctx, q.Query, q.Page, q.Limit)
	if err != nil {
		return fail(l, "search_bags_error", err)
	}
	return respondPage(c, items, page)
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	return respond(c, http.StatusOK, "", h.Svc.Categories())
}

func (h *CatalogHTTP) GetBag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bags.get_bag")

	id, err := parseID(l, c, "get_bag_error")
	if err != nil {
		return err
	}

	bag, err := h.Svc.GetBag(ctx, id)
	if err != nil {
		return fail(l, "get_bag_error", err)
	}
	return respond(c, http.StatusOK, "", bag)
}

func (h *CatalogHTTP) CreateBag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bags.create_bag")

	var req transport.CreateBagRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_bag_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return fail(l, "create_bag_error", err)
	}

	bag, err := h.Svc.CreateBag(ctx, req)
	if err != nil {
		return fail(l, "create_bag_error", err)
	}

	l.Info("create_bag_success", "bag_id", bag.ID)
	return respond(c, http.StatusCreated, "Bag created successfully", bag)
}

func (h *CatalogHTTP) UpdateBag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bags.update_bag")

	id, err := parseID(l, c, "update_bag_error")
	if err != nil {
		return err
	}

	var req transport.UpdateBagRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_bag_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidBody).SetInternal(err)
	}
	req.Normalize()
	if err := c.Validate(&req); err != nil {
		return fail(l, "update_bag_error", err)
	}

	bag, err := h.Svc.UpdateBag(ctx, id, req)
	if err != nil {
		return fail(l, "update_bag_error", err)
	}

	l.Info("update_bag_success", "bag_id", bag.ID)
	return respond(c, http.StatusOK, "Bag updated successfully", bag)
}

func (h *CatalogHTTP) DeleteBag(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "bags.delete_bag")

	id, err := parseID(l, c, "delete_bag_error")
	if err != nil {
		return err
	}

	if err := h.Svc.DeleteBag(ctx, id); err != nil {
		return fail(l, "delete_bag_error", err)
	}

	l.Info("delete_bag_success", "bag_id", id)
	return respond(c, http.StatusOK, "Bag deleted successfully", nil)
}

// optionalFloat binds name only when it is present so an absent bound stays nil.
func optionalFloat(c echo.Context, b *echo.ValueBinder, name string) *float64 {
	if !c.QueryParams().Has(name) {
		return nil
	}
	var v float64
	b.Float64(name, &v)
	return &v
}

func parseID(l *slog.Logger, c echo.Context, event string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn(event, "status", 400, "reason", "id is not a uuid", "error", err)
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, msgInvalidID).SetInternal(err)
	}
	return id, nil
}
