package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/catalog"
	"github.com/Skotchmaster/bag_shop/internal/events"
	"github.com/Skotchmaster/bag_shop/internal/logging"
	"github.com/Skotchmaster/bag_shop/internal/metrics"
	"github.com/Skotchmaster/bag_shop/internal/models"
	"github.com/Skotchmaster/bag_shop/internal/pagination"
	"github.com/Skotchmaster/bag_shop/internal/transport"
)

const msgBagNotFound = "Bag not found"

type BagRepo interface {
	ListBags(ctx context.Context, q catalog.Query) (int64, []models.Bag, error)
	GetBag(ctx context.Context, id uuid.UUID) (*models.Bag, error)
	CreateBag(ctx context.Context, bag *models.Bag) error
	SaveBag(ctx context.Context, bag *models.Bag) error
	DeleteBag(ctx context.Context, id uuid.UUID) error
}

// BagIndex is the optional full text index kept in sync with the store.
type BagIndex interface {
	IndexBag(ctx context.Context, bag *models.Bag) error
	RemoveBag(ctx context.Context, id string) error
	SearchBags(ctx context.Context, query string, from, size int) (int64, []models.Bag, error)
}

type CatalogService struct {
	Repo   BagRepo
	Index  BagIndex
	Events events.Publisher
}

func (s *CatalogService) ListBags(ctx context.Context, f catalog.Filter) ([]models.Bag, pagination.Page, error) {
	total, items, err := s.Repo.ListBags(ctx, catalog.Build(f))
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if items == nil {
		items = []models.Bag{}
	}
	return items, pagination.Paginate(total, f.Page, f.PageSize), nil
}

// SearchBags prefers the fuzzy index and falls back to substring matching
// in the store when the index is absent or failing.
func (s *CatalogService) SearchBags(ctx context.Context, query string, page, size int) ([]models.Bag, pagination.Page, error) {
	if s.Index != nil {
		total, items, err := s.Index.SearchBags(ctx, query, pagination.Offset(page, size), size)
		if err == nil {
			return items, pagination.Paginate(total, page, size), nil
		}
		logging.FromContext(ctx).Warn("search_index_failed", "reason", "falling back to store", "error", err)
	}

	return s.ListBags(ctx, catalog.Filter{
		SearchText: query,
		SortKey:    "name",
		Page:       page,
		PageSize:   size,
	})
}

func (s *CatalogService) GetBag(ctx context.Context, id uuid.UUID) (*models.Bag, error) {
	bag, err := s.Repo.GetBag(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, msgBagNotFound)
		}
		return nil, err
	}
	return bag, nil
}

func (s *CatalogService) CreateBag(ctx context.Context, req transport.CreateBagRequest) (*models.Bag, error) {
	if req.Price == nil || req.Stock == nil {
		return nil, newError(ErrValidation, "price and stock are required")
	}

	bag := &models.Bag{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Stock:       *req.Stock,
	}
	if err := checkBag(bag); err != nil {
		return nil, err
	}

	if err := s.Repo.CreateBag(ctx, bag); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "bag_created", bag)
	return bag, nil
}

func (s *CatalogService) UpdateBag(ctx context.Context, id uuid.UUID, req transport.UpdateBagRequest) (*models.Bag, error) {
	bag, err := s.GetBag(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		bag.Name = *req.Name
	}
	if req.Description != nil {
		bag.Description = *req.Description
	}
	if req.Price != nil {
		bag.Price = *req.Price
	}
	if req.Category != nil {
		bag.Category = *req.Category
	}
	if req.Image != nil {
		bag.Image = *req.Image
	}
	if req.Stock != nil {
		bag.Stock = *req.Stock
	}
	if err := checkBag(bag); err != nil {
		return nil, err
	}

	if err := s.Repo.SaveBag(ctx, bag); err != nil {
		return nil, err
	}

	s.afterWrite(ctx, "bag_updated", bag)
	return bag, nil
}

func (s *CatalogService) DeleteBag(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteBag(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, msgBagNotFound)
		}
		return err
	}

	if s.Index != nil {
		if err := s.Index.RemoveBag(ctx, id.String()); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "op", "remove", "bag_id", id, "error", err)
		}
	}
	metrics.DomainEvent("bag_deleted")
	events.Emit(ctx, s.Events, events.TopicBags, id.String(), events.Event{
		Type:     "bag_deleted",
		EntityID: id.String(),
		ActorID:  actorID(ctx),
	})
	return nil
}

func (s *CatalogService) Categories() []string {
	return append([]string(nil), models.Categories...)
}

func (s *CatalogService) afterWrite(ctx context.Context, eventType string, bag *models.Bag) {
	if s.Index != nil {
		if err := s.Index.IndexBag(ctx, bag); err != nil {
			logging.FromContext(ctx).Warn("search_index_failed", "op", "index", "bag_id", bag.ID, "error", err)
		}
	}
	metrics.DomainEvent(eventType)
	events.Emit(ctx, s.Events, events.TopicBags, bag.ID.String(), events.Event{
		Type:     eventType,
		EntityID: bag.ID.String(),
		ActorID:  actorID(ctx),
		Payload:  bag,
	})
}

// checkBag guards the record invariants even for callers that skipped
// request validation (seeding, internal use).
func checkBag(b *models.Bag) error {
	switch {
	case len([]rune(b.Name)) < 2 || len([]rune(b.Name)) > 100:
		return newError(ErrValidation, "Name must be between 2 and 100 characters")
	case b.Description == "" || len([]rune(b.Description)) > 1000:
		return newError(ErrValidation, "Description is required and cannot exceed 1000 characters")
	case b.Price < 0:
		return newError(ErrValidation, "Price must be a non-negative number")
	case b.Stock < 0:
		return newError(ErrValidation, "Stock must be a non-negative integer")
	case !models.ValidCategory(b.Category):
		return newError(ErrValidation, "Invalid category")
	}
	return nil
}
