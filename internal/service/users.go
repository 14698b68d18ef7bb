package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/events"
	"github.com/Skotchmaster/bag_shop/internal/metrics"
	"github.com/Skotchmaster/bag_shop/internal/models"
	"github.com/Skotchmaster/bag_shop/internal/pagination"
)

const msgInvalidRole = `Invalid role. Must be "user" or "admin"`

type UserService struct {
	Repo   UserRepo
	Events events.Publisher
}

type UserStats struct {
	Total  int64 `json:"total"`
	Admins int64 `json:"admins"`
	Users  int64 `json:"users"`
}

func (s *UserService) ListUsers(ctx context.Context, page, size int) ([]models.User, pagination.Page, error) {
	offset, limit := pagination.Calculate(page, size)
	if page < 1 {
		page = 1
	}

	total, items, err := s.Repo.ListUsers(ctx, offset, limit)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	if items == nil {
		items = []models.User{}
	}
	return items, pagination.Paginate(total, page, limit), nil
}

// Stats runs the three independent counts concurrently.
func (s *UserService) Stats(ctx context.Context) (*UserStats, error) {
	var st UserStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		st.Total, err = s.Repo.CountUsers(gctx, "")
		return err
	})
	g.Go(func() (err error) {
		st.Admins, err = s.Repo.CountUsers(gctx, models.RoleAdmin)
		return err
	})
	g.Go(func() (err error) {
		st.Users, err = s.Repo.CountUsers(gctx, models.RoleUser)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, msgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

// UpdateRole changes the stored role only. Tokens already issued keep the
// role they were signed with until they expire.
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	if !models.ValidRole(role) {
		return nil, newError(ErrValidation, msgInvalidRole)
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	metrics.DomainEvent("user_role_changed")
	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), events.Event{
		Type:     "user_role_changed",
		EntityID: user.ID.String(),
		ActorID:  actorID(ctx),
		Payload:  map[string]string{"role": role},
	})
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newError(ErrNotFound, msgUserNotFound)
		}
		return err
	}

	metrics.DomainEvent("user_deleted")
	events.Emit(ctx, s.Events, events.TopicUsers, id.String(), events.Event{
		Type:     "user_deleted",
		EntityID: id.String(),
		ActorID:  actorID(ctx),
	})
	return nil
}
