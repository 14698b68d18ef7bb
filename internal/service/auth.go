package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/bag_shop/internal/db"
	"github.com/Skotchmaster/bag_shop/internal/events"
	"github.com/Skotchmaster/bag_shop/internal/hash"
	"github.com/Skotchmaster/bag_shop/internal/metrics"
	"github.com/Skotchmaster/bag_shop/internal/models"
	"github.com/Skotchmaster/bag_shop/internal/repo"
	"github.com/Skotchmaster/bag_shop/internal/session"
	"github.com/Skotchmaster/bag_shop/internal/transport"
)

const (
	msgEmailRegistered    = "Email already registered"
	msgEmailInUse         = "Email already in use"
	msgInvalidCredentials = "Invalid credentials"
	msgWrongPassword      = "Current password is incorrect"
	msgUserNotFound       = "User not found"
)

// dummyHash keeps login timing similar for unknown emails.
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoO5q5s0M5T8u0qjQh2JrHq1vXn3G8Ck6W"

type UserRepo interface {
	CreateUserIfNotExists(ctx context.Context, u *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	EmailTaken(ctx context.Context, email string, except uuid.UUID) (bool, error)
	SaveUser(ctx context.Context, u *models.User) error
	ListUsers(ctx context.Context, offset, limit int) (int64, []models.User, error)
	CountUsers(ctx context.Context, role string) (int64, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type TokenIssuer interface {
	Issue(subjectID, role string) (string, time.Time, error)
}

type AuthService struct {
	Repo     UserRepo
	Sessions TokenIssuer
	Events   events.Publisher
}

type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) Register(ctx context.Context, req transport.RegisterRequest) (*AuthResult, error) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, newError(ErrValidation, "name, email and password are required")
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) || db.IsDuplicateKey(err) {
			return nil, newError(ErrConflict, msgEmailRegistered)
		}
		return nil, err
	}

	metrics.DomainEvent("user_registered")
	events.Emit(ctx, s.Events, events.TopicUsers, user.ID.String(), events.Event{
		Type:     "user_registered",
		EntityID: user.ID.String(),
	})
	return s.issue(user)
}

// Login answers unknown emails and wrong passwords identically.
func (s *AuthService) Login(ctx context.Context, req transport.LoginRequest) (*AuthResult, error) {
	user, err := s.Repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash.CheckPassword(dummyHash, req.Password)
			return nil, newError(ErrUnauthenticated, msgInvalidCredentials)
		}
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return nil, newError(ErrUnauthenticated, msgInvalidCredentials)
	}
	return s.issue(user)
}

func (s *AuthService) Me(ctx context.Context, subjectID string) (*models.User, error) {
	id, err := uuid.Parse(subjectID)
	if err != nil {
		return nil, newError(ErrNotFound, msgUserNotFound)
	}
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(ErrNotFound, msgUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, subjectID string, req transport.ProfileUpdateRequest) (*models.User, error) {
	user, err := s.Me(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		taken, err := s.Repo.EmailTaken(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, newError(ErrConflict, msgEmailInUse)
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, newError(ErrConflict, msgEmailInUse)
		}
		return nil, err
	}
	return user, nil
}

// UpdatePassword rotates the password and issues a fresh token.
func (s *AuthService) UpdatePassword(ctx context.Context, subjectID string, req transport.PasswordUpdateRequest) (*AuthResult, error) {
	user, err := s.Me(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return nil, newError(ErrUnauthenticated, msgWrongPassword)
	}

	hashed, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hashed

	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, exp, err := s.Sessions.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func actorID(ctx context.Context) string {
	if id, ok := session.FromContext(ctx); ok {
		return id.SubjectID
	}
	return ""
}
