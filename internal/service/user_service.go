package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-decks/internal/domain"
	"github.com/phrazzld/scry-decks/internal/platform/logger"
	"github.com/phrazzld/scry-decks/internal/store"
)

// UserService manages user records.
type UserService interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int) (*domain.User, error)
	CreateUser(ctx context.Context, form domain.UserForm) (*domain.User, error)
	// UpdateUser changes the fields set in form and returns the rows affected.
	UpdateUser(ctx context.Context, id int, form domain.UserForm) (int64, error)
	DeleteUser(ctx context.Context, id int) (int64, error)
}

type userServiceImpl struct {
	users  store.UserStore
	logger *slog.Logger
}

// NewUserService creates a UserService backed by users.
func NewUserService(users store.UserStore, log *slog.Logger) UserService {
	if users == nil {
		panic("user store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &userServiceImpl{
		users:  users,
		logger: log.With(slog.String("component", "user_service")),
	}
}

func (s *userServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, NewServiceError("list users", "failed to list users", err)
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id int) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, NewServiceError("get user", "failed to retrieve user", err)
	}
	return u, nil
}

func (s *userServiceImpl) CreateUser(ctx context.Context, form domain.UserForm) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	u, err := s.users.Create(ctx, form)
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("attempted to create user with existing email")
		}
		return nil, NewServiceError("create user", "failed to create user", err)
	}

	log.Info("user created", slog.Int("user_id", u.ID))
	return u, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id int, form domain.UserForm) (int64, error) {
	n, err := s.users.Update(ctx, id, form)
	if err != nil {
		return 0, NewServiceError("update user", "failed to update user", err)
	}
	return n, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id int) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return 0, NewServiceError("delete user", "failed to delete user", err)
	}

	log.Info("user deleted", slog.Int("user_id", id))
	return n, nil
}
