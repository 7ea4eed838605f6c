package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/logger"
	"github.com/rescobars/moviGo-api/internal/infra/security"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// CreateUserInput carries the fields for user provisioning. Password is
// optional: passwordless accounts store no hash.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
}

// UpdateUserInput carries mutable profile fields.
type UpdateUserInput struct {
	Name  *string
	Email *string
}

// UserService implements user CRUD.
type UserService struct {
	users  port.UserRepository
	logger *zap.Logger
}

// NewUserService wires the service.
func NewUserService(users port.UserRepository, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{users: users, logger: log}
}

// Create provisions a user. Email uniqueness is enforced by the store.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		UUID:     uuid.NewString(),
		Email:    input.Email,
		Name:     input.Name,
		Status:   domain.UserStatusActive,
		IsActive: true,
	}

	if input.Password != "" {
		hash, err := security.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = &hash
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("user_uuid", user.UUID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)
	return user, nil
}

// Get fetches a user by public identifier.
func (s *UserService) Get(ctx context.Context, userUUID string) (*domain.User, error) {
	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// List returns users matching the filter.
func (s *UserService) List(ctx context.Context, filter port.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Update applies profile changes.
func (s *UserService) Update(ctx context.Context, userUUID string, input UpdateUserInput) (*domain.User, error) {
	user, err := s.Get(ctx, userUUID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// UpdateStatus changes the account lifecycle status.
func (s *UserService) UpdateStatus(ctx context.Context, userUUID string, status domain.UserStatus) error {
	if err := s.users.UpdateStatus(ctx, userUUID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user status: %w", err)
	}
	return nil
}

// Deactivate soft-deletes the account. Accounts are never hard-deleted.
func (s *UserService) Deactivate(ctx context.Context, userUUID string) error {
	if err := s.users.Deactivate(ctx, userUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("deactivate user: %w", err)
	}
	s.logger.Info("user deactivated", zap.String("user_uuid", userUUID))
	return nil
}
