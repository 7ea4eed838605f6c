package port

import (
	"context"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// UserFilter narrows List results.
type UserFilter struct {
	Status *domain.UserStatus
	Limit  int
	Offset int
}

// UserRepository manages user rows.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateStatus(ctx context.Context, uuid string, status domain.UserStatus) error
	Deactivate(ctx context.Context, uuid string) error
}
