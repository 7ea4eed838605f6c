package port

import (
	"context"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// OrderFilter narrows ListByOrganization results.
type OrderFilter struct {
	Status *domain.OrderStatus
	Limit  int
	Offset int
}

// OrderRepository manages delivery order rows.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateBatch(ctx context.Context, orders []*domain.Order) error
	GetByUUID(ctx context.Context, uuid string) (*domain.Order, error)
	ListByOrganization(ctx context.Context, orgID int64, filter OrderFilter) ([]domain.Order, error)
	ListPending(ctx context.Context, orgID int64) ([]domain.Order, error)
	CountByOrganization(ctx context.Context, orgID int64) (int64, error)
	Update(ctx context.Context, order *domain.Order) error
	UpdateStatus(ctx context.Context, uuid string, status domain.OrderStatus) error
	Delete(ctx context.Context, uuid string) error
}
