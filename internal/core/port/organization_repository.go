package port

import (
	"context"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// OrganizationFilter narrows List results.
type OrganizationFilter struct {
	Status *domain.OrganizationStatus
	Limit  int
	Offset int
}

// OrganizationRepository manages tenant rows.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int64) (*domain.Organization, error)
	GetByUUID(ctx context.Context, uuid string) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	List(ctx context.Context, filter OrganizationFilter) ([]domain.Organization, error)
	Update(ctx context.Context, org *domain.Organization) error
	Deactivate(ctx context.Context, uuid string) error
	CountActiveMembers(ctx context.Context, orgID int64) (int64, error)
}
