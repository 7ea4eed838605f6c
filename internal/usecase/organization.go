package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// CreateOrganizationInput carries the fields for tenant provisioning.
type CreateOrganizationInput struct {
	Name         string
	Slug         string
	Description  *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	PlanType     domain.PlanTier
}

// UpdateOrganizationInput carries mutable tenant fields.
type UpdateOrganizationInput struct {
	Name         *string
	Description  *string
	ContactEmail *string
	ContactPhone *string
	Address      *string
	Status       *domain.OrganizationStatus
	PlanType     *domain.PlanTier
}

// OrganizationService implements tenant CRUD.
type OrganizationService struct {
	orgs   port.OrganizationRepository
	logger *zap.Logger
}

// NewOrganizationService wires the service.
func NewOrganizationService(orgs port.OrganizationRepository, log *zap.Logger) *OrganizationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &OrganizationService{orgs: orgs, logger: log}
}

// Create provisions a tenant. Slug uniqueness is enforced by the store.
func (s *OrganizationService) Create(ctx context.Context, input CreateOrganizationInput) (*domain.Organization, error) {
	plan := input.PlanType
	if plan == "" {
		plan = domain.PlanFree
	}

	org := &domain.Organization{
		UUID:         uuid.NewString(),
		Name:         input.Name,
		Slug:         input.Slug,
		Description:  input.Description,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		Address:      input.Address,
		Status:       domain.OrganizationStatusActive,
		PlanType:     plan,
		IsActive:     true,
	}

	if err := s.orgs.Create(ctx, org); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}

	s.logger.Info("organization created",
		zap.String("org_uuid", org.UUID),
		zap.String("slug", org.Slug),
	)
	return org, nil
}

// Get fetches an organization by public identifier.
func (s *OrganizationService) Get(ctx context.Context, orgUUID string) (*domain.Organization, error) {
	org, err := s.orgs.GetByUUID(ctx, orgUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("load organization: %w", err)
	}
	return org, nil
}

// List returns organizations matching the filter.
func (s *OrganizationService) List(ctx context.Context, filter port.OrganizationFilter) ([]domain.Organization, error) {
	orgs, err := s.orgs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// Update applies tenant changes.
func (s *OrganizationService) Update(ctx context.Context, orgUUID string, input UpdateOrganizationInput) (*domain.Organization, error) {
	org, err := s.Get(ctx, orgUUID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		org.Name = *input.Name
	}
	if input.Description != nil {
		org.Description = input.Description
	}
	if input.ContactEmail != nil {
		org.ContactEmail = input.ContactEmail
	}
	if input.ContactPhone != nil {
		org.ContactPhone = input.ContactPhone
	}
	if input.Address != nil {
		org.Address = input.Address
	}
	if input.Status != nil {
		org.Status = *input.Status
	}
	if input.PlanType != nil {
		org.PlanType = *input.PlanType
	}

	if err := s.orgs.Update(ctx, org); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSlugTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

// Delete soft-deletes the organization. Refused while members remain: the
// membership rows would otherwise dangle against a hidden tenant.
func (s *OrganizationService) Delete(ctx context.Context, orgUUID string) error {
	org, err := s.Get(ctx, orgUUID)
	if err != nil {
		return err
	}

	count, err := s.orgs.CountActiveMembers(ctx, org.ID)
	if err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	if count > 0 {
		return ErrOrganizationHasMembers
	}

	if err := s.orgs.Deactivate(ctx, orgUUID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrganizationNotFound
		}
		return fmt.Errorf("deactivate organization: %w", err)
	}

	s.logger.Info("organization deactivated", zap.String("org_uuid", orgUUID))
	return nil
}
