package port

import (
	"context"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// Membership pairs a member row with its organization for session building.
type Membership struct {
	Member       domain.OrganizationMember
	Organization domain.Organization
}

// MemberRepository manages organization memberships and their roles.
type MemberRepository interface {
	Create(ctx context.Context, member *domain.OrganizationMember) error
	GetByUUID(ctx context.Context, uuid string) (*domain.OrganizationMember, error)
	ListByOrganization(ctx context.Context, orgID int64) ([]domain.OrganizationMember, error)
	// ListMembershipsForUser returns every membership of the user together
	// with the organization and the member's roles, ordered by member_since
	// ascending with member id as tie-break.
	ListMembershipsForUser(ctx context.Context, userID int64) ([]Membership, error)
	UpdateStatus(ctx context.Context, uuid string, status domain.MemberStatus) error
	Remove(ctx context.Context, uuid string) error
	AddRole(ctx context.Context, role *domain.MemberRole) error
	RemoveRole(ctx context.Context, roleUUID string) error
}
