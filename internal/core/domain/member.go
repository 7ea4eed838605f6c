package domain

import "time"

// MemberStatus is the lifecycle state of an organization membership. PENDING
// marks a self-registration or invite that has not been verified yet.
type MemberStatus string

const (
	MemberStatusActive   MemberStatus = "ACTIVE"
	MemberStatusInactive MemberStatus = "INACTIVE"
	MemberStatusPending  MemberStatus = "PENDING"
)

// OrganizationMember joins a user to an organization. The (organization,
// user) pair is unique.
type OrganizationMember struct {
	ID             int64
	UUID           string
	OrganizationID int64
	UserID         int64
	Title          *string
	Notes          *string
	Status         MemberStatus
	IsOwner        bool
	IsAdmin        bool
	MemberSince    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Roles []MemberRole
}

// HasRole reports whether the member holds an active role with the given
// canonical name.
func (m *OrganizationMember) HasRole(name RoleName) bool {
	for i := range m.Roles {
		if m.Roles[i].Name == name && m.Roles[i].IsActive() {
			return true
		}
	}
	return false
}

// EffectivePermissions consolidates the member's active role documents and
// filters them to the organization scope. Call this every time a snapshot or
// response payload is built; the unfiltered merge must never leave the
// domain layer.
func (m *OrganizationMember) EffectivePermissions(isPlatformOrg bool) Permissions {
	docs := make([]Permissions, 0, len(m.Roles))
	for i := range m.Roles {
		if m.Roles[i].IsActive() {
			docs = append(docs, m.Roles[i].Permissions)
		}
	}
	return FilterByOrgKind(ConsolidatePermissions(docs...), isPlatformOrg)
}
