package domain

import "time"

// PlatformOrganizationSlug marks the single organization whose members hold
// platform-scope capability. Membership anywhere else is tenant-scoped.
const PlatformOrganizationSlug = "movigo-inc"

// OrganizationStatus is the lifecycle state of a tenant.
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "ACTIVE"
	OrganizationStatusInactive  OrganizationStatus = "INACTIVE"
	OrganizationStatusSuspended OrganizationStatus = "SUSPENDED"
)

// PlanTier is the subscription level of an organization.
type PlanTier string

const (
	PlanFree       PlanTier = "FREE"
	PlanBasic      PlanTier = "BASIC"
	PlanPro        PlanTier = "PRO"
	PlanEnterprise PlanTier = "ENTERPRISE"
)

// Organization is a tenant. Slug is unique across the platform.
type Organization struct {
	ID                 int64
	UUID               string
	Name               string
	Slug               string
	Description        *string
	ContactEmail       *string
	ContactPhone       *string
	Address            *string
	Status             OrganizationStatus
	PlanType           PlanTier
	SubscriptionExpiry *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsPlatform reports whether this is the distinguished platform organization.
func (o *Organization) IsPlatform() bool {
	return o.Slug == PlatformOrganizationSlug
}
