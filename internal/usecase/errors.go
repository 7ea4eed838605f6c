package usecase

import "errors"

var (
	// ErrUserNotFound signals a missing or deactivated user.
	ErrUserNotFound = errors.New("user not found")
	// ErrOrganizationNotFound signals a missing organization.
	ErrOrganizationNotFound = errors.New("organization not found")
	// ErrMemberNotFound signals a missing membership.
	ErrMemberNotFound = errors.New("member not found")
	// ErrOrderNotFound signals a missing order.
	ErrOrderNotFound = errors.New("order not found")
	// ErrSessionNotFound signals a missing session.
	ErrSessionNotFound = errors.New("session not found")

	// ErrInvalidOrExpiredToken is the single opaque authentication failure.
	// It deliberately covers signature failures, TTL expiry, wrong status,
	// and not-found so responses never reveal which case applied.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrInvalidCredential signals a bad password on password-backed
	// accounts.
	ErrInvalidCredential = errors.New("invalid credentials")

	// ErrEmailTaken signals a duplicate email at user creation.
	ErrEmailTaken = errors.New("email already registered")
	// ErrSlugTaken signals a duplicate organization slug.
	ErrSlugTaken = errors.New("slug already in use")
	// ErrMemberExists signals a duplicate (organization, user) membership.
	ErrMemberExists = errors.New("user is already a member")
	// ErrRoleExists signals a duplicate role name on one member.
	ErrRoleExists = errors.New("member already holds this role")

	// ErrOrganizationHasMembers refuses deletion of populated organizations.
	ErrOrganizationHasMembers = errors.New("organization still has members")

	// ErrInvalidStatusTransition refuses illegal order status changes.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)
