package domain

import "time"

// AuthTokenKind classifies single-use credentials.
type AuthTokenKind string

const (
	TokenKindEmailVerification AuthTokenKind = "EMAIL_VERIFICATION"
	TokenKindPasswordlessLogin AuthTokenKind = "PASSWORDLESS_LOGIN"
	TokenKindPasswordReset     AuthTokenKind = "PASSWORD_RESET"
)

// AuthTokenStatus tracks the one-way lifecycle of a single-use credential.
// PENDING transitions to USED or EXPIRED exactly once; both are terminal.
type AuthTokenStatus string

const (
	TokenStatusPending AuthTokenStatus = "PENDING"
	TokenStatusUsed    AuthTokenStatus = "USED"
	TokenStatusExpired AuthTokenStatus = "EXPIRED"
)

// AuthToken is a single-use authentication credential: a passwordless login
// token, an email verification token, or a password reset token. The opaque
// Token string travels in links; VerificationCode is the short numeric form
// users can type instead.
type AuthToken struct {
	ID               int64
	UUID             string
	UserID           int64
	Token            string
	VerificationCode *string
	Kind             AuthTokenKind
	Status           AuthTokenStatus
	ExpiresAt        time.Time
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsExpired checks the absolute expiry, independent of status. A PENDING
// token past its expiry must still be rejected.
func (t *AuthToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Usable reports whether the token can still be redeemed at the given time.
func (t *AuthToken) Usable(now time.Time) bool {
	return t.IsActive && t.Status == TokenStatusPending && !t.IsExpired(now)
}
