package domain

import "time"

// SessionStatus tracks the lifecycle of a refresh-token-backed session.
// ACTIVE transitions to EXPIRED or REVOKED; both are terminal. Refreshing an
// access token does not change the status, it only bumps LastActivity.
type SessionStatus string

const (
	SessionStatusActive  SessionStatus = "ACTIVE"
	SessionStatusExpired SessionStatus = "EXPIRED"
	SessionStatusRevoked SessionStatus = "REVOKED"
)

// DeviceInfo is the coarse client fingerprint captured at login. DeviceID is
// a truncated hash of user agent plus IP, not a reliable device identity.
type DeviceInfo struct {
	DeviceID   string
	DeviceName string
	IPAddress  string
	UserAgent  string
}

// UserSession is a refresh-token-backed session. Only the SHA-256 hash of the
// server-side refresh secret is stored; the raw secret never touches the
// database. Multiple sessions per user coexist (multi-device).
type UserSession struct {
	ID               int64
	UUID             string
	UserID           int64
	RefreshTokenHash string
	SessionData      SessionSnapshot
	DeviceID         string
	DeviceName       string
	IPAddress        string
	UserAgent        string
	Status           SessionStatus
	IsActive         bool
	LastActivity     time.Time
	ExpiresAt        time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Live reports whether the session can still mint access tokens at the given
// time.
func (s *UserSession) Live(now time.Time) bool {
	return s.IsActive && s.Status == SessionStatusActive && now.Before(s.ExpiresAt)
}

// SessionSnapshot is the denormalized bundle of organizations, roles and
// filtered permissions captured at session creation.
type SessionSnapshot struct {
	Organizations        []SnapshotOrganization `json:"organizations"`
	LastOrganizationUUID string                 `json:"lastOrganizationUuid,omitempty"`
	TotalOrganizations   int                    `json:"total_organizations"`
}

// SnapshotOrganization is one organization entry inside a session snapshot.
// Permissions here are already consolidated and scope-filtered.
type SnapshotOrganization struct {
	UUID        string         `json:"uuid"`
	Name        string         `json:"name"`
	Slug        string         `json:"slug"`
	IsPlatform  bool           `json:"is_platform"`
	IsOwner     bool           `json:"is_owner"`
	IsAdmin     bool           `json:"is_admin"`
	MemberSince time.Time      `json:"member_since"`
	Roles       []SnapshotRole `json:"roles"`
	Permissions Permissions    `json:"permissions"`
}

// SnapshotRole is the public shape of one role inside a snapshot.
type SnapshotRole struct {
	UUID        string      `json:"uuid"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Permissions Permissions `json:"permissions"`
}
