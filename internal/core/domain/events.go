package domain

import "time"

// LoginRequestedEvent is emitted when a passwordless login token is issued.
type LoginRequestedEvent struct {
	EventID     string
	UserUUID    string
	Email       string
	TokenKind   AuthTokenKind
	RequestedAt time.Time
}

// SessionCreatedEvent is emitted after a successful login verification.
type SessionCreatedEvent struct {
	EventID     string
	SessionUUID string
	UserUUID    string
	DeviceID    string
	DeviceName  string
	IPAddress   string
	CreatedAt   time.Time
}

// SessionRevokedEvent is emitted when a session (or all of a user's
// sessions) is revoked.
type SessionRevokedEvent struct {
	EventID      string
	SessionUUID  string
	UserUUID     string
	Reason       string
	RevokedCount int
	RevokedAt    time.Time
}
