package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Used when the
// broker is disabled in development.
type StubPublisher struct {
	logger *zap.Logger
}

var _ port.EventPublisher = (*StubPublisher)(nil)

// NewStubPublisher constructs a log-only event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, userUUID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}
	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("user_uuid", userUUID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishLoginRequested logs auth.login.requested events.
func (p *StubPublisher) PublishLoginRequested(_ context.Context, event domain.LoginRequestedEvent) error {
	p.logEvent(eventLoginRequested, event.UserUUID, event.RequestedAt, map[string]any{
		"email":      event.Email,
		"token_kind": event.TokenKind,
	})
	return nil
}

// PublishSessionCreated logs session.created events.
func (p *StubPublisher) PublishSessionCreated(_ context.Context, event domain.SessionCreatedEvent) error {
	p.logEvent(eventSessionCreated, event.UserUUID, event.CreatedAt, map[string]any{
		"session_uuid": event.SessionUUID,
		"device_name":  event.DeviceName,
	})
	return nil
}

// PublishSessionRevoked logs session.revoked events.
func (p *StubPublisher) PublishSessionRevoked(_ context.Context, event domain.SessionRevokedEvent) error {
	p.logEvent(eventSessionRevoked, event.UserUUID, event.RevokedAt, map[string]any{
		"session_uuid":  event.SessionUUID,
		"reason":        event.Reason,
		"revoked_count": event.RevokedCount,
	})
	return nil
}
