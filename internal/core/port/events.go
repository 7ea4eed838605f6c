package port

import (
	"context"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// EventPublisher publishes domain events to the message bus. Publish failures
// are non-fatal to the emitting operation.
type EventPublisher interface {
	PublishLoginRequested(ctx context.Context, event domain.LoginRequestedEvent) error
	PublishSessionCreated(ctx context.Context, event domain.SessionCreatedEvent) error
	PublishSessionRevoked(ctx context.Context, event domain.SessionRevokedEvent) error
}
