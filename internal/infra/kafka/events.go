package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/config"
)

const schemaVersion = "1.0"

const (
	eventLoginRequested = "auth.login.requested"
	eventSessionCreated = "session.created"
	eventSessionRevoked = "session.revoked"
)

// EventPublisher implements port.EventPublisher on top of Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

var _ port.EventPublisher = (*EventPublisher)(nil)

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type eventEnvelope struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	UserUUID  string            `json:"user_uuid,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Payload   any               `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, userUUID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	if eventID == "" {
		eventID = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   eventID,
		EventType: eventType,
		UserUUID:  userUUID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: map[string]string{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Key:   sarama.StringEncoder(userUUID),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishLoginRequested publishes auth.login.requested events.
func (p *EventPublisher) PublishLoginRequested(ctx context.Context, event domain.LoginRequestedEvent) error {
	payload := struct {
		UserUUID    string    `json:"user_uuid"`
		Email       string    `json:"email"`
		TokenKind   string    `json:"token_kind"`
		RequestedAt time.Time `json:"requested_at"`
	}{
		UserUUID:    event.UserUUID,
		Email:       event.Email,
		TokenKind:   string(event.TokenKind),
		RequestedAt: event.RequestedAt.UTC(),
	}
	return p.publish(ctx, event.EventID, eventLoginRequested, event.UserUUID, event.RequestedAt, payload)
}

// PublishSessionCreated publishes session.created events.
func (p *EventPublisher) PublishSessionCreated(ctx context.Context, event domain.SessionCreatedEvent) error {
	payload := struct {
		SessionUUID string    `json:"session_uuid"`
		UserUUID    string    `json:"user_uuid"`
		DeviceID    string    `json:"device_id"`
		DeviceName  string    `json:"device_name"`
		IPAddress   string    `json:"ip_address"`
		CreatedAt   time.Time `json:"created_at"`
	}{
		SessionUUID: event.SessionUUID,
		UserUUID:    event.UserUUID,
		DeviceID:    event.DeviceID,
		DeviceName:  event.DeviceName,
		IPAddress:   event.IPAddress,
		CreatedAt:   event.CreatedAt.UTC(),
	}
	return p.publish(ctx, event.EventID, eventSessionCreated, event.UserUUID, event.CreatedAt, payload)
}

// PublishSessionRevoked publishes session.revoked events.
func (p *EventPublisher) PublishSessionRevoked(ctx context.Context, event domain.SessionRevokedEvent) error {
	payload := struct {
		SessionUUID  string    `json:"session_uuid,omitempty"`
		UserUUID     string    `json:"user_uuid"`
		Reason       string    `json:"reason"`
		RevokedCount int       `json:"revoked_count"`
		RevokedAt    time.Time `json:"revoked_at"`
	}{
		SessionUUID:  event.SessionUUID,
		UserUUID:     event.UserUUID,
		Reason:       event.Reason,
		RevokedCount: event.RevokedCount,
		RevokedAt:    event.RevokedAt.UTC(),
	}
	return p.publish(ctx, event.EventID, eventSessionRevoked, event.UserUUID, event.RevokedAt, payload)
}
