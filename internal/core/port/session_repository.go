package port

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// SessionRepository manages refresh-token-backed sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	FindByUUID(ctx context.Context, uuid string) (*domain.UserSession, error)
	FindByRefreshTokenHash(ctx context.Context, hash string) (*domain.UserSession, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.UserSession, error)
	TouchActivity(ctx context.Context, uuid string, at time.Time) error
	UpdateStatus(ctx context.Context, uuid string, status domain.SessionStatus) error
	RevokeAllForUser(ctx context.Context, userID int64) (int64, error)
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}

// TxManager runs a function inside a database transaction. Repositories
// obtained through the callback's pgx.Tx share one atomic unit of work.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
