package port

import (
	"context"
	"time"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

// AuthTokenRepository manages single-use authentication tokens. Lookups
// return only is_active rows; callers check status and expiry themselves.
type AuthTokenRepository interface {
	Issue(ctx context.Context, token *domain.AuthToken) error
	FindByToken(ctx context.Context, raw string) (*domain.AuthToken, error)
	FindByVerificationCode(ctx context.Context, code string) (*domain.AuthToken, error)
	MarkUsed(ctx context.Context, raw string) error
	MarkExpired(ctx context.Context, raw string) error
	SweepExpired(ctx context.Context, now time.Time) (int64, error)
}
