package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// AuthTokenRepository implements port.AuthTokenRepository over PostgreSQL.
type AuthTokenRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.AuthTokenRepository = (*AuthTokenRepository)(nil)

// NewAuthTokenRepository constructs the repository.
func NewAuthTokenRepository(exec pgExecutor) *AuthTokenRepository {
	r := &AuthTokenRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		r.pool = pool
	}
	return r
}

// WithTx returns a repository bound to the transaction.
func (r *AuthTokenRepository) WithTx(tx pgx.Tx) *AuthTokenRepository {
	if tx == nil {
		return r
	}
	return &AuthTokenRepository{pool: r.pool, exec: tx, builder: r.builder}
}

var authTokenColumns = []string{
	"id", "uuid", "user_id", "token", "verification_code", "kind", "status",
	"expires_at", "is_active", "created_at", "updated_at",
}

func scanAuthToken(row pgx.Row) (*domain.AuthToken, error) {
	var token domain.AuthToken
	err := row.Scan(
		&token.ID, &token.UUID, &token.UserID, &token.Token,
		&token.VerificationCode, &token.Kind, &token.Status,
		&token.ExpiresAt, &token.IsActive, &token.CreatedAt, &token.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Issue inserts a new single-use token, always PENDING.
func (r *AuthTokenRepository) Issue(ctx context.Context, token *domain.AuthToken) error {
	token.Status = domain.TokenStatusPending
	token.IsActive = true

	sql, args, err := r.builder.Insert("auth_tokens").
		Columns("uuid", "user_id", "token", "verification_code", "kind", "status", "expires_at", "is_active").
		Values(token.UUID, token.UserID, token.Token, token.VerificationCode, token.Kind, token.Status, token.ExpiresAt, token.IsActive).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert auth token sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&token.ID, &token.CreatedAt, &token.UpdatedAt); err != nil {
		return fmt.Errorf("insert auth token: %w", translateError(err))
	}
	return nil
}

func (r *AuthTokenRepository) findBy(ctx context.Context, pred squirrel.Eq) (*domain.AuthToken, error) {
	pred["is_active"] = true
	sql, args, err := r.builder.Select(authTokenColumns...).
		From("auth_tokens").
		Where(pred).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select auth token sql: %w", err)
	}

	token, err := scanAuthToken(r.exec.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("select auth token: %w", translateError(err))
	}
	return token, nil
}

// FindByToken looks up an active token by its opaque value. Callers check
// status and expiry themselves.
func (r *AuthTokenRepository) FindByToken(ctx context.Context, raw string) (*domain.AuthToken, error) {
	return r.findBy(ctx, squirrel.Eq{"token": raw})
}

// FindByVerificationCode looks up an active token by its numeric code.
func (r *AuthTokenRepository) FindByVerificationCode(ctx context.Context, code string) (*domain.AuthToken, error) {
	return r.findBy(ctx, squirrel.Eq{"verification_code": code})
}

func (r *AuthTokenRepository) transition(ctx context.Context, raw string, status domain.AuthTokenStatus) error {
	sql, args, err := r.builder.Update("auth_tokens").
		Set("status", status).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"token": raw}).
		Where(squirrel.Or{
			squirrel.Eq{"status": domain.TokenStatusPending},
			squirrel.Eq{"status": status},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build token transition sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("transition auth token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// MarkUsed flips PENDING to USED. Terminal and idempotent: a second call on
// an already USED token is a no-op beyond the timestamp bump.
func (r *AuthTokenRepository) MarkUsed(ctx context.Context, raw string) error {
	return r.transition(ctx, raw, domain.TokenStatusUsed)
}

// MarkExpired flips PENDING to EXPIRED. Terminal and idempotent.
func (r *AuthTokenRepository) MarkExpired(ctx context.Context, raw string) error {
	return r.transition(ctx, raw, domain.TokenStatusExpired)
}

// SweepExpired bulk-expires stale PENDING tokens and returns how many rows
// changed.
func (r *AuthTokenRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.builder.Update("auth_tokens").
		Set("status", domain.TokenStatusExpired).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.TokenStatusPending}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sweep tokens sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("sweep expired tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
