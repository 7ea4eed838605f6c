package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// SessionRepository implements port.SessionRepository over PostgreSQL.
type SessionRepository struct {
	pool    *pgxpool.Pool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

var _ port.SessionRepository = (*SessionRepository)(nil)

// NewSessionRepository constructs the repository.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	r := &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
	if pool, ok := exec.(*pgxpool.Pool); ok {
		r.pool = pool
	}
	return r
}

// WithTx returns a repository bound to the transaction.
func (r *SessionRepository) WithTx(tx pgx.Tx) *SessionRepository {
	if tx == nil {
		return r
	}
	return &SessionRepository{pool: r.pool, exec: tx, builder: r.builder}
}

var sessionColumns = []string{
	"id", "uuid", "user_id", "refresh_token_hash", "session_data",
	"device_id", "device_name", "ip_address", "user_agent",
	"status", "is_active", "last_activity", "expires_at",
	"created_at", "updated_at",
}

func scanSession(row pgx.Row) (*domain.UserSession, error) {
	var (
		session  domain.UserSession
		snapshot []byte
	)
	err := row.Scan(
		&session.ID, &session.UUID, &session.UserID, &session.RefreshTokenHash,
		&snapshot, &session.DeviceID, &session.DeviceName, &session.IPAddress,
		&session.UserAgent, &session.Status, &session.IsActive,
		&session.LastActivity, &session.ExpiresAt,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &session.SessionData); err != nil {
			return nil, fmt.Errorf("decode session snapshot: %w", err)
		}
	}
	return &session, nil
}

// Create inserts a session row. Only the refresh-token hash is stored.
func (r *SessionRepository) Create(ctx context.Context, session *domain.UserSession) error {
	snapshot, err := json.Marshal(session.SessionData)
	if err != nil {
		return fmt.Errorf("encode session snapshot: %w", err)
	}

	sql, args, err := r.builder.Insert("user_sessions").
		Columns(
			"uuid", "user_id", "refresh_token_hash", "session_data",
			"device_id", "device_name", "ip_address", "user_agent",
			"status", "is_active", "last_activity", "expires_at",
		).
		Values(
			session.UUID, session.UserID, session.RefreshTokenHash, snapshot,
			session.DeviceID, session.DeviceName, session.IPAddress, session.UserAgent,
			session.Status, session.IsActive, session.LastActivity, session.ExpiresAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if err := r.exec.QueryRow(ctx, sql, args...).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt); err != nil {
		return fmt.Errorf("insert session: %w", translateError(err))
	}
	return nil
}

func (r *SessionRepository) findBy(ctx context.Context, pred squirrel.Eq) (*domain.UserSession, error) {
	sql, args, err := r.builder.Select(sessionColumns...).
		From("user_sessions").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select session sql: %w", err)
	}

	session, err := scanSession(r.exec.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("select session: %w", translateError(err))
	}
	return session, nil
}

// FindByUUID fetches a session by its public identifier.
func (r *SessionRepository) FindByUUID(ctx context.Context, uuid string) (*domain.UserSession, error) {
	return r.findBy(ctx, squirrel.Eq{"uuid": uuid})
}

// FindByRefreshTokenHash fetches a session by its stored hash.
func (r *SessionRepository) FindByRefreshTokenHash(ctx context.Context, hash string) (*domain.UserSession, error) {
	return r.findBy(ctx, squirrel.Eq{"refresh_token_hash": hash})
}

// ListByUser returns every session of the user, most recent activity first.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]domain.UserSession, error) {
	sql, args, err := r.builder.Select(sessionColumns...).
		From("user_sessions").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("last_activity DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.UserSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// TouchActivity bumps last_activity. Called on every access-token refresh.
func (r *SessionRepository) TouchActivity(ctx context.Context, uuid string, at time.Time) error {
	sql, args, err := r.builder.Update("user_sessions").
		Set("last_activity", at).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": uuid}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build touch session sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateStatus moves the session to a terminal state and clears is_active.
func (r *SessionRepository) UpdateStatus(ctx context.Context, uuid string, status domain.SessionStatus) error {
	query := r.builder.Update("user_sessions").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"uuid": uuid})

	if status != domain.SessionStatusActive {
		query = query.Set("is_active", false)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update session status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update session status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RevokeAllForUser flips every ACTIVE session of the user to REVOKED. Safe to
// call when the user has none.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID int64) (int64, error) {
	sql, args, err := r.builder.Update("user_sessions").
		Set("status", domain.SessionStatusRevoked).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID, "status": domain.SessionStatusActive}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revoke all sessions sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("revoke all sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SweepExpired bulk-expires ACTIVE sessions past their expiry.
func (r *SessionRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	sql, args, err := r.builder.Update("user_sessions").
		Set("status", domain.SessionStatusExpired).
		Set("is_active", false).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"status": domain.SessionStatusActive}).
		Where(squirrel.LtOrEq{"expires_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sweep sessions sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
