package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/repository"
)

func newSessionRepoMock(t *testing.T) (*SessionRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	t.Cleanup(mock.Close)
	return NewSessionRepository(mock), mock
}

func TestSessionRepositoryCreate(t *testing.T) {
	repo, mock := newSessionRepoMock(t)

	now := time.Now().UTC()
	session := &domain.UserSession{
		UUID:             "sess-uuid",
		UserID:           42,
		RefreshTokenHash: "deadbeef",
		SessionData: domain.SessionSnapshot{
			TotalOrganizations: 1,
		},
		DeviceID:     "abcdef0123456789",
		DeviceName:   "iPhone",
		IPAddress:    "203.0.113.7",
		UserAgent:    "Mozilla/5.0 (iPhone)",
		Status:       domain.SessionStatusActive,
		IsActive:     true,
		LastActivity: now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
	}

	snapshot, err := json.Marshal(session.SessionData)
	if err != nil {
		t.Fatalf("marshal snapshot: %v", err)
	}

	mock.ExpectQuery(`INSERT INTO user_sessions`).
		WithArgs(
			session.UUID, session.UserID, session.RefreshTokenHash, snapshot,
			session.DeviceID, session.DeviceName, session.IPAddress, session.UserAgent,
			session.Status, session.IsActive, session.LastActivity, session.ExpiresAt,
		).
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(7), now, now))

	if err := repo.Create(context.Background(), session); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if session.ID != 7 {
		t.Errorf("session id = %d, want 7", session.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepositoryFindByUUIDNotFound(t *testing.T) {
	repo, mock := newSessionRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM user_sessions`).
		WithArgs("missing").
		WillReturnError(errors.New("no rows in result set"))

	_, err := repo.FindByUUID(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected error for missing session")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepositoryRevokeAllForUser(t *testing.T) {
	repo, mock := newSessionRepoMock(t)

	mock.ExpectExec(`UPDATE user_sessions SET`).
		WithArgs(domain.SessionStatusRevoked, false, domain.SessionStatusActive, int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 3))

	count, err := repo.RevokeAllForUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("RevokeAllForUser: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepositoryRevokeAllForUserIdempotent(t *testing.T) {
	repo, mock := newSessionRepoMock(t)

	mock.ExpectExec(`UPDATE user_sessions SET`).
		WithArgs(domain.SessionStatusRevoked, false, domain.SessionStatusActive, int64(42)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	count, err := repo.RevokeAllForUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("RevokeAllForUser with no active sessions: %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestSessionRepositoryTouchActivityMissing(t *testing.T) {
	repo, mock := newSessionRepoMock(t)

	at := time.Now().UTC()
	mock.ExpectExec(`UPDATE user_sessions SET`).
		WithArgs(at, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.TouchActivity(context.Background(), "missing", at)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}
