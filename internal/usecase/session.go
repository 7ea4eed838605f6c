package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/logger"
	"github.com/rescobars/moviGo-api/internal/infra/security"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// LoginResult is the full payload returned on successful login.
type LoginResult struct {
	User                *domain.User
	Organizations       []domain.SnapshotOrganization
	DefaultOrganization *domain.SnapshotOrganization
	AccessToken         string
	RefreshToken        string
	ExpiresIn           int64
}

// RefreshResult carries a freshly minted access token.
type RefreshResult struct {
	AccessToken string
	ExpiresIn   int64
}

// SessionService orchestrates session lifecycle: creation with a permission
// snapshot, access-token refresh, and revocation.
type SessionService struct {
	users    port.UserRepository
	members  port.MemberRepository
	sessions port.SessionRepository
	codec    *security.TokenCodec
	events   port.EventPublisher
	logger   *zap.Logger

	tx         port.TxManager
	sessionsTx func(pgx.Tx) port.SessionRepository

	sessionTTL time.Duration
	now        func() time.Time
}

// NewSessionService wires the orchestrator.
func NewSessionService(
	users port.UserRepository,
	members port.MemberRepository,
	sessions port.SessionRepository,
	codec *security.TokenCodec,
	events port.EventPublisher,
	sessionTTL time.Duration,
	log *zap.Logger,
) *SessionService {
	if log == nil {
		log = zap.NewNop()
	}
	if sessionTTL <= 0 {
		sessionTTL = 7 * 24 * time.Hour
	}
	return &SessionService{
		users:      users,
		members:    members,
		sessions:   sessions,
		codec:      codec,
		events:     events,
		logger:     log,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// WithClock injects a custom clock for tests.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

// WithTransactions enables running the session write phase inside a database
// transaction. factory binds the session repository to the open transaction.
func (s *SessionService) WithTransactions(tx port.TxManager, factory func(pgx.Tx) port.SessionRepository) *SessionService {
	s.tx = tx
	s.sessionsTx = factory
	return s
}

// CreateSession loads the user and their memberships, builds the scoped
// permission snapshot, persists the session and mints both tokens.
func (s *SessionService) CreateSession(ctx context.Context, userID int64, device domain.DeviceInfo) (*LoginResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.CanAuthenticate() {
		return nil, ErrUserNotFound
	}

	memberships, err := s.members.ListMembershipsForUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}

	orgs := buildSnapshotOrganizations(memberships)

	var defaultOrg *domain.SnapshotOrganization
	if len(orgs) > 0 {
		defaultOrg = &orgs[0]
	}

	refreshSecret, err := security.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate refresh secret: %w", err)
	}

	now := s.now().UTC()
	session := &domain.UserSession{
		UUID:             uuid.NewString(),
		UserID:           user.ID,
		RefreshTokenHash: security.HashToken(refreshSecret),
		SessionData: domain.SessionSnapshot{
			Organizations:      orgs,
			TotalOrganizations: len(orgs),
		},
		DeviceID:     device.DeviceID,
		DeviceName:   device.DeviceName,
		IPAddress:    device.IPAddress,
		UserAgent:    device.UserAgent,
		Status:       domain.SessionStatusActive,
		IsActive:     true,
		LastActivity: now,
		ExpiresAt:    now.Add(s.sessionTTL),
	}
	if defaultOrg != nil {
		session.SessionData.LastOrganizationUUID = defaultOrg.UUID
	}

	if err := s.persistSession(ctx, session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	accessToken, err := s.codec.SignAccess(user.UUID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}
	refreshToken, err := s.codec.SignRefresh(user.UUID, session.UUID)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	s.publishCreated(ctx, session, user)

	s.logger.Info("session created",
		zap.String("session_uuid", session.UUID),
		zap.String("user_uuid", user.UUID),
		zap.String("device_name", session.DeviceName),
		zap.String("ip", logger.MaskIP(session.IPAddress)),
		zap.Int("organizations", len(orgs)),
	)

	return &LoginResult{
		User:                user,
		Organizations:       orgs,
		DefaultOrganization: defaultOrg,
		AccessToken:         accessToken,
		RefreshToken:        refreshToken,
		ExpiresIn:           int64(s.codec.AccessTTL().Seconds()),
	}, nil
}

func (s *SessionService) persistSession(ctx context.Context, session *domain.UserSession) error {
	if s.tx == nil || s.sessionsTx == nil {
		return s.sessions.Create(ctx, session)
	}
	return s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		return s.sessionsTx(tx).Create(ctx, session)
	})
}

// buildSnapshotOrganizations maps memberships onto snapshot entries.
// Memberships arrive ordered by member_since ascending with member id as
// tie-break, so the first entry is the default organization.
func buildSnapshotOrganizations(memberships []port.Membership) []domain.SnapshotOrganization {
	orgs := make([]domain.SnapshotOrganization, 0, len(memberships))
	for i := range memberships {
		member := &memberships[i].Member
		org := &memberships[i].Organization
		isPlatform := org.IsPlatform()

		roles := make([]domain.SnapshotRole, 0, len(member.Roles))
		for j := range member.Roles {
			role := &member.Roles[j]
			if !role.IsActive() {
				continue
			}
			roles = append(roles, domain.SnapshotRole{
				UUID:        role.UUID,
				Name:        string(role.Name),
				Description: role.Description,
				Permissions: domain.FilterByOrgKind(role.Permissions, isPlatform),
			})
		}

		orgs = append(orgs, domain.SnapshotOrganization{
			UUID:        org.UUID,
			Name:        org.Name,
			Slug:        org.Slug,
			IsPlatform:  isPlatform,
			IsOwner:     member.IsOwner || member.HasRole(domain.RoleOwner),
			IsAdmin:     member.IsAdmin || member.HasRole(domain.RolePlatformAdmin),
			MemberSince: member.MemberSince,
			Roles:       roles,
			Permissions: member.EffectivePermissions(isPlatform),
		})
	}
	return orgs
}

// RefreshAccessToken validates the refresh token and session, bumps activity
// and mints a fresh access token. The refresh token itself is never rotated.
// Every failure surfaces as the same opaque error.
func (s *SessionService) RefreshAccessToken(ctx context.Context, rawRefresh string) (*RefreshResult, error) {
	claims, err := s.codec.VerifyRefresh(rawRefresh)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	session, err := s.sessions.FindByUUID(ctx, claims.TokenID)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	now := s.now().UTC()
	if !session.IsActive || session.Status != domain.SessionStatusActive {
		return nil, ErrInvalidOrExpiredToken
	}
	if !now.Before(session.ExpiresAt) {
		// Lazy expiry: flip the row before failing so sweeps and listings
		// agree with what the caller observed.
		if err := s.sessions.UpdateStatus(ctx, session.UUID, domain.SessionStatusExpired); err != nil {
			s.logger.Warn("expire session", zap.String("session_uuid", session.UUID), zap.Error(err))
		}
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil || user.UUID != claims.UserUUID || !user.CanAuthenticate() {
		return nil, ErrInvalidOrExpiredToken
	}

	if err := s.sessions.TouchActivity(ctx, session.UUID, now); err != nil {
		return nil, fmt.Errorf("touch session activity: %w", err)
	}

	accessToken, err := s.codec.SignAccess(user.UUID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	return &RefreshResult{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.codec.AccessTTL().Seconds()),
	}, nil
}

// RevokeSession revokes the session a refresh token points at. Best effort:
// an invalid token means there is nothing to revoke, so failures are
// absorbed.
func (s *SessionService) RevokeSession(ctx context.Context, rawRefresh string) {
	claims, err := s.codec.VerifyRefresh(rawRefresh)
	if err != nil {
		return
	}

	session, err := s.sessions.FindByUUID(ctx, claims.TokenID)
	if err != nil {
		return
	}

	if err := s.sessions.UpdateStatus(ctx, session.UUID, domain.SessionStatusRevoked); err != nil {
		s.logger.Warn("revoke session", zap.String("session_uuid", session.UUID), zap.Error(err))
		return
	}

	s.publishRevoked(ctx, claims.UserUUID, session.UUID, "logout", 1)
}

// RevokeSessionByUUID revokes one session from the device overview. The
// caller must own the session; foreign or unknown UUIDs both read as not
// found.
func (s *SessionService) RevokeSessionByUUID(ctx context.Context, userID int64, sessionUUID string) error {
	session, err := s.sessions.FindByUUID(ctx, sessionUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("find session: %w", err)
	}
	if session.UserID != userID {
		return ErrSessionNotFound
	}

	if err := s.sessions.UpdateStatus(ctx, session.UUID, domain.SessionStatusRevoked); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	if user, err := s.users.GetByID(ctx, userID); err == nil {
		s.publishRevoked(ctx, user.UUID, session.UUID, "device_revoked", 1)
	}
	return nil
}

// RevokeAllSessions flips every ACTIVE session of the user to REVOKED.
// Idempotent: zero active sessions is a success.
func (s *SessionService) RevokeAllSessions(ctx context.Context, userID int64) (int64, error) {
	count, err := s.sessions.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke all sessions: %w", err)
	}

	if count > 0 {
		if user, err := s.users.GetByID(ctx, userID); err == nil {
			s.publishRevoked(ctx, user.UUID, "", "logout_all", int(count))
		}
	}
	return count, nil
}

// ListSessions returns the user's sessions for the device overview.
func (s *SessionService) ListSessions(ctx context.Context, userID int64) ([]domain.UserSession, error) {
	sessions, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// SweepExpiredSessions bulk-expires sessions past their expiry.
func (s *SessionService) SweepExpiredSessions(ctx context.Context) (int64, error) {
	count, err := s.sessions.SweepExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep expired sessions: %w", err)
	}
	return count, nil
}

func (s *SessionService) publishCreated(ctx context.Context, session *domain.UserSession, user *domain.User) {
	if s.events == nil {
		return
	}
	event := domain.SessionCreatedEvent{
		EventID:     uuid.NewString(),
		SessionUUID: session.UUID,
		UserUUID:    user.UUID,
		DeviceID:    session.DeviceID,
		DeviceName:  session.DeviceName,
		IPAddress:   session.IPAddress,
		CreatedAt:   session.CreatedAt,
	}
	if err := s.events.PublishSessionCreated(ctx, event); err != nil {
		s.logger.Warn("publish session created", zap.Error(err))
	}
}

func (s *SessionService) publishRevoked(ctx context.Context, userUUID, sessionUUID, reason string, count int) {
	if s.events == nil {
		return
	}
	event := domain.SessionRevokedEvent{
		EventID:      uuid.NewString(),
		SessionUUID:  sessionUUID,
		UserUUID:     userUUID,
		Reason:       reason,
		RevokedCount: count,
		RevokedAt:    s.now().UTC(),
	}
	if err := s.events.PublishSessionRevoked(ctx, event); err != nil {
		s.logger.Warn("publish session revoked", zap.Error(err))
	}
}

// ExtractDeviceInfo derives the coarse device fingerprint from request
// metadata. The device id is a truncated hash, the name a substring
// heuristic; neither is a reliable device identity.
func ExtractDeviceInfo(userAgent, ipAddress string) domain.DeviceInfo {
	return domain.DeviceInfo{
		DeviceID:   security.FingerprintDevice(userAgent, ipAddress),
		DeviceName: classifyDevice(userAgent),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
}

// classifyDevice checks iPhone and iPad before Mac: iOS user agents contain
// "like Mac OS X".
func classifyDevice(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "iPhone"):
		return "iPhone"
	case strings.Contains(userAgent, "iPad"):
		return "iPad"
	case strings.Contains(userAgent, "Android"):
		return "Android Device"
	case strings.Contains(userAgent, "Windows"):
		return "Windows PC"
	case strings.Contains(userAgent, "Mac"):
		return "Mac"
	case strings.Contains(userAgent, "Linux"):
		return "Linux PC"
	default:
		return "Unknown Device"
	}
}
