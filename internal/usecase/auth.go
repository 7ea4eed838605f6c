package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
	"github.com/rescobars/moviGo-api/internal/core/port"
	"github.com/rescobars/moviGo-api/internal/infra/logger"
	"github.com/rescobars/moviGo-api/internal/infra/security"
	"github.com/rescobars/moviGo-api/internal/repository"
)

// LoginRequestResult is returned when a passwordless login starts.
type LoginRequestResult struct {
	Email     string
	ExpiresAt time.Time
	Delivered bool
}

// AuthService drives the passwordless authentication flow and profile
// access.
type AuthService struct {
	users    port.UserRepository
	tokens   port.AuthTokenRepository
	sessions *SessionService
	notifier port.Notifier
	events   port.EventPublisher
	logger   *zap.Logger

	loginTokenTTL        time.Duration
	verificationTokenTTL time.Duration
	now                  func() time.Time
}

// NewAuthService wires the authentication flow.
func NewAuthService(
	users port.UserRepository,
	tokens port.AuthTokenRepository,
	sessions *SessionService,
	notifier port.Notifier,
	events port.EventPublisher,
	loginTokenTTL, verificationTokenTTL time.Duration,
	log *zap.Logger,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if loginTokenTTL <= 0 {
		loginTokenTTL = 15 * time.Minute
	}
	if verificationTokenTTL <= 0 {
		verificationTokenTTL = 24 * time.Hour
	}
	return &AuthService{
		users:                users,
		tokens:               tokens,
		sessions:             sessions,
		notifier:             notifier,
		events:               events,
		logger:               log,
		loginTokenTTL:        loginTokenTTL,
		verificationTokenTTL: verificationTokenTTL,
		now:                  time.Now,
	}
}

// WithClock injects a custom clock for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// LoginTokenExpiry returns when a login token issued right now would expire.
// Uses the service clock so decoy expiries match real ones.
func (s *AuthService) LoginTokenExpiry() time.Time {
	return s.now().UTC().Add(s.loginTokenTTL)
}

// RequestPasswordlessLogin issues a single-use login token and hands it to
// the notifier. Delivery failure does not invalidate the token.
func (s *AuthService) RequestPasswordlessLogin(ctx context.Context, email string) (*LoginRequestResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if !user.CanAuthenticate() {
		return nil, ErrUserNotFound
	}

	raw, err := security.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate login token: %w", err)
	}
	code, err := security.GenerateNumericCode(6)
	if err != nil {
		return nil, fmt.Errorf("generate verification code: %w", err)
	}

	now := s.now().UTC()
	token := &domain.AuthToken{
		UUID:             uuid.NewString(),
		UserID:           user.ID,
		Token:            raw,
		VerificationCode: &code,
		Kind:             domain.TokenKindPasswordlessLogin,
		ExpiresAt:        now.Add(s.loginTokenTTL),
	}
	if err := s.tokens.Issue(ctx, token); err != nil {
		return nil, fmt.Errorf("issue login token: %w", err)
	}

	delivered := s.notifier.SendLoginCode(ctx, user.Email, raw, code)
	if !delivered {
		s.logger.Warn("login code delivery failed", zap.String("email", logger.MaskEmail(user.Email)))
	}

	s.publishLoginRequested(ctx, user, domain.TokenKindPasswordlessLogin, now)

	s.logger.Info("passwordless login requested",
		zap.String("email", logger.MaskEmail(user.Email)),
		zap.Time("expires_at", token.ExpiresAt),
	)

	return &LoginRequestResult{
		Email:     user.Email,
		ExpiresAt: token.ExpiresAt,
		Delivered: delivered,
	}, nil
}

// VerifyPasswordlessLogin redeems a login token or its numeric code and
// creates a session. Tokens are single-use: a second redemption fails with
// the same opaque error as a bad token.
func (s *AuthService) VerifyPasswordlessLogin(ctx context.Context, rawToken, code string, device domain.DeviceInfo) (*LoginResult, error) {
	token, err := s.lookupToken(ctx, rawToken, code)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}
	if token.Kind != domain.TokenKindPasswordlessLogin {
		return nil, ErrInvalidOrExpiredToken
	}

	now := s.now().UTC()
	if !token.IsActive || token.Status != domain.TokenStatusPending {
		return nil, ErrInvalidOrExpiredToken
	}
	if token.IsExpired(now) {
		// Check-on-read expiry: the sweep may not have run yet.
		if err := s.tokens.MarkExpired(ctx, token.Token); err != nil {
			s.logger.Warn("expire login token", zap.Error(err))
		}
		return nil, ErrInvalidOrExpiredToken
	}

	if err := s.tokens.MarkUsed(ctx, token.Token); err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	result, err := s.sessions.CreateSession(ctx, token.UserID, device)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}
	return result, nil
}

func (s *AuthService) lookupToken(ctx context.Context, rawToken, code string) (*domain.AuthToken, error) {
	if rawToken != "" {
		return s.tokens.FindByToken(ctx, rawToken)
	}
	if code != "" {
		return s.tokens.FindByVerificationCode(ctx, code)
	}
	return nil, ErrInvalidOrExpiredToken
}

// RequestEmailVerification issues an email verification token.
func (s *AuthService) RequestEmailVerification(ctx context.Context, email string) (*LoginRequestResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user by email: %w", err)
	}

	raw, err := security.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate verification token: %w", err)
	}

	now := s.now().UTC()
	token := &domain.AuthToken{
		UUID:      uuid.NewString(),
		UserID:    user.ID,
		Token:     raw,
		Kind:      domain.TokenKindEmailVerification,
		ExpiresAt: now.Add(s.verificationTokenTTL),
	}
	if err := s.tokens.Issue(ctx, token); err != nil {
		return nil, fmt.Errorf("issue verification token: %w", err)
	}

	delivered := s.notifier.SendVerificationEmail(ctx, user.Email, raw)
	s.publishLoginRequested(ctx, user, domain.TokenKindEmailVerification, now)

	return &LoginRequestResult{
		Email:     user.Email,
		ExpiresAt: token.ExpiresAt,
		Delivered: delivered,
	}, nil
}

// ConfirmEmailVerification redeems a verification token and activates the
// account.
func (s *AuthService) ConfirmEmailVerification(ctx context.Context, rawToken string) error {
	token, err := s.tokens.FindByToken(ctx, rawToken)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}
	if token.Kind != domain.TokenKindEmailVerification || !token.Usable(s.now().UTC()) {
		return ErrInvalidOrExpiredToken
	}

	if err := s.tokens.MarkUsed(ctx, token.Token); err != nil {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}
	if user.Status != domain.UserStatusActive {
		if err := s.users.UpdateStatus(ctx, user.UUID, domain.UserStatusActive); err != nil {
			return fmt.Errorf("activate user: %w", err)
		}
	}
	return nil
}

// Logout revokes the session behind the refresh token. Best effort.
func (s *AuthService) Logout(ctx context.Context, rawRefresh string) {
	s.sessions.RevokeSession(ctx, rawRefresh)
}

// LogoutAll revokes every active session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64) (int64, error) {
	return s.sessions.RevokeAllSessions(ctx, userID)
}

// GetProfile returns the user behind an already-verified access token.
func (s *AuthService) GetProfile(ctx context.Context, userUUID string) (*domain.User, error) {
	user, err := s.users.GetByUUID(ctx, userUUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return user, nil
}

// SweepExpiredTokens flips stale PENDING tokens to EXPIRED. Exposed as a
// callable operation; scheduling it is an operator concern.
func (s *AuthService) SweepExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokens.SweepExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("sweep expired tokens: %w", err)
	}
	if count > 0 {
		s.logger.Info("expired stale auth tokens", zap.Int64("count", count))
	}
	return count, nil
}

func (s *AuthService) publishLoginRequested(ctx context.Context, user *domain.User, kind domain.AuthTokenKind, at time.Time) {
	if s.events == nil {
		return
	}
	event := domain.LoginRequestedEvent{
		EventID:     uuid.NewString(),
		UserUUID:    user.UUID,
		Email:       user.Email,
		TokenKind:   kind,
		RequestedAt: at,
	}
	if err := s.events.PublishLoginRequested(ctx, event); err != nil {
		s.logger.Warn("publish login requested", zap.Error(err))
	}
}
