package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/rescobars/moviGo-api/internal/core/domain"
)

func newTestAuthService(
	users *mockUserRepo,
	tokens *mockTokenRepo,
	sessions *SessionService,
	notifier *stubNotifier,
	at time.Time,
) *AuthService {
	return NewAuthService(
		users, tokens, sessions, notifier, &stubEvents{},
		15*time.Minute, 24*time.Hour, zap.NewNop(),
	).WithClock(fixedClock(at))
}

func TestRequestPasswordlessLogin(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "driver@acme.test")
	users := newMockUserRepo(user)
	tokens := newMockTokenRepo()
	notifier := newStubNotifier()

	svc := newTestAuthService(users, tokens, nil, notifier, at)

	result, err := svc.RequestPasswordlessLogin(context.Background(), "driver@acme.test")
	if err != nil {
		t.Fatalf("RequestPasswordlessLogin: %v", err)
	}
	if !result.Delivered {
		t.Error("delivery should be reported")
	}
	if !result.ExpiresAt.Equal(at.Add(15 * time.Minute)) {
		t.Errorf("expiry = %v", result.ExpiresAt)
	}
	if notifier.loginCalls != 1 {
		t.Errorf("login notifications = %d, want 1", notifier.loginCalls)
	}
	if len(notifier.lastCode) != 6 {
		t.Errorf("code length = %d, want 6", len(notifier.lastCode))
	}

	for _, token := range tokens.tokens {
		if token.Kind != domain.TokenKindPasswordlessLogin {
			t.Errorf("token kind = %s", token.Kind)
		}
		if token.Status != domain.TokenStatusPending {
			t.Errorf("token status = %s, want PENDING", token.Status)
		}
	}
}

func TestLoginTokenExpiryMatchesIssuedTokens(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "driver@acme.test")
	svc := newTestAuthService(newMockUserRepo(user), newMockTokenRepo(), nil, newStubNotifier(), at)

	result, err := svc.RequestPasswordlessLogin(context.Background(), "driver@acme.test")
	if err != nil {
		t.Fatalf("RequestPasswordlessLogin: %v", err)
	}

	// The decoy expiry handed out for unknown emails must be computed from
	// the same clock as real expiries, or the two become distinguishable.
	if !svc.LoginTokenExpiry().Equal(result.ExpiresAt) {
		t.Errorf("LoginTokenExpiry = %v, issued expiry = %v", svc.LoginTokenExpiry(), result.ExpiresAt)
	}
	if !svc.LoginTokenExpiry().Equal(at.Add(15 * time.Minute)) {
		t.Errorf("LoginTokenExpiry = %v, want %v", svc.LoginTokenExpiry(), at.Add(15*time.Minute))
	}
}

func TestRequestPasswordlessLoginUnknownEmail(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(newMockUserRepo(), newMockTokenRepo(), nil, newStubNotifier(), at)

	if _, err := svc.RequestPasswordlessLogin(context.Background(), "nobody@acme.test"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRequestPasswordlessLoginInactiveUser(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "gone@acme.test")
	user.IsActive = false
	svc := newTestAuthService(newMockUserRepo(user), newMockTokenRepo(), nil, newStubNotifier(), at)

	if _, err := svc.RequestPasswordlessLogin(context.Background(), "gone@acme.test"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}

func TestVerifyPasswordlessLoginSingleUse(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "driver@acme.test")
	users := newMockUserRepo(user)
	tokens := newMockTokenRepo()
	notifier := newStubNotifier()
	sessions := newTestSessionService(users, newMockMemberRepo(), newMockSessionRepo(), &stubEvents{}, at)

	svc := newTestAuthService(users, tokens, sessions, notifier, at)

	if _, err := svc.RequestPasswordlessLogin(context.Background(), "driver@acme.test"); err != nil {
		t.Fatalf("RequestPasswordlessLogin: %v", err)
	}

	var raw string
	for _, token := range tokens.tokens {
		raw = token.Token
	}

	device := domain.DeviceInfo{DeviceName: "iPhone", IPAddress: "10.0.0.1"}
	result, err := svc.VerifyPasswordlessLogin(context.Background(), raw, "", device)
	if err != nil {
		t.Fatalf("VerifyPasswordlessLogin: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Error("tokens missing from login result")
	}
	if tokens.tokens[raw].Status != domain.TokenStatusUsed {
		t.Errorf("token status = %s, want USED", tokens.tokens[raw].Status)
	}

	// Single use: the second redemption fails with the same opaque error as
	// a token that never existed.
	if _, err := svc.VerifyPasswordlessLogin(context.Background(), raw, "", device); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("second redemption err = %v, want ErrInvalidOrExpiredToken", err)
	}
}

func TestVerifyPasswordlessLoginByCode(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "driver@acme.test")
	users := newMockUserRepo(user)
	tokens := newMockTokenRepo()
	notifier := newStubNotifier()
	sessions := newTestSessionService(users, newMockMemberRepo(), newMockSessionRepo(), &stubEvents{}, at)

	svc := newTestAuthService(users, tokens, sessions, notifier, at)

	if _, err := svc.RequestPasswordlessLogin(context.Background(), "driver@acme.test"); err != nil {
		t.Fatalf("RequestPasswordlessLogin: %v", err)
	}

	if _, err := svc.VerifyPasswordlessLogin(context.Background(), "", notifier.lastCode, domain.DeviceInfo{}); err != nil {
		t.Fatalf("verify by code: %v", err)
	}
}

func TestVerifyPasswordlessLoginExpiredToken(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "driver@acme.test")
	users := newMockUserRepo(user)
	code := "123456"
	tokens := newMockTokenRepo(&domain.AuthToken{
		UUID:             "token-1",
		UserID:           1,
		Token:            "stale-token",
		VerificationCode: &code,
		Kind:             domain.TokenKindPasswordlessLogin,
		Status:           domain.TokenStatusPending,
		IsActive:         true,
		ExpiresAt:        at.Add(-time.Minute),
	})

	svc := newTestAuthService(users, tokens, nil, newStubNotifier(), at)

	// Check-on-read: a PENDING token past expiry is rejected and flipped even
	// though no sweep has run.
	if _, err := svc.VerifyPasswordlessLogin(context.Background(), "stale-token", "", domain.DeviceInfo{}); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Fatalf("err = %v, want ErrInvalidOrExpiredToken", err)
	}
	if tokens.tokens["stale-token"].Status != domain.TokenStatusExpired {
		t.Errorf("token status = %s, want EXPIRED", tokens.tokens["stale-token"].Status)
	}
	if len(tokens.markedExpd) != 1 {
		t.Errorf("MarkExpired calls = %d, want 1", len(tokens.markedExpd))
	}
}

func TestVerifyPasswordlessLoginWrongKind(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "driver@acme.test")
	tokens := newMockTokenRepo(&domain.AuthToken{
		UUID:      "token-1",
		UserID:    1,
		Token:     "verify-email-token",
		Kind:      domain.TokenKindEmailVerification,
		Status:    domain.TokenStatusPending,
		IsActive:  true,
		ExpiresAt: at.Add(time.Hour),
	})

	svc := newTestAuthService(newMockUserRepo(user), tokens, nil, newStubNotifier(), at)

	if _, err := svc.VerifyPasswordlessLogin(context.Background(), "verify-email-token", "", domain.DeviceInfo{}); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("err = %v, want ErrInvalidOrExpiredToken for wrong kind", err)
	}
}

func TestVerifyPasswordlessLoginUnknownToken(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestAuthService(newMockUserRepo(), newMockTokenRepo(), nil, newStubNotifier(), at)

	if _, err := svc.VerifyPasswordlessLogin(context.Background(), "never-issued", "", domain.DeviceInfo{}); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("err = %v, want ErrInvalidOrExpiredToken", err)
	}
	if _, err := svc.VerifyPasswordlessLogin(context.Background(), "", "", domain.DeviceInfo{}); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("empty token and code: err = %v, want ErrInvalidOrExpiredToken", err)
	}
}

func TestConfirmEmailVerificationActivatesUser(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := activeUser(1, "user-1", "invited@acme.test")
	user.Status = domain.UserStatusInactive
	users := newMockUserRepo(user)
	tokens := newMockTokenRepo(&domain.AuthToken{
		UUID:      "token-1",
		UserID:    1,
		Token:     "verify-token",
		Kind:      domain.TokenKindEmailVerification,
		Status:    domain.TokenStatusPending,
		IsActive:  true,
		ExpiresAt: at.Add(time.Hour),
	})

	svc := newTestAuthService(users, tokens, nil, newStubNotifier(), at)

	if err := svc.ConfirmEmailVerification(context.Background(), "verify-token"); err != nil {
		t.Fatalf("ConfirmEmailVerification: %v", err)
	}
	if user.Status != domain.UserStatusActive {
		t.Errorf("user status = %s, want ACTIVE", user.Status)
	}
	if tokens.tokens["verify-token"].Status != domain.TokenStatusUsed {
		t.Errorf("token status = %s, want USED", tokens.tokens["verify-token"].Status)
	}

	if err := svc.ConfirmEmailVerification(context.Background(), "verify-token"); !errors.Is(err, ErrInvalidOrExpiredToken) {
		t.Errorf("second confirmation err = %v, want ErrInvalidOrExpiredToken", err)
	}
}

func TestSweepExpiredTokens(t *testing.T) {
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tokens := newMockTokenRepo(
		&domain.AuthToken{Token: "stale", Status: domain.TokenStatusPending, IsActive: true, ExpiresAt: at.Add(-time.Hour)},
		&domain.AuthToken{Token: "fresh", Status: domain.TokenStatusPending, IsActive: true, ExpiresAt: at.Add(time.Hour)},
		&domain.AuthToken{Token: "used", Status: domain.TokenStatusUsed, ExpiresAt: at.Add(-time.Hour)},
	)

	svc := newTestAuthService(newMockUserRepo(), tokens, nil, newStubNotifier(), at)

	count, err := svc.SweepExpiredTokens(context.Background())
	if err != nil {
		t.Fatalf("SweepExpiredTokens: %v", err)
	}
	if count != 1 {
		t.Errorf("swept = %d, want 1", count)
	}
	if tokens.tokens["stale"].Status != domain.TokenStatusExpired {
		t.Error("stale token not expired")
	}
	if tokens.tokens["fresh"].Status != domain.TokenStatusPending {
		t.Error("fresh token must stay PENDING")
	}
	if tokens.tokens["used"].Status != domain.TokenStatusUsed {
		t.Error("USED is terminal, sweep must not touch it")
	}
}
