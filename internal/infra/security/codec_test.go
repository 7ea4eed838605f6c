package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rescobars/moviGo-api/internal/infra/config"
)

func testSettings() config.JWTSettings {
	return config.JWTSettings{
		AccessSecret:  "access-secret-for-tests",
		RefreshSecret: "refresh-secret-for-tests",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "movigo-api",
		Audience:      "movigo",
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSettings())

	raw, err := codec.SignAccess("user-uuid", "rider@example.com")
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	claims, err := codec.VerifyAccess(raw)
	if err != nil {
		t.Fatalf("VerifyAccess: %v", err)
	}
	if claims.UserUUID != "user-uuid" {
		t.Errorf("user uuid = %q", claims.UserUUID)
	}
	if claims.Email != "rider@example.com" {
		t.Errorf("email = %q", claims.Email)
	}
}

func TestRefreshTokenCarriesSessionID(t *testing.T) {
	codec := NewTokenCodec(testSettings())

	raw, err := codec.SignRefresh("user-uuid", "session-uuid")
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	claims, err := codec.VerifyRefresh(raw)
	if err != nil {
		t.Fatalf("VerifyRefresh: %v", err)
	}
	if claims.TokenID != "session-uuid" {
		t.Errorf("token id = %q, want session-uuid", claims.TokenID)
	}
}

func TestSecretsAreIndependent(t *testing.T) {
	codec := NewTokenCodec(testSettings())

	access, err := codec.SignAccess("user-uuid", "rider@example.com")
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}
	if _, err := codec.VerifyRefresh(access); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("refresh verifier accepted access token: %v", err)
	}

	refresh, err := codec.SignRefresh("user-uuid", "session-uuid")
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}
	if _, err := codec.VerifyAccess(refresh); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("access verifier accepted refresh token: %v", err)
	}
}

func TestExpiredAccessToken(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	codec := NewTokenCodec(testSettings()).WithClock(func() time.Time { return base })

	raw, err := codec.SignAccess("user-uuid", "rider@example.com")
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	codec.WithClock(func() time.Time { return base.Add(16 * time.Minute) })
	if _, err := codec.VerifyAccess(raw); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("want ErrTokenExpired, got %v", err)
	}
}

func TestTamperedTokenRejected(t *testing.T) {
	codec := NewTokenCodec(testSettings())

	raw, err := codec.SignRefresh("user-uuid", "session-uuid")
	if err != nil {
		t.Fatalf("SignRefresh: %v", err)
	}

	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := codec.VerifyRefresh(tampered); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestDecodeUnverified(t *testing.T) {
	codec := NewTokenCodec(testSettings())

	raw, err := codec.SignAccess("user-uuid", "rider@example.com")
	if err != nil {
		t.Fatalf("SignAccess: %v", err)
	}

	claims, err := codec.DecodeUnverified(raw)
	if err != nil {
		t.Fatalf("DecodeUnverified: %v", err)
	}
	if claims["userId"] != "user-uuid" {
		t.Errorf("userId claim = %v", claims["userId"])
	}
}
