package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rescobars/moviGo-api/internal/infra/config"
)

var (
	// ErrTokenExpired marks a token past its TTL.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid marks a malformed token or a bad signature. User-facing
	// layers must not distinguish this from ErrTokenExpired.
	ErrTokenInvalid = errors.New("token invalid")
)

// AccessClaims are carried by short-lived access tokens.
type AccessClaims struct {
	UserUUID string `json:"userId"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// RefreshClaims are carried by long-lived refresh tokens. TokenID is the
// session UUID the token is bound to.
type RefreshClaims struct {
	UserUUID string `json:"userId"`
	TokenID  string `json:"tokenId"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies the two token classes with independent
// secrets. All secrets and lifetimes are injected at construction; nothing
// here reads ambient state.
type TokenCodec struct {
	cfg config.JWTSettings
	now func() time.Time
}

// NewTokenCodec builds a codec from the given settings.
func NewTokenCodec(cfg config.JWTSettings) *TokenCodec {
	return &TokenCodec{cfg: cfg, now: time.Now}
}

// WithClock injects a custom clock for tests.
func (c *TokenCodec) WithClock(now func() time.Time) *TokenCodec {
	if now != nil {
		c.now = now
	}
	return c
}

// AccessTTL exposes the access token lifetime for expires_in payloads.
func (c *TokenCodec) AccessTTL() time.Duration {
	return c.cfg.AccessTTL
}

// RefreshTTL exposes the refresh token lifetime.
func (c *TokenCodec) RefreshTTL() time.Duration {
	return c.cfg.RefreshTTL
}

// SignAccess mints a short-lived access token bound to the user identity.
func (c *TokenCodec) SignAccess(userUUID, email string) (string, error) {
	now := c.now().UTC()
	claims := AccessClaims{
		UserUUID: userUUID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID,
			Issuer:    c.cfg.Issuer,
			Audience:  jwt.ClaimStrings{c.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.AccessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.AccessSecret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// SignRefresh mints a long-lived refresh token bound to the session.
func (c *TokenCodec) SignRefresh(userUUID, sessionUUID string) (string, error) {
	now := c.now().UTC()
	claims := RefreshClaims{
		UserUUID: userUUID,
		TokenID:  sessionUUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUUID,
			Issuer:    c.cfg.Issuer,
			Audience:  jwt.ClaimStrings{c.cfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.cfg.RefreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(c.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccess validates an access token signature and TTL.
func (c *TokenCodec) VerifyAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.parse(raw, claims, c.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token signature and TTL.
func (c *TokenCodec) VerifyRefresh(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.parse(raw, claims, c.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (c *TokenCodec) parse(raw string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(c.cfg.Issuer),
		jwt.WithAudience(c.cfg.Audience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	return nil
}

// DecodeUnverified extracts claims without checking the signature. For
// diagnostics only; never use the result for authorization.
func (c *TokenCodec) DecodeUnverified(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return claims, nil
}
