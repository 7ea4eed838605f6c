package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	rateLimitProblemType  = "https://api.movigo.example.com/errors/rate-limit-exceeded"
	rateLimitProblemTitle = "Rate Limit Exceeded"
)

// RateLimitStore is the sliding-window persistence behind the middleware.
type RateLimitStore interface {
	TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error
	CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error)
	RecordAttempt(ctx context.Context, identifier string, at time.Time) error
	OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error)
}

// IdentifierFunc extracts the value that scopes a limit, usually the client IP.
type IdentifierFunc func(*gin.Context) (string, bool)

// RateLimitRule is one named sliding-window limit.
type RateLimitRule struct {
	Name       string
	Limit      int
	Window     time.Duration
	Identifier IdentifierFunc
}

// RateLimiter builds gin middleware over a RateLimitStore. Store failures
// fail open: an unreachable Redis must not lock users out of login.
type RateLimiter struct {
	store  RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// ProblemDetails is the RFC 9457 payload returned on limited requests.
type ProblemDetails struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Detail     string         `json:"detail"`
	Instance   string         `json:"instance"`
	RetryAfter int            `json:"retry_after"`
	TraceID    string         `json:"trace_id,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// NewRateLimiter constructs RateLimiter.
func NewRateLimiter(store RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{store: store, logger: logger, now: time.Now}
}

// WithClock injects a custom clock for tests.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// ClientIPIdentifier scopes a rule by the request's client IP.
func ClientIPIdentifier() IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

type windowState struct {
	remaining  int
	reset      time.Time
	retryAfter time.Duration
	blocked    bool
}

// RateLimit enforces one rule per middleware instance.
func (rl *RateLimiter) RateLimit(rule RateLimitRule) gin.HandlerFunc {
	if rule.Name == "" {
		rule.Name = "default"
	}
	disabled := rl.store == nil || rule.Identifier == nil || rule.Limit <= 0 || rule.Window <= 0

	return func(c *gin.Context) {
		if disabled {
			c.Next()
			return
		}

		identifier, ok := rule.Identifier(c)
		if !ok || identifier == "" {
			c.Next()
			return
		}

		key := fmt.Sprintf("%s:%s", rule.Name, identifier)
		state, err := rl.check(c.Request.Context(), rule, key)
		if err != nil {
			rl.logger.Warn("rate limit check failed",
				zap.String("rule", rule.Name),
				zap.String("identifier", identifier),
				zap.Error(err))
			c.Next()
			return
		}

		rl.writeHeaders(c, rule, state)
		if state.blocked {
			rl.reject(c, state)
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(ctx context.Context, rule RateLimitRule, key string) (windowState, error) {
	now := rl.now()

	if err := rl.store.TrimWindow(ctx, key, rule.Window, now); err != nil {
		return windowState{}, err
	}
	count, err := rl.store.CountAttempts(ctx, key, rule.Window, now)
	if err != nil {
		return windowState{}, err
	}
	oldest, hasAttempts, err := rl.store.OldestAttempt(ctx, key, rule.Window, now)
	if err != nil {
		return windowState{}, err
	}

	state := windowState{reset: now.Add(rule.Window)}
	if hasAttempts {
		state.reset = oldest.Add(rule.Window)
	}
	if retry := state.reset.Sub(now); retry > 0 {
		state.retryAfter = retry
	}

	if count >= rule.Limit {
		state.blocked = true
		return state, nil
	}

	if err := rl.store.RecordAttempt(ctx, key, now); err != nil {
		return windowState{}, err
	}
	state.remaining = rule.Limit - count - 1
	if state.remaining < 0 {
		state.remaining = 0
	}
	if !hasAttempts {
		state.reset = now.Add(rule.Window)
	}
	return state, nil
}

func (rl *RateLimiter) writeHeaders(c *gin.Context, rule RateLimitRule, state windowState) {
	headers := c.Writer.Header()
	headers.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
	headers.Set("X-RateLimit-Remaining", strconv.Itoa(state.remaining))
	headers.Set("X-RateLimit-Reset", strconv.FormatInt(state.reset.Unix(), 10))
	if state.blocked {
		headers.Set("Retry-After", strconv.Itoa(retrySeconds(state)))
	}
}

func (rl *RateLimiter) reject(c *gin.Context, state windowState) {
	seconds := retrySeconds(state)
	instance := c.FullPath()
	if instance == "" {
		instance = c.Request.URL.Path
	}

	c.AbortWithStatusJSON(http.StatusTooManyRequests, ProblemDetails{
		Type:       rateLimitProblemType,
		Title:      rateLimitProblemTitle,
		Status:     http.StatusTooManyRequests,
		Detail:     fmt.Sprintf("Too many requests. Try again in %d seconds.", seconds),
		Instance:   instance,
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	})
}

func retrySeconds(state windowState) int {
	seconds := int(math.Ceil(state.retryAfter.Seconds()))
	if seconds < 0 {
		return 0
	}
	return seconds
}
