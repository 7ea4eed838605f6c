package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RateLimitStore tracks request attempts in sorted sets keyed per identifier,
// implementing a sliding window over member scores (unix nanos).
type RateLimitStore struct {
	client    *goredis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRateLimitStore builds the store. ttl caps how long idle windows linger.
func NewRateLimitStore(client *goredis.Client, keyPrefix string, ttl time.Duration) *RateLimitStore {
	if keyPrefix == "" {
		keyPrefix = "ratelimit"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RateLimitStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

func (s *RateLimitStore) key(identifier string) string {
	return s.keyPrefix + ":" + identifier
}

// TrimWindow drops attempts older than the window.
func (s *RateLimitStore) TrimWindow(ctx context.Context, identifier string, window time.Duration, reference time.Time) error {
	cutoff := reference.Add(-window).UnixNano()
	if err := s.client.ZRemRangeByScore(ctx, s.key(identifier), "-inf", strconv.FormatInt(cutoff, 10)).Err(); err != nil {
		return fmt.Errorf("trim rate limit window: %w", err)
	}
	return nil
}

// CountAttempts counts attempts inside the window.
func (s *RateLimitStore) CountAttempts(ctx context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	cutoff := reference.Add(-window).UnixNano()
	count, err := s.client.ZCount(ctx, s.key(identifier), strconv.FormatInt(cutoff, 10), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("count rate limit attempts: %w", err)
	}
	return int(count), nil
}

// RecordAttempt registers one attempt at the given instant.
func (s *RateLimitStore) RecordAttempt(ctx context.Context, identifier string, at time.Time) error {
	key := s.key(identifier)
	score := at.UnixNano()
	member := strconv.FormatInt(score, 10)

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(score), Member: member})
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record rate limit attempt: %w", err)
	}
	return nil
}

// OldestAttempt returns the earliest attempt still inside the window, used to
// compute Retry-After.
func (s *RateLimitStore) OldestAttempt(ctx context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	cutoff := reference.Add(-window).UnixNano()
	members, err := s.client.ZRangeByScore(ctx, s.key(identifier), &goredis.ZRangeBy{
		Min:   strconv.FormatInt(cutoff, 10),
		Max:   "+inf",
		Count: 1,
	}).Result()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read oldest rate limit attempt: %w", err)
	}
	if len(members) == 0 {
		return time.Time{}, false, nil
	}

	nanos, err := strconv.ParseInt(members[0], 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse rate limit member: %w", err)
	}
	return time.Unix(0, nanos), true, nil
}
