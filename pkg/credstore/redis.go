package credstore

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/franfreezy/abdata/pkg/auth"
)

// Redis key fields mirroring the browser's persisted state: one token, one
// display username, plus the token's origin.
const (
	fieldToken    = "authToken"
	fieldUsername = "username"
	fieldSource   = "source"
)

// RedisStore persists one credential per browser session in Redis, so a
// logged-in session survives a front-end restart. Sessions expire with the
// TTL; an expired key reads back as empty, which simply logs the user out.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisClient connects to Redis with conservative timeouts and verifies
// the connection before returning.
func NewRedisClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewRedisStore creates a store scoped to one browser session
func NewRedisStore(client *redis.Client, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		key:    "abdata:session:" + sessionID,
		ttl:    ttl,
	}
}

// Set stores the credential, discarding any previous one
func (s *RedisStore) Set(ctx context.Context, cred auth.Credential) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key)
	pipe.HSet(ctx, s.key,
		fieldToken, cred.Token,
		fieldSource, string(cred.Source),
		fieldUsername, cred.Username,
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Get returns the stored credential, or (nil, nil) when the session is empty
func (s *RedisStore) Get(ctx context.Context) (*auth.Credential, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	token := fields[fieldToken]
	if token == "" {
		return nil, nil
	}

	source := auth.Source(fields[fieldSource])
	if source == "" {
		source = auth.InferSource(token)
	}
	return &auth.Credential{
		Token:    token,
		Source:   source,
		Username: fields[fieldUsername],
	}, nil
}

// Clear removes the stored credential
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear failed: %w", err)
	}
	return nil
}
