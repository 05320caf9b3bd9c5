package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ffi-hr/portal/internal/core/domain"
)

const defaultSessionTTL = 12 * time.Hour

// Sessions hands out Redis-backed session stores, one per portal session id.
// Key format: portal:<sid>:token and portal:<sid>:user
type Sessions struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessions(client *redis.Client, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Sessions{client: client, ttl: ttl}
}

// ForSession returns the store of sid.
func (s *Sessions) ForSession(sid string) *SessionStore {
	return &SessionStore{client: s.client, sid: sid, ttl: s.ttl}
}

// Ping reports whether Redis answers.
func (s *Sessions) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// SessionStore implements ports.SessionStore. Every read slides the expiry
// of both keys.
type SessionStore struct {
	client *redis.Client
	sid    string
	ttl    time.Duration
}

func tokenKey(sid string) string { return fmt.Sprintf("portal:%s:token", sid) }
func userKey(sid string) string  { return fmt.Sprintf("portal:%s:user", sid) }

func (s *SessionStore) SetToken(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, tokenKey(s.sid), token, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set token: %w", err)
	}
	return nil
}

func (s *SessionStore) Token(ctx context.Context) (string, error) {
	v, err := s.touch(ctx, tokenKey(s.sid), userKey(s.sid)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session get token: %w", err)
	}
	return v, nil
}

// touch reads key and slides the expiry of both session keys in one round
// trip, so the token and the user record always expire together.
func (s *SessionStore) touch(ctx context.Context, key, other string) *redis.StringCmd {
	var get *redis.StringCmd
	_, _ = s.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		get = p.GetEx(ctx, key, s.ttl)
		p.Expire(ctx, other, s.ttl)
		return nil
	})
	return get
}

func (s *SessionStore) SetUser(ctx context.Context, user domain.SessionUser) error {
	b, err := domain.EncodeStoredUser(user)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, userKey(s.sid), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set user: %w", err)
	}
	return nil
}

// User returns nil for a missing, malformed or outdated record.
func (s *SessionStore) User(ctx context.Context) (*domain.SessionUser, error) {
	b, err := s.touch(ctx, userKey(s.sid), tokenKey(s.sid)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get user: %w", err)
	}
	return domain.DecodeStoredUser(b), nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, tokenKey(s.sid), userKey(s.sid)).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
