package shared

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionStore tracks issued token sessions in Redis so they can be revoked
// before their natural expiry.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

// TTL exposes the configured session lifetime.
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Open registers a new session for userID and returns its identifier.
func (s *SessionStore) Open(ctx context.Context, userID int64) (string, error) {
	id := uuid.NewString()
	uid := strconv.FormatInt(userID, 10)
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, sessionKey(id), uid, s.ttl)
	pipe.SAdd(ctx, userSessionsKey(uid), id)
	pipe.Expire(ctx, userSessionsKey(uid), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// Active reports whether the session is still registered.
func (s *SessionStore) Active(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, err := s.client.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Revoke removes a single session.
func (s *SessionStore) Revoke(ctx context.Context, id string) error {
	uid, err := s.client.GetDel(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return s.client.SRem(ctx, userSessionsKey(uid), id).Err()
}

// RevokeUser removes every session of userID, forcing a new login.
func (s *SessionStore) RevokeUser(ctx context.Context, userID int64) error {
	uid := strconv.FormatInt(userID, 10)
	ids, err := s.client.SMembers(ctx, userSessionsKey(uid)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userSessionsKey(uid))
	return s.client.Del(ctx, keys...).Err()
}

func sessionKey(id string) string {
	return "session:" + id
}

func userSessionsKey(uid string) string {
	return "session:user:" + uid
}
