package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // Session records are stored as JSON
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9" // Redis client
)

// ErrSessionNotFound is returned for unknown, expired or revoked sessions.
var ErrSessionNotFound = errors.New("session not found")

const sessionKeyPrefix = "session:"

// Session is the server-side record behind a session cookie
type Session struct {
	ID        string    `json:"-"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionStore keeps live sessions in Redis, each key expiring with its session
type SessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSessionStore returns a store whose sessions live for ttl
func NewSessionStore(rdb *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{rdb: rdb, ttl: ttl}
}

// TTL is the lifetime given to new sessions
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// Create opens a new session for userID
func (s *SessionStore) Create(ctx context.Context, userID uint) (*Session, error) {
	sess := &Session{ID: uuid.NewString(), UserID: userID, CreatedAt: time.Now().UTC()}
	b, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, sessionKeyPrefix+sess.ID, b, s.ttl).Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Lookup returns the live session with the given id
func (s *SessionStore) Lookup(ctx context.Context, id string) (*Session, error) {
	val, err := s.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return nil, err
	}
	sess.ID = id
	return &sess, nil
}

// Delete revokes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// Ping checks the Redis connection
func (s *SessionStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
