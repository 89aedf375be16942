// Package store persists the attestation session in Redis under one
// fixed key. The whole session is written after every mutation, so a
// restart loses at most the in-flight operation.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/reteihq/attest-backend/internal/config"
	"github.com/reteihq/attest-backend/internal/model"
)

// SessionStore reads and writes the single persisted session.
type SessionStore struct {
	rdb *redis.Client
	key string
	log zerolog.Logger
}

// NewSessionStore creates a SessionStore bound to the fixed session key.
func NewSessionStore(rdb *redis.Client, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		rdb: rdb,
		key: config.CacheKey.SessionKey(),
		log: log.With().Str("component", "session_store").Logger(),
	}
}

// Load returns the persisted session, or a fresh empty one when no
// state exists. Corrupt stored state is discarded and logged, never
// surfaced to the caller: a broken blob must not brick the app.
func (s *SessionStore) Load(ctx context.Context) (*model.Session, error) {
	raw, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == redis.Nil {
		return model.NewSession(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	sess := model.NewSession()
	if err := json.Unmarshal(raw, sess); err != nil {
		s.log.Warn().Err(err).Msg("Discarding corrupt persisted session")
		return model.NewSession(), nil
	}
	return sess, nil
}

// Save durably serializes the full session. The mutating operation is
// not complete until Save returns.
func (s *SessionStore) Save(ctx context.Context, sess *model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Reset erases the persisted state entirely.
func (s *SessionStore) Reset(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	return nil
}
