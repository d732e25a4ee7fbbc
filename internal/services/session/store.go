package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lumiere-skin/storefront/internal/domain/storefront/models"
	"github.com/lumiere-skin/storefront/internal/infrastructure/redis"
)

// Store keeps sessions by id. Get returns nil, nil for unknown or expired
// sessions. Set replaces the whole value in one step, so a concurrent reader
// sees either the previous or the new session, never a mix.
type Store interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	Set(ctx context.Context, sessionID string, session *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}

// sweepInterval bounds how often Set scans for expired sessions that are
// never read again
const sweepInterval = time.Minute

type MemoryStore struct {
	mu        sync.RWMutex
	sessions  map[string]*models.Session
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.Session),
		now:      time.Now,
	}
}

func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	ms.mu.RLock()
	stored, exists := ms.sessions[sessionID]
	ms.mu.RUnlock()

	if !exists {
		return nil, nil
	}

	if stored.Expired(ms.now()) {
		ms.mu.Lock()
		// re-check: a login may have replaced the entry meanwhile
		if current, ok := ms.sessions[sessionID]; ok && current == stored {
			delete(ms.sessions, sessionID)
		}
		ms.mu.Unlock()
		return nil, nil
	}

	return stored.Clone(), nil
}

func (ms *MemoryStore) Set(ctx context.Context, sessionID string, session *models.Session) error {
	if sessionID == "" || session == nil {
		return errors.New("session: missing id or session")
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.sweepLocked(ms.now())
	ms.sessions[sessionID] = session.Clone()
	return nil
}

// sweepLocked drops expired sessions at most once per sweepInterval. The
// caller holds the write lock.
func (ms *MemoryStore) sweepLocked(now time.Time) {
	if now.Sub(ms.lastSweep) < sweepInterval {
		return
	}
	ms.lastSweep = now

	for id, sess := range ms.sessions {
		if sess.Expired(now) {
			delete(ms.sessions, id)
		}
	}
}

func (ms *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.sessions, sessionID)
	return nil
}

// Len reports how many sessions are held, expired ones included
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

const redisKeyPrefix = "session:"

type RedisStore struct {
	redisService *redis.Service
	now          func() time.Time
}

func NewRedisStore(redisService *redis.Service) *RedisStore {
	return &RedisStore{redisService: redisService, now: time.Now}
}

func (rs *RedisStore) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	data, err := rs.redisService.Get(ctx, rs.key(sessionID))
	if errors.Is(err, redis.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stored models.Session
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	if stored.Expired(rs.now()) {
		return nil, nil
	}

	return &stored, nil
}

func (rs *RedisStore) Set(ctx context.Context, sessionID string, session *models.Session) error {
	if sessionID == "" || session == nil {
		return errors.New("session: missing id or session")
	}

	ttl := session.ExpiresAt.Sub(rs.now())
	if ttl <= 0 {
		return rs.Delete(ctx, sessionID)
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return rs.redisService.Set(ctx, rs.key(sessionID), string(data), ttl)
}

func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return rs.redisService.Delete(ctx, rs.key(sessionID))
}
