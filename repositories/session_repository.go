package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ihexyousex/mangalore-properties-sub000/wizard"
)

// ErrSessionNotFound is returned for unknown or expired wizard sessions.
var ErrSessionNotFound = errors.New("wizard session not found")

// sessionTTL is how long an idle wizard session survives. The form state is
// deliberately not kept longer; abandoned sessions simply expire.
const sessionTTL = 24 * time.Hour

// submitLockTTL bounds how long a submit lock can be held if the holder dies
// before releasing it. It covers the submit handler's own timeout.
const submitLockTTL = 30 * time.Second

// SessionRepository persists wizard session snapshots in Redis, falling back
// to an in-process map when Redis is unavailable.
type SessionRepository struct {
	redis *redis.Client

	mu     sync.RWMutex
	memory map[string][]byte
	locks  map[string]time.Time
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{
		redis:  client,
		memory: make(map[string][]byte),
		locks:  make(map[string]time.Time),
	}
}

func sessionKey(id string) string {
	return "wizard_session:" + id
}

func submitLockKey(id string) string {
	return "wizard_submit:" + id
}

// Save stores the snapshot under the session ID, refreshing its TTL.
func (r *SessionRepository) Save(ctx context.Context, id string, snap wizard.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	if r.redis != nil {
		return r.redis.Set(ctx, sessionKey(id), data, sessionTTL).Err()
	}

	r.mu.Lock()
	r.memory[id] = data
	r.mu.Unlock()
	return nil
}

// Load retrieves a session snapshot.
func (r *SessionRepository) Load(ctx context.Context, id string) (wizard.Snapshot, error) {
	var data []byte

	if r.redis != nil {
		raw, err := r.redis.Get(ctx, sessionKey(id)).Bytes()
		if err == redis.Nil {
			return wizard.Snapshot{}, ErrSessionNotFound
		}
		if err != nil {
			return wizard.Snapshot{}, err
		}
		data = raw
	} else {
		r.mu.RLock()
		raw, ok := r.memory[id]
		r.mu.RUnlock()
		if !ok {
			return wizard.Snapshot{}, ErrSessionNotFound
		}
		data = raw
	}

	var snap wizard.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return wizard.Snapshot{}, err
	}
	return snap, nil
}

// AcquireSubmitLock takes the session's submit lock. It returns false when
// another submit for the same session is still in flight, so the wizard
// dispatches at most once per session regardless of how many instances serve
// it. The lock expires on its own if the holder dies.
func (r *SessionRepository) AcquireSubmitLock(ctx context.Context, id string) (bool, error) {
	if r.redis != nil {
		return r.redis.SetNX(ctx, submitLockKey(id), 1, submitLockTTL).Result()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if deadline, held := r.locks[id]; held && time.Now().Before(deadline) {
		return false, nil
	}
	r.locks[id] = time.Now().Add(submitLockTTL)
	return true, nil
}

// ReleaseSubmitLock frees the session's submit lock after the submit settles,
// letting a failed submission be retried immediately.
func (r *SessionRepository) ReleaseSubmitLock(ctx context.Context, id string) error {
	if r.redis != nil {
		return r.redis.Del(ctx, submitLockKey(id)).Err()
	}

	r.mu.Lock()
	delete(r.locks, id)
	r.mu.Unlock()
	return nil
}

// Delete removes a session, typically after a successful submit.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if r.redis != nil {
		return r.redis.Del(ctx, sessionKey(id)).Err()
	}

	r.mu.Lock()
	delete(r.memory, id)
	r.mu.Unlock()
	return nil
}
