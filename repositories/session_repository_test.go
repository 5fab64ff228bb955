package repositories

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihexyousex/mangalore-properties-sub000/wizard"
)

func testSnapshot() wizard.Snapshot {
	return wizard.Snapshot{
		Flow:     "public",
		Step:     3,
		Category: wizard.CategoryRentalResidential,
		Fields: map[string]interface{}{
			"title":       "Flat in Kadri",
			"monthlyRent": "25000",
		},
		Contact: wizard.Contact{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
	}
}

func newRedisRepo(t *testing.T) *SessionRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewSessionRepository(client)
}

func TestSessionRoundTripRedis(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-1", testSnapshot()))

	snap, err := repo.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, snap.Step)
	assert.Equal(t, wizard.CategoryRentalResidential, snap.Category)
	assert.Equal(t, "Flat in Kadri", snap.Fields["title"])
	assert.Equal(t, "Asha Rao", snap.Contact.Name)
}

func TestSessionLoadMissing(t *testing.T) {
	repo := newRedisRepo(t)
	_, err := repo.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDelete(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-2", testSnapshot()))
	require.NoError(t, repo.Delete(ctx, "sess-2"))

	_, err := repo.Load(ctx, "sess-2")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSubmitLockSingleHolder(t *testing.T) {
	repo := newRedisRepo(t)
	ctx := context.Background()

	acquired, err := repo.AcquireSubmitLock(ctx, "sess-4")
	require.NoError(t, err)
	assert.True(t, acquired)

	// A second submit of the same session is refused while the lock is held.
	acquired, err = repo.AcquireSubmitLock(ctx, "sess-4")
	require.NoError(t, err)
	assert.False(t, acquired)

	// Other sessions are unaffected.
	acquired, err = repo.AcquireSubmitLock(ctx, "sess-5")
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, repo.ReleaseSubmitLock(ctx, "sess-4"))
	acquired, err = repo.AcquireSubmitLock(ctx, "sess-4")
	require.NoError(t, err)
	assert.True(t, acquired, "released lock can be retaken")
}

func TestSubmitLockMemoryFallback(t *testing.T) {
	repo := NewSessionRepository(nil)
	ctx := context.Background()

	acquired, err := repo.AcquireSubmitLock(ctx, "sess-6")
	require.NoError(t, err)
	assert.True(t, acquired)

	acquired, err = repo.AcquireSubmitLock(ctx, "sess-6")
	require.NoError(t, err)
	assert.False(t, acquired)

	require.NoError(t, repo.ReleaseSubmitLock(ctx, "sess-6"))
	acquired, err = repo.AcquireSubmitLock(ctx, "sess-6")
	require.NoError(t, err)
	assert.True(t, acquired)
}

func TestSessionMemoryFallback(t *testing.T) {
	// No Redis client at all: the repository degrades to an in-process map.
	repo := NewSessionRepository(nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "sess-3", testSnapshot()))
	snap, err := repo.Load(ctx, "sess-3")
	require.NoError(t, err)
	assert.Equal(t, "public", snap.Flow)

	require.NoError(t, repo.Delete(ctx, "sess-3"))
	_, err = repo.Load(ctx, "sess-3")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
