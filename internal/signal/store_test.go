package signal

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingSignal(id string, createdAt time.Time, ttl time.Duration) Signal {
	return Signal{
		ID:        id,
		Symbol:    "BTCUSDT",
		Direction: DirectionBuy,
		Strength:  StrengthStrong,
		Price:     100,
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(ttl),
	}
}

func TestStore_PutGetRemove(t *testing.T) {
	store := NewStore()
	now := time.Now()

	id := store.Put(pendingSignal("sig-1", now, time.Hour))
	assert.Equal(t, "sig-1", id)

	got, ok := store.Get("sig-1")
	require.True(t, ok)
	assert.Equal(t, "BTCUSDT", got.Symbol)

	assert.True(t, store.Remove("sig-1"))

	_, ok = store.Get("sig-1")
	assert.False(t, ok)
}

func TestStore_RemoveIsIdempotent(t *testing.T) {
	store := NewStore()
	store.Put(pendingSignal("sig-1", time.Now(), time.Hour))

	assert.True(t, store.Remove("sig-1"))
	// The second resolution must observe not-found.
	assert.False(t, store.Remove("sig-1"))
	assert.False(t, store.Remove("never-existed"))
}

func TestStore_SweepExpires(t *testing.T) {
	store := NewStore()
	now := time.Now()

	store.Put(pendingSignal("fresh", now, time.Hour))
	store.Put(pendingSignal("stale", now.Add(-2*time.Hour), time.Hour))

	expired := store.Sweep(now)
	require.Len(t, expired, 1)
	assert.Equal(t, "stale", expired[0].ID)

	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("fresh")
	assert.True(t, ok)

	// An approve arriving after the sweep resolves as not-found.
	assert.False(t, store.Remove("stale"))
}

func TestStore_SweepEmpty(t *testing.T) {
	store := NewStore()
	assert.Empty(t, store.Sweep(time.Now()))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	store := NewStore()
	now := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			sig := pendingSignal(string(rune('a'+n%26))+"-sig", now, time.Hour)
			sig.ID = sig.ID + string(rune('0'+n%10))
			store.Put(sig)
			store.Get(sig.ID)
			store.Sweep(now)
		}(i)
	}
	wg.Wait()

	// Nothing expired, so every distinct id survives the sweeps.
	assert.Greater(t, store.Len(), 0)
}
