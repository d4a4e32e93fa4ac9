package tests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/ports"
)

func samplePosterior(id string) *domain.Posterior {
	return &domain.Posterior{
		ID:        id,
		Network:   "rain-umbrella",
		Algorithm: "likelihood",
		Query:     []string{"Rain"},
		Evidence:  map[string]string{"Umbrella": "true"},
		Samples:   10000,
		Seed:      42,
		Entries: []domain.PosteriorEntry{
			{Values: []string{"true"}, Probability: 0.53},
			{Values: []string{"false"}, Probability: 0.47},
		},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// RunResultStoreContract runs a suite of tests to verify that a ResultStore implementation
// adheres to the defined interface contract.
func RunResultStoreContract(t *testing.T, store ports.ResultStore) {
	t.Helper()
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		want := samplePosterior("id-1")
		require.NoError(t, store.Save(ctx, key, want), "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, want.Entries, loaded.Entries)
		assert.Equal(t, want.Evidence, loaded.Evidence)
		assert.Equal(t, want.Seed, loaded.Seed)
		assert.True(t, want.CreatedAt.Equal(loaded.CreatedAt))

		p, ok := loaded.Probability("true")
		assert.True(t, ok)
		assert.Equal(t, 0.53, p)
	})

	t.Run("Load returns an isolated copy", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, samplePosterior("id-1")))
		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		loaded.Entries[0].Probability = 99
		loaded.Evidence["Umbrella"] = "false"

		again, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, 0.53, again.Entries[0].Probability)
		assert.Equal(t, "true", again.Evidence["Umbrella"])
	})

	t.Run("Nil fields stay nil", func(t *testing.T) {
		bare := &domain.Posterior{ID: "id-bare", Network: "rain-umbrella", CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
		require.NoError(t, store.Save(ctx, key+"-bare", bare))
		defer func() { _ = store.Delete(ctx, key+"-bare") }()

		loaded, err := store.Load(ctx, key+"-bare")
		require.NoError(t, err)
		assert.Equal(t, "id-bare", loaded.ID)
		assert.Nil(t, loaded.Query)
		assert.Nil(t, loaded.Evidence)
		assert.Nil(t, loaded.Entries)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrPosteriorNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, samplePosterior("id-2")))
		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrPosteriorNotFound, "Load after Delete should return ErrPosteriorNotFound")
		assert.NoError(t, store.Delete(ctx, key), "deleting a missing key is not an error")
	})

	t.Run("List", func(t *testing.T) {
		k1, k2 := key+"-1", key+"-2"
		require.NoError(t, store.Save(ctx, k1, samplePosterior("a")))
		require.NoError(t, store.Save(ctx, k2, samplePosterior("b")))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}

// RunLockerContract verifies mutual exclusion and release for a DistributedLocker.
func RunLockerContract(t *testing.T, locker ports.DistributedLocker) {
	t.Helper()
	ctx := context.Background()

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-a", 5*time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, "contract-a", 5*time.Second)
		require.NoError(t, err, "lock must be reusable after release")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Contention", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-b", 5*time.Second)
		require.NoError(t, err)

		short, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()
		_, err = locker.Lock(short, "contract-b", 5*time.Second)
		assert.True(t, errors.Is(err, context.DeadlineExceeded), "second holder must wait, got %v", err)

		require.NoError(t, unlock(ctx))
	})

	t.Run("Mutual exclusion", func(t *testing.T) {
		var mu sync.Mutex
		inside, maxInside := 0, 0
		var wg sync.WaitGroup
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				unlock, err := locker.Lock(ctx, "contract-c", 5*time.Second)
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				inside++
				maxInside = max(maxInside, inside)
				mu.Unlock()
				time.Sleep(10 * time.Millisecond)
				mu.Lock()
				inside--
				mu.Unlock()
				assert.NoError(t, unlock(ctx))
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, maxInside)
	})
}
