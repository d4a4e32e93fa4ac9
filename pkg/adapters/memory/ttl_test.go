package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/bayesnet/pkg/domain"
)

func TestStore_TTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewStore(WithTTL(time.Minute))
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "k", &domain.Posterior{ID: "x"}))
	_, err := s.Load(ctx, "k")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = s.Load(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrPosteriorNotFound)

	keys, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
}
