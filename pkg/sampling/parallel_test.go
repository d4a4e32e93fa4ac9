package sampling

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/aretw0/bayesnet/pkg/domain"
)

func TestParallel_Converges(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newRainUmbrella(t, nil)
	evidence := []domain.AssignmentProposition{domain.Assign(w.umbrella, true)}

	for _, alg := range []Algorithm{AlgorithmRejection, AlgorithmLikelihoodWeighting, AlgorithmGibbs} {
		t.Run(string(alg), func(t *testing.T) {
			var last Stats
			p, err := NewParallel(alg, SeededFactory(42), 4, WithObserver(ObserverFunc(func(s Stats) { last = s })))
			require.NoError(t, err)

			dist, err := p.Ask([]*domain.RandomVariable{w.rain}, evidence, w.bn, samples+1)
			require.NoError(t, err)
			assert.InDelta(t, rainGivenUmbrella, probability(t, dist, true), tolerance)
			assert.InDelta(t, 1.0, dist.Sum(), 1e-9)

			assert.Equal(t, samples+1, last.Requested)
			assert.Equal(t, samples+1, last.Generated, "every worker share is run")
			assert.Equal(t, 4, last.Workers)
		})
	}
}

func TestParallel_Deterministic(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newRainUmbrella(t, nil)
	evidence := []domain.AssignmentProposition{domain.Assign(w.umbrella, true)}
	run := func() []float64 {
		p, err := NewParallel(AlgorithmLikelihoodWeighting, SeededFactory(7), 3)
		require.NoError(t, err)
		dist, err := p.Ask([]*domain.RandomVariable{w.rain}, evidence, w.bn, 999)
		require.NoError(t, err)
		return dist.Values()
	}
	assert.Equal(t, run(), run())
}

func TestParallel_OneWorkerMatchesSerial(t *testing.T) {
	w := newRainUmbrella(t, nil)
	query := []*domain.RandomVariable{w.rain}
	evidence := []domain.AssignmentProposition{domain.Assign(w.umbrella, true)}

	p, err := NewParallel(AlgorithmGibbs, SeededFactory(5), 1)
	require.NoError(t, err)
	parallel, err := p.Ask(query, evidence, w.bn, 300)
	require.NoError(t, err)

	serial, err := NewGibbs(NewRandomizer(5)).Ask(query, evidence, w.bn, 300)
	require.NoError(t, err)
	assert.Equal(t, serial.Values(), parallel.Values())
}

func TestParallel_MoreWorkersThanSamples(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newRainUmbrella(t, nil)
	var calls atomic.Int32
	p, err := NewParallel(AlgorithmPrior, SeededFactory(1), 8,
		WithSampleHook(func(domain.Event, float64) { calls.Add(1) }))
	require.NoError(t, err)

	dist, stats, err := p.Tally([]*domain.RandomVariable{w.rain}, nil, w.bn, 3)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, dist.Sum(), 1e-9, "tally returns raw counts")
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 3, stats.Requested)
	assert.Equal(t, 3, stats.Workers)
}

func TestParallel_Errors(t *testing.T) {
	defer goleak.VerifyNone(t)

	w := newRainUmbrella(t, nil)
	query := []*domain.RandomVariable{w.rain}

	_, err := NewParallel("elimination", SeededFactory(1), 2)
	assert.ErrorIs(t, err, domain.ErrUnknownAlgorithm)

	_, err = NewParallel(AlgorithmGibbs, nil, 2)
	assert.Error(t, err)

	p, err := NewParallel(AlgorithmLikelihoodWeighting, SeededFactory(1), 2)
	require.NoError(t, err)

	_, err = p.Ask(query, nil, w.bn, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidSampleCount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.AskContext(ctx, query, nil, w.bn, 100)
	assert.ErrorIs(t, err, context.Canceled)

	impossible := newRainUmbrella(t, []float64{1, 0, 1, 0})
	_, err = p.Ask([]*domain.RandomVariable{impossible.rain},
		[]domain.AssignmentProposition{domain.Assign(impossible.umbrella, false)}, impossible.bn, 100)
	assert.ErrorIs(t, err, domain.ErrNoEvidenceSupport)
}
