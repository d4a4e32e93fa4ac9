package sampling

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// SampleHook is called with every generated sample and the weight it
// contributed to the counts. Rejected samples and Gibbs burn-in sweeps report
// weight 0.
type SampleHook func(event domain.Event, weight float64)

type config struct {
	logger   *slog.Logger
	observer Observer
	burnIn   int
	hook     SampleHook
	ctx      context.Context
}

// checkEvery is how many samples run between context checks.
const checkEvery = 1024

// Option configures a sampler.
type Option func(*config)

// WithLogger sets the logger that receives one debug record per run.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithObserver registers an observer notified after every Ask.
func WithObserver(o Observer) Option {
	return func(c *config) {
		c.observer = o
	}
}

// WithBurnIn makes Gibbs discard the first k sweeps before counting.
// The default of 0 counts from the first sweep. Other samplers ignore it.
func WithBurnIn(k int) Option {
	return func(c *config) {
		c.burnIn = max(k, 0)
	}
}

// WithSampleHook registers a callback invoked for every generated sample.
func WithSampleHook(h SampleHook) Option {
	return func(c *config) {
		c.hook = h
	}
}

// WithContext makes a run stop with ctx.Err() once ctx is done. The context is
// polled every 1024 samples, so a sampler built with it serves one request.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		c.ctx = ctx
	}
}

func newConfig(opts []Option) config {
	c := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}

func (c *config) emit(order []*domain.RandomVariable, state map[*domain.RandomVariable]any, weight float64) {
	if c.hook != nil {
		c.hook(domain.EventOf(order, state), weight)
	}
}

func (c *config) interrupted(i int) error {
	if c.ctx == nil || i%checkEvery != 0 {
		return nil
	}
	return c.ctx.Err()
}
