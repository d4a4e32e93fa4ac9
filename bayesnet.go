package bayesnet

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/bayesnet/pkg/adapters/memory"
	"github.com/aretw0/bayesnet/pkg/domain"
	"github.com/aretw0/bayesnet/pkg/network"
	"github.com/aretw0/bayesnet/pkg/ports"
	"github.com/aretw0/bayesnet/pkg/registry"
	"github.com/aretw0/bayesnet/pkg/sampling"
)

// Query and Posterior are re-exported so callers of the facade need not import pkg/domain.
type (
	Query     = domain.Query
	Posterior = domain.Posterior
)

// Engine is the high-level entry point for the bayesnet library.
// It answers name-based queries against a registry of networks, choosing the
// sampling algorithm, seeding it, and caching posteriors in a ResultStore.
//
// Engine is safe for concurrent use.
type Engine struct {
	registry *registry.Registry
	store    ports.ResultStore
	locker   ports.DistributedLocker
	logger   *slog.Logger
	observer sampling.Observer

	algorithm  sampling.Algorithm
	samples    int
	maxSamples int
	seed       uint64
	workers    int
	burnIn     int
	lockTTL    time.Duration

	noCache bool
	draws   atomic.Uint64
}

var _ ports.QueryEngine = (*Engine)(nil)

// CacheObserver is implemented by observers that also track result-cache lookups.
type CacheObserver interface {
	ObserveCache(hit bool)
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithRegistry replaces the built-in network registry.
func WithRegistry(r *registry.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithStore sets the posterior cache. A nil store disables caching.
func WithStore(s ports.ResultStore) Option {
	return func(e *Engine) {
		e.store = s
		e.noCache = s == nil
	}
}

// WithLocker sets the lock taken around cache misses. Replicas sharing a
// store should share a locker too.
func WithLocker(l ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = l
	}
}

// WithLockTTL bounds how long a cache-miss lock is held if its owner dies.
func WithLockTTL(ttl time.Duration) Option {
	return func(e *Engine) {
		e.lockTTL = ttl
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithObserver receives the statistics of every sampling run. If it also
// implements CacheObserver it is told about cache hits and misses.
func WithObserver(o sampling.Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// WithSeed sets the seed every run starts from (default 42).
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithWorkers splits each run across n goroutines when n > 1.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithBurnIn discards k Gibbs sweeps before counting. Other algorithms ignore it.
func WithBurnIn(k int) Option {
	return func(e *Engine) {
		e.burnIn = k
	}
}

// WithDefaultAlgorithm sets the algorithm used when a query names none.
func WithDefaultAlgorithm(a sampling.Algorithm) Option {
	return func(e *Engine) {
		e.algorithm = a
	}
}

// WithDefaultSamples sets the sample count used when a query names none.
func WithDefaultSamples(n int) Option {
	return func(e *Engine) {
		e.samples = n
	}
}

// WithMaxSamples caps the sample count a single query may ask for.
func WithMaxSamples(n int) Option {
	return func(e *Engine) {
		e.maxSamples = n
	}
}

// DefaultMaxSamples is the per-query sample cap used without WithMaxSamples.
const DefaultMaxSamples = 1_000_000

// New initializes a new Engine.
// Without options it serves the built-in networks with likelihood weighting,
// 10000 samples (at most DefaultMaxSamples per query), seed 42, and an
// in-memory cache.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		algorithm:  sampling.AlgorithmLikelihoodWeighting,
		samples:    10000,
		maxSamples: DefaultMaxSamples,
		seed:       42,
		workers:    1,
		lockTTL:    time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.registry == nil {
		e.registry = registry.Default()
	}
	if e.store == nil && !e.noCache {
		e.store = memory.NewStore()
	}
	if e.store != nil && e.locker == nil {
		e.locker = memory.NewLocker()
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	alg, err := sampling.ParseAlgorithm(string(e.algorithm))
	if err != nil {
		return nil, err
	}
	e.algorithm = alg
	if e.samples <= 0 {
		return nil, fmt.Errorf("%w: default samples %d", domain.ErrInvalidSampleCount, e.samples)
	}
	if e.maxSamples <= 0 {
		return nil, fmt.Errorf("%w: max samples %d", domain.ErrInvalidSampleCount, e.maxSamples)
	}
	if e.samples > e.maxSamples {
		return nil, fmt.Errorf("%w: default samples %d exceed the limit of %d", domain.ErrInvalidSampleCount, e.samples, e.maxSamples)
	}
	e.workers = max(e.workers, 1)
	e.burnIn = max(e.burnIn, 0)
	return e, nil
}

// Ask answers q. Identical queries against the same engine configuration are
// served from the store; the returned posterior then has Cached set.
func (e *Engine) Ask(ctx context.Context, q domain.Query) (*domain.Posterior, error) {
	req, err := e.resolve(q)
	if err != nil {
		return nil, err
	}
	logger := e.logger.With("network", q.Network, "algorithm", req.algorithm)

	if e.store == nil {
		return e.compute(ctx, req, logger)
	}

	if p, ok := e.lookup(ctx, req.key, logger); ok {
		e.observeCache(true)
		return p, nil
	}
	e.observeCache(false)

	if e.locker != nil {
		unlock, err := e.locker.Lock(ctx, req.key, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock query %s: %w", req.key, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release query lock", "key", req.key, "error", err)
			}
		}()
		// Another holder may have answered while we waited.
		if p, ok := e.lookup(ctx, req.key, logger); ok {
			return p, nil
		}
	}

	p, err := e.compute(ctx, req, logger)
	if err != nil {
		return nil, err
	}
	if err := e.store.Save(ctx, req.key, p); err != nil {
		logger.Warn("failed to cache posterior", "key", req.key, "error", err)
	}
	return p, nil
}

func (e *Engine) lookup(ctx context.Context, key string, logger *slog.Logger) (*domain.Posterior, bool) {
	p, err := e.store.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrPosteriorNotFound) {
			logger.Warn("failed to read cached posterior", "key", key, "error", err)
		}
		return nil, false
	}
	p.Cached = true
	return p, true
}

func (e *Engine) observeCache(hit bool) {
	if co, ok := e.observer.(CacheObserver); ok {
		co.ObserveCache(hit)
	}
}

// request is a Query resolved against its network.
type request struct {
	query     domain.Query
	bn        *network.BayesianNetwork
	algorithm sampling.Algorithm
	samples   int
	vars      []*domain.RandomVariable
	evidence  []domain.AssignmentProposition
	key       string
}

func (e *Engine) resolve(q domain.Query) (*request, error) {
	req := &request{query: q, algorithm: e.algorithm, samples: e.samples}
	if q.Algorithm != "" {
		alg, err := sampling.ParseAlgorithm(q.Algorithm)
		if err != nil {
			return nil, err
		}
		req.algorithm = alg
	}
	if q.Samples != 0 {
		req.samples = q.Samples
	}
	if req.samples <= 0 {
		return nil, fmt.Errorf("%w: got %d", domain.ErrInvalidSampleCount, req.samples)
	}
	if req.samples > e.maxSamples {
		return nil, fmt.Errorf("%w: %d exceeds the limit of %d", domain.ErrInvalidSampleCount, req.samples, e.maxSamples)
	}

	bn, err := e.registry.Get(q.Network)
	if err != nil {
		return nil, err
	}
	req.bn = bn

	if len(q.Query) == 0 {
		return nil, domain.ErrEmptyQuery
	}
	for _, name := range q.Query {
		rv, ok := bn.Variable(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%w: query %s", domain.ErrUnknownVariable, name)
		}
		req.vars = append(req.vars, rv)
	}
	if err := bn.ValidateQuery(req.vars...); err != nil {
		return nil, err
	}

	// Keys are trimmed like query names; raw keeps the original for lookup.
	raw := make(map[string]string, len(q.Evidence))
	for key := range q.Evidence {
		name := strings.TrimSpace(key)
		if _, dup := raw[name]; dup {
			return nil, fmt.Errorf("%w: evidence %s", domain.ErrDuplicateVariable, name)
		}
		raw[name] = key
	}
	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		rv, ok := bn.Variable(name)
		if !ok {
			return nil, fmt.Errorf("%w: evidence %s", domain.ErrUnknownVariable, name)
		}
		v, err := rv.Domain().Parse(q.Evidence[raw[name]])
		if err != nil {
			return nil, fmt.Errorf("evidence %s: %w", name, err)
		}
		req.evidence = append(req.evidence, domain.Assign(rv, v))
	}
	if len(req.evidence) > 0 && req.algorithm == sampling.AlgorithmPrior {
		return nil, fmt.Errorf("%w: use rejection, likelihood or gibbs", domain.ErrEvidenceNotSupported)
	}

	req.key = e.cacheKey(q.Network, req)
	return req, nil
}

// cacheKey identifies everything that determines a posterior: the network,
// the question, and the sampler configuration.
func (e *Engine) cacheKey(name string, req *request) string {
	h := sha256.New()
	fmt.Fprintf(h, "network=%s\nalgorithm=%s\nsamples=%d\nseed=%d\nworkers=%d\n",
		name, req.algorithm, req.samples, e.seed, e.workers)
	if req.algorithm == sampling.AlgorithmGibbs {
		fmt.Fprintf(h, "burn_in=%d\n", e.burnIn)
	}
	for _, rv := range req.vars {
		fmt.Fprintf(h, "query=%s\n", rv.Name())
	}
	for _, a := range req.evidence {
		fmt.Fprintf(h, "evidence=%s=%v\n", a.Variable.Name(), a.Value)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (e *Engine) compute(ctx context.Context, req *request, logger *slog.Logger) (*domain.Posterior, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := []sampling.Option{
		sampling.WithLogger(logger),
		sampling.WithObserver(e.observer),
		sampling.WithBurnIn(e.burnIn),
		sampling.WithContext(ctx),
	}

	var (
		table *domain.ProbabilityTable
		err   error
	)
	if e.workers > 1 {
		p, perr := sampling.NewParallel(req.algorithm, sampling.SeededFactory(e.seed), e.workers, opts...)
		if perr != nil {
			return nil, perr
		}
		table, err = p.AskContext(ctx, req.vars, req.evidence, req.bn, req.samples)
	} else {
		s, serr := sampling.New(req.algorithm, sampling.NewRandomizer(e.seed), opts...)
		if serr != nil {
			return nil, serr
		}
		table, err = s.Ask(req.vars, req.evidence, req.bn, req.samples)
	}
	if err != nil {
		return nil, err
	}

	p := &domain.Posterior{
		ID:        uuid.NewString(),
		Network:   req.query.Network,
		Algorithm: string(req.algorithm),
		Samples:   req.samples,
		Seed:      e.seed,
		Workers:   e.workers,
		Entries:   domain.NewPosteriorEntries(table),
		CreatedAt: time.Now().UTC(),
	}
	if req.algorithm == sampling.AlgorithmGibbs {
		p.BurnIn = e.burnIn
	}
	for _, rv := range req.vars {
		p.Query = append(p.Query, rv.Name())
	}
	if len(req.evidence) > 0 {
		p.Evidence = make(map[string]string, len(req.evidence))
		for _, a := range req.evidence {
			p.Evidence[a.Variable.Name()] = fmt.Sprint(a.Value)
		}
	}
	logger.Info("query answered", "id", p.ID, "query", p.Query, "samples", p.Samples)
	return p, nil
}

// Sample draws one complete event from the named network's joint distribution.
// Successive calls use successive streams of the engine seed, so a fresh engine
// replays the same sequence of events.
func (e *Engine) Sample(ctx context.Context, name string) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bn, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}
	stream := int(e.draws.Add(1) - 1)
	ps := sampling.NewPriorSample(sampling.SeededFactory(e.seed)(stream), sampling.WithLogger(e.logger))
	event, err := ps.Sample(bn)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, event.Len())
	for _, a := range event.Assignments() {
		out[a.Variable.Name()] = fmt.Sprint(a.Value)
	}
	return out, nil
}

// Networks describes every registered network, sorted by name.
func (e *Engine) Networks() ([]domain.NetworkInfo, error) {
	return e.registry.Infos()
}

// Describe returns the structure of the named network.
func (e *Engine) Describe(name string) (domain.NetworkInfo, error) {
	return e.registry.Info(name)
}

// Network returns the named network.
func (e *Engine) Network(name string) (*network.BayesianNetwork, error) {
	return e.registry.Get(name)
}

// Forget drops every cached posterior.
func (e *Engine) Forget(ctx context.Context) error {
	if e.store == nil {
		return nil
	}
	keys, err := e.store.List(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, k := range keys {
		errs = append(errs, e.store.Delete(ctx, k))
	}
	return errors.Join(errs...)
}
