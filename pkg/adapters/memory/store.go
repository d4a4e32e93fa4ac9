package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/aretw0/bayesnet/pkg/domain"
)

type item struct {
	posterior *domain.Posterior
	expires   time.Time
}

// Store implements ports.ResultStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]item
	ttl  time.Duration
	now  func() time.Time
	mu   sync.RWMutex
}

// Option configures a Store.
type Option func(*Store)

// WithTTL expires entries ttl after they are saved. Zero keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// NewStore creates a new in-memory store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		data: make(map[string]item),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// clone copies the posterior so callers cannot mutate stored state by pointer.
func clone(p *domain.Posterior) *domain.Posterior {
	c := *p
	c.Query = slices.Clone(p.Query)
	c.Evidence = maps.Clone(p.Evidence)
	if p.Entries != nil {
		c.Entries = make([]domain.PosteriorEntry, len(p.Entries))
		for i, e := range p.Entries {
			c.Entries[i] = domain.PosteriorEntry{Values: slices.Clone(e.Values), Probability: e.Probability}
		}
	}
	return &c
}

func (s *Store) expired(it item) bool {
	return !it.expires.IsZero() && !s.now().Before(it.expires)
}

// Save stores a copy of the posterior.
func (s *Store) Save(ctx context.Context, key string, posterior *domain.Posterior) error {
	it := item{posterior: clone(posterior)}
	if s.ttl > 0 {
		it.expires = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = it
	return nil
}

// Load retrieves a copy of the posterior.
func (s *Store) Load(ctx context.Context, key string) (*domain.Posterior, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.data[key]
	if !ok || s.expired(it) {
		return nil, domain.ErrPosteriorNotFound
	}
	return clone(it.posterior), nil
}

// Delete removes the posterior.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// List returns the live keys, pruning expired ones.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.data))
	for k, it := range s.data {
		if s.expired(it) {
			delete(s.data, k)
			continue
		}
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}
