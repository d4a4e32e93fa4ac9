package domain

import (
	"fmt"
	"time"
)

// Posterior is the serializable record of an answered query.
// Values are rendered as text so the record survives JSON round trips
// through result caches unchanged.
type Posterior struct {
	ID        string            `json:"id"`
	Network   string            `json:"network"`
	Algorithm string            `json:"algorithm"`
	Query     []string          `json:"query"`
	Evidence  map[string]string `json:"evidence,omitempty"`
	Samples   int               `json:"samples"`
	Seed      uint64            `json:"seed"`
	Workers   int               `json:"workers,omitempty"`
	BurnIn    int               `json:"burn_in,omitempty"`
	Entries   []PosteriorEntry  `json:"distribution"`
	CreatedAt time.Time         `json:"created_at"`

	// Cached is set on the copy returned to callers when the posterior came from a store.
	Cached bool `json:"cached"`

	// Sealed holds the encrypted record when a store keeps posteriors at rest
	// encrypted; every other field except the identifying ones is then empty.
	Sealed string `json:"sealed,omitempty"`
}

// PosteriorEntry is one row of a posterior: a value per query variable and its probability.
type PosteriorEntry struct {
	Values      []string `json:"values"`
	Probability float64  `json:"probability"`
}

// NewPosteriorEntries flattens a normalized table into posterior rows in index order.
func NewPosteriorEntries(t *ProbabilityTable) []PosteriorEntry {
	entries := make([]PosteriorEntry, 0, t.Size())
	t.Iterate(func(values []any, p float64) {
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		entries = append(entries, PosteriorEntry{Values: row, Probability: p})
	})
	return entries
}

// Probability returns the probability of the row whose values equal values.
func (p *Posterior) Probability(values ...string) (float64, bool) {
	for _, e := range p.Entries {
		if len(e.Values) != len(values) {
			continue
		}
		match := true
		for i := range values {
			if e.Values[i] != values[i] {
				match = false
				break
			}
		}
		if match {
			return e.Probability, true
		}
	}
	return 0, false
}
