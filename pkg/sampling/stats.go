package sampling

import "time"

// Stats summarizes one sampling run.
type Stats struct {
	Algorithm Algorithm
	// Requested is the sample count asked for.
	Requested int
	// Generated counts samples (or counted Gibbs sweeps) produced.
	Generated int
	// Accepted counts samples that contributed to the estimate.
	Accepted int
	// Rejected counts samples discarded for contradicting the evidence.
	Rejected int
	// BurnIn counts Gibbs sweeps discarded before counting began.
	BurnIn      int
	TotalWeight float64
	Workers     int
	Duration    time.Duration
	Err         error
}

// Merge folds another run's counters into s.
func (s *Stats) Merge(o Stats) {
	s.Requested += o.Requested
	s.Generated += o.Generated
	s.Accepted += o.Accepted
	s.Rejected += o.Rejected
	s.BurnIn += o.BurnIn
	s.TotalWeight += o.TotalWeight
}

// Observer receives the statistics of every completed run.
type Observer interface {
	ObserveRun(Stats)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Stats)

// ObserveRun calls f(s).
func (f ObserverFunc) ObserveRun(s Stats) {
	f(s)
}
