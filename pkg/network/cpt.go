package network

import (
	"fmt"
	"math"
	"strings"

	"github.com/aretw0/bayesnet/pkg/domain"
)

// DefaultTolerance is the rounding slack allowed when checking that a
// conditioning-case row sums to 1.
const DefaultTolerance = 1e-6

// CPT is a conditional probability table: the distribution of one variable
// for every combination of its parents' values.
//
// Entries are stored flat over (parents..., on), with the node's own value
// varying fastest, so each block of |domain(on)| consecutive entries is one
// conditioning-case row. A CPT is immutable after construction.
type CPT struct {
	on      *domain.RandomVariable
	parents []*domain.RandomVariable
	table   *domain.ProbabilityTable
	values  []float64
	parent  domain.MixedRadix
	width   int
}

// NewCPT builds the table for on given parents and validates it.
// len(values) must equal |domain(on)| * Π|domain(parent)| and every row must
// sum to 1 within DefaultTolerance. Rows are never renormalized.
func NewCPT(on *domain.RandomVariable, values []float64, parents ...*domain.RandomVariable) (*CPT, error) {
	if on == nil {
		return nil, domain.ErrNilVariable
	}

	radices := make([]int, len(parents))
	for i, p := range parents {
		if p == nil {
			return nil, fmt.Errorf("%w: parent %d of %s", domain.ErrNilVariable, i, on.Name())
		}
		if p == on {
			return nil, fmt.Errorf("%w: %s lists itself as a parent", domain.ErrNotDAG, on.Name())
		}
		radices[i] = p.Domain().Size()
	}

	scope := make([]*domain.RandomVariable, 0, len(parents)+1)
	scope = append(scope, parents...)
	scope = append(scope, on)

	table, err := domain.NewProbabilityTable(values, scope...)
	if err != nil {
		return nil, fmt.Errorf("cpt for %s: %w", on.Name(), err)
	}

	c := &CPT{
		on:      on,
		parents: append([]*domain.RandomVariable(nil), parents...),
		table:   table,
		values:  table.Values(),
		parent:  domain.NewMixedRadix(radices...),
		width:   on.Domain().Size(),
	}
	if err := c.checkRows(DefaultTolerance); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CPT) checkRows(tolerance float64) error {
	for r := 0; r < c.parent.Size(); r++ {
		sum := 0.0
		for _, p := range c.rowAt(r) {
			if p > 1+tolerance {
				return fmt.Errorf("%w: %s row %d (%s) has entry %v > 1", domain.ErrInvalidProbability, c.on.Name(), r, c.describeRow(r), p)
			}
			sum += p
		}
		if math.Abs(sum-1) > tolerance {
			return fmt.Errorf("%w: %s row %d (%s) sums to %v", domain.ErrRowNotNormalized, c.on.Name(), r, c.describeRow(r), sum)
		}
	}
	return nil
}

func (c *CPT) describeRow(r int) string {
	if len(c.parents) == 0 {
		return "prior"
	}
	digits := c.parent.Digits(r, nil)
	parts := make([]string, len(digits))
	for i, d := range digits {
		parts[i] = fmt.Sprintf("%s=%v", c.parents[i].Name(), c.parents[i].Domain().ValueAt(d))
	}
	return strings.Join(parts, ", ")
}

// rowAt returns the live slice of entries for parent combination r.
func (c *CPT) rowAt(r int) []float64 {
	return c.values[r*c.width : (r+1)*c.width]
}

// On returns the variable the table is conditioned for.
func (c *CPT) On() *domain.RandomVariable {
	return c.on
}

// Parents returns the parent variables in table order.
func (c *CPT) Parents() []*domain.RandomVariable {
	return append([]*domain.RandomVariable(nil), c.parents...)
}

// Variables returns the table scope: the parents followed by On.
func (c *CPT) Variables() []*domain.RandomVariable {
	return c.table.Variables()
}

// ProbabilityFor looks up one entry by a full assignment given positionally:
// one value per parent, in order, followed by the value of On.
func (c *CPT) ProbabilityFor(values ...any) (float64, error) {
	if len(values) != len(c.parents)+1 {
		return 0, fmt.Errorf("%w: %s has %d parents, got %d values", domain.ErrParentCountMismatch, c.on.Name(), len(c.parents), len(values)-1)
	}
	return c.table.Value(values...)
}

// Value looks up one entry by assignment. Every variable in scope must be
// assigned; assignments to other variables are ignored.
func (c *CPT) Value(assignments ...domain.AssignmentProposition) (float64, error) {
	return c.table.GetValue(assignments...)
}

// rowIndex resolves parent values to a conditioning-case row number.
func (c *CPT) rowIndex(parentValues []any) (int, error) {
	if len(parentValues) != len(c.parents) {
		return 0, fmt.Errorf("%w: %s has %d parents, got %d values", domain.ErrParentCountMismatch, c.on.Name(), len(c.parents), len(parentValues))
	}
	digits := make([]int, len(parentValues))
	for i, v := range parentValues {
		off, ok := c.parents[i].Domain().Offset(v)
		if !ok {
			return 0, fmt.Errorf("%w: %s=%v", domain.ErrValueOutOfDomain, c.parents[i].Name(), v)
		}
		digits[i] = off
	}
	return c.parent.Index(digits), nil
}

// ConditioningCase fixes the parents to parentValues and returns the resulting
// distribution over On as a fresh table.
func (c *CPT) ConditioningCase(parentValues ...any) (*domain.ProbabilityTable, error) {
	r, err := c.rowIndex(parentValues)
	if err != nil {
		return nil, err
	}
	return domain.NewProbabilityTable(c.rowAt(r), c.on)
}

// Sample returns the value of On whose cumulative-probability interval in the
// conditioning-case row contains probabilityChoice, a uniform draw in [0,1).
func (c *CPT) Sample(probabilityChoice float64, parentValues ...any) (any, error) {
	if probabilityChoice < 0 || probabilityChoice >= 1 || math.IsNaN(probabilityChoice) {
		return nil, fmt.Errorf("%w: draw %v outside [0,1)", domain.ErrInvalidProbability, probabilityChoice)
	}
	r, err := c.rowIndex(parentValues)
	if err != nil {
		return nil, err
	}
	return SampleRow(c.on.Domain(), c.rowAt(r), probabilityChoice), nil
}

// SampleRow performs inverse-CDF selection over a row of probabilities aligned
// with d. Rounding slack at the top of the row resolves to the last value with
// non-zero mass.
func SampleRow(d *domain.FiniteDomain, row []float64, probabilityChoice float64) any {
	total := 0.0
	last := 0
	for i, p := range row {
		if p > 0 {
			last = i
		}
		total += p
		if probabilityChoice < total {
			return d.ValueAt(i)
		}
	}
	return d.ValueAt(last)
}

// FactorFor projects out the evidence variables: it sums every entry
// consistent with the evidence into a table over the remaining scope
// variables, in scope order. Evidence about variables outside the scope is ignored.
func (c *CPT) FactorFor(evidence ...domain.AssignmentProposition) (*domain.ProbabilityTable, error) {
	scope := c.table.Variables()
	fixed := make(map[*domain.RandomVariable]any, len(evidence))
	for _, e := range evidence {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		for _, rv := range scope {
			if rv == e.Variable {
				fixed[rv] = e.Value
			}
		}
	}

	var remaining []*domain.RandomVariable
	var positions []int
	for i, rv := range scope {
		if _, ok := fixed[rv]; !ok {
			remaining = append(remaining, rv)
			positions = append(positions, i)
		}
	}

	factor, err := domain.NewZeroTable(remaining...)
	if err != nil {
		return nil, err
	}

	projected := make([]any, len(remaining))
	var lookupErr error
	c.table.Iterate(func(values []any, p float64) {
		if lookupErr != nil {
			return
		}
		for i, rv := range scope {
			if want, ok := fixed[rv]; ok && values[i] != want {
				return
			}
		}
		for j, pos := range positions {
			projected[j] = values[pos]
		}
		idx, err := factor.Index(projected...)
		if err != nil {
			lookupErr = err
			return
		}
		factor.AddAt(idx, p)
	})
	if lookupErr != nil {
		return nil, lookupErr
	}
	return factor, nil
}
