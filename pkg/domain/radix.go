package domain

// MixedRadix converts between flat table indices and per-variable digits.
// The last radix varies fastest, so for radices [2, 3] the digits of
// index 4 are [1, 1].
type MixedRadix struct {
	radices []int
	strides []int
	size    int
}

// NewMixedRadix creates a mixed-radix number system. An empty radix list has
// exactly one index (0), the scalar table.
func NewMixedRadix(radices ...int) MixedRadix {
	m := MixedRadix{
		radices: make([]int, len(radices)),
		strides: make([]int, len(radices)),
		size:    1,
	}
	copy(m.radices, radices)
	for i := len(radices) - 1; i >= 0; i-- {
		m.strides[i] = m.size
		m.size *= radices[i]
	}
	return m
}

// Size is the number of distinct indices (the product of the radices).
func (m MixedRadix) Size() int {
	return m.size
}

// Len is the number of digits.
func (m MixedRadix) Len() int {
	return len(m.radices)
}

// Index returns the flat index of digits. Digits must be in range.
func (m MixedRadix) Index(digits []int) int {
	idx := 0
	for i, d := range digits {
		idx += d * m.strides[i]
	}
	return idx
}

// Digits fills out with the digits of idx and returns it.
// If out is too short a new slice is allocated.
func (m MixedRadix) Digits(idx int, out []int) []int {
	if cap(out) < len(m.radices) {
		out = make([]int, len(m.radices))
	}
	out = out[:len(m.radices)]
	for i := range m.radices {
		out[i] = idx / m.strides[i]
		idx %= m.strides[i]
	}
	return out
}
