package polynomial

import (
	"errors"
	"fmt"
)

// DefaultStiffness is the coefficient used when none is configured.
const DefaultStiffness = 100.0

var (
	// ErrCoefficientCount indicates the degrees address more coefficients than were given.
	ErrCoefficientCount = errors.New("polynomial: degrees exceed coefficient count")

	// ErrInvalidDegree indicates a group degree below 1.
	ErrInvalidDegree = errors.New("polynomial: degree must be at least 1")
)

// Table maps each degree group to the offsets of its coefficients.
type Table struct {
	stiffness []float64
	degree    []int
	slots     [][]int
}

// NewTable builds the offset table. Empty inputs fall back to a single linear
// law of stiffness DefaultStiffness.
func NewTable(degree []int, stiffness []float64) (*Table, error) {
	if len(stiffness) == 0 {
		stiffness = []float64{DefaultStiffness}
	}
	if len(degree) == 0 {
		degree = []int{1}
	}

	t := &Table{
		stiffness: append([]float64(nil), stiffness...),
		degree:    append([]int(nil), degree...),
		slots:     make([][]int, 0, len(degree)),
	}

	next := 0
	for g, d := range t.degree {
		if d < 1 {
			return nil, fmt.Errorf("%w: group %d has degree %d", ErrInvalidDegree, g, d)
		}
		row := make([]int, d)
		for k := range row {
			row[k] = next
			next++
		}
		t.slots = append(t.slots, row)
	}
	if next > len(t.stiffness) {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrCoefficientCount, next, len(t.stiffness))
	}

	return t, nil
}

// Groups returns the number of degree groups.
func (t *Table) Groups() int { return len(t.degree) }

// Degree returns the degree of group g.
func (t *Table) Degree(g int) int { return t.degree[g] }

// Slots returns the coefficient offsets of group g. The slice must not be modified.
func (t *Table) Slots(g int) []int { return t.slots[g] }

// Coefficient returns coefficient k of group g.
func (t *Table) Coefficient(g, k int) float64 {
	return t.stiffness[t.slots[g][k]]
}

// Stiffness returns a copy of the flat coefficient array.
func (t *Table) Stiffness() []float64 { return append([]float64(nil), t.stiffness...) }

// Degrees returns a copy of the degree array.
func (t *Table) Degrees() []int { return append([]int(nil), t.degree...) }

// Unused returns how many trailing coefficients no group addresses.
func (t *Table) Unused() int {
	used := 0
	for _, d := range t.degree {
		used += d
	}
	return len(t.stiffness) - used
}

// Value evaluates the law of group g at strain s.
func (t *Table) Value(g int, s float64) float64 {
	pow := 1.0
	result := 0.0
	for _, slot := range t.slots[g] {
		pow *= s
		result += t.stiffness[slot] * pow
	}
	return result
}

// Derivative evaluates dF/ds of group g at strain s.
func (t *Table) Derivative(g int, s float64) float64 {
	pow := 1.0
	result := 0.0
	for k, slot := range t.slots[g] {
		result += float64(k+1) * t.stiffness[slot] * pow
		pow *= s
	}
	return result
}

// Select picks the law for a pass over springs springs.
func (t *Table) Select(springs int) Law {
	if len(t.degree) != springs {
		return Shared
	}
	return PerSpring
}

// Law decides which group a spring evaluates.
type Law int

const (
	// Shared applies group 0 to every spring.
	Shared Law = iota
	// PerSpring applies group i to spring i.
	PerSpring
)

// Group returns the group index spring i uses under this law.
func (l Law) Group(i int) int {
	if l == PerSpring {
		return i
	}
	return 0
}

func (l Law) String() string {
	if l == PerSpring {
		return "per-spring"
	}
	return "shared"
}
