package tangent

import (
	"fmt"

	"github.com/san-kum/polyspring/internal/mstate"
	"gonum.org/v1/gonum/mat"
)

// Global is a dense tangent matrix over a fixed list of point sets laid out
// one after another. It implements both Matrix and Accessor.
type Global struct {
	dense    *mat.Dense
	offsets  map[*mstate.Points]int
	order    []*mstate.Points
	coupling bool
}

// Option configures a Global.
type Option func(*Global)

// WithoutCoupling makes InteractionMatrix report no region, as a solver that
// only models self coupling would.
func WithoutCoupling() Option {
	return func(g *Global) { g.coupling = false }
}

// NewGlobal allocates a zero matrix for the given point sets. Duplicate sets are ignored.
func NewGlobal(states []*mstate.Points, opts ...Option) *Global {
	g := &Global{
		offsets:  make(map[*mstate.Points]int, len(states)),
		coupling: true,
	}
	for _, o := range opts {
		o(g)
	}

	n := 0
	for _, s := range states {
		if _, ok := g.offsets[s]; ok {
			continue
		}
		g.offsets[s] = n
		g.order = append(g.order, s)
		n += BlockSize * s.Size()
	}
	if n == 0 {
		// mat.NewDense panics on zero dimensions.
		n = 1
	}
	g.dense = mat.NewDense(n, n, nil)
	return g
}

// Add implements Matrix.
func (g *Global) Add(row, col int, v float64) {
	g.dense.Set(row, col, g.dense.At(row, col)+v)
}

// Matrix implements Accessor.
func (g *Global) Matrix(s *mstate.Points) (Ref, bool) {
	off, ok := g.offsets[s]
	if !ok {
		return Ref{}, false
	}
	return Ref{Matrix: g, Offset: off}, true
}

// InteractionMatrix implements Accessor.
func (g *Global) InteractionMatrix(rows, cols *mstate.Points) (InteractionRef, bool) {
	if !g.coupling {
		return InteractionRef{}, false
	}
	r, ok := g.offsets[rows]
	if !ok {
		return InteractionRef{}, false
	}
	c, ok := g.offsets[cols]
	if !ok {
		return InteractionRef{}, false
	}
	return InteractionRef{Matrix: g, RowOffset: r, ColOffset: c}, true
}

// Dense returns the underlying matrix.
func (g *Global) Dense() *mat.Dense { return g.dense }

// Offset returns the first row of s.
func (g *Global) Offset(s *mstate.Points) (int, error) {
	off, ok := g.offsets[s]
	if !ok {
		return 0, fmt.Errorf("tangent: point set %q not in matrix", s.Name)
	}
	return off, nil
}

// States returns the point sets in layout order.
func (g *Global) States() []*mstate.Points { return g.order }

// Block copies the 3x3 block coupling point i of rows with point j of cols.
func (g *Global) Block(rows *mstate.Points, i int, cols *mstate.Points, j int) ([BlockSize][BlockSize]float64, error) {
	var b [BlockSize][BlockSize]float64
	r, err := g.Offset(rows)
	if err != nil {
		return b, err
	}
	c, err := g.Offset(cols)
	if err != nil {
		return b, err
	}
	for p := 0; p < BlockSize; p++ {
		for q := 0; q < BlockSize; q++ {
			b[p][q] = g.dense.At(r+BlockSize*i+p, c+BlockSize*j+q)
		}
	}
	return b, nil
}

// IsSymmetric reports whether the matrix equals its transpose within tol.
func (g *Global) IsSymmetric(tol float64) bool {
	return mat.EqualApprox(g.dense, g.dense.T(), tol)
}

// Reset zeroes every entry.
func (g *Global) Reset() { g.dense.Zero() }

// String formats the matrix for terminal output.
func (g *Global) String() string {
	return fmt.Sprintf("%.4g", mat.Formatted(g.dense, mat.Squeeze()))
}
