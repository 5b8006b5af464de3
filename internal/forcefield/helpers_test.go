package forcefield

import (
	"io"
	"log/slog"
	"math"

	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/tangent"
	"gonum.org/v1/gonum/spatial/r3"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func nearVec(a, b r3.Vec, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol)
}

func zeros(n int) []r3.Vec { return make([]r3.Vec, n) }

// interactionForces evaluates s on fresh accumulators.
func interactionForces(s *InteractionSprings, x1, x2 []r3.Vec) ([]r3.Vec, []r3.Vec) {
	f1, f2 := zeros(len(x1)), zeros(len(x2))
	s.AddForceTo(f1, f2, x1, x2)
	return f1, f2
}

func anchoredForces(a *AnchoredSprings, x, ref []r3.Vec) []r3.Vec {
	f := zeros(len(x))
	a.AddForceTo(f, x, ref)
	return f
}

func withComponent(v r3.Vec, d int, delta float64) r3.Vec {
	mstate.AddComponent(&v, d, delta)
	return v
}

// noAccessor allocates no matrix region at all.
type noAccessor struct{ calls int }

func (n *noAccessor) Matrix(*mstate.Points) (tangent.Ref, bool) {
	n.calls++
	return tangent.Ref{}, false
}

func (n *noAccessor) InteractionMatrix(*mstate.Points, *mstate.Points) (tangent.InteractionRef, bool) {
	n.calls++
	return tangent.InteractionRef{}, false
}

// countingMatrix records every Add.
type countingMatrix struct{ adds int }

func (c *countingMatrix) Add(int, int, float64) { c.adds++ }

// selfOnlyAccessor hands out self regions but no coupling regions.
type selfOnlyAccessor struct{ m *countingMatrix }

func (s selfOnlyAccessor) Matrix(*mstate.Points) (tangent.Ref, bool) {
	return tangent.Ref{Matrix: s.m}, true
}

func (s selfOnlyAccessor) InteractionMatrix(*mstate.Points, *mstate.Points) (tangent.InteractionRef, bool) {
	return tangent.InteractionRef{}, false
}
