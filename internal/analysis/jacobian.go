package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/mstate"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrEmptyField indicates a field with no degrees of freedom to check.
var ErrEmptyField = errors.New("analysis: force field has no points")

const (
	DefaultEpsilon   = 1e-6
	DefaultTolerance = 1e-3
)

type Options struct {
	Epsilon   float64 // finite-difference step
	Tolerance float64 // allowed error relative to the largest numerical entry, at least 1
	// DiagonalOnly compares only diagonal entries.
	DiagonalOnly bool
}

func DefaultOptions() Options {
	return Options{Epsilon: DefaultEpsilon, Tolerance: DefaultTolerance}
}

// Entry locates one coefficient of the tangent.
type Entry struct {
	Row, Col  int
	Analytic  float64
	Numerical float64
	AbsError  float64
	StateName string // state owning the perturbed column
	Point     int
	Axis      int
}

type Result struct {
	Field       string
	Size        int
	Compared    int
	MaxAbsError float64
	MaxRelError float64
	Worst       Entry
	OK          bool
}

type column struct {
	state *mstate.Points
	point int
	axis  int
}

// CheckJacobian compares the tangent applied by AddDForce with a central
// difference of AddForce over every degree of freedom of f's states.
// Positions and accumulators are restored afterwards; the cached Jacobians
// reflect the starting positions again.
func CheckJacobian(f forcefield.ForceField, opts Options) (Result, error) {
	if opts.Epsilon <= 0 {
		opts.Epsilon = DefaultEpsilon
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}

	states := f.States()
	var cols []column
	for _, s := range states {
		for i := 0; i < s.Size(); i++ {
			for d := 0; d < 3; d++ {
				cols = append(cols, column{state: s, point: i, axis: d})
			}
		}
	}
	n := len(cols)
	res := Result{Field: f.Name(), Size: n}
	if n == 0 {
		return res, ErrEmptyField
	}

	saved := make([]savedState, len(states))
	for i, s := range states {
		saved[i] = save(s)
	}
	defer func() {
		for i, s := range states {
			saved[i].restore(s)
		}
		resetForces(states)
		f.AddForce()
		for i, s := range states {
			copy(s.F, saved[i].f)
		}
	}()

	resetForces(states)
	f.AddForce()

	unit := forcefield.MechanicalParams{KFactor: 1}
	analytic := make([][]float64, n)
	for c, col := range cols {
		for _, s := range states {
			mstate.Zero(s.DX)
			s.ResetDForce()
		}
		mstate.AddComponent(&col.state.DX[col.point], col.axis, 1)
		f.AddDForce(unit)
		analytic[c] = flatten(states, func(s *mstate.Points) []r3.Vec { return s.DF })
	}

	numerical := make([][]float64, n)
	eps := opts.Epsilon
	for c, col := range cols {
		x := &col.state.X[col.point]
		orig := *x

		mstate.AddComponent(x, col.axis, eps)
		plus := evaluate(f, states)
		*x = orig
		mstate.AddComponent(x, col.axis, -eps)
		minus := evaluate(f, states)
		*x = orig

		floats.Sub(plus, minus)
		floats.Scale(1/(2*eps), plus)
		numerical[c] = plus
	}

	scale := 1.0
	for _, col := range numerical {
		scale = math.Max(scale, floats.Norm(col, math.Inf(1)))
	}

	for c := range cols {
		for r := 0; r < n; r++ {
			if opts.DiagonalOnly && r != c {
				continue
			}
			res.Compared++
			a, num := analytic[c][r], numerical[c][r]
			if e := math.Abs(a - num); e > res.MaxAbsError || res.Compared == 1 {
				res.MaxAbsError = e
				res.Worst = Entry{
					Row: r, Col: c, Analytic: a, Numerical: num, AbsError: e,
					StateName: cols[c].state.Name, Point: cols[c].point, Axis: cols[c].axis,
				}
			}
		}
	}
	res.MaxRelError = res.MaxAbsError / scale
	res.OK = res.MaxRelError <= opts.Tolerance
	return res, nil
}

func evaluate(f forcefield.ForceField, states []*mstate.Points) []float64 {
	resetForces(states)
	f.AddForce()
	return flatten(states, func(s *mstate.Points) []r3.Vec { return s.F })
}

func resetForces(states []*mstate.Points) {
	for _, s := range states {
		s.ResetForce()
	}
}

func flatten(states []*mstate.Points, pick func(*mstate.Points) []r3.Vec) []float64 {
	var out []float64
	for _, s := range states {
		for _, v := range pick(s) {
			out = append(out, v.X, v.Y, v.Z)
		}
	}
	return out
}

type savedState struct {
	x, f, dx, df []r3.Vec
}

func save(s *mstate.Points) savedState {
	return savedState{
		x:  mstate.Clone(s.X),
		f:  mstate.Clone(s.F),
		dx: mstate.Clone(s.DX),
		df: mstate.Clone(s.DF),
	}
}

func (v savedState) restore(s *mstate.Points) {
	copy(s.X, v.x)
	copy(s.DX, v.dx)
	copy(s.DF, v.df)
}
