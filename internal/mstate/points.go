package mstate

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Points is a named set of 3-D points and their per-point vectors.
type Points struct {
	Name string
	X    []r3.Vec // current positions
	X0   []r3.Vec // rest positions
	V    []r3.Vec
	F    []r3.Vec
	DX   []r3.Vec
	DF   []r3.Vec
}

// New creates a point set at positions x. Rest positions start as a copy of x.
func New(name string, x []r3.Vec) *Points {
	n := len(x)
	p := &Points{
		Name: name,
		X:    Clone(x),
		X0:   Clone(x),
		V:    make([]r3.Vec, n),
		F:    make([]r3.Vec, n),
		DX:   make([]r3.Vec, n),
		DF:   make([]r3.Vec, n),
	}
	return p
}

// NewWithRest creates a point set with explicit rest positions. A nil or
// short rest slice falls back to the current positions for missing points.
func NewWithRest(name string, x, x0 []r3.Vec) *Points {
	p := New(name, x)
	for i := range p.X0 {
		if i < len(x0) {
			p.X0[i] = x0[i]
		}
	}
	return p
}

func (p *Points) Size() int { return len(p.X) }

// Resize grows or shrinks every vector to n points, keeping existing values.
func (p *Points) Resize(n int) {
	p.X = resize(p.X, n)
	p.X0 = resize(p.X0, n)
	p.V = resize(p.V, n)
	p.F = resize(p.F, n)
	p.DX = resize(p.DX, n)
	p.DF = resize(p.DF, n)
}

// ResetForce zeroes the force accumulator.
func (p *Points) ResetForce() { Zero(p.F) }

// ResetDForce zeroes the force-delta accumulator.
func (p *Points) ResetDForce() { Zero(p.DF) }

// IsValid reports whether all positions and forces are finite.
func (p *Points) IsValid() bool {
	return Finite(p.X) && Finite(p.F)
}

// Clone returns a copy of v.
func Clone(v []r3.Vec) []r3.Vec {
	c := make([]r3.Vec, len(v))
	copy(c, v)
	return c
}

// Zero sets every element of v to the zero vector.
func Zero(v []r3.Vec) {
	for i := range v {
		v[i] = r3.Vec{}
	}
}

// Finite reports whether no component of v is NaN or Inf.
func Finite(v []r3.Vec) bool {
	for _, p := range v {
		if bad(p.X) || bad(p.Y) || bad(p.Z) {
			return false
		}
	}
	return true
}

// Component returns axis d (0, 1 or 2) of v.
func Component(v r3.Vec, d int) float64 {
	switch d {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// AddComponent adds s to axis d of *v.
func AddComponent(v *r3.Vec, d int, s float64) {
	switch d {
	case 0:
		v.X += s
	case 1:
		v.Y += s
	default:
		v.Z += s
	}
}

// Axis returns the unit vector along axis d.
func Axis(d int) r3.Vec {
	var v r3.Vec
	AddComponent(&v, d, 1)
	return v
}

func bad(x float64) bool { return math.IsNaN(x) || math.IsInf(x, 0) }

func resize(v []r3.Vec, n int) []r3.Vec {
	if n <= len(v) {
		return v[:n]
	}
	return append(v, make([]r3.Vec, n-len(v))...)
}
