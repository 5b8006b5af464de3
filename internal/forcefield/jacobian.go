package forcefield

import (
	"math"

	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/polynomial"
	"gonum.org/v1/gonum/spatial/r3"
)

// Diag3 is the diagonal of a 3x3 Jacobian.
type Diag3 [3]float64

// Block3 is a full 3x3 Jacobian, row major.
type Block3 [3][3]float64

// MulVec returns b*v.
func (b *Block3) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: b[0][0]*v.X + b[0][1]*v.Y + b[0][2]*v.Z,
		Y: b[1][0]*v.X + b[1][1]*v.Y + b[1][2]*v.Z,
		Z: b[2][0]*v.X + b[2][1]*v.Y + b[2][2]*v.Z,
	}
}

// anchoredJacobian only keeps the diagonal: the reference endpoint is not a
// degree of freedom.
func anchoredJacobian(t *polynomial.Table, group int, strain, zeroLength, dirLength float64, dir r3.Vec, sqNorm, shift, scale float64) Diag3 {
	fv := t.Value(group, strain) / dirLength
	dfv := t.Derivative(group, strain) / zeroLength
	corr := 1 - scale*math.Exp(shift-scale*sqNorm)

	var j Diag3
	for d := 0; d < 3; d++ {
		c := mstate.Component(dir, d)
		j[d] = (dfv-fv)*corr*c*c + fv
	}
	return j
}

// interactionJacobian is the tangent of f = sign*F(strain)*dir. stretch is
// +1 when the spring is longer than its zero length and -1 otherwise; sign is
// the force sign (1, -1, or 0 for a slack spring).
// Scaling by sign keeps J the exact derivative of the applied force in every
// branch, so compressed springs flip it and slack springs contribute nothing.
func interactionJacobian(t *polynomial.Table, group int, strain, zeroLength, length float64, dir r3.Vec, sign, stretch float64) Block3 {
	var j Block3
	if sign == 0 {
		return j
	}

	fv := t.Value(group, strain) / length
	dfv := t.Derivative(group, strain) / zeroLength
	c := sign * (stretch*dfv - fv)

	for p := 0; p < 3; p++ {
		dp := mstate.Component(dir, p)
		for q := 0; q < 3; q++ {
			j[p][q] = c * dp * mstate.Component(dir, q)
		}
		j[p][p] += sign * fv
	}
	return j
}
