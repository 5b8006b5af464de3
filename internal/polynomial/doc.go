// Package polynomial holds the stiffness laws of polynomial springs.
//
// A [Table] is built from two co-indexed inputs: a flat coefficient array and
// a degree per group. Group g owns the coefficients
// stiffness[offset(g) : offset(g)+degree[g]] and its law is
//
//	F(s) = c0*s + c1*s^2 + ... + c(d-1)*s^d
//
// There is no constant term, so F(0) == 0 for every law.
//
// # Law selection
//
// When the number of groups differs from the number of springs every spring
// uses group 0 ([Shared]); otherwise spring i uses group i ([PerSpring]).
package polynomial
