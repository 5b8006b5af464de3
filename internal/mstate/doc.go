// Package mstate provides the point sets that force fields read from and
// write into.
//
// A [Points] value stands in for the owning simulation's mechanical state:
// it holds the current and rest positions, velocities, the force
// accumulator and the perturbation vectors used by implicit solvers.
//
//   - X, X0, V: read by force fields during evaluation
//   - F: accumulated into by AddForce
//   - DX, DF: read and accumulated into by AddDForce
//
// # Thread Safety
//
// Points are plain slices with no locking. Callers serialize evaluation.
package mstate
