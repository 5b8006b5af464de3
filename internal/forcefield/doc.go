// Package forcefield implements polynomial spring force fields and their
// analytic tangent.
//
// Two variants share the polynomial and Jacobian core:
//
//   - [AnchoredSprings]: points of one set pulled toward reference
//     positions (their own rest positions or an external point set)
//   - [InteractionSprings]: springs between two point sets, or between
//     points of the same set
//
// Both implement [ForceField], the capability interface a host calls each
// step:
//
//	ff.AddForce()               // forces, builds the per-spring Jacobian
//	ff.AddDForce(mp)            // df = K*dx, for matrix-free solvers
//	ff.AddKToMatrix(mp, acc)    // scatter K into the global tangent
//
// AddForce must run before AddDForce and AddKToMatrix in a step; the latter
// two read the Jacobians cached by the last AddForce.
//
// # Thread Safety
//
// Force fields are NOT safe for concurrent use. Index recomputation and
// zero-length capture mutate the instance during AddForce.
package forcefield
