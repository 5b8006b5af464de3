// Package tangent defines how force fields reach the global tangent
// stiffness matrix, and provides a dense gonum-backed implementation.
//
// A force field asks an [Accessor] for the region of the matrix that belongs
// to one point set ([Ref]) or couples two of them ([InteractionRef]) and adds
// entries at offset + BlockSize*index + axis.
package tangent
