// Package analysis verifies and samples spring force fields.
//
//   - [CheckJacobian]: central-difference check of AddDForce against AddForce
//   - [SampleLaw]: force and stiffness of a polynomial law over a strain range
//
// # Jacobian Verification
//
// The analytic tangent of a field should match the numerical derivative of
// its forces:
//
//	res, err := analysis.CheckJacobian(field, analysis.DefaultOptions())
//	if err == nil && !res.OK {
//	    // tangent and forces disagree
//	}
//
// Anchored fields only store the diagonal of their tangent, so they are
// checked with DiagonalOnly set.
package analysis
