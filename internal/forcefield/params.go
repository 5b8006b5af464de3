package forcefield

// MechanicalParams carries the integration coefficients a solver passes per call.
type MechanicalParams struct {
	KFactor float64 // coefficient of the stiffness matrix
	BFactor float64 // coefficient of the damping matrix
}

// DefaultMechanicalParams returns the coefficients of a plain static tangent.
func DefaultMechanicalParams() MechanicalParams {
	return MechanicalParams{KFactor: 1}
}

// KFactorIncludingRayleighDamping folds Rayleigh stiffness damping into the
// stiffness factor.
func (mp MechanicalParams) KFactorIncludingRayleighDamping(rayleighStiffness float64) float64 {
	return mp.KFactor + rayleighStiffness*mp.BFactor
}
