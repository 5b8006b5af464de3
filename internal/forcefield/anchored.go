package forcefield

import (
	"log/slog"
	"math"

	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/polynomial"
	"github.com/san-kum/polyspring/internal/tangent"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultSmoothShift = 0.0
	DefaultSmoothScale = 1.0
	DefaultZeroLength  = 1.0
)

// AnchoredConfig configures an AnchoredSprings field.
type AnchoredConfig struct {
	Points              []int     // simulated points, empty means all
	ExternalPoints      []int     // reference points of the external rest shape, empty means all
	PolynomialStiffness []float64 // flat coefficients of every law
	PolynomialDegree    []int     // degree of each law
	ZeroLength          []float64 // per spring, the first element is broadcast
	RecomputeIndices    bool
	SmoothShift         float64
	SmoothScale         float64
	RayleighStiffness   float64
}

func DefaultAnchoredConfig() AnchoredConfig {
	return AnchoredConfig{
		ZeroLength:  []float64{DefaultZeroLength},
		SmoothShift: DefaultSmoothShift,
		SmoothScale: DefaultSmoothScale,
	}
}

// AnchoredSprings pulls points of one set toward reference positions with a
// polynomial law. The direction uses a regularized length
// sqrt(|dx|^2 + exp(shift - scale*|dx|^2)) so that it stays defined at rest.
type AnchoredSprings struct {
	name   string
	cfg    AnchoredConfig
	object *mstate.Points
	rest   *mstate.Points // external rest shape, nil means object.X0
	logger *slog.Logger

	table   *polynomial.Table
	indices []int
	ext     []int

	length    []float64
	strain    []float64
	force     []float64
	dirLength []float64
	sqNorm    []float64
	dir       []r3.Vec
	jac       []Diag3
	law       polynomial.Law
}

// NewAnchoredSprings creates the field. rest may be nil to anchor each point
// to its own rest position. Init must be called before use.
func NewAnchoredSprings(name string, object, rest *mstate.Points, cfg AnchoredConfig, logger *slog.Logger) *AnchoredSprings {
	return &AnchoredSprings{
		name:   name,
		cfg:    cfg,
		object: object,
		rest:   rest,
		logger: fieldLogger(logger, name, KindAnchored),
	}
}

func (a *AnchoredSprings) Name() string { return a.name }
func (a *AnchoredSprings) Kind() string { return KindAnchored }

// Init applies defaults, resolves indices and builds the polynomial table.
func (a *AnchoredSprings) Init() error {
	if a.object == nil {
		return &FieldError{Field: a.name, Op: "init", Wrapped: ErrNoState}
	}

	if len(a.cfg.PolynomialStiffness) == 0 {
		a.logger.Info("no stiffness defined, assuming equal stiffness on each node", "k", polynomial.DefaultStiffness)
	}
	if len(a.cfg.ZeroLength) == 0 {
		a.cfg.ZeroLength = []float64{DefaultZeroLength}
	}
	if err := validateZeroLength(a.cfg.ZeroLength); err != nil {
		return &FieldError{Field: a.name, Op: "init", Wrapped: err}
	}

	if err := a.SetPolynomial(a.cfg.PolynomialDegree, a.cfg.PolynomialStiffness); err != nil {
		return err
	}

	if a.rest != nil {
		a.logger.Info("using external rest shape", "state", a.rest.Name)
	} else {
		a.logger.Info("using rest positions", "state", a.object.Name)
		if len(a.cfg.ExternalPoints) > 0 {
			a.logger.Warn("external points ignored without an external rest shape", "external", len(a.cfg.ExternalPoints))
		}
	}

	a.recomputeIndices()
	a.logger.Info("initialized", "springs", len(a.indices), "groups", a.table.Groups())
	return nil
}

// SetPolynomial replaces the stiffness laws.
func (a *AnchoredSprings) SetPolynomial(degree []int, stiffness []float64) error {
	t, err := polynomial.NewTable(degree, stiffness)
	if err != nil {
		return &FieldError{Field: a.name, Op: "polynomial", Wrapped: err}
	}
	if n := t.Unused(); n > 0 {
		a.logger.Warn("coefficients not addressed by any degree", "unused", n)
	}
	a.cfg.PolynomialDegree = t.Degrees()
	a.cfg.PolynomialStiffness = t.Stiffness()
	a.table = t
	return nil
}

func (a *AnchoredSprings) recomputeIndices() {
	var err error
	if a.rest != nil {
		a.indices, a.ext, err = ResolveIndices(a.cfg.Points, a.cfg.ExternalPoints, a.object.Size(), a.rest.Size())
	} else {
		// Own rest positions: each point is anchored to itself.
		a.indices, a.ext, err = ResolveIndices(a.cfg.Points, a.cfg.Points, a.object.Size(), a.object.Size())
	}
	if err != nil {
		a.logger.Error("cannot build springs, field disabled", "err", err)
	}
	a.resize(len(a.indices))
}

func (a *AnchoredSprings) resize(n int) {
	a.length = resizeFloats(a.length, n)
	a.strain = resizeFloats(a.strain, n)
	a.force = resizeFloats(a.force, n)
	a.dirLength = resizeFloats(a.dirLength, n)
	a.sqNorm = resizeFloats(a.sqNorm, n)
	if n <= cap(a.dir) {
		a.dir = a.dir[:n]
	} else {
		a.dir = make([]r3.Vec, n)
	}
	if n <= cap(a.jac) {
		a.jac = a.jac[:n]
	} else {
		a.jac = make([]Diag3, n)
	}
}

func (a *AnchoredSprings) reference() []r3.Vec {
	if a.rest != nil {
		return a.rest.X
	}
	return a.object.X0
}

// AddForce implements ForceField.
func (a *AnchoredSprings) AddForce() {
	a.AddForceTo(a.object.F, a.object.X, a.reference())
}

// AddForceTo accumulates spring forces into f. x and ref are read only.
func (a *AnchoredSprings) AddForceTo(f, x, ref []r3.Vec) {
	if a.cfg.RecomputeIndices {
		a.recomputeIndices()
	}
	if !covers(a.indices, len(x)) || !covers(a.indices, len(f)) || !covers(a.ext, len(ref)) {
		a.logger.Error("point vectors smaller than spring indices, skipping", "x", len(x), "f", len(f), "ref", len(ref))
		return
	}

	shift, scale := a.cfg.SmoothShift, a.cfg.SmoothScale
	a.law = a.table.Select(len(a.indices))
	a.logger.Debug("addForce", "springs", len(a.indices), "law", a.law.String())

	for i, idx := range a.indices {
		g := a.law.Group(i)
		l0 := zeroLengthAt(a.cfg.ZeroLength, i)

		dx := r3.Sub(x[idx], ref[a.ext[i]])
		sq := r3.Dot(dx, dx)
		a.sqNorm[i] = sq
		a.length[i] = math.Sqrt(sq)
		a.strain[i] = a.length[i] / l0

		fv := a.table.Value(g, a.strain[i])
		a.force[i] = fv

		a.dirLength[i] = math.Sqrt(sq + math.Exp(shift-scale*sq))
		a.dir[i] = r3.Scale(1/a.dirLength[i], dx)

		f[idx] = r3.Sub(f[idx], r3.Scale(fv, a.dir[i]))

		a.jac[i] = anchoredJacobian(a.table, g, a.strain[i], l0, a.dirLength[i], a.dir[i], sq, shift, scale)
	}
}

// AddDForce implements ForceField.
func (a *AnchoredSprings) AddDForce(mp MechanicalParams) {
	a.AddDForceTo(a.object.DF, a.object.DX, mp.KFactorIncludingRayleighDamping(a.cfg.RayleighStiffness))
}

// AddDForceTo accumulates -k*J*dx into df, axis by axis.
func (a *AnchoredSprings) AddDForceTo(df, dx []r3.Vec, k float64) {
	if !covers(a.indices, len(df)) || !covers(a.indices, len(dx)) {
		return
	}
	for i, idx := range a.indices {
		for d := 0; d < 3; d++ {
			mstate.AddComponent(&df[idx], d, -k*a.jac[i][d]*mstate.Component(dx[idx], d))
		}
	}
}

// AddKToMatrix implements ForceField.
func (a *AnchoredSprings) AddKToMatrix(mp MechanicalParams, acc tangent.Accessor) {
	a.addK(mp, acc, nil)
}

// AddSubKToMatrix implements ForceField.
func (a *AnchoredSprings) AddSubKToMatrix(mp MechanicalParams, acc tangent.Accessor, subset []int) {
	a.addK(mp, acc, indexSet(subset))
}

func (a *AnchoredSprings) addK(mp MechanicalParams, acc tangent.Accessor, subset map[int]struct{}) {
	ref, ok := acc.Matrix(a.object)
	if !ok {
		return
	}
	k := mp.KFactorIncludingRayleighDamping(a.cfg.RayleighStiffness)

	for i, idx := range a.indices {
		if subset != nil {
			if _, in := subset[idx]; !in {
				continue
			}
		}
		ref.AddDiagonal(idx, (*[tangent.BlockSize]float64)(&a.jac[i]), -k)
	}
}

// States implements ForceField.
func (a *AnchoredSprings) States() []*mstate.Points { return []*mstate.Points{a.object} }

// Springs implements ForceField.
func (a *AnchoredSprings) Springs() []SpringStatus {
	out := make([]SpringStatus, len(a.indices))
	for i, idx := range a.indices {
		out[i] = SpringStatus{
			Index:      i,
			First:      idx,
			Second:     a.ext[i],
			Group:      a.law.Group(i),
			Length:     a.length[i],
			ZeroLength: zeroLengthAt(a.cfg.ZeroLength, i),
			Strain:     a.strain[i],
			Force:      a.force[i],
			Sign:       1,
		}
	}
	return out
}

// Indices returns the resolved simulated and reference indices.
func (a *AnchoredSprings) Indices() (points, reference []int) { return a.indices, a.ext }

// Jacobian returns the cached diagonal Jacobian of spring i.
func (a *AnchoredSprings) Jacobian(i int) Diag3 { return a.jac[i] }

func resizeFloats(v []float64, n int) []float64 {
	if n <= cap(v) {
		v = v[:n]
		return v
	}
	return append(v[:cap(v)], make([]float64, n-cap(v))...)
}
