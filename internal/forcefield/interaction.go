package forcefield

import (
	"log/slog"
	"math"

	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/polynomial"
	"github.com/san-kum/polyspring/internal/tangent"
	"gonum.org/v1/gonum/spatial/r3"
)

// InteractionConfig configures an InteractionSprings field.
type InteractionConfig struct {
	FirstPoints         []int
	SecondPoints        []int
	PolynomialStiffness []float64
	PolynomialDegree    []int
	ComputeZeroLength   bool      // capture each zero length from the first evaluation
	ZeroLength          []float64 // used when ComputeZeroLength is false
	RecomputeIndices    bool
	Compressible        bool // compressed springs go slack instead of pushing back
	RayleighStiffness   float64
}

func DefaultInteractionConfig() InteractionConfig {
	return InteractionConfig{ComputeZeroLength: true}
}

// InteractionSprings connects points of two sets (possibly the same set) with
// polynomial springs. Strain is |length - zeroLength| / zeroLength.
type InteractionSprings struct {
	name    string
	cfg     InteractionConfig
	object1 *mstate.Points
	object2 *mstate.Points
	logger  *slog.Logger

	table  *polynomial.Table
	first  []int
	second []int

	zeroLength []float64
	latch      []Latch

	length  []float64
	strain  []float64
	force   []float64
	sign    []float64
	stretch []float64
	dir     []r3.Vec
	jac     []Block3
	law     polynomial.Law
}

// NewInteractionSprings creates the field. object1 and object2 may be the
// same point set. Init must be called before use.
func NewInteractionSprings(name string, object1, object2 *mstate.Points, cfg InteractionConfig, logger *slog.Logger) *InteractionSprings {
	return &InteractionSprings{
		name:    name,
		cfg:     cfg,
		object1: object1,
		object2: object2,
		logger:  fieldLogger(logger, name, KindInteraction),
	}
}

func (s *InteractionSprings) Name() string { return s.name }
func (s *InteractionSprings) Kind() string { return KindInteraction }

// Init applies defaults, resolves indices, builds the polynomial table and
// sets up the zero-length latches.
func (s *InteractionSprings) Init() error {
	if s.object1 == nil || s.object2 == nil {
		return &FieldError{Field: s.name, Op: "init", Wrapped: ErrNoState}
	}

	if len(s.cfg.PolynomialStiffness) == 0 {
		s.logger.Info("no stiffness defined, assuming equal stiffness on each spring", "k", polynomial.DefaultStiffness)
	}
	if len(s.cfg.ZeroLength) == 0 {
		s.cfg.ZeroLength = []float64{DefaultZeroLength}
	}
	if !s.cfg.ComputeZeroLength {
		if err := validateZeroLength(s.cfg.ZeroLength); err != nil {
			return &FieldError{Field: s.name, Op: "init", Wrapped: err}
		}
	}

	if err := s.SetPolynomial(s.cfg.PolynomialDegree, s.cfg.PolynomialStiffness); err != nil {
		return err
	}

	s.zeroLength = s.zeroLength[:0]
	s.latch = s.latch[:0]
	s.recomputeIndices()
	s.logger.Info("initialized", "springs", len(s.first), "groups", s.table.Groups(),
		"computeZeroLength", s.cfg.ComputeZeroLength, "compressible", s.cfg.Compressible)
	return nil
}

// SetPolynomial replaces the stiffness laws.
func (s *InteractionSprings) SetPolynomial(degree []int, stiffness []float64) error {
	t, err := polynomial.NewTable(degree, stiffness)
	if err != nil {
		return &FieldError{Field: s.name, Op: "polynomial", Wrapped: err}
	}
	if n := t.Unused(); n > 0 {
		s.logger.Warn("coefficients not addressed by any degree", "unused", n)
	}
	s.cfg.PolynomialDegree = t.Degrees()
	s.cfg.PolynomialStiffness = t.Stiffness()
	s.table = t
	return nil
}

func (s *InteractionSprings) recomputeIndices() {
	var err error
	s.first, s.second, err = ResolveIndices(s.cfg.FirstPoints, s.cfg.SecondPoints, s.object1.Size(), s.object2.Size())
	if err != nil {
		s.logger.Error("cannot build springs, field disabled", "err", err)
	}
	s.resize(len(s.first))
}

// resize keeps the latches and zero lengths of existing springs.
func (s *InteractionSprings) resize(n int) {
	for i := len(s.latch); i < n; i++ {
		if s.cfg.ComputeZeroLength {
			s.latch = append(s.latch, Uncaptured)
			s.zeroLength = append(s.zeroLength, 0)
		} else {
			s.latch = append(s.latch, Captured)
			s.zeroLength = append(s.zeroLength, zeroLengthAt(s.cfg.ZeroLength, i))
		}
	}

	s.length = resizeFloats(s.length, n)
	s.strain = resizeFloats(s.strain, n)
	s.force = resizeFloats(s.force, n)
	s.sign = resizeFloats(s.sign, n)
	s.stretch = resizeFloats(s.stretch, n)
	if n <= cap(s.dir) {
		s.dir = s.dir[:n]
	} else {
		s.dir = make([]r3.Vec, n)
	}
	if n <= cap(s.jac) {
		s.jac = s.jac[:n]
	} else {
		s.jac = make([]Block3, n)
	}
}

func (s *InteractionSprings) capture(i int, length float64) {
	l0 := length
	if l0 < MinZeroLength {
		s.logger.Warn("captured zero length below floor", "spring", i, "length", length, "floor", MinZeroLength)
		l0 = MinZeroLength
	}
	s.zeroLength[i] = l0
	s.latch[i] = Captured
}

// AddForce implements ForceField.
func (s *InteractionSprings) AddForce() {
	s.AddForceTo(s.object1.F, s.object2.F, s.object1.X, s.object2.X)
}

// AddForceTo accumulates spring forces into f1 and f2. x1 and x2 are read
// only. The slices may alias when both ends live in the same point set.
func (s *InteractionSprings) AddForceTo(f1, f2, x1, x2 []r3.Vec) {
	if s.cfg.RecomputeIndices {
		s.recomputeIndices()
	}
	if !covers(s.first, len(x1)) || !covers(s.first, len(f1)) ||
		!covers(s.second, len(x2)) || !covers(s.second, len(f2)) {
		s.logger.Error("point vectors smaller than spring indices, skipping",
			"x1", len(x1), "f1", len(f1), "x2", len(x2), "f2", len(f2))
		return
	}

	compression := -1.0
	if s.cfg.Compressible {
		compression = 0
	}
	s.law = s.table.Select(len(s.first))
	s.logger.Debug("addForce", "springs", len(s.first), "law", s.law.String())

	for i, a := range s.first {
		b := s.second[i]
		g := s.law.Group(i)

		dx := r3.Sub(x2[b], x1[a])
		length := r3.Norm(dx)
		s.length[i] = length
		if s.latch[i] == Uncaptured {
			s.capture(i, length)
		}
		l0 := s.zeroLength[i]

		stretch := length - l0
		s.strain[i] = math.Abs(stretch) / l0
		s.force[i] = s.table.Value(g, s.strain[i])
		s.stretch[i] = 1
		s.sign[i] = 1
		if stretch < 0 {
			s.stretch[i] = -1
			s.sign[i] = compression
		}

		if length == 0 {
			s.logger.Debug("coincident endpoints, no direction", "spring", i, "first", a, "second", b)
			s.dir[i] = r3.Vec{}
			s.sign[i] = 0
			s.jac[i] = Block3{}
			continue
		}
		s.dir[i] = r3.Scale(1/length, dx)

		df := r3.Scale(s.force[i]*s.sign[i], s.dir[i])
		f1[a] = r3.Add(f1[a], df)
		f2[b] = r3.Sub(f2[b], df)

		s.jac[i] = interactionJacobian(s.table, g, s.strain[i], l0, length, s.dir[i], s.sign[i], s.stretch[i])
	}
}

// AddDForce implements ForceField.
func (s *InteractionSprings) AddDForce(mp MechanicalParams) {
	s.AddDForceTo(s.object1.DF, s.object2.DF, s.object1.DX, s.object2.DX,
		mp.KFactorIncludingRayleighDamping(s.cfg.RayleighStiffness))
}

// AddDForceTo accumulates k*J*(dx2[b]-dx1[a]) into df1[a] and its negation into df2[b].
func (s *InteractionSprings) AddDForceTo(df1, df2, dx1, dx2 []r3.Vec, k float64) {
	if !covers(s.first, len(df1)) || !covers(s.first, len(dx1)) ||
		!covers(s.second, len(df2)) || !covers(s.second, len(dx2)) {
		return
	}
	for i, a := range s.first {
		b := s.second[i]
		delta := r3.Scale(k, s.jac[i].MulVec(r3.Sub(dx2[b], dx1[a])))
		df1[a] = r3.Add(df1[a], delta)
		df2[b] = r3.Sub(df2[b], delta)
	}
}

// AddKToMatrix implements ForceField.
func (s *InteractionSprings) AddKToMatrix(mp MechanicalParams, acc tangent.Accessor) {
	s.addK(mp, acc, nil)
}

// AddSubKToMatrix implements ForceField.
func (s *InteractionSprings) AddSubKToMatrix(mp MechanicalParams, acc tangent.Accessor, subset []int) {
	s.addK(mp, acc, indexSet(subset))
}

func (s *InteractionSprings) addK(mp MechanicalParams, acc tangent.Accessor, subset map[int]struct{}) {
	k := mp.KFactorIncludingRayleighDamping(s.cfg.RayleighStiffness)
	skip := func(a int) bool {
		if subset == nil {
			return false
		}
		_, in := subset[a]
		return !in
	}

	if s.object1 == s.object2 {
		ref, ok := acc.Matrix(s.object1)
		if !ok {
			return
		}
		for i, a := range s.first {
			if skip(a) {
				continue
			}
			b := s.second[i]
			j := (*[tangent.BlockSize][tangent.BlockSize]float64)(&s.jac[i])
			ref.AddBlock(a, a, j, -k)
			ref.AddBlock(a, b, j, k)
			ref.AddBlock(b, a, j, k)
			ref.AddBlock(b, b, j, -k)
		}
		return
	}

	r11, ok11 := acc.Matrix(s.object1)
	r22, ok22 := acc.Matrix(s.object2)
	r12, ok12 := acc.InteractionMatrix(s.object1, s.object2)
	r21, ok21 := acc.InteractionMatrix(s.object2, s.object1)
	if !ok11 && !ok22 && !ok12 && !ok21 {
		return
	}

	for i, a := range s.first {
		if skip(a) {
			continue
		}
		b := s.second[i]
		j := (*[tangent.BlockSize][tangent.BlockSize]float64)(&s.jac[i])
		if ok11 {
			r11.AddBlock(a, a, j, -k)
		}
		if ok12 {
			r12.AddBlock(a, b, j, k)
		}
		if ok21 {
			r21.AddBlock(b, a, j, k)
		}
		if ok22 {
			r22.AddBlock(b, b, j, -k)
		}
	}
}

// States implements ForceField.
func (s *InteractionSprings) States() []*mstate.Points {
	if s.object1 == s.object2 {
		return []*mstate.Points{s.object1}
	}
	return []*mstate.Points{s.object1, s.object2}
}

// Springs implements ForceField.
func (s *InteractionSprings) Springs() []SpringStatus {
	out := make([]SpringStatus, len(s.first))
	for i, a := range s.first {
		out[i] = SpringStatus{
			Index:      i,
			First:      a,
			Second:     s.second[i],
			Group:      s.law.Group(i),
			Length:     s.length[i],
			ZeroLength: s.zeroLength[i],
			Strain:     s.strain[i],
			Force:      s.force[i],
			Sign:       s.sign[i],
		}
	}
	return out
}

// Indices returns the resolved first and second indices.
func (s *InteractionSprings) Indices() (first, second []int) { return s.first, s.second }

// Jacobian returns the cached Jacobian of spring i.
func (s *InteractionSprings) Jacobian(i int) Block3 { return s.jac[i] }

// ZeroLength returns the zero length of spring i and whether it has been captured.
func (s *InteractionSprings) ZeroLength(i int) (float64, Latch) { return s.zeroLength[i], s.latch[i] }
