package forcefield_test

import (
	"io"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/polynomial"
	"github.com/san-kum/polyspring/internal/tangent"
	"gonum.org/v1/gonum/spatial/r3"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

var _ = Describe("Polynomial laws", func() {
	It("evaluates value and derivative of a cubic", func() {
		t, err := polynomial.NewTable([]int{3}, []float64{1, 3, 4})
		Expect(err).NotTo(HaveOccurred())

		for _, s := range []float64{0, 0.5, 1, 2} {
			Expect(t.Value(0, s)).To(BeNumerically("~", s+3*s*s+4*s*s*s, 1e-12))
			Expect(t.Derivative(0, s)).To(BeNumerically("~", 1+6*s+12*s*s, 1e-12))
		}
	})

	It("rejects degrees that address missing coefficients", func() {
		_, err := polynomial.NewTable([]int{2, 2}, []float64{1, 2, 3})
		Expect(err).To(MatchError(polynomial.ErrCoefficientCount))
	})
})

var _ = Describe("AnchoredSprings", func() {
	var (
		body *mstate.Points
		cfg  forcefield.AnchoredConfig
	)

	BeforeEach(func() {
		body = mstate.New("body", make([]r3.Vec, 2))
		cfg = forcefield.DefaultAnchoredConfig()
		cfg.PolynomialStiffness = []float64{10}
	})

	It("is linear for a single degree-1 law", func() {
		body.X[0] = r3.Vec{Z: 2}
		a := forcefield.NewAnchoredSprings("pin", body, nil, cfg, discard)
		Expect(a.Init()).To(Succeed())

		a.AddForce()
		st := a.Springs()[0]
		Expect(st.Strain).To(Equal(2.0))
		Expect(st.Force).To(Equal(20.0))
		Expect(body.F[0].Z).To(BeNumerically("<", 0))
		Expect(body.F[1]).To(Equal(r3.Vec{}))
	})

	It("stays finite at the rest position", func() {
		a := forcefield.NewAnchoredSprings("pin", body, nil, cfg, discard)
		Expect(a.Init()).To(Succeed())
		a.AddForce()
		Expect(mstate.Finite(body.F)).To(BeTrue())
	})

	It("disables itself on an index count mismatch", func() {
		ground := mstate.New("ground", make([]r3.Vec, 3))
		a := forcefield.NewAnchoredSprings("pin", body, ground, cfg, discard)
		Expect(a.Init()).To(Succeed())
		Expect(a.Springs()).To(BeEmpty())
	})

	It("writes only diagonal entries", func() {
		body.X[0] = r3.Vec{X: 1, Y: 2, Z: 3}
		a := forcefield.NewAnchoredSprings("pin", body, nil, cfg, discard)
		Expect(a.Init()).To(Succeed())
		a.AddForce()

		g := tangent.NewGlobal([]*mstate.Points{body})
		a.AddKToMatrix(forcefield.DefaultMechanicalParams(), g)
		d := g.Dense()
		r, c := d.Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				if i != j {
					Expect(d.At(i, j)).To(BeZero())
				}
			}
		}
		Expect(d.At(0, 0)).To(BeNumerically("<", 0))
	})
})

var _ = Describe("InteractionSprings", func() {
	var cfg forcefield.InteractionConfig

	BeforeEach(func() {
		cfg = forcefield.InteractionConfig{
			ZeroLength:          []float64{1},
			PolynomialStiffness: []float64{10},
		}
	})

	DescribeTable("law selection over five springs",
		func(degree []int, stiffness []float64, want []float64) {
			a := mstate.New("a", make([]r3.Vec, 5))
			b := mstate.New("b", make([]r3.Vec, 5))
			for i := range b.X {
				b.X[i] = r3.Vec{Y: 2}
			}
			cfg.PolynomialDegree = degree
			cfg.PolynomialStiffness = stiffness
			s := forcefield.NewInteractionSprings("links", a, b, cfg, discard)
			Expect(s.Init()).To(Succeed())
			s.AddForce()

			for i, st := range s.Springs() {
				Expect(st.Force).To(Equal(want[i]))
			}
		},
		Entry("one law per spring", []int{1, 1, 1, 1, 1}, []float64{1, 2, 3, 4, 5}, []float64{1, 2, 3, 4, 5}),
		Entry("group count differs from spring count", []int{1, 1}, []float64{7, 9}, []float64{7, 7, 7, 7, 7}),
	)

	DescribeTable("compressed springs",
		func(compressible bool, wantX float64) {
			a := mstate.New("a", []r3.Vec{{}})
			b := mstate.New("b", []r3.Vec{{X: 0.5}})
			cfg.Compressible = compressible
			s := forcefield.NewInteractionSprings("links", a, b, cfg, discard)
			Expect(s.Init()).To(Succeed())
			s.AddForce()
			Expect(a.F[0].X).To(BeNumerically("~", wantX, 1e-12))
		},
		Entry("push back when rigid", false, -5.0),
		Entry("go slack when compressible", true, 0.0),
	)

	It("latches the zero length on first evaluation", func() {
		a := mstate.New("a", []r3.Vec{{}})
		b := mstate.New("b", []r3.Vec{{X: 1.5}})
		cfg.ComputeZeroLength = true
		s := forcefield.NewInteractionSprings("links", a, b, cfg, discard)
		Expect(s.Init()).To(Succeed())

		s.AddForce()
		l0, latch := s.ZeroLength(0)
		Expect(latch).To(Equal(forcefield.Captured))
		Expect(l0).To(Equal(1.5))

		b.X[0] = r3.Vec{X: 3}
		s.AddForce()
		l0, _ = s.ZeroLength(0)
		Expect(l0).To(Equal(1.5))
		Expect(s.Springs()[0].Strain).To(BeNumerically("~", 1, 1e-12))
	})

	It("assembles a symmetric tangent within one point set", func() {
		body := mstate.New("body", []r3.Vec{{}, {X: 1, Y: 1}, {X: -0.5, Z: 2}})
		cfg.FirstPoints = []int{0, 1}
		cfg.SecondPoints = []int{1, 2}
		cfg.PolynomialDegree = []int{2}
		cfg.PolynomialStiffness = []float64{4, 3}
		s := forcefield.NewInteractionSprings("links", body, body, cfg, discard)
		Expect(s.Init()).To(Succeed())
		s.AddForce()

		g := tangent.NewGlobal(s.States())
		s.AddKToMatrix(forcefield.MechanicalParams{KFactor: 0.7}, g)
		Expect(g.IsSymmetric(1e-12)).To(BeTrue())
	})

	It("leaves the matrix alone when no region is allocated", func() {
		a := mstate.New("a", []r3.Vec{{}})
		b := mstate.New("b", []r3.Vec{{X: 2}})
		other := mstate.New("other", []r3.Vec{{}})
		s := forcefield.NewInteractionSprings("links", a, b, cfg, discard)
		Expect(s.Init()).To(Succeed())
		s.AddForce()

		g := tangent.NewGlobal([]*mstate.Points{other})
		Expect(func() { s.AddKToMatrix(forcefield.DefaultMechanicalParams(), g) }).NotTo(Panic())
		Expect(g.Dense().At(0, 0)).To(BeZero())
	})
})
