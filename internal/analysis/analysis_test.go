package analysis

import (
	"io"
	"log/slog"
	"math"
	"sync/atomic"
	"testing"

	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/polynomial"
	"gonum.org/v1/gonum/spatial/r3"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParallelFor(t *testing.T) {
	for _, n := range []int{0, 1, 10, 1000, 4097} {
		hits := make([]int32, n)
		var calls int32
		ParallelFor(n, 100, func(start, end int) {
			atomic.AddInt32(&calls, 1)
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Fatalf("n=%d: index %d visited %d times", n, i, h)
			}
		}
		if calls == 0 {
			t.Errorf("n=%d: expected at least one call", n)
		}
	}
}

func TestSampleLaw(t *testing.T) {
	table, err := polynomial.NewTable([]int{3}, []float64{1, 3, 4})
	if err != nil {
		t.Fatal(err)
	}

	samples := SampleLaw(table, 0, 2, 1001)
	if len(samples) != 1001 {
		t.Fatalf("expected 1001 samples, got %d", len(samples))
	}
	if samples[0].Strain != 0 || samples[1000].Strain != 2 {
		t.Errorf("expected range [0, 2], got [%f, %f]", samples[0].Strain, samples[1000].Strain)
	}
	for _, s := range samples {
		x := s.Strain
		if math.Abs(s.Force-(x+3*x*x+4*x*x*x)) > 1e-9 {
			t.Fatalf("strain %f: unexpected force %f", x, s.Force)
		}
		if math.Abs(s.Stiffness-(1+6*x+12*x*x)) > 1e-9 {
			t.Fatalf("strain %f: unexpected stiffness %f", x, s.Stiffness)
		}
	}

	if got := SampleLaw(table, 0, 1, 0); len(got) != 2 {
		t.Errorf("expected at least 2 samples, got %d", len(got))
	}
	if f := Forces(samples); f[1000] != samples[1000].Force {
		t.Error("expected force column")
	}
	if k := Stiffnesses(samples); k[0] != 1 {
		t.Errorf("expected stiffness 1 at zero strain, got %f", k[0])
	}
}

func TestCheckJacobian_Interaction(t *testing.T) {
	body := mstate.New("body", []r3.Vec{{}, {X: 1, Y: 0.2}, {X: 1.8, Y: -0.4, Z: 0.3}})
	cfg := forcefield.DefaultInteractionConfig()
	cfg.FirstPoints = []int{0, 1}
	cfg.SecondPoints = []int{1, 2}
	cfg.PolynomialDegree = []int{3}
	cfg.PolynomialStiffness = []float64{20, 5, 1}
	s := forcefield.NewInteractionSprings("links", body, body, cfg, quiet())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.AddForce()

	body.X[0] = r3.Vec{X: -0.3, Z: 0.1}
	body.X[2] = r3.Vec{X: 1.6, Y: -0.2, Z: 0.4}
	x := mstate.Clone(body.X)

	res, err := CheckJacobian(s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Errorf("expected tangent to match, worst %+v rel %g", res.Worst, res.MaxRelError)
	}
	if res.Size != 9 || res.Compared != 81 {
		t.Errorf("expected 9x9 comparison, got size %d compared %d", res.Size, res.Compared)
	}
	for i := range x {
		if body.X[i] != x[i] {
			t.Errorf("point %d: position not restored", i)
		}
	}
}

func TestCheckJacobian_TwoStates(t *testing.T) {
	a := mstate.New("a", []r3.Vec{{}, {Y: 1}})
	b := mstate.New("b", []r3.Vec{{X: 1.4, Z: 0.2}, {X: 0.7, Y: 1.2}})
	cfg := forcefield.InteractionConfig{
		ZeroLength:          []float64{1},
		PolynomialDegree:    []int{2},
		PolynomialStiffness: []float64{8, 3},
	}
	s := forcefield.NewInteractionSprings("bridge", a, b, cfg, quiet())
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	res, err := CheckJacobian(s, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Errorf("expected tangent to match, worst %+v rel %g", res.Worst, res.MaxRelError)
	}
}

func TestCheckJacobian_Anchored(t *testing.T) {
	body := mstate.New("body", make([]r3.Vec, 2))
	body.X[0] = r3.Vec{X: 3, Y: 1, Z: -2}
	body.X[1] = r3.Vec{Y: -4, Z: 1}
	cfg := forcefield.DefaultAnchoredConfig()
	cfg.PolynomialDegree = []int{2}
	cfg.PolynomialStiffness = []float64{10, 2}
	cfg.ZeroLength = []float64{2}
	a := forcefield.NewAnchoredSprings("pin", body, nil, cfg, quiet())
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.DiagonalOnly = true
	res, err := CheckJacobian(a, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK {
		t.Errorf("expected diagonal to match, worst %+v rel %g", res.Worst, res.MaxRelError)
	}
	if res.Compared != 6 {
		t.Errorf("expected 6 diagonal entries, got %d", res.Compared)
	}

	full, err := CheckJacobian(a, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if full.OK {
		t.Error("expected off-diagonal terms to be missing from the anchored tangent")
	}
}

func TestCheckJacobian_RestoresAccumulators(t *testing.T) {
	body := mstate.New("body", []r3.Vec{{Z: 3}})
	a := forcefield.NewAnchoredSprings("pin", body, nil, forcefield.DefaultAnchoredConfig(), quiet())
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}
	body.F[0] = r3.Vec{X: 7}
	body.DX[0] = r3.Vec{Y: 1}

	if _, err := CheckJacobian(a, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	if body.F[0] != (r3.Vec{X: 7}) || body.DX[0] != (r3.Vec{Y: 1}) {
		t.Errorf("expected accumulators restored, got F %v DX %v", body.F[0], body.DX[0])
	}
}

func TestCheckJacobian_Empty(t *testing.T) {
	body := mstate.New("empty", nil)
	a := forcefield.NewAnchoredSprings("pin", body, nil, forcefield.DefaultAnchoredConfig(), quiet())
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := CheckJacobian(a, DefaultOptions()); err != ErrEmptyField {
		t.Errorf("expected ErrEmptyField, got %v", err)
	}
}
