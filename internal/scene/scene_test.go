package scene

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/san-kum/polyspring/internal/config"
	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/mstate"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildPreset(t *testing.T, name string) *Scene {
	t.Helper()
	s, err := Build(config.GetPreset(name), quiet())
	if err != nil {
		t.Fatalf("build %s: %v", name, err)
	}
	if err := s.Init(); err != nil {
		t.Fatalf("init %s: %v", name, err)
	}
	return s
}

func TestBuild_Presets(t *testing.T) {
	for _, name := range config.ListPresets() {
		s := buildPreset(t, name)
		s.ComputeForce()
		if !s.Valid() {
			t.Errorf("preset %s: non-finite state", name)
		}
		if len(s.Report()) != len(config.GetPreset(name).ForceFields) {
			t.Errorf("preset %s: expected one report per field", name)
		}
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	kinds := r.ListKinds()
	if len(kinds) != 2 || kinds[0] != forcefield.KindAnchored || kinds[1] != forcefield.KindInteraction {
		t.Errorf("unexpected kinds %v", kinds)
	}
	if _, err := r.Get("torsion"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestBuild_UnknownState(t *testing.T) {
	cfg := config.GetPreset("pin")
	cfg.ForceFields[0].Object = "ghost"

	_, err := Build(cfg, quiet())
	if !errors.Is(err, ErrUnknownState) {
		t.Errorf("expected ErrUnknownState, got %v", err)
	}
}

func TestInit_PropagatesFieldError(t *testing.T) {
	cfg := config.GetPreset("chain")
	cfg.ForceFields[1].ZeroLength = []float64{-1}

	s, err := Build(cfg, quiet())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	err = s.Init()
	if !errors.Is(err, forcefield.ErrInvalidZeroLength) {
		t.Errorf("expected ErrInvalidZeroLength, got %v", err)
	}
	var fe *forcefield.FieldError
	if !errors.As(err, &fe) || fe.Field != "links" {
		t.Errorf("expected FieldError for links, got %v", err)
	}
}

func TestComputeForce_ResetsAccumulators(t *testing.T) {
	s := buildPreset(t, "pin")
	body, _ := s.State("body")

	s.ComputeForce()
	first := mstate.Clone(body.F)
	s.ComputeForce()
	for i := range first {
		if body.F[i] != first[i] {
			t.Errorf("point %d: expected repeated evaluation to match, got %v and %v", i, first[i], body.F[i])
		}
	}
	if body.F[0].Z >= 0 {
		t.Errorf("expected point 0 pulled down toward rest, got %v", body.F[0])
	}
}

func TestComputeForce_InteractionBalances(t *testing.T) {
	s := buildPreset(t, "coupled")
	s.ComputeForce()

	var total r3.Vec
	for _, p := range s.States() {
		for _, f := range p.F {
			total = r3.Add(total, f)
		}
	}
	if r3.Norm(total) > 1e-9 {
		t.Errorf("expected internal forces to cancel, got %v", total)
	}
}

// flatten stacks the given vectors of every state in layout order.
func flatten(states []*mstate.Points, pick func(*mstate.Points) []r3.Vec) *mat.VecDense {
	var data []float64
	for _, p := range states {
		for _, v := range pick(p) {
			data = append(data, v.X, v.Y, v.Z)
		}
	}
	return mat.NewVecDense(len(data), data)
}

func TestAssemble_MatchesDForce(t *testing.T) {
	for _, name := range []string{"chain", "coupled", "slack"} {
		s := buildPreset(t, name)
		s.ComputeForce()

		for si, p := range s.States() {
			for i := range p.DX {
				p.DX[i] = r3.Vec{X: 0.01 * float64(i+1), Y: -0.02 * float64(si+1), Z: 0.005}
			}
		}
		mp := forcefield.MechanicalParams{KFactor: 0.8}
		s.ComputeDForce(mp)
		g := s.Assemble(mp)

		dx := flatten(s.States(), func(p *mstate.Points) []r3.Vec { return p.DX })
		df := flatten(s.States(), func(p *mstate.Points) []r3.Vec { return p.DF })
		var kdx mat.VecDense
		kdx.MulVec(g.Dense(), dx)

		if !mat.EqualApprox(&kdx, df, 1e-10) {
			t.Errorf("%s: K*dx %v differs from df %v", name, mat.Formatted(&kdx), mat.Formatted(df))
		}
		if !g.IsSymmetric(1e-10) {
			t.Errorf("%s: expected symmetric tangent", name)
		}
	}
}

func TestAssembleSubset(t *testing.T) {
	s := buildPreset(t, "chain")
	s.ComputeForce()
	chain, _ := s.State("chain")

	g := s.AssembleSubset(s.Params(), []int{2})
	b, err := g.Block(chain, 2, chain, 3)
	if err != nil {
		t.Fatal(err)
	}
	if b[0][0] == 0 {
		t.Error("expected spring 2-3 assembled")
	}
	root, _ := g.Block(chain, 0, chain, 1)
	if root != ([3][3]float64{}) {
		t.Error("expected spring 0-1 filtered out")
	}
}

func TestReport(t *testing.T) {
	s := buildPreset(t, "slack")
	s.ComputeForce()

	r := s.Report()
	if len(r) != 1 || r[0].Name != "ropes" || r[0].Kind != forcefield.KindInteraction {
		t.Fatalf("unexpected report %+v", r)
	}
	springs := r[0].Springs
	if springs[0].Sign != 0 {
		t.Errorf("expected compressed rope slack, got sign %f", springs[0].Sign)
	}
	if springs[1].Sign != 1 || math.Abs(springs[1].Strain-0.4) > 1e-12 {
		t.Errorf("expected stretched rope at strain 0.4, got %+v", springs[1])
	}
}
