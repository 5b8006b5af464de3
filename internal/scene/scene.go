package scene

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/polyspring/internal/config"
	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/tangent"
	"gonum.org/v1/gonum/spatial/r3"
)

// Scene owns the point sets and force fields of one configuration and drives
// them in order. It is not safe for concurrent use.
type Scene struct {
	Name   string
	states []*mstate.Points
	byName map[string]*mstate.Points
	fields []forcefield.ForceField
	params forcefield.MechanicalParams
	logger *slog.Logger
}

// FieldReport is the per-spring state of one force field.
type FieldReport struct {
	Name    string                    `json:"name"`
	Kind    string                    `json:"kind"`
	Springs []forcefield.SpringStatus `json:"springs"`
}

// Build creates the point sets and force fields of cfg with the default
// registry. Init must be called before evaluation.
func Build(cfg *config.Config, logger *slog.Logger) (*Scene, error) {
	return BuildWith(NewRegistry(), cfg, logger)
}

func BuildWith(r *Registry, cfg *config.Config, logger *slog.Logger) (*Scene, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scene{
		Name:   cfg.Name,
		byName: make(map[string]*mstate.Points, len(cfg.States)),
		params: cfg.MechanicalParams(),
		logger: logger.With("scene", cfg.Name),
	}

	for _, sc := range cfg.States {
		p := mstate.NewWithRest(sc.Name, toVecs(sc.Positions), toVecs(sc.RestPositions))
		s.states = append(s.states, p)
		s.byName[sc.Name] = p
	}

	for _, ff := range cfg.ForceFields {
		build, err := r.Get(ff.Kind)
		if err != nil {
			return nil, err
		}
		field, err := build(ff, s.byName, s.logger)
		if err != nil {
			return nil, fmt.Errorf("scene: field %q: %w", ff.Name, err)
		}
		s.fields = append(s.fields, field)
	}
	return s, nil
}

// Init initializes every force field and stops at the first failure.
func (s *Scene) Init() error {
	for _, f := range s.fields {
		if err := f.Init(); err != nil {
			return err
		}
	}
	s.logger.Info("scene ready", "states", len(s.states), "fields", len(s.fields))
	return nil
}

// ComputeForce clears every F and accumulates all fields into it.
func (s *Scene) ComputeForce() {
	for _, p := range s.states {
		p.ResetForce()
	}
	for _, f := range s.fields {
		f.AddForce()
	}
}

// ComputeDForce clears every DF and accumulates K*DX from all fields. It uses
// the Jacobians of the last ComputeForce.
func (s *Scene) ComputeDForce(mp forcefield.MechanicalParams) {
	for _, p := range s.states {
		p.ResetDForce()
	}
	for _, f := range s.fields {
		f.AddDForce(mp)
	}
}

// Assemble builds the global tangent over every point set of the scene.
func (s *Scene) Assemble(mp forcefield.MechanicalParams, opts ...tangent.Option) *tangent.Global {
	g := tangent.NewGlobal(s.states, opts...)
	for _, f := range s.fields {
		f.AddKToMatrix(mp, g)
	}
	return g
}

// AssembleSubset is Assemble restricted to springs whose first index is in subset.
func (s *Scene) AssembleSubset(mp forcefield.MechanicalParams, subset []int, opts ...tangent.Option) *tangent.Global {
	g := tangent.NewGlobal(s.states, opts...)
	for _, f := range s.fields {
		f.AddSubKToMatrix(mp, g, subset)
	}
	return g
}

func (s *Scene) Report() []FieldReport {
	out := make([]FieldReport, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, FieldReport{Name: f.Name(), Kind: f.Kind(), Springs: f.Springs()})
	}
	return out
}

func (s *Scene) State(name string) (*mstate.Points, bool) {
	p, ok := s.byName[name]
	return p, ok
}

func (s *Scene) States() []*mstate.Points            { return s.states }
func (s *Scene) Fields() []forcefield.ForceField     { return s.fields }
func (s *Scene) Params() forcefield.MechanicalParams { return s.params }

// Valid reports whether every point set holds finite positions and forces.
func (s *Scene) Valid() bool {
	for _, p := range s.states {
		if !p.IsValid() {
			return false
		}
	}
	return true
}

func toVecs(in []config.Vec3) []r3.Vec {
	if len(in) == 0 {
		return nil
	}
	out := make([]r3.Vec, len(in))
	for i, v := range in {
		out[i] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
	}
	return out
}
