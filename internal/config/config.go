package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/polyspring/internal/forcefield"
	"gopkg.in/yaml.v3"
)

const (
	DefaultName    = "scene"
	DefaultKFactor = 1.0
	DefaultBFactor = 0.0
)

var (
	ErrNoStates       = errors.New("config: scene declares no point sets")
	ErrDuplicateState = errors.New("config: duplicate point set name")
	ErrUnknownState   = errors.New("config: unknown point set")
	ErrUnknownKind    = errors.New("config: unknown force field kind")
	ErrRestPositions  = errors.New("config: rest positions do not match positions")
)

// Vec3 is a point written as a three element yaml sequence.
type Vec3 [3]float64

type Config struct {
	Name        string             `yaml:"name"`
	KFactor     float64            `yaml:"k_factor"`
	BFactor     float64            `yaml:"b_factor"`
	States      []StateConfig      `yaml:"states"`
	ForceFields []ForceFieldConfig `yaml:"force_fields"`
}

type StateConfig struct {
	Name          string `yaml:"name"`
	Positions     []Vec3 `yaml:"positions"`
	RestPositions []Vec3 `yaml:"rest_positions,omitempty"`
}

// ForceFieldConfig holds the settings of either variant. Fields that do not
// apply to Kind are ignored.
type ForceFieldConfig struct {
	Kind string `yaml:"kind"`
	Name string `yaml:"name"`

	// anchored
	Object            string   `yaml:"object,omitempty"`
	ExternalRestShape string   `yaml:"external_rest_shape,omitempty"`
	Points            []int    `yaml:"points,omitempty"`
	ExternalPoints    []int    `yaml:"external_points,omitempty"`
	SmoothShift       float64  `yaml:"smooth_shift,omitempty"`
	SmoothScale       *float64 `yaml:"smooth_scale,omitempty"`

	// interaction
	Object1           string `yaml:"object1,omitempty"`
	Object2           string `yaml:"object2,omitempty"`
	FirstPoints       []int  `yaml:"first_points,omitempty"`
	SecondPoints      []int  `yaml:"second_points,omitempty"`
	ComputeZeroLength *bool  `yaml:"compute_zero_length,omitempty"`
	Compressible      bool   `yaml:"compressible,omitempty"`

	PolynomialStiffness []float64 `yaml:"polynomial_stiffness,omitempty"`
	PolynomialDegree    []int     `yaml:"polynomial_degree,omitempty"`
	ZeroLength          []float64 `yaml:"zero_length,omitempty"`
	RecomputeIndices    bool      `yaml:"recompute_indices,omitempty"`
	RayleighStiffness   float64   `yaml:"rayleigh_stiffness,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:    DefaultName,
		KFactor: DefaultKFactor,
		BFactor: DefaultBFactor,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a scene over the defaults and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every force field names a declared point set. Law and
// zero-length consistency is left to the force fields' Init.
func (c *Config) Validate() error {
	if len(c.States) == 0 {
		return ErrNoStates
	}

	names := make(map[string]struct{}, len(c.States))
	for _, s := range c.States {
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateState, s.Name)
		}
		names[s.Name] = struct{}{}
		if len(s.RestPositions) > 0 && len(s.RestPositions) != len(s.Positions) {
			return fmt.Errorf("%w: %q has %d positions and %d rest positions",
				ErrRestPositions, s.Name, len(s.Positions), len(s.RestPositions))
		}
	}

	known := func(field, name string) error {
		if _, ok := names[name]; !ok {
			return fmt.Errorf("%w: field %q references %q", ErrUnknownState, field, name)
		}
		return nil
	}

	for _, ff := range c.ForceFields {
		switch ff.Kind {
		case forcefield.KindAnchored:
			if err := known(ff.Name, ff.Object); err != nil {
				return err
			}
			if ff.ExternalRestShape != "" {
				if err := known(ff.Name, ff.ExternalRestShape); err != nil {
					return err
				}
			}
		case forcefield.KindInteraction:
			if err := known(ff.Name, ff.Object1); err != nil {
				return err
			}
			if err := known(ff.Name, ff.Object2); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %q", ErrUnknownKind, ff.Kind)
		}
	}
	return nil
}

// MechanicalParams returns the scene's stiffness and damping factors.
func (c *Config) MechanicalParams() forcefield.MechanicalParams {
	return forcefield.MechanicalParams{KFactor: c.KFactor, BFactor: c.BFactor}
}

// State returns the point set called name.
func (c *Config) State(name string) (StateConfig, bool) {
	for _, s := range c.States {
		if s.Name == name {
			return s, true
		}
	}
	return StateConfig{}, false
}

func (f *ForceFieldConfig) AnchoredConfig() forcefield.AnchoredConfig {
	cfg := forcefield.DefaultAnchoredConfig()
	cfg.Points = f.Points
	cfg.ExternalPoints = f.ExternalPoints
	cfg.PolynomialStiffness = f.PolynomialStiffness
	cfg.PolynomialDegree = f.PolynomialDegree
	if len(f.ZeroLength) > 0 {
		cfg.ZeroLength = f.ZeroLength
	}
	cfg.RecomputeIndices = f.RecomputeIndices
	cfg.SmoothShift = f.SmoothShift
	if f.SmoothScale != nil {
		cfg.SmoothScale = *f.SmoothScale
	}
	cfg.RayleighStiffness = f.RayleighStiffness
	return cfg
}

func (f *ForceFieldConfig) InteractionConfig() forcefield.InteractionConfig {
	cfg := forcefield.DefaultInteractionConfig()
	cfg.FirstPoints = f.FirstPoints
	cfg.SecondPoints = f.SecondPoints
	cfg.PolynomialStiffness = f.PolynomialStiffness
	cfg.PolynomialDegree = f.PolynomialDegree
	if f.ComputeZeroLength != nil {
		cfg.ComputeZeroLength = *f.ComputeZeroLength
	}
	cfg.ZeroLength = f.ZeroLength
	cfg.RecomputeIndices = f.RecomputeIndices
	cfg.Compressible = f.Compressible
	cfg.RayleighStiffness = f.RayleighStiffness
	return cfg
}
