package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/san-kum/polyspring/internal/config"
	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/mstate"
)

var (
	ErrUnknownKind  = errors.New("scene: unknown force field kind")
	ErrUnknownState = errors.New("scene: unknown point set")
)

// Builder creates a force field bound to point sets of the scene.
type Builder func(ff config.ForceFieldConfig, states map[string]*mstate.Points, logger *slog.Logger) (forcefield.ForceField, error)

type Registry struct {
	kinds map[string]Builder
}

func NewRegistry() *Registry {
	r := &Registry{kinds: make(map[string]Builder)}

	r.kinds[forcefield.KindAnchored] = func(ff config.ForceFieldConfig, states map[string]*mstate.Points, logger *slog.Logger) (forcefield.ForceField, error) {
		object, err := lookup(states, ff.Object)
		if err != nil {
			return nil, err
		}
		var rest *mstate.Points
		if ff.ExternalRestShape != "" {
			if rest, err = lookup(states, ff.ExternalRestShape); err != nil {
				return nil, err
			}
		}
		return forcefield.NewAnchoredSprings(ff.Name, object, rest, ff.AnchoredConfig(), logger), nil
	}

	r.kinds[forcefield.KindInteraction] = func(ff config.ForceFieldConfig, states map[string]*mstate.Points, logger *slog.Logger) (forcefield.ForceField, error) {
		object1, err := lookup(states, ff.Object1)
		if err != nil {
			return nil, err
		}
		object2, err := lookup(states, ff.Object2)
		if err != nil {
			return nil, err
		}
		return forcefield.NewInteractionSprings(ff.Name, object1, object2, ff.InteractionConfig(), logger), nil
	}

	return r
}

// Register adds or replaces the builder for kind.
func (r *Registry) Register(kind string, b Builder) { r.kinds[kind] = b }

func (r *Registry) Get(kind string) (Builder, error) {
	b, ok := r.kinds[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
	return b, nil
}

func (r *Registry) ListKinds() []string {
	names := make([]string, 0, len(r.kinds))
	for name := range r.kinds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(states map[string]*mstate.Points, name string) (*mstate.Points, error) {
	s, ok := states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return s, nil
}
