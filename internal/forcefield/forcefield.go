package forcefield

import (
	"log/slog"

	"github.com/san-kum/polyspring/internal/mstate"
	"github.com/san-kum/polyspring/internal/tangent"
)

// Kinds of force field.
const (
	KindAnchored    = "anchored"
	KindInteraction = "interaction"
)

// ForceField is what a host needs from a spring force field each step.
type ForceField interface {
	Name() string
	Kind() string
	Init() error

	// AddForce accumulates into the bound states' F from their X.
	AddForce()
	// AddDForce accumulates K*DX into the bound states' DF.
	AddDForce(mp MechanicalParams)
	AddKToMatrix(mp MechanicalParams, acc tangent.Accessor)
	// AddSubKToMatrix only assembles springs whose first index is in subset.
	AddSubKToMatrix(mp MechanicalParams, acc tangent.Accessor, subset []int)

	// States returns the simulated point sets the field writes to.
	States() []*mstate.Points
	Springs() []SpringStatus
}

// SpringStatus is the state of one spring after the last AddForce.
type SpringStatus struct {
	Index      int     `json:"index" csv:"index"`
	First      int     `json:"first" csv:"first"`
	Second     int     `json:"second" csv:"second"`
	Group      int     `json:"group" csv:"group"`
	Length     float64 `json:"length" csv:"length"`
	ZeroLength float64 `json:"zero_length" csv:"zero_length"`
	Strain     float64 `json:"strain" csv:"strain"`
	Force      float64 `json:"force" csv:"force"`
	Sign       float64 `json:"sign" csv:"sign"`
}

func fieldLogger(l *slog.Logger, name, kind string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("field", name, "kind", kind)
}

func indexSet(subset []int) map[int]struct{} {
	set := make(map[int]struct{}, len(subset))
	for _, i := range subset {
		set[i] = struct{}{}
	}
	return set
}
