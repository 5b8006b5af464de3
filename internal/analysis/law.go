package analysis

import (
	"github.com/san-kum/polyspring/internal/polynomial"
	"gonum.org/v1/gonum/floats"
)

// Sample is one point of a force/strain curve.
type Sample struct {
	Strain    float64 `csv:"strain" json:"strain"`
	Force     float64 `csv:"force" json:"force"`
	Stiffness float64 `csv:"stiffness" json:"stiffness"`
}

// SampleLaw evaluates group g of t at n evenly spaced strains in [0, maxStrain].
// n is raised to 2 if smaller.
func SampleLaw(t *polynomial.Table, g int, maxStrain float64, n int) []Sample {
	if n < 2 {
		n = 2
	}
	strains := floats.Span(make([]float64, n), 0, maxStrain)
	out := make([]Sample, n)

	ParallelFor(n, 256, func(start, end int) {
		for i := start; i < end; i++ {
			s := strains[i]
			out[i] = Sample{Strain: s, Force: t.Value(g, s), Stiffness: t.Derivative(g, s)}
		}
	})
	return out
}

// Forces returns the force column of samples.
func Forces(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Force
	}
	return out
}

// Stiffnesses returns the stiffness column of samples.
func Stiffnesses(samples []Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Stiffness
	}
	return out
}
