package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/polyspring/internal/analysis"
)

const (
	DefaultPlotWidth  = 80
	DefaultPlotHeight = 12
)

// PlotLaw draws the force and the stiffness of a sampled law one above the other.
func PlotLaw(samples []analysis.Sample, width, height int) string {
	if len(samples) == 0 {
		return ""
	}
	if width <= 0 {
		width = DefaultPlotWidth
	}
	if height <= 0 {
		height = DefaultPlotHeight
	}

	maxStrain := samples[len(samples)-1].Strain
	force := asciigraph.Plot(analysis.Forces(samples),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("force vs strain [0, %.3g]", maxStrain)),
	)
	stiffness := asciigraph.Plot(analysis.Stiffnesses(samples),
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("dF/ds vs strain [0, %.3g]", maxStrain)),
	)
	return force + "\n\n" + stiffness
}
