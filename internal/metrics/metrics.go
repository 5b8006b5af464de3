package metrics

import (
	"math"

	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/scene"
)

// Metric accumulates a statistic over the springs of one or more fields.
type Metric interface {
	Name() string
	Observe(springs []forcefield.SpringStatus)
	Value() float64
	Reset()
}

type MaxStrain struct{ max float64 }

func NewMaxStrain() *MaxStrain { return &MaxStrain{} }

func (m *MaxStrain) Name() string { return "max_strain" }

func (m *MaxStrain) Observe(springs []forcefield.SpringStatus) {
	for _, s := range springs {
		m.max = math.Max(m.max, s.Strain)
	}
}

func (m *MaxStrain) Value() float64 { return m.max }
func (m *MaxStrain) Reset()         { m.max = 0 }

type MeanStrain struct {
	total   float64
	samples int
}

func NewMeanStrain() *MeanStrain { return &MeanStrain{} }

func (m *MeanStrain) Name() string { return "mean_strain" }

func (m *MeanStrain) Observe(springs []forcefield.SpringStatus) {
	for _, s := range springs {
		m.total += s.Strain
		m.samples++
	}
}

func (m *MeanStrain) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanStrain) Reset() {
	m.total = 0
	m.samples = 0
}

// PeakForce tracks the largest applied force magnitude, slack springs excluded.
type PeakForce struct{ peak float64 }

func NewPeakForce() *PeakForce { return &PeakForce{} }

func (p *PeakForce) Name() string { return "max_force" }

func (p *PeakForce) Observe(springs []forcefield.SpringStatus) {
	for _, s := range springs {
		p.peak = math.Max(p.peak, math.Abs(s.Force*s.Sign))
	}
}

func (p *PeakForce) Value() float64 { return p.peak }
func (p *PeakForce) Reset()         { p.peak = 0 }

// Slack counts springs that currently apply no force because they are
// compressed and compressible, or degenerate.
type Slack struct{ count int }

func NewSlack() *Slack { return &Slack{} }

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Observe(springs []forcefield.SpringStatus) {
	for _, sp := range springs {
		if sp.Sign == 0 {
			s.count++
		}
	}
}

func (s *Slack) Value() float64 { return float64(s.count) }
func (s *Slack) Reset()         { s.count = 0 }

type Count struct{ n int }

func NewCount() *Count { return &Count{} }

func (c *Count) Name() string                              { return "springs" }
func (c *Count) Observe(springs []forcefield.SpringStatus) { c.n += len(springs) }
func (c *Count) Value() float64                            { return float64(c.n) }
func (c *Count) Reset()                                    { c.n = 0 }

// Standard returns a fresh set of every metric in this package.
func Standard() []Metric {
	return []Metric{NewCount(), NewMaxStrain(), NewMeanStrain(), NewPeakForce(), NewSlack()}
}

// Summarize observes every report with the standard metrics.
func Summarize(reports []scene.FieldReport) map[string]float64 {
	ms := Standard()
	for _, r := range reports {
		for _, m := range ms {
			m.Observe(r.Springs)
		}
	}
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
