package viz

import (
	"strings"
	"testing"

	"github.com/san-kum/polyspring/internal/analysis"
	"github.com/san-kum/polyspring/internal/polynomial"
)

func TestPlotLaw(t *testing.T) {
	table, err := polynomial.NewTable([]int{2}, []float64{1, 1})
	if err != nil {
		t.Fatal(err)
	}

	out := PlotLaw(analysis.SampleLaw(table, 0, 2, 50), 40, 6)
	if !strings.Contains(out, "force vs strain") || !strings.Contains(out, "dF/ds vs strain") {
		t.Errorf("expected both captions, got:\n%s", out)
	}
	if PlotLaw(nil, 40, 6) != "" {
		t.Error("expected empty plot for no samples")
	}
}

func TestSparklineChart(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("expected flat line, got %q", got)
	}

	out := SparklineChart([]float64{0, 1, 2, 3}, 4)
	if !strings.Contains(out, "▁") || !strings.Contains(out, "█") {
		t.Errorf("expected lowest and highest cells, got %q", out)
	}
}

func TestMetric(t *testing.T) {
	out := Metric("max strain", 0.25)
	if !strings.Contains(out, "max strain:") || !strings.Contains(out, "0.25") {
		t.Errorf("unexpected metric %q", out)
	}
	if !strings.Contains(Status(true), "PASS") || !strings.Contains(Status(false), "FAIL") {
		t.Error("unexpected status badges")
	}
}
