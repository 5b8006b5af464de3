package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/san-kum/polyspring/internal/analysis"
	"github.com/san-kum/polyspring/internal/forcefield"
	"github.com/san-kum/polyspring/internal/polynomial"
	"github.com/san-kum/polyspring/internal/store"
	"github.com/san-kum/polyspring/internal/tangent"
	"github.com/san-kum/polyspring/internal/viz"
	"github.com/spf13/cobra"
)

func runEval(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args)
	if err != nil {
		return err
	}
	s.ComputeForce()

	fmt.Println(viz.Title.Render(s.Name))
	for _, r := range s.Report() {
		fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s (%s)", r.Name, r.Kind)))

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SPRING\tFIRST\tSECOND\tGROUP\tLENGTH\tL0\tSTRAIN\tFORCE\tSIGN")
		strains := make([]float64, len(r.Springs))
		for i, sp := range r.Springs {
			strains[i] = sp.Strain
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%.4f\t%.4f\t%.4f\t%.4f\t%+.0f\n",
				sp.Index, sp.First, sp.Second, sp.Group, sp.Length, sp.ZeroLength, sp.Strain, sp.Force, sp.Sign)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if len(strains) > 1 {
			fmt.Println(viz.MetricLabel.Render("strain ") + viz.SparklineChart(strains, 40))
		}
		fmt.Println()
	}

	fmt.Println(viz.HeaderStyle.Render("forces"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tPOINT\tFX\tFY\tFZ")
	for _, p := range s.States() {
		for i, f := range p.F {
			fmt.Fprintf(w, "%s\t%d\t%.6g\t%.6g\t%.6g\n", p.Name, i, f.X, f.Y, f.Z)
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !s.Valid() {
		fmt.Println(viz.StatusWarn.Render("non-finite values in the scene"))
	}

	if save {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(s)
		if err != nil {
			return err
		}
		fmt.Printf("\nsaved: %s\n", runID)
	}
	return nil
}

func runTangent(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args)
	if err != nil {
		return err
	}
	s.ComputeForce()

	mp := s.Params()
	if cmd.Flags().Changed("k-factor") {
		mp.KFactor = kFactor
	}
	if cmd.Flags().Changed("b-factor") {
		mp.BFactor = bFactor
	}

	var opts []tangent.Option
	if noCoupling {
		opts = append(opts, tangent.WithoutCoupling())
	}
	var g *tangent.Global
	if len(subset) > 0 {
		g = s.AssembleSubset(mp, subset, opts...)
	} else {
		g = s.Assemble(mp, opts...)
	}

	fmt.Println(viz.Title.Render(s.Name + " tangent"))
	for _, p := range g.States() {
		off, _ := g.Offset(p)
		fmt.Println(viz.Subtle.Render(fmt.Sprintf("%s: rows %d-%d", p.Name, off, off+tangent.BlockSize*p.Size()-1)))
	}
	fmt.Println(g.String())
	fmt.Println(viz.Metric("k_factor", mp.KFactor), viz.Metric("b_factor", mp.BFactor))
	if g.IsSymmetric(1e-9) {
		fmt.Println(viz.StatusOK.Render("symmetric"))
	} else {
		fmt.Println(viz.StatusWarn.Render("not symmetric"))
	}
	return nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args)
	if err != nil {
		return err
	}
	s.ComputeForce()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tKIND\tDOF\tCOMPARED\tMAX ABS\tMAX REL\tSTATUS")

	failed := 0
	for _, f := range s.Fields() {
		opts := analysis.Options{
			Epsilon:      epsilon,
			Tolerance:    tolerance,
			DiagonalOnly: f.Kind() == forcefield.KindAnchored,
		}
		res, err := analysis.CheckJacobian(f, opts)
		if err != nil {
			fmt.Fprintf(w, "%s\t%s\t-\t-\t-\t-\t%s\n", f.Name(), f.Kind(), err)
			continue
		}
		if !res.OK {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.3g\t%.3g\t%s\n",
			res.Field, f.Kind(), res.Size, res.Compared, res.MaxAbsError, res.MaxRelError, viz.Status(res.OK))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d field(s) failed the tangent check", failed)
	}
	return nil
}

func runCurve(cmd *cobra.Command, args []string) error {
	table, err := polynomial.NewTable(degree, stiffness)
	if err != nil {
		return err
	}
	if group < 0 || group >= table.Groups() {
		return fmt.Errorf("group %d out of range, table has %d", group, table.Groups())
	}

	pts := analysis.SampleLaw(table, group, maxStrain, samples)
	fmt.Println(viz.Title.Render(fmt.Sprintf("law %d, degree %d", group, table.Degree(group))))
	fmt.Println(viz.PlotLaw(pts, plotWidth, plotHeight))

	if csvPath != "" {
		return store.ExportFile(csvPath, func(w io.Writer) error {
			return store.WriteCurveCSV(w, pts)
		})
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args)
	if err != nil {
		return err
	}
	s.ComputeForce()
	return store.ExportFile(outPath, func(w io.Writer) error {
		return store.WriteSpringsCSV(w, s.Report())
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	s, err := loadScene(args)
	if err != nil {
		return err
	}
	s.ComputeForce()
	return store.ExportFile(outPath, func(w io.Writer) error {
		return store.ExportJSON(w, s)
	})
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tFIELDS\tSPRINGS\tSLACK\tMAX STRAIN\tMAX FORCE")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.0f\t%.0f\t%.4g\t%.4g\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Fields,
			run.Metrics["springs"],
			run.Metrics["slack"],
			run.Metrics["max_strain"],
			run.Metrics["max_force"],
		)
	}
	return w.Flush()
}
