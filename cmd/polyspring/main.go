package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/san-kum/polyspring/internal/config"
	"github.com/san-kum/polyspring/internal/scene"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	verbose    bool
	preset     string
	outPath    string
	csvPath    string
	save       bool
	kFactor    float64
	bFactor    float64
	subset     []int
	noCoupling bool
	epsilon    float64
	tolerance  float64
	stiffness  []float64
	degree     []int
	group      int
	maxStrain  float64
	samples    int
	plotWidth  int
	plotHeight int
	logger     *slog.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "polyspring",
		Short: "polynomial spring force fields: forces, tangents and checks",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".polyspring", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	evalCmd := &cobra.Command{
		Use:   "eval [scene.yaml]",
		Short: "evaluate forces of a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEval,
	}
	evalCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scene")
	evalCmd.Flags().BoolVar(&save, "save", false, "store the evaluation in the data directory")

	tangentCmd := &cobra.Command{
		Use:   "tangent [scene.yaml]",
		Short: "assemble and print the tangent matrix",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTangent,
	}
	tangentCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scene")
	tangentCmd.Flags().Float64Var(&kFactor, "k-factor", 1, "stiffness factor")
	tangentCmd.Flags().Float64Var(&bFactor, "b-factor", 0, "damping factor")
	tangentCmd.Flags().IntSliceVar(&subset, "subset", nil, "only assemble springs whose first point is listed")
	tangentCmd.Flags().BoolVar(&noCoupling, "no-coupling", false, "allocate no coupling blocks between point sets")

	checkCmd := &cobra.Command{
		Use:   "check [scene.yaml]",
		Short: "compare analytic tangents with finite differences",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	checkCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scene")
	checkCmd.Flags().Float64Var(&epsilon, "eps", 1e-6, "finite-difference step")
	checkCmd.Flags().Float64Var(&tolerance, "tol", 1e-3, "relative tolerance")

	curveCmd := &cobra.Command{
		Use:   "curve",
		Short: "plot a polynomial law",
		RunE:  runCurve,
	}
	curveCmd.Flags().Float64SliceVar(&stiffness, "stiffness", []float64{100}, "flat coefficient list")
	curveCmd.Flags().IntSliceVar(&degree, "degree", []int{1}, "degree of each law")
	curveCmd.Flags().IntVar(&group, "group", 0, "law to plot")
	curveCmd.Flags().Float64Var(&maxStrain, "max-strain", 1, "upper end of the strain range")
	curveCmd.Flags().IntVar(&samples, "samples", 200, "number of samples")
	curveCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	curveCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")
	curveCmd.Flags().StringVar(&csvPath, "csv", "", "also write samples to this CSV file")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenes",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				cfg := config.GetPreset(p)
				fmt.Printf("  %-10s %d point sets, %d force fields\n", p, len(cfg.States), len(cfg.ForceFields))
			}
			return nil
		},
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [scene.yaml]",
		Short: "evaluate a scene and write per-spring CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scene")
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [scene.yaml]",
		Short: "evaluate a scene and write JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&preset, "preset", "", "use a built-in scene")
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored evaluations",
		RunE:  listRuns,
	}

	rootCmd.AddCommand(evalCmd, tangentCmd, checkCmd, curveCmd, presetsCmd, exportCSVCmd, exportJSONCmd, listCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadScene builds and initializes the scene named by --preset or the file argument.
func loadScene(args []string) (*scene.Scene, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (have %v)", preset, config.ListPresets())
		}
	case len(args) == 1:
		var err error
		if cfg, err = config.Load(args[0]); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("need a scene file or --preset")
	}

	s, err := scene.Build(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Init(); err != nil {
		return nil, err
	}
	return s, nil
}
