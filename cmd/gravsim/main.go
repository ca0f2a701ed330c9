package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string

	dt          float64
	duration    float64
	seed        int64
	integrator  string
	bodies      int
	radius      float64
	gConst      float64
	accuracy    float64
	softening   float64
	merge       bool
	density     float64
	parallel    bool
	recordEvery int
	configFile  string
	preset      string

	stepsPerFrame int
	gifPath       string

	width, height int
	frameIndex    int
	outPath       string

	sweepParams []string
	sweepMetric string

	lyapunov bool
)

// main registers the gravsim commands and flags and executes the root
// command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:          "gravsim",
		Short:        "2D Barnes-Hut gravity simulation",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				logrus.Fatalf("invalid log level %q: %v", logLevel, err)
			}
			logrus.SetLevel(level)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "log level (trace, debug, info, warn, error, fatal, panic)")

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a simulation and store its frames",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSimulationFlags(runCmd)

	liveCmd := &cobra.Command{
		Use:   "live [scenario]",
		Short: "run a simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addSimulationFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps", 1, "ticks per frame")
	liveCmd.Flags().StringVar(&gifPath, "gif", "gravsim.gif", "recording output path")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and body count of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [scenario]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time tree force evaluation against direct summation",
		RunE:  benchForces,
	}
	benchCmd.Flags().Float64Var(&accuracy, "accuracy", 4, "accuracy threshold")
	benchCmd.Flags().Int64Var(&seed, "seed", 1, "random seed")

	compareCmd := &cobra.Command{
		Use:   "compare [scenario] [integrator...]",
		Short: "compare solver convergence on a scenario",
		Args:  cobra.MinimumNArgs(1),
		RunE:  compareIntegrators,
	}
	addSimulationFlags(compareCmd)
	compareCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "add the largest Lyapunov exponent at --dt over --time")

	sweepCmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "grid search parameters minimising a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweep,
	}
	addSimulationFlags(sweepCmd)
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "name=v1,v2,... (dt, time, g, accuracy, softening, offset, density, bodies, radius)")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to minimise")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path, - for stdout")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render a stored run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output path, - for stdout")
	exportSVGCmd.Flags().IntVar(&width, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&height, "height", 800, "image height")
	exportSVGCmd.Flags().IntVar(&frameIndex, "frame", -1, "draw a single frame (negative counts from the end); trajectories when unset")

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, presetsCmd, benchCmd, compareCmd, sweepCmd, exportJSONCmd, exportSVGCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimulationFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Float64Var(&dt, "dt", 0.01, "timestep")
	f.Float64Var(&duration, "time", 10.0, "duration")
	f.Int64Var(&seed, "seed", 0, "random seed")
	f.StringVar(&integrator, "integrator", "rk4", "integrator (euler, rk4)")
	f.IntVar(&bodies, "bodies", 64, "number of bodies")
	f.Float64Var(&radius, "radius", 10, "scenario radius")
	f.Float64Var(&gConst, "g", 1, "gravitational constant")
	f.Float64Var(&accuracy, "accuracy", 4, "tree accuracy threshold")
	f.Float64Var(&softening, "softening", 0.01, "softening length")
	f.BoolVar(&merge, "merge", false, "merge overlapping bodies")
	f.Float64Var(&density, "density", 1, "body density for merging")
	f.BoolVar(&parallel, "parallel", false, "parallel force evaluation")
	f.IntVar(&recordEvery, "record", 10, "record a frame every n ticks")
	f.StringVar(&configFile, "config", "", "config file path (yaml, ini or gcfg)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
}
