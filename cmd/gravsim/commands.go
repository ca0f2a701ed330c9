package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gravity"
	"github.com/san-kum/gravsim/internal/quadtree"
	"github.com/san-kum/gravsim/internal/scenario"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/universe"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// lyapunovPerturbation is the initial phase-space separation used by
// compare --lyapunov.
const lyapunovPerturbation = 1e-8

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if len(args) > 0 {
		cfg.Scenario = args[0]
	}

	if preset != "" {
		p := config.GetPreset(cfg.Scenario, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(cfg.Scenario))
		}
		cfg = p
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 {
			cfg.Scenario = args[0]
		}
	}

	f := cmd.Flags()
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("time") {
		cfg.Duration = duration
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if f.Changed("bodies") {
		cfg.Setup.Bodies = bodies
	}
	if f.Changed("radius") {
		cfg.Setup.Radius = radius
	}
	if f.Changed("g") {
		cfg.Gravity.G = gConst
	}
	if f.Changed("accuracy") {
		cfg.Gravity.Accuracy = accuracy
	}
	if f.Changed("softening") {
		cfg.Gravity.Softening = softening
	}
	if f.Changed("merge") {
		cfg.Merge.Enabled = merge
	}
	if f.Changed("density") {
		cfg.Merge.Density = density
	}
	if f.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if f.Changed("record") {
		cfg.RecordEvery = recordEvery
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}
	meta := storage.NewMetadata(cfg, exp.Universe().Len())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s with %d bodies...\n", cfg.Scenario, meta.Bodies)
	start := time.Now()

	result, err := exp.Run(ctx)
	if err != nil && !errors.Is(err, dynamo.ErrContextCanceled) {
		return err
	}
	if err != nil {
		logrus.Warnf("run interrupted after %d steps", result.StepsTaken)
	}
	for _, e := range result.Errors {
		logrus.Warnf("run: %v", e)
	}

	elapsed := time.Since(start)

	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("frames: %d\n", len(result.Frames))
	fmt.Printf("merged: %d\n", result.Merged)
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	for _, name := range sortedNames(result.Metrics) {
		fmt.Printf("  %s: %.6g\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(); err != nil {
		return err
	}

	m := viz.NewModel(cfg.Scenario, exp.Universe(), exp.Simulator().Solver(), cfg.SimConfig()).
		WithStepsPerFrame(stepsPerFrame).
		WithGIFPath(gifPath)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tBODIES\tDURATION\tDT\tINTEG\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4f\t%s\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Integrator,
			float64(run.EnergyDrift),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no data to plot")
	}

	energy := make([]float64, 0, len(frames))
	count := make([]float64, 0, len(frames))
	for _, f := range frames {
		u, err := universe.FromSnapshot(f.State, meta.GravityParams())
		if err != nil {
			return fmt.Errorf("frame at t=%g: %w", f.Time, err)
		}
		energy = append(energy, u.Energy())
		count = append(count, float64(u.Len()))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("frames: %d (t=%g..%g)\n\n", len(frames), frames[0].Time, frames[len(frames)-1].Time)

	fmt.Println(asciigraph.Plot(energy,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	))
	fmt.Println()

	if meta.Merge {
		fmt.Println(asciigraph.Plot(count,
			asciigraph.Height(6),
			asciigraph.Width(80),
			asciigraph.Caption("bodies"),
		))
		fmt.Println()
	}

	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	scenarios := config.ListScenarios()
	if len(args) > 0 {
		scenarios = args
	}

	for _, s := range scenarios {
		presets := config.ListPresets(s)
		if len(presets) == 0 {
			fmt.Printf("no presets for scenario: %s\n", s)
			continue
		}
		fmt.Printf("presets for %s:\n", s)
		for _, p := range presets {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}

// benchForces times one full force evaluation through the tree against
// direct summation on seeded clusters of growing size.
func benchForces(cmd *cobra.Command, args []string) error {
	g := gravity.DefaultParams()
	g.Accuracy = accuracy

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tNODES\tDEPTH\tBUILD\tTREE\tDIRECT\tSPEEDUP\tMAX_ERR")

	for _, n := range []int{100, 500, 2000, 5000} {
		p := scenario.DefaultParams()
		p.Bodies = n
		p.Seed = seed
		u, err := scenario.Cluster(p, g)
		if err != nil {
			return err
		}
		bs := u.Bodies()

		start := time.Now()
		root := quadtree.Build(bs)
		build := time.Since(start)

		ax := make([]float64, n)
		ay := make([]float64, n)
		start = time.Now()
		gravity.Accelerations(bs, root, g, ax, ay)
		tree := time.Since(start) + build

		exact := make([]dynamo.Vec2, n)
		start = time.Now()
		for i := range bs {
			exact[i] = gravity.Direct(i, bs, g)
		}
		direct := time.Since(start)

		maxErr := 0.0
		for i, a := range exact {
			if norm := a.Norm(); norm > 0 {
				diff := dynamo.Vec2{X: ax[i], Y: ay[i]}.Sub(a)
				maxErr = math.Max(maxErr, diff.Norm()/norm)
			}
		}

		stats := root.Stats()
		fmt.Fprintf(w, "%d\t%d\t%d\t%v\t%v\t%v\t%.1fx\t%.2e\n",
			n, stats.Nodes, stats.MaxDepth, build, tree, direct,
			direct.Seconds()/tree.Seconds(), maxErr)
	}

	return w.Flush()
}

// compareIntegrators prints the energy error of each solver on the
// scenario at dt, dt/2 and dt/4 with the observed order of accuracy.
func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[:1])
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	names := args[1:]
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	build, err := registry.GetScenario(cfg.Scenario)
	if err != nil {
		return err
	}
	fresh := func() (*universe.Universe, error) {
		return build(cfg.ScenarioParams(), cfg.GravityParams())
	}
	dts := []float64{cfg.Dt, cfg.Dt / 2, cfg.Dt / 4}

	fmt.Printf("comparing integrators for %s (duration=%g)\n\n", cfg.Scenario, cfg.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	header := "INTEGRATOR\tDT\tSTEPS\tENERGY_ERR\tORDER\tTIME"
	if lyapunov {
		header += "\tLYAPUNOV"
	}
	fmt.Fprintln(w, header)

	for _, name := range names {
		solver, err := registry.GetIntegrator(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		points, err := analysis.Convergence(fresh, solver, dts, cfg.Duration)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		lambda := "-"
		if lyapunov {
			u, err := fresh()
			if err != nil {
				return err
			}
			lambda = fmt.Sprintf("%.4f", analysis.LyapunovExponent(u, solver, cfg.Dt, cfg.Duration, lyapunovPerturbation))
		}

		for i, p := range points {
			order := "-"
			if !math.IsNaN(p.Order) {
				order = fmt.Sprintf("%.2f", p.Order)
			}
			fmt.Fprintf(w, "%s\t%g\t%d\t%.3e\t%s\t%v", name, p.Dt, p.Steps, p.EnergyError, order, elapsed)
			if lyapunov {
				if i == 0 {
					fmt.Fprintf(w, "\t%s", lambda)
				} else {
					fmt.Fprint(w, "\t-")
				}
			}
			fmt.Fprintln(w)
		}
	}

	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	return storage.New(dataDir).ExportJSON(args[0], outPath)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	frames, err := st.LoadFrames(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("no frames in run %s", args[0])
	}

	var svg string
	if cmd.Flags().Changed("frame") {
		i := frameIndex
		if i < 0 {
			i += len(frames)
		}
		if i < 0 || i >= len(frames) {
			return fmt.Errorf("frame %d out of range (0..%d)", frameIndex, len(frames)-1)
		}
		svg = export.FrameToSVG(frames[i].State, width, height)
	} else {
		svg = export.TrajectoriesToSVG(frames, width, height)
	}

	if outPath == "-" {
		_, err = fmt.Println(svg)
		return err
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
