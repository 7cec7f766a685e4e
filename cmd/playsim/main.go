package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/agerasev/playsim/internal/algebra"
	"github.com/agerasev/playsim/internal/analysis"
	"github.com/agerasev/playsim/internal/config"
	"github.com/agerasev/playsim/internal/experiment"
	"github.com/agerasev/playsim/internal/export"
	"github.com/agerasev/playsim/internal/sim"
	"github.com/agerasev/playsim/internal/storage"
	"github.com/agerasev/playsim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	maxDt      float64
	seed       int64
	solver     string
	configFile string
	preset     string

	gravityY  float64
	stiffness float64
	ballCount int
	boxSize   float64

	xCol int
	yCol int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "playsim",
		Short: "physics playground with an RK4 core",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".playsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [scene]",
		Short: "run a scene and record the trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runScene,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write run data as CSV to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "write run data as JSON to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "write a trajectory plot as SVG to stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&xCol, "x-col", 0, "sample column for x")
	exportSVGCmd.Flags().IntVar(&yCol, "y-col", 1, "sample column for y")

	compareCmd := &cobra.Command{
		Use:   "compare [scene] [solver1] [solver2] ...",
		Short: "compare solvers on the same scene",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSolvers,
	}
	addSimFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [scene]",
		Short: "list available presets for a scene",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for scene: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	scenesCmd := &cobra.Command{
		Use:   "scenes",
		Short: "list available scenes and solvers",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := experiment.NewRegistry()
			fmt.Println("scenes:")
			for _, name := range reg.ListScenes() {
				fmt.Printf("  %s\n", name)
			}
			fmt.Println("solvers:")
			for _, name := range reg.ListSolvers() {
				fmt.Printf("  %s\n", name)
			}
			return nil
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [scene]",
		Short: "run a scene with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd,
		exportCSVCmd, exportJSONCmd, exportSVGCmd,
		compareCmd, presetsCmd, scenesCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Float64Var(&maxDt, "max-dt", config.DefaultMaxDt, "timestep clamp")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&solver, "solver", "rk4", "solver (rk4, euler)")
	cmd.Flags().Float64Var(&gravityY, "gravity", config.DefaultGravityY, "gravity (freefall, balls)")
	cmd.Flags().Float64Var(&stiffness, "stiffness", config.DefaultStiffness, "spring stiffness")
	cmd.Flags().IntVar(&ballCount, "balls", config.DefaultBallCount, "ball count")
	cmd.Flags().Float64Var(&boxSize, "box", config.DefaultBoxSize, "box size (balls)")
}

// buildConfig merges preset, config file and flags, flags winning.
func buildConfig(cmd *cobra.Command, sceneName string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(sceneName, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(sceneName))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Scene = sceneName
	if cmd.Flags().Changed("dt") || cfg.Dt == 0 {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("time") || cfg.Duration == 0 {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("max-dt") || cfg.MaxDt == 0 {
		cfg.MaxDt = maxDt
	}
	if cmd.Flags().Changed("solver") || cfg.Solver == "" {
		cfg.Solver = solver
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("gravity") {
		cfg.FreeFall.GravityY = gravityY
	}
	if cmd.Flags().Changed("stiffness") {
		cfg.Spring.Stiffness = stiffness
	}
	if cmd.Flags().Changed("balls") {
		cfg.Balls.Count = ballCount
	}
	if cmd.Flags().Changed("box") {
		cfg.Balls.BoxWidth = boxSize
		cfg.Balls.BoxHeight = boxSize
	}
	return cfg, nil
}

func runScene(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return err
	}

	fmt.Printf("running %s...\n", cfg.Scene)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg.Scene, cfg.Dt, cfg.Duration, cfg.Seed, cfg.Solver, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if len(result.Errors) > 0 {
		fmt.Printf("errors: %v\n", result.Errors)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tSCENE\tTIME\tDURATION\tDT\tSOLVER\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%s\t%.2e\n",
			run.ID,
			run.Scene,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Solver,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scene: %s\n", meta.Scene)
	fmt.Printf("samples: %d\n\n", len(states))

	numVars := len(states[0])
	const maxPlots = 6
	if numVars > maxPlots {
		numVars = maxPlots
	}

	for col := 0; col < numVars; col++ {
		data := make([]float64, len(states))
		for i := range states {
			if col < len(states[i]) {
				data[i] = states[i][col]
			}
		}

		caption := fmt.Sprintf("x%d vs time", col)
		if col < len(meta.Labels) {
			caption = meta.Labels[col] + " vs time"
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 || len(states[0]) == 0 {
		return fmt.Errorf("no data")
	}

	fmt.Printf("frequency analysis: %s\n", meta.ID)
	fmt.Printf("scene: %s\n\n", meta.Scene)

	data := make([]float64, len(states))
	for i := range states {
		data[i] = states[i][0]
	}

	ps := analysis.PowerSpectrum(data)
	plotData := ps[:len(ps)/4]

	caption := "power spectrum"
	if len(meta.Labels) > 0 {
		caption = "power spectrum (" + meta.Labels[0] + ")"
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()

	sampleDt := meta.Dt
	if len(times) > 1 {
		sampleDt = times[1] - times[0]
	}
	freq := analysis.DominantFrequency(data, sampleDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time"}
	if len(meta.Labels) == len(states[0]) {
		header = append(header, meta.Labels...)
	} else {
		for i := range states[0] {
			header = append(header, fmt.Sprintf("x%d", i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range states {
		row := []string{strconv.FormatFloat(times[i], 'f', 6, 64)}
		for _, val := range states[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(args[0], os.Stdout)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	if len(states) < 2 {
		return fmt.Errorf("not enough data to plot")
	}
	if len(states[0]) <= xCol || len(states[0]) <= yCol {
		return fmt.Errorf("sample dimension too small for selected columns")
	}

	points := make([]algebra.Vec2, len(states))
	for i, s := range states {
		points[i] = algebra.Vec2{X: s[xCol], Y: s[yCol]}
	}

	fmt.Println(export.TrajectoryToSVG(points, 800, 600, "#00ff00"))
	return nil
}

func compareSolvers(cmd *cobra.Command, args []string) error {
	sceneName := args[0]
	solvers := args[1:]

	reg := experiment.NewRegistry()

	fmt.Printf("comparing solvers for %s (dt=%.4f, duration=%.1fs)\n\n", sceneName, dt, duration)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s\n", "solver", "final_x0", "energy_drift", "time_ms")
	fmt.Println(strings.Repeat("-", 52))

	for _, name := range solvers {
		cfg, err := buildConfig(cmd, sceneName)
		if err != nil {
			return err
		}
		cfg.Solver = name

		exp := experiment.New(cfg)
		if err := exp.Setup(reg); err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background())
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		finalX0 := 0.0
		if len(result.States) > 0 && len(result.States[len(result.States)-1]) > 0 {
			finalX0 = result.States[len(result.States)-1][0]
		}

		fmt.Printf("%-12s  %12.6f  %12.2e  %12.2f\n",
			name, finalX0, result.EnergyDrift, float64(elapsed.Microseconds())/1000)
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	reg := experiment.NewRegistry()
	slv, err := reg.GetSolver(cfg.Solver)
	if err != nil {
		return err
	}

	build := func() sim.Scene {
		sc, err := reg.GetScene(cfg.Scene, cfg)
		if err != nil {
			return nil
		}
		return sc
	}
	if build() == nil {
		return fmt.Errorf("unknown scene: %s", cfg.Scene)
	}

	m := viz.NewModel(build, slv, cfg.Dt, cfg.Scene)
	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
