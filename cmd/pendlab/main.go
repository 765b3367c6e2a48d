package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/pendlab/internal/analysis"
	"github.com/san-kum/pendlab/internal/config"
	"github.com/san-kum/pendlab/internal/dynamo"
	"github.com/san-kum/pendlab/internal/integrators"
	"github.com/san-kum/pendlab/internal/physics"
	"github.com/san-kum/pendlab/internal/store"
)

var (
	m1, m2 float64
	l1, l2 float64
	grav   float64

	phi1, omega1 float64
	phi2, omega2 float64

	tStart  float64
	tEnd    float64
	samples int

	absTol float64
	relTol float64

	model    string
	parallel bool

	sweepMin   float64
	sweepMax   float64
	sweepCount int
	rawSign    bool

	innerMin   float64
	innerMax   float64
	innerCount int

	jsonPath string
	csvPath  string
	xlsxPath string

	configFile string
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00ffff"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffaa00"))
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pendlab",
		Short: "chaotic double-pendulum integration and analysis",
	}

	rootCmd.PersistentFlags().Float64Var(&m1, "m1", 1.0, "first mass")
	rootCmd.PersistentFlags().Float64Var(&m2, "m2", 1.0, "second mass")
	rootCmd.PersistentFlags().Float64Var(&l1, "l1", 1.0, "first rod length")
	rootCmd.PersistentFlags().Float64Var(&l2, "l2", 1.0, "second rod length")
	rootCmd.PersistentFlags().Float64Var(&grav, "g", 9.8, "gravitational acceleration")
	rootCmd.PersistentFlags().Float64Var(&phi1, "phi1", math.Pi/4, "initial first angle")
	rootCmd.PersistentFlags().Float64Var(&omega1, "omega1", 0.0, "initial first angular velocity")
	rootCmd.PersistentFlags().Float64Var(&phi2, "phi2", math.Pi/4, "initial second angle")
	rootCmd.PersistentFlags().Float64Var(&omega2, "omega2", 0.0, "initial second angular velocity")
	rootCmd.PersistentFlags().Float64Var(&tStart, "start", 0.0, "grid start time")
	rootCmd.PersistentFlags().Float64Var(&tEnd, "end", math.Pi/2, "grid end time")
	rootCmd.PersistentFlags().IntVar(&samples, "samples", 100, "grid sample count")
	rootCmd.PersistentFlags().Float64Var(&absTol, "abs-tol", config.DefaultAbsTol, "absolute error tolerance")
	rootCmd.PersistentFlags().Float64Var(&relTol, "rel-tol", config.DefaultRelTol, "relative error tolerance")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "integrate a single trajectory",
		RunE:  runTrajectory,
	}
	runCmd.Flags().StringVar(&model, "model", "exact", "dynamics: exact or linear")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write trajectory JSON")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write trajectory CSV")

	compareCmd := &cobra.Command{
		Use:   "compare",
		Short: "exact vs small-angle divergence",
		RunE:  compareModels,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [dim]",
		Short: "sweep one input dimension, collecting -omega2 at the vertical crossing",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.25, "sweep lower bound")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 10.0, "sweep upper bound")
	sweepCmd.Flags().IntVar(&sweepCount, "count", 40, "sweep grid size")
	sweepCmd.Flags().BoolVar(&parallel, "parallel", false, "run grid points concurrently")
	sweepCmd.Flags().BoolVar(&rawSign, "raw-sign", false, "report omega2 without the swing-back negation")
	sweepCmd.Flags().StringVar(&jsonPath, "json", "", "write sweep JSON")
	sweepCmd.Flags().StringVar(&csvPath, "csv", "", "write sweep CSV")
	sweepCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write sweep XLSX")

	envelopeCmd := &cobra.Command{
		Use:   "envelope",
		Short: "2-D sweep over both release angles with per-row extrema",
		RunE:  runEnvelope,
	}
	envelopeCmd.Flags().Float64Var(&sweepMin, "outer-min", 0.1, "phi1 lower bound")
	envelopeCmd.Flags().Float64Var(&sweepMax, "outer-max", 1.0, "phi1 upper bound")
	envelopeCmd.Flags().IntVar(&sweepCount, "outer-count", 10, "phi1 grid size")
	envelopeCmd.Flags().Float64Var(&innerMin, "inner-min", 0.1, "phi2 lower bound")
	envelopeCmd.Flags().Float64Var(&innerMax, "inner-max", 1.0, "phi2 upper bound")
	envelopeCmd.Flags().IntVar(&innerCount, "inner-count", 10, "phi2 grid size")
	envelopeCmd.Flags().BoolVar(&parallel, "parallel", false, "run outer rows concurrently")
	envelopeCmd.Flags().StringVar(&xlsxPath, "xlsx", "", "write grid + envelope XLSX")

	modesCmd := &cobra.Command{
		Use:   "modes",
		Short: "small-angle normal-mode frequencies",
		RunE:  printModes,
	}

	rootCmd.AddCommand(runCmd, compareCmd, sweepCmd, envelopeCmd, modesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadInputs resolves config file and flags into the integration inputs.
// Flag values act as the base; a config file overrides them wholesale.
func loadInputs() (dynamo.Params, dynamo.State, dynamo.TimeGrid, integrators.Options, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return dynamo.Params{}, nil, nil, integrators.Options{}, err
		}
		grid, err := cfg.TimeGrid()
		if err != nil {
			return dynamo.Params{}, nil, nil, integrators.Options{}, err
		}
		return cfg.Params(), cfg.InitState(), grid, cfg.IntegratorOptions(), nil
	}

	p := dynamo.Params{M1: m1, M2: m2, L1: l1, L2: l2, G: grav}
	if err := p.Validate(); err != nil {
		return dynamo.Params{}, nil, nil, integrators.Options{}, err
	}
	grid, err := dynamo.UniformGrid(tStart, tEnd, samples)
	if err != nil {
		return dynamo.Params{}, nil, nil, integrators.Options{}, err
	}
	opts := integrators.DefaultOptions()
	opts.AbsTol = absTol
	opts.RelTol = relTol
	return p, dynamo.NewState(phi1, omega1, phi2, omega2), grid, opts, nil
}

func buildSystem(p dynamo.Params) (dynamo.System, error) {
	switch model {
	case "exact":
		return physics.NewDoublePendulum(p), nil
	case "linear":
		return physics.NewSmallAngle(p), nil
	default:
		return nil, fmt.Errorf("unknown model: %s (want exact or linear)", model)
	}
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	p, x0, grid, opts, err := loadInputs()
	if err != nil {
		return err
	}
	sys, err := buildSystem(p)
	if err != nil {
		return err
	}

	traj, err := integrators.Integrate(context.Background(), sys, x0, grid, opts)
	if err != nil {
		return fmt.Errorf("integration failed: %w", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("double pendulum (%s), t in [%.3g, %.3g]", model, grid.Start(), grid.End())))
	fmt.Println()

	for _, series := range []struct {
		name string
		data []float64
	}{
		{"phi1 (rad)", traj.Phi1s()},
		{"phi2 (rad)", traj.Phi2s()},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	idx, obs, err := analysis.CrossingObservable(traj, p.L1, p.L2, true)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CROSSING INDEX\tCROSSING TIME\t-OMEGA2\tSAMPLES")
	fmt.Fprintf(w, "%d\t%.6f\t%.6f\t%d\n", idx, traj.Times[idx], obs, traj.Len())
	w.Flush()

	if hp, ok := sys.(dynamo.Hamiltonian); ok {
		e0 := hp.Energy(x0)
		eN := hp.Energy(traj.States[traj.Len()-1])
		fmt.Printf("energy drift: %.3g\n", math.Abs(eN-e0)/math.Abs(e0))
	}

	if jsonPath != "" {
		if err := store.ExportTrajectoryJSON(jsonPath, model, p, traj); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	if csvPath != "" {
		if err := store.ExportTrajectoryCSV(csvPath, traj); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}

	return nil
}

func compareModels(cmd *cobra.Command, args []string) error {
	p, x0, grid, opts, err := loadInputs()
	if err != nil {
		return err
	}

	exact, err := integrators.Integrate(context.Background(), physics.NewDoublePendulum(p), x0, grid, opts)
	if err != nil {
		return fmt.Errorf("exact integration failed: %w", err)
	}
	lin, err := integrators.Integrate(context.Background(), physics.NewSmallAngle(p), x0, grid, opts)
	if err != nil {
		return fmt.Errorf("linear integration failed: %w", err)
	}

	diffs := make([]float64, exact.Len())
	worst, worstAt := 0.0, 0
	for i := range diffs {
		diffs[i] = exact.States[i].Sub(lin.States[i]).Norm()
		if diffs[i] > worst {
			worst = diffs[i]
			worstAt = i
		}
	}

	fmt.Println(headerStyle.Render("exact vs small-angle"))
	fmt.Println()
	graph := asciigraph.Plot(diffs,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("state divergence (norm)"),
	)
	fmt.Println(graph)
	fmt.Printf("\nmax divergence %.6g at t=%.4f\n", worst, exact.Times[worstAt])

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	dim, err := analysis.ParseDimension(args[0])
	if err != nil {
		return err
	}
	p, x0, grid, opts, err := loadInputs()
	if err != nil {
		return err
	}

	spec := analysis.SweepSpec{
		Base:             p,
		Init:             x0,
		Grid:             grid,
		Opts:             opts,
		Dim:              dim,
		Values:           analysis.LinSpace(sweepMin, sweepMax, sweepCount),
		NegateObservable: !rawSign,
		Parallel:         parallel,
	}

	res, err := analysis.Sweep1D(context.Background(), spec)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("sweep %s over [%.4g, %.4g], %d points", dim, sweepMin, sweepMax, sweepCount)))
	fmt.Println()

	plottable := make([]float64, 0, len(res.Points))
	for _, pt := range res.Points {
		if pt.Err == nil {
			plottable = append(plottable, pt.Observable)
		}
	}
	if len(plottable) > 1 {
		graph := asciigraph.Plot(plottable,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("omega2 at crossing vs %s", dim)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	if n := res.Failed(); n > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("%d of %d grid points diverged", n, len(res.Points))))
		for _, pt := range res.Points {
			if pt.Err != nil {
				fmt.Printf("  %s=%.6g: %v\n", dim, pt.Value, pt.Err)
			}
		}
		fmt.Println()
	}

	if jsonPath != "" {
		if err := store.ExportSweepJSON(jsonPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}
	if csvPath != "" {
		if err := store.ExportSweepCSV(csvPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	if xlsxPath != "" {
		if err := store.ExportSweepXLSX(xlsxPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", xlsxPath)
	}

	return nil
}

func runEnvelope(cmd *cobra.Command, args []string) error {
	p, x0, grid, opts, err := loadInputs()
	if err != nil {
		return err
	}

	spec := analysis.Sweep2DSpec{
		Base:             p,
		Init:             x0,
		Grid:             grid,
		Opts:             opts,
		Outer:            analysis.LinSpace(sweepMin, sweepMax, sweepCount),
		Inner:            analysis.LinSpace(innerMin, innerMax, innerCount),
		NegateObservable: true,
		Parallel:         parallel,
	}

	res, err := analysis.Sweep2D(context.Background(), spec)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("envelope: phi1 x phi2, %dx%d grid", sweepCount, innerCount)))
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PHI1\tMAX\tAT PHI2\tMIN\tAT PHI2")
	for _, row := range res.Rows {
		if !row.Valid {
			fmt.Fprintf(w, "%.4f\t(all points diverged)\t\t\t\n", row.V1)
			continue
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			row.V1, row.Max, row.ArgMax, row.Min, row.ArgMin)
	}
	w.Flush()

	if xlsxPath != "" {
		if err := store.ExportSweep2DXLSX(xlsxPath, res); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", xlsxPath)
	}

	return nil
}

func printModes(cmd *cobra.Command, args []string) error {
	p, _, _, _, err := loadInputs()
	if err != nil {
		return err
	}

	modes, err := analysis.NormalModes(p)
	if err != nil {
		return err
	}
	periods := modes.Periods()

	fmt.Println(headerStyle.Render("small-angle normal modes"))
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODE\tOMEGA (rad/s)\tPERIOD (s)")
	fmt.Fprintf(w, "slow\t%.6f\t%.6f\n", modes.Omega[0], periods[0])
	fmt.Fprintf(w, "fast\t%.6f\t%.6f\n", modes.Omega[1], periods[1])
	return w.Flush()
}
