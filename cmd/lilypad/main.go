package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/bgoddard/lilypad/internal/circuit"
	"github.com/bgoddard/lilypad/internal/config"
	"github.com/bgoddard/lilypad/internal/export"
	"github.com/bgoddard/lilypad/internal/field"
	"github.com/bgoddard/lilypad/internal/geom"
	"github.com/bgoddard/lilypad/internal/inductance"
	"github.com/bgoddard/lilypad/internal/storage"
	"github.com/bgoddard/lilypad/internal/sweep"
	"github.com/bgoddard/lilypad/internal/tui"
)

var (
	dataDir   string
	gap       float64
	txRadius  float64
	points    int
	dl        float64
	frequency float64
	load      float64
	workers   int
	// Grid bounds
	radiusMin   float64
	radiusMax   float64
	radiusSteps int
	posMin      float64
	posMax      float64
	posSteps    int
	// Random search
	iters     int64
	keep      int
	seed      int64
	acceptMin float64
	acceptMax float64
	// Field probe
	coilRadius float64
	xMax       float64
	samples    int
	// Inductance
	radius2  float64
	distance float64
	// Coupling
	m21 float64
	m32 float64
	s22 float64
	// Export
	outFile string
	layout  bool
	// Config file
	configFile string
	preset     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lilypad",
		Short: "wireless power transfer coil placement lab",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lilypad", "data directory")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over lilypad radius and position",
		RunE:  runSweep,
	}
	addLayoutFlags(sweepCmd)
	addGridFlags(sweepCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "grid search with live progress view",
		RunE:  runLive,
	}
	addLayoutFlags(liveCmd)
	addGridFlags(liveCmd)

	randomCmd := &cobra.Command{
		Use:   "random",
		Short: "random search over lilypad radius and position",
		RunE:  runRandom,
	}
	addLayoutFlags(randomCmd)
	addGridFlags(randomCmd)
	randomCmd.Flags().Int64Var(&iters, "iters", 1000, "number of random draws")
	randomCmd.Flags().IntVar(&keep, "keep", 100, "saved samples per class")
	randomCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	randomCmd.Flags().Float64Var(&acceptMin, "accept-min", 0.5, "accept draws with vout above this")
	randomCmd.Flags().Float64Var(&acceptMax, "accept-max", 1.0, "accept draws with vout below this")

	fieldCmd := &cobra.Command{
		Use:   "field",
		Short: "plot on-axis field magnitude of a single loop",
		RunE:  runField,
	}
	fieldCmd.Flags().Float64Var(&coilRadius, "radius", 0.2, "loop radius")
	fieldCmd.Flags().IntVar(&points, "points", 500, "polyline points")
	fieldCmd.Flags().Float64Var(&dl, "dl", 0.1, "discretization length")
	fieldCmd.Flags().Float64Var(&xMax, "x-max", 2.0, "probe distance along the axis")
	fieldCmd.Flags().IntVar(&samples, "samples", 80, "probe points")

	inductanceCmd := &cobra.Command{
		Use:   "inductance [self|mutual]",
		Short: "compute coil inductance",
		Args:  cobra.ExactArgs(1),
		RunE:  runInductance,
	}
	inductanceCmd.Flags().Float64Var(&coilRadius, "radius", 0.2, "source loop radius")
	inductanceCmd.Flags().Float64Var(&radius2, "radius2", 0.4, "target loop radius (mutual)")
	inductanceCmd.Flags().Float64Var(&distance, "distance", 0.5, "loop separation along x (mutual)")
	inductanceCmd.Flags().IntVar(&points, "points", 500, "polyline points")
	inductanceCmd.Flags().Float64Var(&dl, "dl", 0.1, "discretization length")

	coupleCmd := &cobra.Command{
		Use:   "couple",
		Short: "evaluate the four-coil link from known inductances",
		RunE:  runCouple,
	}
	coupleCmd.Flags().Float64Var(&m21, "m21", 0, "Tx to lilypad mutual inductance (H)")
	coupleCmd.Flags().Float64Var(&m32, "m32", 0, "lilypad to lilypad mutual inductance (H)")
	coupleCmd.Flags().Float64Var(&s22, "s22", 0, "lilypad self inductance (H)")
	coupleCmd.Flags().Float64Var(&frequency, "freq", circuit.DefaultFrequency, "drive frequency (Hz)")
	coupleCmd.Flags().Float64Var(&load, "load", circuit.DefaultLoad, "load resistance (ohms)")
	coupleCmd.MarkFlagRequired("m21")
	coupleCmd.MarkFlagRequired("m32")
	coupleCmd.MarkFlagRequired("s22")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot output voltage against lilypad position",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outFile, "out", "", "output file (default stdout)")

	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx [run_id]",
		Short: "export run data to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  exportXLSX,
	}
	exportXLSXCmd.Flags().StringVar(&outFile, "out", "", "output file (default <run_id>.xlsx)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the voltage curve or coil layout as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outFile, "out", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().BoolVar(&layout, "layout", false, "draw the best arrangement instead of the curve")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list sweep presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGRID\tPOINTS\tDL")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%dx%d\t%d\t%.3f\n",
					name, cfg.Radius.Steps, cfg.Position.Steps, cfg.Points, cfg.DL)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time single-cell evaluation across resolutions",
		RunE:  benchCell,
	}

	rootCmd.AddCommand(sweepCmd, liveCmd, randomCmd, fieldCmd, inductanceCmd,
		coupleCmd, listCmd, plotCmd, exportJSONCmd, exportXLSXCmd, exportSVGCmd,
		presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLayoutFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&gap, "gap", config.DefaultGap, "Tx-Rx separation (m)")
	cmd.Flags().Float64Var(&txRadius, "tx-radius", config.DefaultTxRadius, "Tx/Rx loop radius (m)")
	cmd.Flags().IntVar(&points, "points", config.DefaultPoints, "polyline points per coil")
	cmd.Flags().Float64Var(&dl, "dl", config.DefaultDL, "wire discretization length (m)")
	cmd.Flags().Float64Var(&frequency, "freq", config.DefaultFrequency, "drive frequency (Hz)")
	cmd.Flags().Float64Var(&load, "load", config.DefaultLoad, "load resistance (ohms)")
	cmd.Flags().IntVar(&workers, "workers", 4, "concurrent grid cells")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addGridFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&radiusMin, "radius-min", 0.2167, "smallest lilypad radius")
	cmd.Flags().Float64Var(&radiusMax, "radius-max", 0.55, "largest lilypad radius")
	cmd.Flags().IntVar(&radiusSteps, "radius-steps", 7, "radius grid size")
	cmd.Flags().Float64Var(&posMin, "pos-min", 0.05, "closest lilypad position")
	cmd.Flags().Float64Var(&posMax, "pos-max", 0.975, "farthest lilypad position")
	cmd.Flags().IntVar(&posSteps, "pos-steps", 19, "position grid size")
}

// buildConfig resolves precedence: defaults, then preset, then config
// file, then explicitly set flags.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("gap") {
		cfg.Gap = gap
	}
	if flags.Changed("tx-radius") {
		cfg.TxRadius = txRadius
	}
	if flags.Changed("points") {
		cfg.Points = points
	}
	if flags.Changed("dl") {
		cfg.DL = dl
	}
	if flags.Changed("freq") {
		cfg.Frequency = frequency
	}
	if flags.Changed("load") {
		cfg.Load = load
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("radius-min") {
		cfg.Radius.Min = radiusMin
	}
	if flags.Changed("radius-max") {
		cfg.Radius.Max = radiusMax
	}
	if flags.Changed("radius-steps") {
		cfg.Radius.Steps = radiusSteps
	}
	if flags.Changed("pos-min") {
		cfg.Position.Min = posMin
	}
	if flags.Changed("pos-max") {
		cfg.Position.Max = posMax
	}
	if flags.Changed("pos-steps") {
		cfg.Position.Steps = posSteps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func sweepFromConfig(cfg *config.Config) (*sweep.Sweep, error) {
	lay := sweep.Layout{
		Gap:      cfg.Gap,
		TxRadius: cfg.TxRadius,
		Points:   cfg.Points,
		DL:       cfg.DL,
	}
	link := &circuit.Link{
		Frequency: cfg.Frequency,
		Load:      cfg.Load,
		TxSelf:    circuit.DefaultTxSelf,
	}
	radii := geom.Linspace(cfg.Radius.Min, cfg.Radius.Max, cfg.Radius.Steps)
	positions := geom.Linspace(cfg.Position.Min, cfg.Position.Max, cfg.Position.Steps)

	s, err := sweep.New(lay, link, radii, positions)
	if err != nil {
		return nil, err
	}
	s.Workers = cfg.Workers
	return s, nil
}

func saveRun(cfg *config.Config, kind string, rows []sweep.Row) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}

	best, _ := sweep.Best(rows)
	meta := storage.RunMetadata{
		Kind:      kind,
		Timestamp: time.Now(),
		Gap:       cfg.Gap,
		TxRadius:  cfg.TxRadius,
		Points:    cfg.Points,
		DL:        cfg.DL,
		Frequency: cfg.Frequency,
		Load:      cfg.Load,
		Rows:      len(rows),
		Best:      best,
	}
	return st.Save(meta, rows)
}

func printBest(rows []sweep.Row) {
	best, ok := sweep.Best(rows)
	if !ok {
		fmt.Println("no results")
		return
	}
	fmt.Println("\nbest arrangement:")
	fmt.Printf("  position: %.4f / %.4f m\n", best.Pos2, best.Pos3)
	fmt.Printf("  radius:   %.4f m\n", best.Radius)
	fmt.Printf("  k21:      %.4f\n", best.K21)
	fmt.Printf("  k32:      %.4f\n", best.K32)
	fmt.Printf("  vout:     %.5f V\n", best.Vout)
	fmt.Printf("  power:    %.5f W\n", best.Power)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sweepFromConfig(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %d arrangements (%d radii x %d positions)...\n",
		s.Size(), len(s.Radii), len(s.Positions))
	start := time.Now()

	rows, err := s.Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))

	runID, err := saveRun(cfg, "grid", rows)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	printBest(rows)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	s, err := sweepFromConfig(cfg)
	if err != nil {
		return err
	}

	rows, err := tui.RunSweep(context.Background(), s)
	if err != nil && len(rows) == 0 {
		return err
	}

	runID, err := saveRun(cfg, "grid", rows)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	printBest(rows)
	return nil
}

func runRandom(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	lay := sweep.Layout{Gap: cfg.Gap, TxRadius: cfg.TxRadius, Points: cfg.Points, DL: cfg.DL}
	link := &circuit.Link{Frequency: cfg.Frequency, Load: cfg.Load, TxSelf: circuit.DefaultTxSelf}

	search := &sweep.RandomSearch{
		Params: []sweep.ParamSpec{
			{Name: "radius", Min: cfg.Radius.Min, Max: cfg.Radius.Max, Scale: sweep.ScaleLinear},
			{Name: "pos", Min: cfg.Position.Min, Max: cfg.Position.Max, Scale: sweep.ScaleLinear},
		},
		Accept:   sweep.Range{Min: acceptMin, Max: acceptMax},
		MaxIters: iters,
		MaxKeep:  keep,
		Seed:     seed,
	}

	var rows []sweep.Row
	objective := func(params map[string]float64) (float64, error) {
		s, err := sweep.New(lay, link, []float64{params["radius"]}, []float64{params["pos"]})
		if err != nil {
			return 0, err
		}
		out, err := s.Run(context.Background())
		if err != nil {
			return 0, err
		}
		rows = append(rows, out[0])
		return out[0].Vout, nil
	}

	fmt.Printf("random search: %d draws, accept vout in [%.3f, %.3f]\n", iters, acceptMin, acceptMax)
	start := time.Now()

	result, err := search.Run(context.Background(), objective)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("accepted: %d/%d (%.1f%%)\n", result.OKHits, result.Iters, 100*result.OKRatio())

	if result.Best.Values != nil {
		fmt.Println("\nbest draw:")
		fmt.Printf("  radius: %.4f m\n", result.Best.Values["radius"])
		fmt.Printf("  pos:    %.4f m\n", result.Best.Values["pos"])
		fmt.Printf("  vout:   %.5f V\n", result.Best.Objective)
	}

	runID, err := saveRun(cfg, "random", rows)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runField(cmd *cobra.Command, args []string) error {
	coil, err := geom.NewCoil(geom.Vec3{}, coilRadius, points, geom.PlaneYZ)
	if err != nil {
		return err
	}
	coil.Current = 1

	probes := make([]geom.Vec3, samples)
	xs := geom.Linspace(0, xMax, samples)
	for i, x := range xs {
		probes[i] = geom.Vec3{X: x}
	}

	solver := field.NewSolver()
	bs, err := solver.Solve(context.Background(), coil, probes, dl)
	if err != nil {
		return err
	}

	data := make([]float64, len(bs))
	for i, b := range bs {
		data[i] = b.Norm() * 1e6 // microtesla reads better on the axis
	}

	fmt.Printf("loop radius %.3f m, 1 A, on-axis field\n\n", coilRadius)
	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("|B| (uT) over x in [0, %.2f] m", xMax)),
	)
	fmt.Println(graph)
	return nil
}

func runInductance(cmd *cobra.Command, args []string) error {
	solver := field.NewSolver()
	ctx := context.Background()

	src, err := geom.NewCoil(geom.Vec3{}, coilRadius, points, geom.PlaneYZ)
	if err != nil {
		return err
	}
	src.Current = 1

	switch args[0] {
	case "self":
		l, err := inductance.Self(ctx, solver, src, dl)
		if err != nil {
			return err
		}
		fmt.Printf("L = %.6e H\n", l)
	case "mutual":
		tgt, err := geom.NewCoil(geom.Vec3{X: distance}, radius2, points, geom.PlaneYZ)
		if err != nil {
			return err
		}
		m, err := inductance.Mutual(ctx, solver, src, tgt, dl)
		if err != nil {
			return err
		}
		fmt.Printf("M = %.6e H\n", m)
	default:
		return fmt.Errorf("unknown mode: %s (want self or mutual)", args[0])
	}
	return nil
}

func runCouple(cmd *cobra.Command, args []string) error {
	link := &circuit.Link{Frequency: frequency, Load: load, TxSelf: circuit.DefaultTxSelf}

	c, err := link.Evaluate(m21, m32, s22)
	if err != nil {
		return err
	}

	fmt.Printf("k21:   %.4f\n", c.K21)
	fmt.Printf("k32:   %.4f\n", c.K32)
	fmt.Printf("vout:  %.5f V\n", c.Vout)
	fmt.Printf("power: %.5f W\n", c.Power)
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
	fmt.Fprintln(w, "ID\tKIND\tTIME\tROWS\tBEST VOUT\tBEST RADIUS\tBEST POS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.5f\t%.4f\t%.4f\n",
			run.ID,
			run.Kind,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Best.Vout,
			run.Best.Radius,
			run.Best.Pos2,
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

	rows, err := st.LoadRows(args[0])
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	curve := export.VoutCurve(rows)
	data := make([]float64, len(curve))
	for i, p := range curve {
		data[i] = p.Y
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("arrangements: %d\n\n", len(rows))

	graph := asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("best vout over position in [%.3f, %.3f] m",
			curve[0].X, curve[len(curve)-1].X)),
	)
	fmt.Println(graph)

	printBest(rows)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	if outFile == "" {
		return export.WriteJSON(os.Stdout, *meta, rows)
	}
	if err := export.JSONToFile(outFile, *meta, rows); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", outFile)
	return nil
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	path := outFile
	if path == "" {
		path = args[0] + ".xlsx"
	}
	if err := export.XLSXToFile(path, *meta, rows); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, rows, err := loadRun(args[0])
	if err != nil {
		return err
	}

	var svg string
	if layout {
		svg = export.LayoutSVG(meta.Gap, meta.TxRadius, meta.Best, 800, 300)
	} else {
		svg = export.CurveSVG(export.VoutCurve(rows), 800, 400, "#00ff00")
		if svg == "" {
			return fmt.Errorf("not enough data for a curve")
		}
	}

	path := outFile
	if path == "" {
		path = args[0] + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func benchCell(cmd *cobra.Command, args []string) error {
	pointCounts := []int{100, 250, 500}
	dls := []float64{0.05, 0.1, 0.2}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "POINTS\tDL\tVOUT\tTIME")

	for _, n := range pointCounts {
		for _, d := range dls {
			lay := sweep.Layout{Gap: 2.0, TxRadius: 0.2, Points: n, DL: d}
			s, err := sweep.New(lay, nil, []float64{0.4}, []float64{0.5})
			if err != nil {
				return err
			}

			start := time.Now()
			rows, err := s.Run(context.Background())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%.3f\t%.5f\t%v\n", n, d, rows[0].Vout, elapsed)
		}
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []sweep.Row, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := st.LoadRows(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, rows, nil
}
