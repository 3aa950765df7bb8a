package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jseverin/hmclab/internal/config"
	"github.com/jseverin/hmclab/internal/diag"
	"github.com/jseverin/hmclab/internal/mcmc"
	"github.com/jseverin/hmclab/internal/sampler"
	"github.com/jseverin/hmclab/internal/storage"
	"github.com/jseverin/hmclab/internal/targets"
	"github.com/jseverin/hmclab/internal/viz"
)

var (
	dataDir       string
	samplerName   string
	stepSize      float64
	maxDepth      int
	targetAccept  float64
	nSteps        int
	nSamples      int
	nWarmup       int
	thin          int
	seed          int64
	chains        int
	configFile    string
	preset        string
	verbose       bool
	plotVar       string
	histogram     bool
	histogramBins int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hmclab",
		Short: "hamiltonian monte carlo sampling lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".hmclab", "data directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose logging")

	sampleCmd := &cobra.Command{
		Use:   "sample [target]",
		Short: "run a sampler against a target density",
		Args:  cobra.ExactArgs(1),
		RunE:  runSample,
	}
	addSamplingFlags(sampleCmd)
	sampleCmd.Flags().IntVar(&chains, "chains", 1, "number of parallel chains")
	sampleCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sampleCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotVar, "var", "", "plot only this column")
	plotCmd.Flags().BoolVar(&histogram, "hist", false, "plot histograms instead of series")
	plotCmd.Flags().IntVar(&histogramBins, "bins", 20, "histogram bins")

	summaryCmd := &cobra.Command{
		Use:   "summary [run_id]",
		Short: "summarize a stored trace",
		Args:  cobra.ExactArgs(1),
		RunE:  summarizeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [target]",
		Short: "benchmark sampling speed",
		Args:  cobra.ExactArgs(1),
		RunE:  benchTarget,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [target]",
		Short: "list available presets for a target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for target: %s\n", args[0])
				return nil
			}
			sort.Strings(presets)
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	targetsCmd := &cobra.Command{
		Use:   "targets",
		Short: "list available targets",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range targets.List() {
				fmt.Println(name)
			}
		},
	}

	liveCmd := &cobra.Command{
		Use:   "live [target]",
		Short: "run a chain with a live trace view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSamplingFlags(liveCmd)
	liveCmd.Flags().StringVar(&plotVar, "var", "x", "variable to watch")

	rootCmd.AddCommand(sampleCmd, listCmd, plotCmd, summaryCmd, exportCmd, benchCmd, presetsCmd, targetsCmd, liveCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSamplingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&samplerName, "sampler", "nuts", "sampler (nuts or hmc)")
	cmd.Flags().Float64Var(&stepSize, "step", config.DefaultStepSize, "initial leapfrog step size")
	cmd.Flags().IntVar(&maxDepth, "depth", config.DefaultMaxTreeDepth, "max tree depth (nuts)")
	cmd.Flags().Float64Var(&targetAccept, "accept", config.DefaultTargetAcceptance, "target acceptance (nuts)")
	cmd.Flags().IntVar(&nSteps, "nsteps", config.DefaultNSteps, "leapfrog steps (hmc)")
	cmd.Flags().IntVar(&nSamples, "samples", config.DefaultNSamples, "retained samples")
	cmd.Flags().IntVar(&nWarmup, "warmup", config.DefaultNWarmup, "warmup iterations")
	cmd.Flags().IntVar(&thin, "thin", config.DefaultThin, "thinning interval")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
}

// resolveConfig folds preset and config-file values into the flag variables;
// explicitly set flags win.
func resolveConfig(cmd *cobra.Command, target string) error {
	if preset != "" {
		cfg := config.GetPreset(target, preset)
		if cfg == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(target))
		}
		applyConfig(cmd, cfg)
	}

	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyConfig(cmd, cfg)
	}

	if thin < 1 {
		thin = 1
	}
	if chains < 1 {
		chains = 1
	}
	return nil
}

func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	if cfg.Sampler != "" && !cmd.Flags().Changed("sampler") {
		samplerName = cfg.Sampler
	}
	if cfg.StepSize > 0 && !cmd.Flags().Changed("step") {
		stepSize = cfg.StepSize
	}
	if cfg.MaxTreeDepth > 0 && !cmd.Flags().Changed("depth") {
		maxDepth = cfg.MaxTreeDepth
	}
	if cfg.TargetAcceptance > 0 && !cmd.Flags().Changed("accept") {
		targetAccept = cfg.TargetAcceptance
	}
	if cfg.NSteps > 0 && !cmd.Flags().Changed("nsteps") {
		nSteps = cfg.NSteps
	}
	if cfg.NSamples > 0 && !cmd.Flags().Changed("samples") {
		nSamples = cfg.NSamples
	}
	if cfg.NWarmup > 0 && !cmd.Flags().Changed("warmup") {
		nWarmup = cfg.NWarmup
	}
	if cfg.Thin > 0 && !cmd.Flags().Changed("thin") {
		thin = cfg.Thin
	}
	if cfg.Chains > 0 && cmd.Flags().Lookup("chains") != nil && !cmd.Flags().Changed("chains") {
		chains = cfg.Chains
	}
	if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
		seed = cfg.Seed
	}
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func buildDriver(target targets.Target, chainSeed int64, opts ...sampler.Option) (*sampler.Driver, error) {
	runCfg := sampler.Config{
		NSamples: nSamples,
		NWarmup:  nWarmup,
		Thin:     thin,
		Seed:     chainSeed,
	}

	switch samplerName {
	case "nuts":
		cfg := mcmc.NUTSConfig{
			StepSize:         stepSize,
			MaxTreeDepth:     maxDepth,
			TargetAcceptance: targetAccept,
			DeltaMax:         mcmc.DefaultDeltaMax,
		}
		return sampler.NewNUTS(target, target.Space(), cfg, runCfg, opts...)
	case "hmc":
		cfg := mcmc.HMCConfig{StepSize: stepSize, NSteps: nSteps}
		return sampler.NewHMC(target, target.Space(), cfg, runCfg, opts...)
	default:
		return nil, fmt.Errorf("unknown sampler: %s", samplerName)
	}
}

func runSample(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	if err := resolveConfig(cmd, targetName); err != nil {
		return err
	}

	target, err := targets.Get(targetName)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger := newLogger()
	defer logger.Sync()

	fmt.Printf("sampling %s with %s...\n", targetName, samplerName)
	start := time.Now()

	ens := sampler.NewChains(chains, seed, func(chainSeed int64) (*sampler.Driver, error) {
		return buildDriver(target, chainSeed, sampler.WithLogger(logger))
	})

	traces, err := ens.Run(context.Background(), target.DefaultInit())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)
	trace := traces[0]

	runID, err := st.Save(targetName, samplerName, seed, nWarmup, thin, trace)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d (x%d chains)\n", trace.NSamples, chains)
	fmt.Printf("final step size: %.6f\n", trace.FinalStepSize)
	fmt.Printf("acceptance rate: %.3f\n", trace.AcceptanceRate)
	if trace.Divergences > 0 {
		fmt.Printf("divergences: %d\n", trace.Divergences)
	}

	fmt.Println()
	printSummaries(trace)

	if chains > 1 {
		fmt.Println()
		for _, v := range trace.Space().Variables() {
			if v.Size != 1 {
				continue
			}
			series := make([][]float64, 0, len(traces))
			for _, tr := range traces {
				series = append(series, tr.Scalar(v.Name))
			}
			fmt.Printf("r_hat(%s): %.4f\n", v.Name, diag.SplitRHat(series))
		}
	}

	return nil
}

func printSummaries(trace *mcmc.Trace) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VAR\tMEAN\tSTD\tQ5\tMEDIAN\tQ95\tESS")

	for _, v := range trace.Space().Variables() {
		for i := 0; i < v.Size; i++ {
			series := make([]float64, trace.NSamples)
			for j, entry := range trace.Values[v.Name] {
				series[j] = entry[i]
			}
			s := diag.Summarize(series)
			name := v.Name
			if v.Size > 1 {
				name = fmt.Sprintf("%s[%d]", v.Name, i)
			}
			fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.0f\n",
				name, s.Mean, s.Std, s.Q5, s.Median, s.Q95, s.ESS)
		}
	}

	w.Flush()
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
	fmt.Fprintln(w, "ID\tTARGET\tSAMPLER\tTIME\tSAMPLES\tSTEP\tACCEPT\tDIV")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.4f\t%.3f\t%d\n",
			run.ID,
			run.Target,
			run.Sampler,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.NSamples,
			run.FinalStepSize,
			run.AcceptanceRate,
			run.Divergences,
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

	series, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("target: %s\n", meta.Target)
	fmt.Printf("samples: %d\n\n", meta.NSamples)

	names := make([]string, 0, len(series))
	for name := range series {
		if plotVar != "" && name != plotVar {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return fmt.Errorf("no matching columns to plot")
	}

	for _, name := range names {
		if histogram {
			fmt.Printf("%s\n%s\n", name, viz.Histogram(series[name], histogramBins, 50))
		} else {
			fmt.Println(viz.PlotSeries(name, series[name], 80, 10))
			fmt.Println()
		}
	}

	return nil
}

func summarizeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s (%s via %s)\n\n", meta.ID, meta.Target, meta.Sampler)

	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VAR\tMEAN\tSTD\tQ5\tMEDIAN\tQ95\tESS")
	for _, name := range names {
		s := diag.Summarize(series[name])
		fmt.Fprintf(w, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.0f\n",
			name, s.Mean, s.Std, s.Q5, s.Median, s.Q95, s.ESS)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func benchTarget(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	target, err := targets.Get(targetName)
	if err != nil {
		return err
	}

	steps := []float64{0.05, 0.1, 0.5}
	sampleCounts := []int{500, 2000}

	fmt.Printf("benchmarking %s\n\n", targetName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tSAMPLES\tTIME\tITERS/SEC\tACCEPT")

	for _, eps := range steps {
		for _, n := range sampleCounts {
			cfg := mcmc.NUTSConfig{
				StepSize:         eps,
				MaxTreeDepth:     config.DefaultMaxTreeDepth,
				TargetAcceptance: config.DefaultTargetAcceptance,
				DeltaMax:         mcmc.DefaultDeltaMax,
			}
			runCfg := sampler.Config{NSamples: n, NWarmup: n / 2, Thin: 1, Seed: 42}

			d, err := sampler.NewNUTS(target, target.Space(), cfg, runCfg)
			if err != nil {
				return err
			}

			start := time.Now()
			trace, err := d.Run(context.Background(), target.DefaultInit())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			iters := n + n/2
			fmt.Fprintf(w, "%.3f\t%d\t%v\t%.0f\t%.3f\n",
				eps, n, elapsed, float64(iters)/elapsed.Seconds(), trace.AcceptanceRate)
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	targetName := args[0]

	if err := resolveConfig(cmd, targetName); err != nil {
		return err
	}

	target, err := targets.Get(targetName)
	if err != nil {
		return err
	}

	obs, err := viz.NewChannelObserver(target.Space(), plotVar)
	if err != nil {
		return err
	}

	d, err := buildDriver(target, seed, sampler.WithObserver(obs))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer obs.Close()
		if _, err := d.Run(ctx, target.DefaultInit()); err != nil && err != context.Canceled {
			fmt.Fprintf(os.Stderr, "chain error: %v\n", err)
		}
	}()

	p := tea.NewProgram(viz.NewLiveModel(obs, plotVar))
	if _, err := p.Run(); err != nil {
		return err
	}
	cancel()

	return nil
}
