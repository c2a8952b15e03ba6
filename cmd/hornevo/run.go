package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
	"k8s.io/utils/ptr"

	"github.com/genetis-rhino/hornevo/apis/config/v1alpha1"
	"github.com/genetis-rhino/hornevo/apis/config/validation"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/analysis"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/fitness"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/framework"
	"github.com/genetis-rhino/hornevo/pkg/multiobjective/storage"
)

const plotFile = "best_individuals.html"

type runOptions struct {
	configPath  string
	seed        uint64
	generations int
	outputDir   string
	sqlitePath  string
	plot        bool
}

func (o *runOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.configPath, "config", "", "path to the run configuration (YAML or JSON)")
	fs.Uint64Var(&o.seed, "seed", 0, "override randomSeed")
	fs.IntVar(&o.generations, "generations", 0, "override numGenerations")
	fs.StringVar(&o.outputDir, "output-dir", "", "override output.directory")
	fs.StringVar(&o.sqlitePath, "sqlite", "", "override output.sqlitePath")
	fs.BoolVar(&o.plot, "plot", false, "override output.plot")
}

// apply copies the flags the user set onto cfg.
func (o *runOptions) apply(fs *pflag.FlagSet, cfg *v1alpha1.RunConfiguration) {
	if fs.Changed("seed") {
		cfg.RandomSeed = ptr.To(o.seed)
	}
	if fs.Changed("generations") {
		cfg.NumGenerations = o.generations
	}
	if fs.Changed("output-dir") {
		cfg.Output.Directory = o.outputDir
	}
	if fs.Changed("sqlite") {
		cfg.Output.SQLitePath = o.sqlitePath
	}
	if fs.Changed("plot") {
		cfg.Output.Plot = o.plot
	}
}

func newRunCommand() *cobra.Command {
	o := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run an evolution",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := v1alpha1.LoadFile(o.configPath)
			if err != nil {
				return err
			}
			o.apply(cmd.Flags(), cfg)
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	o.addFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("config")
	return cmd
}

func run(ctx context.Context, cfg *v1alpha1.RunConfiguration, out io.Writer) error {
	logger := klog.FromContext(ctx)
	start := time.Now()

	if err := validation.ValidateRunConfiguration(cfg, fitness.Names); err != nil {
		return err
	}

	record := storage.NewRunRecord(*cfg.RandomSeed, cfg.FitnessFunction, cfg.PopulationSize, cfg.NumGenerations)
	var opts []multiobjective.Option

	if dir := cfg.Output.Directory; dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		opts = append(opts, multiobjective.WithObserver(
			analysis.NewWriter(dir, cfg.Output.BestIndividualsFile, cfg.Output.FitnessFile)))
	}

	if cfg.Output.SQLitePath != "" {
		store := storage.NewSQLiteStore(cfg.Output.SQLitePath)
		if err := store.Init(ctx); err != nil {
			return fmt.Errorf("open %s: %w", cfg.Output.SQLitePath, err)
		}
		defer store.Close()
		opts = append(opts, multiobjective.WithStore(store, record))
	}

	manager, err := multiobjective.NewManager(ctx, cfg, opts...)
	if err != nil {
		return err
	}
	logger.Info("Starting run", "runID", record.ID, "seed", *cfg.RandomSeed, "populationSize", cfg.PopulationSize, "generations", cfg.NumGenerations)

	if err := manager.Run(ctx); err != nil {
		return err
	}

	best, err := analysis.BestIndividuals(manager.Population())
	if err != nil {
		return err
	}
	if cfg.Output.Plot {
		if err := plot(ctx, cfg, manager, best); err != nil {
			return err
		}
	}

	elapsed := time.Since(start)
	evaluations := manager.Evaluations()
	fmt.Fprintf(out, "run %s: %s generations, %s individuals evaluated in %s (%s)\n",
		record.ID,
		humanize.Comma(int64(cfg.NumGenerations)),
		humanize.Comma(evaluations),
		elapsed.Round(time.Millisecond),
		humanize.SIWithDigits(float64(evaluations)/elapsed.Seconds(), 1, "evals/s"))
	if hits, misses, ok := manager.CacheStats(); ok {
		fmt.Fprintf(out, "fitness cache: %s hits, %s misses\n", humanize.Comma(int64(hits)), humanize.Comma(int64(misses)))
	}
	fmt.Fprintf(out, "pareto front: %d individuals\n", len(best))
	return nil
}

func plot(ctx context.Context, cfg *v1alpha1.RunConfiguration, manager *multiobjective.Manager, best []*framework.Individual) error {
	logger := klog.FromContext(ctx)

	axes := cfg.Output.PlotObjectives
	if len(axes) == 0 {
		axes = best[0].Scores.Names()
	}
	if len(axes) < 2 {
		logger.Info("Skipping plot, fewer than two objectives", "objectives", axes)
		return nil
	}

	dir := cfg.Output.Directory
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, plotFile)
	title := fmt.Sprintf("%s on %s", manager.Algorithm().Name(), manager.Problem().Evaluator().Name())
	if err := analysis.PlotFront(path, title, axes[0], axes[1], best, manager.Problem().TrueParetoFront(100)); err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	logger.V(2).Info("Wrote plot", "path", path)
	return nil
}
