package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dceoy/tmber/internal/bed"
	"github.com/dceoy/tmber/internal/duckdb"
	"github.com/dceoy/tmber/internal/output"
	"github.com/dceoy/tmber/internal/tally"
	"github.com/dceoy/tmber/internal/textio"
	"github.com/dceoy/tmber/internal/vcf"
)

const (
	rawTSVName = "tmb.raw.tsv"
	tmbTSVName = "tmb.tsv"
)

type tmbOptions struct {
	beds            []string
	includeFiltered bool
	sample          string
	minAF           float64
	maxAF           float64
	duckdbPath      string
}

func newTmbCmd(g *globalOptions) *cobra.Command {
	opts := &tmbOptions{}

	cmd := &cobra.Command{
		Use:   "tmb --bed <bed_path> [--bed <bed_path>...] <vcf_path>...",
		Short: "Calculate variant counts on region sets and mutations per megabase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			afWindowed := cmd.Flags().Changed("min-af") || cmd.Flags().Changed("max-af")
			if afWindowed && opts.sample == "" {
				return fmt.Errorf("an allele-frequency window requires --sample")
			}
			return runTmb(g, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.beds, "bed", nil, "BED file defining a region set (repeatable)")
	f.BoolVar(&opts.includeFiltered, "include-filtered", false, "Include variants whose FILTER is neither PASS nor '.'")
	f.StringVar(&opts.sample, "sample", "", "Sample column used for allele-frequency filtering")
	f.Float64Var(&opts.minAF, "min-af", 0, "Minimum allele frequency (requires --sample)")
	f.Float64Var(&opts.maxAF, "max-af", 1, "Maximum allele frequency (requires --sample)")
	f.StringVar(&opts.duckdbPath, "duckdb", "", "Also write results into a DuckDB database at this path")
	cmd.MarkFlagRequired("bed")

	return cmd
}

func runTmb(g *globalOptions, opts *tmbOptions, vcfPaths []string) error {
	logger := g.logger()
	defer logger.Sync()

	workers := g.workers()
	printParams([]map[string]any{
		{"cpus": workers},
		{"bed": opts.beds},
		{"vcf": vcfPaths},
	})

	// bgzip is optional; without it the in-process gzip decoder is used.
	bgzip, _ := textio.FetchExecutable("bgzip")
	open := textio.Options{Bgzip: bgzip, Procs: workers}

	sets := make([]*bed.Set, 0, len(opts.beds))
	for _, path := range opts.beds {
		set, err := bed.LoadSet(path, open)
		if err != nil {
			return err
		}
		logger.Info("loaded region set",
			zap.String("bed", set.Name),
			zap.Int("intervals", len(set.Intervals)),
			zap.Int64("size", set.Size))
		sets = append(sets, set)
	}

	filter := vcf.FilterOptions{
		ExcludeFiltered: !opts.includeFiltered,
		Sample:          opts.sample,
		MinAF:           opts.minAF,
		MaxAF:           opts.maxAF,
	}
	variants, err := vcf.LoadAll(vcfPaths, open, filter)
	if err != nil {
		return err
	}
	logger.Info("pooled variants", zap.Int("count", len(variants)))

	engine := tally.NewEngine(workers)
	engine.SetLogger(logger)
	results, err := engine.Run(variants, sets)
	if err != nil {
		return err
	}
	rows := tally.Aggregate(results)

	// The computation is complete; only now touch the filesystem.
	destDir := g.dest()
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	rawPath := filepath.Join(destDir, rawTSVName)
	if err := writeCounts(rawPath, results); err != nil {
		return err
	}
	printLog("Write a TSV file: %s", rawPath)

	tmbPath := filepath.Join(destDir, tmbTSVName)
	if err := writeRows(tmbPath, rows); err != nil {
		return err
	}
	printLog("Write a TSV file: %s", tmbPath)

	if opts.duckdbPath != "" {
		if err := writeDuckDB(opts.duckdbPath, results, rows); err != nil {
			return err
		}
		printLog("Write a DuckDB database: %s", opts.duckdbPath)
	}

	return nil
}

func writeCounts(path string, results []tally.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := output.NewCountWriter(f)
	for _, res := range results {
		for _, c := range res.Counts {
			if err := w.Write(c); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeRows(path string, rows []tally.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := output.NewTMBWriter(f)
	for _, r := range rows {
		if err := w.Write(r); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeDuckDB(path string, results []tally.Result, rows []tally.Row) error {
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	var counts []tally.Count
	for _, res := range results {
		counts = append(counts, res.Counts...)
	}
	if err := store.WriteCounts(counts); err != nil {
		return err
	}
	if err := store.WriteRows(rows); err != nil {
		return err
	}
	return store.Close()
}
