package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dceoy/tmber/internal/fasta"
	"github.com/dceoy/tmber/internal/output"
	"github.com/dceoy/tmber/internal/textio"
)

type bedOptions struct {
	humanAutosome bool
	targetLetters string
}

func newBedCmd(g *globalOptions) *cobra.Command {
	opts := &bedOptions{}

	cmd := &cobra.Command{
		Use:   "bed <fa_path>",
		Short: "Identify regions consisting of target letters in a genome FASTA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBed(g, opts, args[0])
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.humanAutosome, "human-autosome", false, "Extract only human autosomes (chr1-22)")
	f.StringVar(&opts.targetLetters, "target-letters", "ACGT", "Nucleic acid codes to include (case-sensitive)")

	return cmd
}

func runBed(g *globalOptions, opts *bedOptions, faPath string) error {
	logger := g.logger()
	defer logger.Sync()

	workers := g.workers()
	printParams([]map[string]any{
		{"cpus": workers},
		{"fa": faPath},
		{"target_letters": opts.targetLetters},
	})

	bgzip, _ := textio.FetchExecutable("bgzip")

	scanner := fasta.NewScanner(opts.targetLetters)
	scanner.HumanAutosome = opts.humanAutosome
	scanner.Workers = workers
	scanner.SetLogger(logger)

	intervals, err := scanner.ScanFile(faPath, textio.Options{Bgzip: bgzip, Procs: workers})
	if err != nil {
		return err
	}
	logger.Info("identified target regions", zap.Int("intervals", len(intervals)))

	destDir := g.dest()
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create destination directory: %w", err)
	}
	bedPath := filepath.Join(destDir, fastaStem(faPath)+".bed")

	f, err := os.Create(bedPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", bedPath, err)
	}
	defer f.Close()

	w := output.NewBEDWriter(f)
	for _, iv := range intervals {
		if err := w.Write(iv); err != nil {
			return fmt.Errorf("write %s: %w", bedPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write %s: %w", bedPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", bedPath, err)
	}

	printLog("Write a BED file: %s", bedPath)
	return nil
}

// fastaStem strips compression and FASTA extensions from a file name.
func fastaStem(path string) string {
	name := filepath.Base(path)
	for _, ext := range []string{".gz", ".bgz", ".bz2", ".fa", ".fasta", ".fna"} {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}
