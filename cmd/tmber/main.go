// Package main provides the tmber command-line tool.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	debug      bool
	info       bool
	cpus       int
	destDir    string
	cpuProfile bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var profiler interface{ Stop() }

	root := &cobra.Command{
		Use:     "tmber",
		Short:   "Tumor mutational burden analyzer",
		Long:    "tmber counts mutation classes over genomic region sets and reports mutations per megabase.",
		Version: fmt.Sprintf("%s (%s) built %s", version, commit, date),
		Example: `  # Derive target regions from a genome FASTA
  tmber bed --human-autosome GRCh38.fa.gz

  # Calculate TMB for two capture panels
  tmber tmb --bed exome.bed --bed panel.bed sample1.vcf.gz sample2.vcf.gz`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.cpuProfile {
				profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(opts.dest()))
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if profiler != nil {
				profiler.Stop()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVar(&opts.debug, "debug", false, "Log debug messages")
	pf.BoolVar(&opts.info, "info", false, "Log info messages")
	pf.IntVar(&opts.cpus, "cpus", 0, "Limit CPU cores to use (default: all)")
	pf.StringVar(&opts.destDir, "dest-dir", ".", "Directory for output files")
	pf.BoolVar(&opts.cpuProfile, "cpu-profile", false, "Write a CPU profile to the destination directory")
	viper.BindPFlag("cpus", pf.Lookup("cpus"))
	viper.BindPFlag("dest_dir", pf.Lookup("dest-dir"))

	cobra.OnInitialize(initConfig)

	root.AddCommand(newBedCmd(opts))
	root.AddCommand(newTmbCmd(opts))
	root.AddCommand(newConfigCmd())

	return root
}

// initConfig loads ~/.tmber.yaml and TMBER_* environment variables.
func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".tmber")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("TMBER")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig() // missing config file is fine
}

// logger builds a console logger at the level selected by --debug/--info
// (default: warnings only).
func (o *globalOptions) logger() *zap.Logger {
	lvl := zapcore.WarnLevel
	switch {
	case o.debug:
		lvl = zapcore.DebugLevel
	case o.info:
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// workers returns the effective parallelism limit.
func (o *globalOptions) workers() int {
	if n := viper.GetInt("cpus"); n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// dest returns the effective output directory.
func (o *globalOptions) dest() string {
	if d := viper.GetString("dest_dir"); d != "" {
		return d
	}
	return "."
}

// printParams echoes the effective run parameters as YAML before a run
// starts.
func printParams(params []map[string]any) {
	out, err := yaml.Marshal(params)
	if err != nil {
		return
	}
	fmt.Print(string(out))
}

// printLog writes a user-facing progress line.
func printLog(format string, args ...any) {
	fmt.Printf(">>\t"+format+"\n", args...)
}
