package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/bayesnet/internal/cli"
	"github.com/aretw0/bayesnet/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "bayesnet",
	Short: "bayesnet answers probabilistic queries over Bayesian networks",
	Long: `bayesnet estimates P(query | evidence) on discrete Bayesian networks by sampling:
prior sampling, rejection sampling, likelihood weighting and Gibbs sampling.

The built-in networks are listed by 'bayesnet networks'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
}

// loadConfig reads --config and applies every sampling or cache flag the
// command defines and the user set explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if f := flags.Lookup("algorithm"); f != nil && f.Changed {
		cfg.Algorithm = f.Value.String()
	}
	if flags.Lookup("samples") != nil && flags.Changed("samples") {
		cfg.Samples, _ = flags.GetInt("samples")
	}
	if flags.Lookup("seed") != nil && flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Lookup("burn-in") != nil && flags.Changed("burn-in") {
		cfg.BurnIn, _ = flags.GetInt("burn-in")
	}
	if flags.Lookup("cache") != nil && flags.Changed("cache") {
		cfg.Cache.Backend, _ = flags.GetString("cache")
	}
	if flags.Lookup("redis-addr") != nil && flags.Changed("redis-addr") {
		cfg.Cache.Redis.Addr, _ = flags.GetString("redis-addr")
	}
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.HTTP.Port, _ = flags.GetInt("port")
	}
	return cfg, cfg.Validate()
}

// setup loads the configuration and builds the logger every command shares.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return cfg, nil, err
	}
	logger, err := cli.NewLogger(cfg.LogLevel)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, logger, nil
}

// addSamplingFlags registers the flags that shape a sampling run.
func addSamplingFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("algorithm", "a", "", "prior, rejection, likelihood or gibbs (overrides config)")
	cmd.Flags().IntP("samples", "n", 0, "Number of samples (overrides config)")
	cmd.Flags().Uint64("seed", 0, "Random seed (overrides config)")
	cmd.Flags().Int("workers", 0, "Parallel sampling workers (overrides config)")
	cmd.Flags().Int("burn-in", 0, "Gibbs steps discarded before counting (overrides config)")
	cmd.Flags().String("cache", "", "Result cache: memory, redis or none (overrides config)")
	cmd.Flags().String("redis-addr", "", "Redis address when --cache=redis (overrides config)")
}

// outputFormat resolves --output, with --json as a shorthand.
func outputFormat(cmd *cobra.Command) (cli.Format, error) {
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		return cli.FormatJSON, nil
	}
	out, _ := cmd.Flags().GetString("output")
	return cli.ParseFormat(out)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "text", "Output format: text, markdown or json")
	cmd.Flags().Bool("json", false, "Shorthand for --output json")
}
