// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ideation-engine CLI.
//
// Two pipelines are exposed: synthesize turns two papers into a proposed
// method, and sota ranks the state-of-the-art papers for a topic. serve
// puts both behind an HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/ideation-engine/internal/generate"
	"github.com/pdiddy/ideation-engine/internal/logging"
	"github.com/pdiddy/ideation-engine/internal/metrics"
	"github.com/pdiddy/ideation-engine/internal/secrets"
	"github.com/pdiddy/ideation-engine/internal/telemetry"
	"github.com/pdiddy/ideation-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// secretsDir holds one file per API key.
const secretsDir = ".secrets/"

// Process state built by setup and released by teardown.
var (
	cfg     types.Config
	log     *logrus.Logger
	closers []func(context.Context) error
)

// rootCmd is the base command for the ideation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "ideation-engine",
	Short: "Research ideation from papers and topics",
	Long: `ideation-engine reads two research papers, finds their weaknesses and
proposes a new method that addresses them, or ranks the state-of-the-art
papers for a research topic by relevance, citations and recency.

Configuration comes from ideation-engine.yaml (in . or
~/.config/ideation-engine/), IDEATION_ENGINE_* environment variables and
flags. API keys may also be placed in files under .secrets/.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ideation-engine.yaml or ~/.config/ideation-engine/ideation-engine.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("provider", "", "generation provider: groq, openai, anthropic, eino")
	pf.String("model", "", "generation model identifier")
	pf.String("backend", "", "text extraction backend: auto or markitdown")

	mustBind("log.level", pf.Lookup("log-level"))
	mustBind("ai.provider", pf.Lookup("provider"))
	mustBind("ai.model", pf.Lookup("model"))
	mustBind("converter.backend", pf.Lookup("backend"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", string(types.ProviderGroq))
	v.SetDefault("ai.timeout", 120*time.Second)
	v.SetDefault("search.sources", []string{string(types.SourceArxiv)})
	v.SetDefault("search.user_agent", "ideation-engine/"+version)
	v.SetDefault("search.timeout", 30*time.Second)
	v.SetDefault("search.inter_backend_delay", time.Second)
	v.SetDefault("metrics.user_agent", "ideation-engine/"+version)
	v.SetDefault("metrics.timeout", 10*time.Second)
	v.SetDefault("metrics.request_delay", metrics.DefaultRequestDelay)
	v.SetDefault("metrics.cache_ttl", 7*24*time.Hour)
	v.SetDefault("sota.top_k", 2)
	v.SetDefault("sota.max_results", 20)
	v.SetDefault("sota.include_metrics", true)
	v.SetDefault("converter.backend", string(types.BackendAuto))
	v.SetDefault("converter.image", "markitdown:latest")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "ideation-engine")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_bytes", 50<<20)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("ideation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "ideation-engine"))
		}
	}

	viper.SetEnvPrefix("IDEATION_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setup decodes configuration, merges secrets and starts logging and
// tracing for the command about to run.
func setup(cmd *cobra.Command, _ []string) error {
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}

	s, err := secrets.Load(secretsDir)
	if err != nil {
		return err
	}
	s.Apply(&cfg)

	l, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	log = l
	closers = append(closers, func(context.Context) error { return closer.Close() })

	if len(s) > 0 {
		log.WithField("keys", s.Names()).Debug("loaded secrets")
	}

	shutdown, err := telemetry.Setup(cmd.Context(), cfg.Telemetry)
	if err != nil {
		return err
	}
	closers = append(closers, shutdown)
	return nil
}

// teardown releases resources in reverse order of acquisition. It runs
// after every command, including failed ones.
func teardown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		errs = append(errs, closers[i](ctx))
	}
	closers = nil
	return errors.Join(errs...)
}

// newGenerator returns the configured generation client, or nil when no API
// key is available.
func newGenerator(ctx context.Context) (generate.Client, error) {
	if !cfg.AI.Configured() {
		return nil, nil
	}
	return generate.New(ctx, cfg.AI)
}

// modelName reports the model that newGenerator would use.
func modelName() string {
	if cfg.AI.Model != "" {
		return cfg.AI.Model
	}
	return generate.DefaultModels[cfg.AI.Provider]
}

// openMetricsCache opens the lookup cache when a path is configured. The
// returned cache is a nil interface otherwise.
func openMetricsCache() (metrics.Cache, error) {
	if cfg.Metrics.CachePath == "" {
		return nil, nil
	}
	c, err := metrics.OpenCache(cfg.Metrics.CachePath, cfg.Metrics.CacheTTL)
	if err != nil {
		return nil, err
	}
	closers = append(closers, func(context.Context) error { return c.Close() })
	return c, nil
}

// openOutput returns the file at path, or stdout when path is empty or "-".
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, f.Close, nil
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if terr := teardown(); terr != nil {
		fmt.Fprintln(os.Stderr, "shutdown:", terr)
	}
	if err != nil {
		os.Exit(1)
	}
}
