package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"go-shopscraper/internal/browser"
	"go-shopscraper/internal/config"
	"go-shopscraper/internal/crawler"
	"go-shopscraper/internal/observability"
)

type options struct {
	logLevel string
	workers  int
	output   string
}

// app is the state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd(a *app) *cobra.Command {
	var opts options

	root := &cobra.Command{
		Use:           "scraper",
		Short:         "Scrape product listings from a storefront with a headless browser.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			applyFlags(cmd, cfg, opts)

			// Stdout carries command output.
			observability.Initialize(cfg.Logger, zapcore.Lock(os.Stderr))
			a.cfg = cfg
			a.logger = observability.GetLogger()
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.IntVar(&opts.workers, "workers", 0, "number of concurrent product scrapers")
	flags.StringVar(&opts.output, "output", "", "directory for JSON output")

	root.AddCommand(newCategoryCmd(a), newProductCmd(a), newCrawlCmd(a))
	return root
}

// applyFlags lets explicitly set flags win over the environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logger.Level = opts.logLevel
	}
	if flags.Changed("workers") {
		cfg.Engine.Workers = opts.workers
	}
	if flags.Changed("output") {
		cfg.Storage.OutputDir = opts.output
	}
}

func execute(ctx context.Context) int {
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	defer observability.Sync()

	if err != nil {
		if a.logger != nil {
			a.logger.Error("Command execution failed", zap.Error(err))
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

func (a *app) sessionManager() (*browser.Manager, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	platform := browser.CurrentPlatform(a.cfg.Browser.SystemHost)
	a.logger.Debug("Resolved platform", zap.Stringer("platform", platform))
	return browser.NewManager(a.cfg.Browser, platform, workDir, a.logger), nil
}

func openFunc(m *browser.Manager) crawler.OpenFunc {
	return func(ctx context.Context) (crawler.PageSession, error) {
		s, err := m.NewSession(ctx)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}
