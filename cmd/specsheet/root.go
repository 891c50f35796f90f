package main

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/anxuanzi/specsheet-go/browser"
	"github.com/anxuanzi/specsheet-go/config"
	"github.com/anxuanzi/specsheet-go/observability"
)

// configOptional marks commands that fall back to defaults when no config
// file is found.
const configOptional = "configOptional"

type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "specsheet",
		Short:         "Generate annotated screen specification workbooks from a running web app.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default: first of "+config.DefaultCandidates[0]+", ... in the working directory)")

	root.AddCommand(
		newGenerateCmd(a),
		newInventoryCmd(a),
		newAnnotateCmd(a),
	)
	return root
}

// init loads .env, the configuration and the global logger.
func (a *app) init(cmd *cobra.Command) error {
	_ = godotenv.Load(".env")

	cfg, err := config.Load(a.cfgFile)
	switch {
	case err == nil:
	case errors.Is(err, config.ErrConfigNotFound) && a.cfgFile == "" && cmd.Annotations[configOptional] == "true":
		cfg = config.NewDefaultConfig()
	default:
		observability.InitializeLogger(config.NewDefaultConfig().Logger)
		return err
	}

	observability.InitializeLogger(cfg.Logger)
	a.cfg = cfg
	a.logger = observability.GetLogger()
	if cfg.Path() != "" {
		a.logger.Debug("Configuration loaded", zap.String("path", cfg.Path()))
	}
	return nil
}

// withBrowser starts a browser for the duration of fn.
func (a *app) withBrowser(ctx context.Context, fn func(*browser.Browser) error) error {
	b := browser.New(browser.FromConfig(a.cfg.Browser, a.logger))
	if err := b.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := b.Close(); err != nil {
			a.logger.Warn("Failed to close browser", zap.Error(err))
		}
	}()
	return fn(b)
}
