// Package cmd defines and implements the CLI commands for the silverbot
// executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/config"
	"github.com/dutotheke/silver-price-notifier/internal/logging"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "silverbot",
		Short: "Silver price change notifier for the Phú Quý pricing page",
		Long: `silverbot scrapes the Phú Quý silver pricing page, decides whether the
displayed prices materially changed since the last committed observation,
and on a genuine change notifies a Telegram chat before committing the
new snapshot.

The pipeline is split into two invocable stages: 'compare' decides,
'notify' acts. 'run' executes both in one invocation.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (environment variables are read either way)")

	cmd.AddCommand(newCompareCmd())
	cmd.AddCommand(newNotifyCmd())
	cmd.AddCommand(newRunCmd())
	return cmd
}

// setup loads configuration and builds the logger shared by every mode.
func setup() (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, logger, nil
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
