package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// newRunCmd creates the 'run' subcommand: the fused pipeline for
// schedulers that invoke the whole cycle in one process.
func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Compare and, on change, notify in a single invocation",
		RunE:  runRunCommand,
	}
}

func runRunCommand(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidateCompare(); err != nil {
		return err
	}
	if err := cfg.ValidateNotify(); err != nil {
		return err
	}

	det := buildDetector(cfg, logger)
	outcome, err := det.Detect(cmd.Context())
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}

	n := buildNotifier(cfg, logger)
	if err := n.Deliver(cmd.Context(), outcome); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	logger.Info("run finished", zap.Bool("changed", outcome.Changed))
	return nil
}
