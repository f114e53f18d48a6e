package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/config"
	"github.com/dutotheke/silver-price-notifier/internal/detector"
	"github.com/dutotheke/silver-price-notifier/internal/fetch"
	"github.com/dutotheke/silver-price-notifier/internal/hash/sha256"
	"github.com/dutotheke/silver-price-notifier/internal/snapshot"
)

// newCompareCmd creates the 'compare' subcommand: run the detection
// pipeline, persist the pending snapshot artifact, and tell the invoker
// whether anything changed.
func newCompareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Scrape the pricing page and decide whether it changed",
		Long: `Fetches the pricing page, extracts and canonicalizes the price table,
fingerprints it against the committed snapshot, writes the pending
snapshot artifact for a later 'notify', and emits changed=<bool> for the
invoker.`,
		RunE: runCompareCommand,
	}
}

func runCompareCommand(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidateCompare(); err != nil {
		return err
	}

	det := buildDetector(cfg, logger)
	outcome, err := det.Detect(cmd.Context())
	if err != nil {
		return fmt.Errorf("compare: %w", err)
	}

	if err := os.WriteFile(cfg.Snapshot.PendingPath, []byte(outcome.Canonical), 0o600); err != nil {
		return fmt.Errorf("write pending snapshot %s: %w", cfg.Snapshot.PendingPath, err)
	}
	logger.Info("pending snapshot written",
		zap.String("path", cfg.Snapshot.PendingPath),
		zap.Int("items", len(outcome.Items)),
	)

	emitChanged(cmd.OutOrStdout(), outcome.Changed)
	if err := emitGitHubOutput(outcome.Changed); err != nil {
		logger.Warn("could not write GITHUB_OUTPUT", zap.Error(err))
	}
	return nil
}

func buildDetector(cfg config.Config, logger *zap.Logger) *detector.Detector {
	fetcher := fetch.New(fetch.Config{
		UserAgent: cfg.Source.UserAgent,
		Timeout:   cfg.Source.Timeout,
	}, logger)
	store := snapshot.Select(cfg, logger)
	return detector.New(fetcher, store, sha256.New(), detector.Config{
		SourceURL:         cfg.Source.URL,
		ContainerSelector: cfg.Source.ContainerSelector,
	}, logger)
}

func emitChanged(w io.Writer, changed bool) {
	fmt.Fprintf(w, "changed=%t\n", changed)
}

// emitGitHubOutput mirrors the changed signal into $GITHUB_OUTPUT when
// the scheduler is a workflow step.
func emitGitHubOutput(changed bool) error {
	path := os.Getenv("GITHUB_OUTPUT")
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := fmt.Fprintf(f, "changed=%t\n", changed); err != nil {
		return fmt.Errorf("append to %s: %w", path, err)
	}
	return nil
}
