package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/clock/system"
	"github.com/dutotheke/silver-price-notifier/internal/config"
	"github.com/dutotheke/silver-price-notifier/internal/notifier"
	"github.com/dutotheke/silver-price-notifier/internal/pricing"
	"github.com/dutotheke/silver-price-notifier/internal/render"
	"github.com/dutotheke/silver-price-notifier/internal/snapshot"
	"github.com/dutotheke/silver-price-notifier/internal/telegram"
)

// newNotifyCmd creates the 'notify' subcommand: deliver the notification
// for the pending snapshot written by 'compare', then commit it.
func newNotifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notify",
		Short: "Send the change notification for the pending snapshot",
		Long: `Reads the pending snapshot artifact written by 'compare', renders the
notification, sends it to the configured Telegram chat with bounded
retry, and commits the snapshot only after the send succeeded.`,
		RunE: runNotifyCommand,
	}
}

func runNotifyCommand(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.ValidateNotify(); err != nil {
		return err
	}

	outcome, err := loadPendingOutcome(cfg)
	if err != nil {
		return err
	}

	n := buildNotifier(cfg, logger)
	if err := n.Deliver(cmd.Context(), outcome); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

// loadPendingOutcome rebuilds a detection outcome from the compare
// artifact. The invoker only calls notify after compare reported a
// change, so Changed is true by contract.
func loadPendingOutcome(cfg config.Config) (pricing.Outcome, error) {
	data, err := os.ReadFile(cfg.Snapshot.PendingPath)
	if err != nil {
		if os.IsNotExist(err) {
			return pricing.Outcome{}, fmt.Errorf("no pending snapshot at %s, run 'compare' first", cfg.Snapshot.PendingPath)
		}
		return pricing.Outcome{}, fmt.Errorf("read pending snapshot %s: %w", cfg.Snapshot.PendingPath, err)
	}

	items, err := pricing.ParseCanonical(string(data))
	if err != nil {
		return pricing.Outcome{}, fmt.Errorf("parse pending snapshot %s: %w", cfg.Snapshot.PendingPath, err)
	}
	if len(items) == 0 {
		return pricing.Outcome{}, fmt.Errorf("pending snapshot %s is empty, run 'compare' first", cfg.Snapshot.PendingPath)
	}

	return pricing.Outcome{
		RunID:     uuid.NewString(),
		Changed:   true,
		Items:     items,
		Canonical: pricing.Canonical(items),
	}, nil
}

func buildNotifier(cfg config.Config, logger *zap.Logger) *notifier.Notifier {
	messenger := telegram.New(telegram.Config{
		APIBase:    cfg.Telegram.APIBase,
		BotToken:   cfg.Telegram.BotToken,
		ChatID:     cfg.Telegram.ChatID,
		Timeout:    cfg.Telegram.Timeout,
		Retries:    cfg.Telegram.Retries,
		RetryDelay: cfg.Telegram.RetryDelay,
	}, system.NewSleeper(), logger)

	var renderer pricing.Renderer
	if cfg.Render.Enabled {
		renderer = render.New(render.Config{
			Timeout:   cfg.Render.Timeout,
			UserAgent: cfg.Render.UserAgent,
		}, logger)
	}

	store := snapshot.Select(cfg, logger)
	return notifier.New(messenger, renderer, store, system.New(), notifier.Config{
		SourceURL:      cfg.Source.URL,
		RenderSelector: cfg.Render.Selector,
	}, logger)
}
