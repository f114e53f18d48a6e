// Package snapshot implements the persisted-state backends: a remote
// gist store and a local file store, plus an in-memory store for tests.
// Exactly one backend serves a run; they are never mixed.
package snapshot

import (
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/config"
	"github.com/dutotheke/silver-price-notifier/internal/pricing"
)

// Select returns the backend for this run: gist when remote credentials
// are configured, the local file otherwise.
func Select(cfg config.Config, logger *zap.Logger) pricing.SnapshotStore {
	if cfg.UseGist() {
		return NewGist(GistConfig{
			APIBase:  cfg.Gist.APIBase,
			Token:    cfg.Gist.Token,
			ID:       cfg.Gist.ID,
			FileName: cfg.Gist.FileName,
			Timeout:  cfg.Gist.Timeout,
		}, logger)
	}
	logger.Info("no gist credentials, using local snapshot file",
		zap.String("path", cfg.Snapshot.LocalPath))
	return NewFile(cfg.Snapshot.LocalPath)
}
