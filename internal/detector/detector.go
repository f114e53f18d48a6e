// Package detector orchestrates the change-detection half of the
// pipeline: fetch, extract, canonicalize, fingerprint, and compare
// against the previously committed snapshot.
package detector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/hash/sha256"
	"github.com/dutotheke/silver-price-notifier/internal/pricing"
)

// Config controls the detection run.
type Config struct {
	SourceURL         string
	ContainerSelector string
}

// Detector decides whether the observed table changed. It performs no
// side effects: notification and persistence belong to the notifier.
type Detector struct {
	fetcher   pricing.Fetcher
	extractor *pricing.Extractor
	store     pricing.SnapshotStore
	hasher    pricing.Hasher
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Detector.
func New(
	fetcher pricing.Fetcher,
	store pricing.SnapshotStore,
	hasher pricing.Hasher,
	cfg Config,
	logger *zap.Logger,
) *Detector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Detector{
		fetcher:   fetcher,
		extractor: pricing.NewExtractor(cfg.ContainerSelector, logger),
		store:     store,
		hasher:    hasher,
		cfg:       cfg,
		logger:    logger,
	}
}

// Detect runs the pipeline once and reports whether the current table
// differs from the committed baseline. Fingerprint inequality is the
// sole change criterion; the decision is table-wide.
func (d *Detector) Detect(ctx context.Context) (pricing.Outcome, error) {
	runID := uuid.NewString()
	logger := d.logger.With(zap.String("run_id", runID))

	logger.Info("fetching pricing page", zap.String("url", d.cfg.SourceURL))
	markup, err := d.fetcher.Fetch(ctx, d.cfg.SourceURL)
	if err != nil {
		return pricing.Outcome{}, fmt.Errorf("fetch pricing page: %w", err)
	}

	items, err := d.extractor.Extract(markup)
	if err != nil {
		return pricing.Outcome{}, fmt.Errorf("extract price table: %w", err)
	}
	logger.Info("price table extracted", zap.Int("items", len(items)))

	canonical := pricing.Canonical(items)
	current := d.hasher.Hash(canonical)

	// The stored blob may have been written with different whitespace
	// conventions, so it is normalized before hashing. Normalization is
	// idempotent, so the fresh canonical side needs nothing.
	stored, err := d.store.Load(ctx)
	if err != nil {
		return pricing.Outcome{}, fmt.Errorf("load snapshot: %w", err)
	}
	previous := d.hasher.Hash(sha256.NormalizeBlob(stored))

	changed := current != previous
	logger.Info("change decision",
		zap.Bool("changed", changed),
		zap.String("previous", sha256.Short(previous)),
		zap.String("current", sha256.Short(current)),
	)

	return pricing.Outcome{
		RunID:               runID,
		Changed:             changed,
		Items:               items,
		Canonical:           canonical,
		CurrentFingerprint:  current,
		PreviousFingerprint: previous,
	}, nil
}
