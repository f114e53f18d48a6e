// Package notifier implements the delivery half of the pipeline: render
// the notification artifact, send it with bounded retry, and commit the
// new snapshot only after the send is confirmed.
package notifier

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/pricing"
)

// State names the delivery phases, in order.
type State string

// Delivery states. A run either walks Idle → ChangedDetected → Rendering
// → Sending → Committing → Done, or short-circuits through Unchanged.
const (
	StateIdle            State = "idle"
	StateUnchanged       State = "unchanged"
	StateChangedDetected State = "changed_detected"
	StateRendering       State = "rendering"
	StateSending         State = "sending"
	StateCommitting      State = "committing"
	StateDone            State = "done"
)

// Config controls delivery behavior.
type Config struct {
	// SourceURL and RenderSelector feed the optional screenshot artifact.
	SourceURL      string
	RenderSelector string
}

// Notifier delivers the change notification and commits the snapshot.
// The renderer is optional; without one the text table is sent.
type Notifier struct {
	messenger pricing.Messenger
	renderer  pricing.Renderer
	store     pricing.SnapshotStore
	clock     pricing.Clock
	cfg       Config
	logger    *zap.Logger
}

// New constructs a Notifier. renderer may be nil.
func New(
	messenger pricing.Messenger,
	renderer pricing.Renderer,
	store pricing.SnapshotStore,
	clock pricing.Clock,
	cfg Config,
	logger *zap.Logger,
) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		messenger: messenger,
		renderer:  renderer,
		store:     store,
		clock:     clock,
		cfg:       cfg,
		logger:    logger,
	}
}

// Deliver executes the delivery state machine for one detection outcome.
// The snapshot commit happens only after the send succeeded; a failed
// commit is logged and absorbed, accepting one duplicate notification on
// the next run.
func (n *Notifier) Deliver(ctx context.Context, outcome pricing.Outcome) error {
	logger := n.logger.With(zap.String("run_id", outcome.RunID))

	if !outcome.Changed {
		n.transition(logger, StateIdle, StateUnchanged)
		logger.Info("no change detected, nothing to deliver")
		n.transition(logger, StateUnchanged, StateDone)
		return nil
	}
	n.transition(logger, StateIdle, StateChangedDetected)

	n.transition(logger, StateChangedDetected, StateRendering)
	message, photo := n.render(ctx, logger, outcome)

	n.transition(logger, StateRendering, StateSending)
	if err := n.send(ctx, message, photo); err != nil {
		logger.Error("delivery failed, snapshot not committed", zap.Error(err))
		return fmt.Errorf("deliver notification: %w", err)
	}

	n.transition(logger, StateSending, StateCommitting)
	if err := n.store.Save(ctx, outcome.Canonical); err != nil {
		// The notification is already out. The next run will see the
		// stale baseline, detect the same change, and notify again.
		logger.Warn("snapshot commit failed after successful delivery, next run will re-notify",
			zap.Error(err))
	}

	n.transition(logger, StateCommitting, StateDone)
	return nil
}

// render produces the outbound artifact: always the HTML text message,
// plus a region screenshot when a renderer is configured. A screenshot
// failure falls back to the text message; only a send failure aborts.
func (n *Notifier) render(ctx context.Context, logger *zap.Logger, outcome pricing.Outcome) (string, []byte) {
	now := n.clock.Now()
	message := pricing.BuildMessage(outcome.Items, now)
	if n.renderer == nil {
		return message, nil
	}

	photo, err := n.renderer.CaptureRegion(ctx, n.cfg.SourceURL, n.cfg.RenderSelector)
	if err != nil {
		logger.Warn("screenshot render failed, falling back to text table", zap.Error(err))
		return message, nil
	}
	return pricing.BuildCaption(now), photo
}

func (n *Notifier) send(ctx context.Context, message string, photo []byte) error {
	if photo != nil {
		return n.messenger.SendPhoto(ctx, photo, message)
	}
	return n.messenger.SendMessage(ctx, message)
}

func (n *Notifier) transition(logger *zap.Logger, from, to State) {
	logger.Debug("delivery state transition",
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
}
