// Package notifier_test verifies the delivery state machine, in
// particular that the snapshot commit happens only after a confirmed send.
package notifier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/notifier"
	"github.com/dutotheke/silver-price-notifier/internal/pricing"
	"github.com/dutotheke/silver-price-notifier/internal/snapshot"
)

type fakeMessenger struct {
	failWith error
	messages []string
	captions []string
	photos   [][]byte
}

func (m *fakeMessenger) SendMessage(_ context.Context, text string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.messages = append(m.messages, text)
	return nil
}

func (m *fakeMessenger) SendPhoto(_ context.Context, photo []byte, caption string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.photos = append(m.photos, photo)
	m.captions = append(m.captions, caption)
	return nil
}

type fakeRenderer struct {
	shot []byte
	err  error
}

func (r *fakeRenderer) CaptureRegion(context.Context, string, string) ([]byte, error) {
	return r.shot, r.err
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type failingStore struct{ snapshot.Memory }

func (*failingStore) Save(context.Context, string) error {
	return errors.New("store unavailable")
}

func changedOutcome() pricing.Outcome {
	items := []pricing.Item{
		{Name: "Bạc miếng", Unit: "chỉ", Buy: pricing.IntPtr(2776000), Sell: pricing.IntPtr(2826000)},
	}
	return pricing.Outcome{
		RunID:     "run-1",
		Changed:   true,
		Items:     items,
		Canonical: pricing.Canonical(items),
	}
}

func newNotifier(m pricing.Messenger, r pricing.Renderer, s pricing.SnapshotStore) *notifier.Notifier {
	return notifier.New(m, r, s, fixedClock{at: time.Date(2026, 8, 26, 9, 30, 0, 0, time.UTC)},
		notifier.Config{SourceURL: "https://giabac.example.test/", RenderSelector: "#priceListContainer"},
		zap.NewNop())
}

func TestDeliver(t *testing.T) {
	t.Parallel()

	t.Run("UnchangedSendsNothing", func(t *testing.T) {
		messenger := &fakeMessenger{}
		store := snapshot.NewMemory("baseline")

		err := newNotifier(messenger, nil, store).Deliver(context.Background(), pricing.Outcome{RunID: "r", Changed: false})
		require.NoError(t, err)
		assert.Empty(t, messenger.messages)
		assert.Zero(t, store.Saves())
	})

	t.Run("ChangedSendsThenCommits", func(t *testing.T) {
		messenger := &fakeMessenger{}
		store := snapshot.NewMemory("")
		outcome := changedOutcome()

		err := newNotifier(messenger, nil, store).Deliver(context.Background(), outcome)
		require.NoError(t, err)
		require.Len(t, messenger.messages, 1)
		assert.Contains(t, messenger.messages[0], "2.776.000")

		committed, err := store.Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, outcome.Canonical, committed)
	})

	t.Run("DeliveryFailureLeavesStateUntouched", func(t *testing.T) {
		messenger := &fakeMessenger{failWith: errors.New("telegram down")}
		store := snapshot.NewMemory("previous snapshot")

		err := newNotifier(messenger, nil, store).Deliver(context.Background(), changedOutcome())
		require.Error(t, err)

		text, loadErr := store.Load(context.Background())
		require.NoError(t, loadErr)
		assert.Equal(t, "previous snapshot", text)
		assert.Zero(t, store.Saves())
	})

	t.Run("CommitFailureIsAbsorbed", func(t *testing.T) {
		messenger := &fakeMessenger{}
		err := newNotifier(messenger, nil, &failingStore{}).Deliver(context.Background(), changedOutcome())
		// The notification went out; the degraded commit must not fail the run.
		require.NoError(t, err)
		assert.Len(t, messenger.messages, 1)
	})

	t.Run("RendererProducesPhotoWithCaption", func(t *testing.T) {
		messenger := &fakeMessenger{}
		store := snapshot.NewMemory("")

		err := newNotifier(messenger, &fakeRenderer{shot: []byte("png")}, store).Deliver(context.Background(), changedOutcome())
		require.NoError(t, err)
		require.Len(t, messenger.photos, 1)
		assert.Equal(t, []byte("png"), messenger.photos[0])
		assert.Contains(t, messenger.captions[0], "09:30 26/08/2026")
		assert.Empty(t, messenger.messages)
		assert.Equal(t, 1, store.Saves())
	})

	t.Run("RendererFailureFallsBackToText", func(t *testing.T) {
		messenger := &fakeMessenger{}
		store := snapshot.NewMemory("")

		err := newNotifier(messenger, &fakeRenderer{err: errors.New("timeout")}, store).Deliver(context.Background(), changedOutcome())
		require.NoError(t, err)
		assert.Empty(t, messenger.photos)
		require.Len(t, messenger.messages, 1)
		assert.Equal(t, 1, store.Saves())
	})
}
