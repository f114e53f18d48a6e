// Package telegram_test exercises the messaging transport against a fake
// Bot API server.
package telegram_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/telegram"
)

// countingSleeper records waits instead of sleeping.
type countingSleeper struct {
	waits []time.Duration
}

func (s *countingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return nil
}

func newClient(t *testing.T, handler http.Handler) (*telegram.Client, *countingSleeper) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	sleeper := &countingSleeper{}
	client := telegram.New(telegram.Config{
		APIBase:    server.URL,
		BotToken:   "bot-token",
		ChatID:     "chat42",
		Retries:    3,
		RetryDelay: 3 * time.Second,
	}, sleeper, zap.NewNop())
	return client, sleeper
}

func TestSendMessage(t *testing.T) {
	t.Parallel()

	t.Run("FirstAttemptSucceeds", func(t *testing.T) {
		var calls atomic.Int32
		client, sleeper := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, "/botbot-token/sendMessage", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))

		require.NoError(t, client.SendMessage(context.Background(), "hello"))
		assert.Equal(t, int32(1), calls.Load())
		assert.Empty(t, sleeper.waits)
	})

	t.Run("RecoversWithinRetryBudget", func(t *testing.T) {
		var calls atomic.Int32
		client, sleeper := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			if calls.Add(1) < 3 {
				http.Error(w, `{"ok":false}`, http.StatusBadGateway)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))

		require.NoError(t, client.SendMessage(context.Background(), "hello"))
		assert.Equal(t, int32(3), calls.Load())
		// Fixed delay between attempts, no backoff growth.
		assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second}, sleeper.waits)
	})

	t.Run("ExhaustedRetriesFailDelivery", func(t *testing.T) {
		var calls atomic.Int32
		client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			http.Error(w, `{"ok":false,"description":"flood"}`, http.StatusTooManyRequests)
		}))

		err := client.SendMessage(context.Background(), "hello")
		assert.ErrorIs(t, err, telegram.ErrDeliveryFailed)
		assert.Equal(t, int32(3), calls.Load())
	})
}

func TestSendPhoto(t *testing.T) {
	t.Parallel()

	var gotCaption, gotChat string
	var gotPhoto []byte
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botbot-token/sendPhoto", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotCaption = r.FormValue("caption")
		gotChat = r.FormValue("chat_id")
		file, _, err := r.FormFile("photo")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		buf := make([]byte, 16)
		n, _ := file.Read(buf)
		gotPhoto = buf[:n]
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.SendPhoto(context.Background(), []byte("png-bytes"), "caption text"))
	assert.Equal(t, "caption text", gotCaption)
	assert.Equal(t, "chat42", gotChat)
	assert.Equal(t, []byte("png-bytes"), gotPhoto)
}
