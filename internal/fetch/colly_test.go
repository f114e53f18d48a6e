// Package fetch_test tests the page fetcher against a local server.
package fetch_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/fetch"
)

func TestFetch(t *testing.T) {
	t.Parallel()

	t.Run("ReturnsBody", func(t *testing.T) {
		var gotUA string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUA = r.Header.Get("User-Agent")
			fmt.Fprint(w, "<html><body>prices</body></html>")
		}))
		t.Cleanup(server.Close)

		client := fetch.New(fetch.Config{UserAgent: "silverbot-test/1.0", Timeout: 5 * time.Second}, zap.NewNop())
		body, err := client.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Contains(t, body, "prices")
		assert.Equal(t, "silverbot-test/1.0", gotUA)
	})

	t.Run("NonSuccessStatusIsError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}))
		t.Cleanup(server.Close)

		client := fetch.New(fetch.Config{Timeout: 5 * time.Second}, zap.NewNop())
		_, err := client.Fetch(context.Background(), server.URL)
		assert.Error(t, err)
	})

	t.Run("CanceledContextIsError", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := fetch.New(fetch.Config{Timeout: 5 * time.Second}, zap.NewNop())
		_, err := client.Fetch(ctx, "http://127.0.0.1:0/")
		assert.Error(t, err)
	})
}
