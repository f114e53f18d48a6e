// Package telegram implements the messaging transport against the
// Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dutotheke/silver-price-notifier/internal/pricing"
)

// ErrDeliveryFailed indicates every send attempt was exhausted without a
// successful response.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// Config controls the transport.
type Config struct {
	APIBase    string
	BotToken   string
	ChatID     string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// Client implements pricing.Messenger. Sends retry a fixed number of
// times with a fixed inter-attempt delay; there is no backoff growth.
type Client struct {
	http    *resty.Client
	cfg     Config
	sleeper pricing.Sleeper
	logger  *zap.Logger
}

// New builds a Client.
func New(cfg Config, sleeper pricing.Sleeper, logger *zap.Logger) *Client {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(cfg.APIBase).
		SetTimeout(cfg.Timeout)
	return &Client{http: client, cfg: cfg, sleeper: sleeper, logger: logger}
}

// SendMessage delivers an HTML-formatted text message to the configured chat.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	return c.send(ctx, "sendMessage", func(req *resty.Request) *resty.Request {
		return req.SetBody(map[string]any{
			"chat_id":                  c.cfg.ChatID,
			"text":                     text,
			"parse_mode":               "HTML",
			"disable_web_page_preview": true,
		})
	})
}

// SendPhoto delivers a PNG with an HTML caption to the configured chat.
func (c *Client) SendPhoto(ctx context.Context, photo []byte, caption string) error {
	return c.send(ctx, "sendPhoto", func(req *resty.Request) *resty.Request {
		return req.
			SetFileReader("photo", "silver_prices.png", bytes.NewReader(photo)).
			SetFormData(map[string]string{
				"chat_id":    c.cfg.ChatID,
				"caption":    caption,
				"parse_mode": "HTML",
			})
	})
}

// send runs the fixed retry loop around one Bot API method. Each failed
// attempt is logged with the response detail when one is available.
func (c *Client) send(ctx context.Context, method string, build func(*resty.Request) *resty.Request) error {
	endpoint := fmt.Sprintf("/bot%s/%s", c.cfg.BotToken, method)

	var lastErr error
	for attempt := 1; attempt <= c.cfg.Retries; attempt++ {
		c.logger.Info("sending telegram request",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", c.cfg.Retries),
		)

		resp, err := build(c.http.R().SetContext(ctx)).Post(endpoint)
		switch {
		case err != nil:
			lastErr = err
			c.logger.Error("telegram request failed",
				zap.String("method", method),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		case resp.IsError():
			lastErr = fmt.Errorf("telegram %s: status %d: %s", method, resp.StatusCode(), resp.String())
			c.logger.Error("telegram responded with error status",
				zap.String("method", method),
				zap.Int("attempt", attempt),
				zap.Int("status", resp.StatusCode()),
				zap.String("body", resp.String()),
			)
		default:
			return nil
		}

		if attempt < c.cfg.Retries {
			if sleepErr := c.sleeper.Sleep(ctx, c.cfg.RetryDelay); sleepErr != nil {
				return fmt.Errorf("%w: %s canceled during retry wait: %v", ErrDeliveryFailed, method, sleepErr)
			}
		}
	}
	return fmt.Errorf("%w: %s after %d attempts: %v", ErrDeliveryFailed, method, c.cfg.Retries, lastErr)
}
