// Package fetch retrieves the pricing page markup using gocolly.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client implements pricing.Fetcher for a single fixed page.
type Client struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{cfg: cfg, logger: logger}
}

// Fetch executes a single HTTP GET and returns the response body. Non-2xx
// responses surface as errors.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	collector := colly.NewCollector()
	collector.IgnoreRobotsTxt = true
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)

	var (
		body     []byte
		status   int
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
		status = r.StatusCode
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
		fetchErr = err
	})

	start := time.Now()
	if err := collector.Visit(url); err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if fetchErr != nil {
		return "", fmt.Errorf("fetch %s (status %d): %w", url, status, fetchErr)
	}

	c.logger.Debug("page fetched",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return string(body), nil
}
