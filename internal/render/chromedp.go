// Package render captures a region of the source page as an image using
// headless Chrome via chromedp.
package render

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ErrRenderTimeout indicates the expected region never appeared within
// the bounded wait.
var ErrRenderTimeout = errors.New("render timed out waiting for region")

// Config controls the renderer.
type Config struct {
	Timeout   time.Duration
	UserAgent string
}

// Chromedp implements pricing.Renderer. Each capture runs in a fresh
// browser: the process is a one-shot run, so there is nothing to keep
// warm between captures.
type Chromedp struct {
	cfg    Config
	logger *zap.Logger
}

// New builds a renderer.
func New(cfg Config, logger *zap.Logger) *Chromedp {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chromedp{cfg: cfg, logger: logger}
}

// CaptureRegion navigates to url, waits for selector to become visible,
// and returns a PNG screenshot of that element.
func (r *Chromedp) CaptureRegion(ctx context.Context, url string, selector string) ([]byte, error) {
	opts := chromedp.DefaultExecAllocatorOptions[:]
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
	)
	if r.cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(r.cfg.UserAgent))
	}
	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAllocator()

	browserCtx, cancelBrowser := chromedp.NewContext(allocatorCtx)
	defer cancelBrowser()

	taskCtx, cancelTask := context.WithTimeout(browserCtx, r.cfg.Timeout)
	defer cancelTask()

	start := time.Now()
	var shot []byte
	tasks := chromedp.Tasks{
		emulation.SetDeviceMetricsOverride(1280, 1024, 2, false),
		chromedp.Navigate(url),
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Screenshot(selector, &shot, chromedp.NodeVisible, chromedp.ByQuery),
	}
	if err := chromedp.Run(taskCtx, tasks); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s after %s", ErrRenderTimeout, selector, r.cfg.Timeout)
		}
		return nil, fmt.Errorf("capture region %s: %w", selector, err)
	}

	r.logger.Debug("region captured",
		zap.String("url", url),
		zap.String("selector", selector),
		zap.Int("bytes", len(shot)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return shot, nil
}
