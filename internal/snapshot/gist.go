package snapshot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// GistConfig captures the parameters for the gist-backed store.
type GistConfig struct {
	APIBase  string
	Token    string
	ID       string
	FileName string
	Timeout  time.Duration
}

// Gist persists the snapshot as one file inside a GitHub gist.
type Gist struct {
	http     *resty.Client
	id       string
	fileName string
	logger   *zap.Logger
}

type gistFile struct {
	Content string `json:"content"`
}

type gistPayload struct {
	Files map[string]gistFile `json:"files"`
}

// NewGist builds a gist-backed store.
func NewGist(cfg GistConfig, logger *zap.Logger) *Gist {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.github.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetBaseURL(cfg.APIBase).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.Token).
		SetHeader("Accept", "application/vnd.github+json")
	return &Gist{
		http:     client,
		id:       cfg.ID,
		fileName: cfg.FileName,
		logger:   logger,
	}
}

// Load returns the stored snapshot text. A missing gist, a missing file
// inside it, or any transient read failure all degrade to the empty
// baseline with a log entry; on a first run that is the expected path.
func (g *Gist) Load(ctx context.Context) (string, error) {
	var body gistPayload
	resp, err := g.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/gists/" + g.id)
	if err != nil {
		g.logger.Warn("gist read failed, treating snapshot as empty",
			zap.String("gist_id", g.id), zap.Error(err))
		return "", nil
	}
	if resp.StatusCode() == http.StatusNotFound {
		g.logger.Warn("gist not found, treating snapshot as empty",
			zap.String("gist_id", g.id))
		return "", nil
	}
	if resp.IsError() {
		g.logger.Warn("gist read returned error status, treating snapshot as empty",
			zap.String("gist_id", g.id), zap.Int("status", resp.StatusCode()))
		return "", nil
	}
	file, ok := body.Files[g.fileName]
	if !ok {
		g.logger.Warn("snapshot file absent from gist, treating as empty",
			zap.String("gist_id", g.id), zap.String("file", g.fileName))
		return "", nil
	}
	return file.Content, nil
}

// Save overwrites the stored snapshot with text. Called only after a
// confirmed delivery.
func (g *Gist) Save(ctx context.Context, text string) error {
	payload := gistPayload{Files: map[string]gistFile{
		g.fileName: {Content: text},
	}}
	resp, err := g.http.R().
		SetContext(ctx).
		SetBody(payload).
		Patch("/gists/" + g.id)
	if err != nil {
		return fmt.Errorf("patch gist %s: %w", g.id, err)
	}
	if resp.IsError() {
		return fmt.Errorf("patch gist %s: status %d: %s", g.id, resp.StatusCode(), resp.String())
	}
	g.logger.Info("snapshot committed to gist", zap.String("gist_id", g.id))
	return nil
}
