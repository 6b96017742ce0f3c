// Package upload pushes model weight directories to the serving
// platform's volume API so a deployment can pick them up at container
// start. Files are streamed in fixed-size batches and committed once
// the full tree has landed.
package upload

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds the volume API connection and transfer settings.
type Config struct {
	// BaseURL of the volume API (e.g. "https://volumes.example.com/api").
	BaseURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Volume names the target volume.
	Volume string

	// Dest is the directory on the volume the tree lands under
	// (e.g. "/atlas-1").
	Dest string

	// BatchSize is how many files are sent before a progress log line.
	BatchSize int

	// Timeout for a single file transfer.
	Timeout time.Duration
}

// Uploader walks a local model directory and replicates it onto a
// remote volume.
type Uploader struct {
	cfg        Config
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates an Uploader. Zero-value batch size and timeout get
// defaults suited for multi-gigabyte weight files.
func New(cfg Config, logger *zap.Logger) *Uploader {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 5
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Hour
	}
	return &Uploader{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// Upload replicates the tree rooted at modelPath onto the volume and
// commits it. Partial uploads are not committed.
func (u *Uploader) Upload(ctx context.Context, modelPath string) error {
	info, err := os.Stat(modelPath)
	if err != nil {
		return fmt.Errorf("stat model path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("model path %s is not a directory", modelPath)
	}

	var files []string
	err = filepath.WalkDir(modelPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk model path: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no files under %s", modelPath)
	}

	u.logger.Info("Starting upload",
		zap.String("source", modelPath),
		zap.String("volume", u.cfg.Volume),
		zap.String("dest", u.cfg.Dest),
		zap.Int("files", len(files)),
	)

	for i, path := range files {
		rel, err := filepath.Rel(modelPath, path)
		if err != nil {
			return err
		}
		if err := u.putFile(ctx, path, rel); err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}
		if (i+1)%u.cfg.BatchSize == 0 || i == len(files)-1 {
			u.logger.Info("Upload progress",
				zap.Int("uploaded", i+1),
				zap.Int("total", len(files)),
			)
		}
	}

	if err := u.commit(ctx); err != nil {
		return fmt.Errorf("commit volume: %w", err)
	}

	u.logger.Info("Upload complete", zap.String("dest", u.cfg.Dest))
	return nil
}

// putFile streams one file to the volume under its path relative to
// the upload root.
func (u *Uploader) putFile(ctx context.Context, path, rel string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	dest := strings.TrimSuffix(u.cfg.Dest, "/") + "/" + filepath.ToSlash(rel)
	url := fmt.Sprintf("%s/volumes/%s/files%s", u.cfg.BaseURL, u.cfg.Volume, dest)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return err
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/octet-stream")
	if u.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("volume API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// commit makes the uploaded tree visible to readers of the volume.
func (u *Uploader) commit(ctx context.Context) error {
	url := fmt.Sprintf("%s/volumes/%s/commit", u.cfg.BaseURL, u.cfg.Volume)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return err
	}
	if u.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.cfg.APIKey)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("volume API returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
