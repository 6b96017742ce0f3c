// Command atlas-upload pushes a local model weight directory to the
// serving platform's volume API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ankago/atlas/upload"
)

var (
	modelPath = flag.String("path", "", "Local model directory to upload")
	baseURL   = flag.String("url", "", "Volume API base URL")
	volume    = flag.String("volume", "atlas-model-vol", "Target volume name")
	dest      = flag.String("dest", "/atlas-1", "Destination directory on the volume")
	batch     = flag.Int("batch", 5, "Files per progress report")
	timeout   = flag.Duration("timeout", time.Hour, "Per-file transfer timeout")
)

func main() {
	flag.Parse()

	if *modelPath == "" || *baseURL == "" {
		fmt.Fprintln(os.Stderr, "both -path and -url are required")
		flag.Usage()
		os.Exit(2)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	u := upload.New(upload.Config{
		BaseURL:   *baseURL,
		APIKey:    os.Getenv("ATLAS_VOLUME_KEY"),
		Volume:    *volume,
		Dest:      *dest,
		BatchSize: *batch,
		Timeout:   *timeout,
	}, logger)

	if err := u.Upload(context.Background(), *modelPath); err != nil {
		logger.Fatal("Upload failed", zap.Error(err))
	}
}
