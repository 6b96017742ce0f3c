// Package server assembles the Atlas gateway: configuration, engine
// client, processing pipeline, handlers and the HTTP server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ankago/atlas/config"
	"github.com/ankago/atlas/engine"
	"github.com/ankago/atlas/engine/vllm"
	"github.com/ankago/atlas/server/handlers"
	"github.com/ankago/atlas/server/metrics"
	"github.com/ankago/atlas/server/processing"
	"github.com/ankago/atlas/server/routing"
)

// Server owns the HTTP listener and the wired request pipeline. It
// subscribes to configuration updates and applies prompt and sampling
// changes to the running pipeline without a restart.
type Server struct {
	cfg        *config.Config
	watcher    config.Watcher
	processor  *processing.Processor
	httpServer *http.Server
	logger     *zap.Logger
}

// NewServer builds a server from the configuration file at configPath,
// watching it for changes.
func NewServer(configPath string, logger *zap.Logger) (*Server, error) {
	watcher, err := config.NewConfigWatcher(configPath, logger)
	if err != nil {
		return nil, fmt.Errorf("create config watcher: %w", err)
	}
	return NewServerWithWatcher(watcher, logger)
}

// NewServerWithWatcher builds a server around an existing watcher. The
// engine client is constructed from the watcher's current config; engine
// address changes require a restart, everything else reloads live.
func NewServerWithWatcher(watcher config.Watcher, logger *zap.Logger) (*Server, error) {
	cfg := watcher.GetCurrentConfig()

	eng := vllm.New(vllm.Config{
		BaseURL: cfg.Engine.BaseURL,
		APIKey:  cfg.Engine.APIKey,
		Model:   cfg.Engine.Model,
		Adapter: cfg.Engine.Adapter,
		Timeout: cfg.Engine.Timeout,
	})
	return newServer(watcher, eng, logger)
}

// NewServerWithEngine builds a server around a caller-supplied engine.
// Used by tests to run the full HTTP stack against a mock.
func NewServerWithEngine(watcher config.Watcher, eng engine.Engine, logger *zap.Logger) (*Server, error) {
	return newServer(watcher, eng, logger)
}

func newServer(watcher config.Watcher, eng engine.Engine, logger *zap.Logger) (*Server, error) {
	cfg := watcher.GetCurrentConfig()

	m := metrics.NewMetrics()
	processor, err := processing.NewProcessor(cfg, eng, m, logger)
	if err != nil {
		return nil, fmt.Errorf("create processor: %w", err)
	}

	router := routing.NewRouter(cfg, map[string]http.Handler{
		"parse_message": handlers.NewParseMessageHandler(processor, logger),
		"parse_batch":   handlers.NewParseBatchHandler(processor, logger),
		"chat":          handlers.NewChatHandler(processor, eng.Model(), logger),
		"intent":        handlers.NewIntentHandler(processor, logger),
	}, m, logger)

	return &Server{
		cfg:     cfg,
		watcher: watcher,
		processor: processor,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        router,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
		logger: logger,
	}, nil
}

// Start runs the server until ctx is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("Server started",
			zap.String("address", s.httpServer.Addr),
			zap.String("engine", s.cfg.Engine.BaseURL),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	updates := s.watcher.Subscribe()

	for {
		select {
		case cfg, ok := <-updates:
			if !ok {
				updates = nil
				continue
			}
			if err := s.processor.ApplyConfig(cfg); err != nil {
				s.logger.Error("Rejected config update", zap.Error(err))
				continue
			}
			s.logger.Info("Applied config update")

		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
			defer cancel()

			s.logger.Info("Shutting down server")
			if err := s.watcher.Close(); err != nil {
				s.logger.Warn("Failed to close config watcher", zap.Error(err))
			}
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("error during server shutdown: %w", err)
			}
			return nil

		case err := <-errChan:
			return err
		}
	}
}
