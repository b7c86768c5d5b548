package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Riya-dudeja/spot-ghost-sub000/internal/config"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/rules"
	"github.com/Riya-dudeja/spot-ghost-sub000/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
// Rule watching, retention purges and Vault key rotation run alongside
// when configured.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", net.JoinHostPort(s.Host, s.Port))
	if err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if err := s.startBackgroundJobs(ctx); err != nil {
		_ = listener.Close()
		return err
	}
	defer s.stopBackgroundJobs()

	httpServer := s.setupHTTPServer()
	s.displayServerInfo(os.Stdout)

	return s.startWithGracefulShutdown(ctx, httpServer, listener)
}

// setupHTTPServer creates and configures the HTTP server
func (s *Server) setupHTTPServer() *http.Server {
	return &http.Server{
		Addr:         net.JoinHostPort(s.Host, s.Port),
		Handler:      s.Handler(),
		ReadTimeout:  s.ReadTimeout,
		WriteTimeout: s.WriteTimeout,
		IdleTimeout:  s.IdleTimeout,
	}
}

// startBackgroundJobs starts the optional watchers and the retention job.
func (s *Server) startBackgroundJobs(ctx context.Context) error {
	cfg := s.AppConfig

	if cfg.Engine.WatchRules && cfg.Engine.RulesFile != "" {
		s.rulesWatcher = rules.NewWatcher(cfg.Engine.RulesFile, cfg.Engine.ReloadDebounce, func(rs *rules.Set) {
			s.runtime.SwapRules(rs)
			s.metrics.RecordRulesReload(ctx, true)
		}, s.Logger)
		if err := s.rulesWatcher.Start(); err != nil {
			s.rulesWatcher = nil
			return fmt.Errorf("failed to watch rules file: %w", err)
		}
	}

	if cfg.Retention.Enabled {
		if store := s.runtime.Store(); store != nil {
			s.purger = scheduler.New(store, cfg.Retention, s.Logger).OnPurge(s.metrics.RecordPurge)
			if err := s.purger.Start(ctx, cfg.Retention.RunOnStart); err != nil {
				s.purger = nil
				s.stopBackgroundJobs()
				return err
			}
		} else {
			s.Logger.Warn("Retention is enabled but posting history is disabled; skipping purge job")
		}
	}

	if err := s.startVaultWatcher(cfg.Vault); err != nil {
		s.stopBackgroundJobs()
		return err
	}
	return nil
}

// startVaultWatcher rotates API keys from Vault when a poll interval is set.
func (s *Server) startVaultWatcher(vaultCfg config.VaultConfig) error {
	if !vaultCfg.Enabled || vaultCfg.Secrets.APIKeys == "" || vaultCfg.PollInterval <= 0 {
		return nil
	}

	client, err := config.NewVaultClient(vaultCfg, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to create vault client for key rotation: %w", err)
	}

	s.vaultWatcher = NewVaultWatcher(client, vaultCfg.Secrets.APIKeys, vaultCfg.PollInterval, s.SetAPIKeys, s.Logger)
	return s.vaultWatcher.Start()
}

// stopBackgroundJobs stops whatever startBackgroundJobs started.
func (s *Server) stopBackgroundJobs() {
	if s.vaultWatcher != nil {
		if err := s.vaultWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop vault watcher")
		}
	}
	if s.purger != nil {
		s.purger.Stop()
	}
	if s.rulesWatcher != nil {
		if err := s.rulesWatcher.Stop(); err != nil {
			s.Logger.LogError(err, "Failed to stop rules watcher")
		}
	}
	s.cleanupRateLimiter()
}

// startWithGracefulShutdown serves until ctx is done or the server fails.
func (s *Server) startWithGracefulShutdown(ctx context.Context, server *http.Server, listener net.Listener) error {
	serverErrors := make(chan error, 1)

	go func() {
		s.Logger.Info("Starting HTTP server", "address", listener.Addr().String())
		if err := server.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.Logger.Info("Shutdown requested, starting graceful shutdown")
		return s.performGracefulShutdown(server)
	}
}

// performGracefulShutdown handles the graceful shutdown process
func (s *Server) performGracefulShutdown(server *http.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.Logger.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		s.Logger.LogError(err, "Failed to shutdown server gracefully, forcing close")
		return server.Close()
	}

	s.Logger.Info("Server shutdown completed successfully")
	return nil
}

// cleanupRateLimiter cleans up the rate limiter resources
func (s *Server) cleanupRateLimiter() {
	if s.RateLimiter != nil {
		s.RateLimiter.Close()
		s.Logger.Info("Rate limiter cleaned up")
	}
}
