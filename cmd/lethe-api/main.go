package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/lethe-storage/lethe/pkg/argus"
	"github.com/lethe-storage/lethe/pkg/atlas"
	"github.com/lethe-storage/lethe/pkg/config"
	"github.com/lethe-storage/lethe/pkg/hephaestus"
	"github.com/lethe-storage/lethe/pkg/hermes"
	"github.com/lethe-storage/lethe/pkg/hostcmd"
	"github.com/lethe-storage/lethe/pkg/hydra"
	"github.com/lethe-storage/lethe/pkg/lethe"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("Starting Lethe API", "socket", cfg.SocketPath)

	runner := hostcmd.NewExecRunner()
	tools := hostcmd.DefaultToolchain()
	metrics := hermes.NewPrometheusMetrics()
	hermesLogger := hermes.NewSlogAdapter()

	manager := &lethe.Manager{
		Disks:       argus.NewDiscoverer(cfg.DiskDir),
		Arrays:      hydra.NewAssembler(runner, tools),
		Filesystems: hephaestus.NewFormatter(runner, tools),
		Binder:      atlas.NewBinder(runner, tools, cfg.MountRoot, hermesLogger),
		Logger:      hermesLogger,
		Metrics:     metrics,
	}

	srv := newServer(manager, cfg.Variant, hermesLogger, metrics)

	if err := os.MkdirAll(filepath.Dir(cfg.SocketPath), 0o755); err != nil {
		logger.Error("Failed to create socket directory", "error", err)
		os.Exit(1)
	}
	// A stale socket from an unclean shutdown blocks the listener.
	if err := os.Remove(cfg.SocketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("Failed to remove stale socket", "error", err)
		os.Exit(1)
	}
	listener, err := net.Listen("unix", cfg.SocketPath)
	if err != nil {
		logger.Error("Failed to listen", "socket", cfg.SocketPath, "error", err)
		os.Exit(1)
	}
	if err := os.Chmod(cfg.SocketPath, 0o660); err != nil {
		logger.Error("Failed to set socket permissions", "error", err)
		os.Exit(1)
	}

	httpServer := &http.Server{Handler: srv.routes()}

	go func() {
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
