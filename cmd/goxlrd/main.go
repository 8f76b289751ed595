package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goxlr-daemon/goxlrd/internal/api"
	"github.com/goxlr-daemon/goxlrd/internal/config"
	"github.com/goxlr-daemon/goxlrd/internal/ipc"
	"github.com/goxlr-daemon/goxlrd/internal/ipcserver"
	"github.com/goxlr-daemon/goxlrd/internal/journal"
	"github.com/goxlr-daemon/goxlrd/internal/metrics"
	"github.com/goxlr-daemon/goxlrd/internal/profilestore"
	"github.com/goxlr-daemon/goxlrd/internal/supervisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	logger := slog.New(cfg.SlogHandler(os.Stdout))
	slog.SetDefault(logger)

	slog.Info("starting goxlrd",
		"http_port", cfg.HTTPPort,
		"socket_path", cfg.SocketPath,
		"data_dir", cfg.DataDir,
	)

	if err := config.HashAndPersistPassphrase(cfg.DataDir, cfg.SocketPassphrase); err != nil {
		slog.Error("failed to persist control-socket passphrase", "error", err)
		os.Exit(1)
	}

	jdb, err := journal.Open(cfg.DataDir)
	if err != nil {
		slog.Error("failed to open device event journal", "error", err)
		os.Exit(1)
	}
	defer jdb.Close()

	profiles := profilestore.New(cfg.DataDir)
	renderer := noopScribbleRenderer{}

	sup := supervisor.New(logger, profiles, renderer)
	sup.SetJournal(journal.New(jdb))

	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	supDone := make(chan error, 1)
	go func() {
		supDone <- sup.Run(appCtx)
	}()

	dispatcher := ipc.NewDispatcher(sup)

	httpServer, err := api.NewServer(sup, cfg)
	if err != nil {
		slog.Error("failed to build http server", "error", err)
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.Handle("/", httpServer)
	mux.Handle("/metrics", promhttp.Handler())
	prometheus.MustRegister(metrics.NewCollector(sup, time.Now()))

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTPBindAddress, cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		slog.Info("http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sockSrv := ipcserver.New(cfg.SocketPath, dispatcher)
	go func() {
		slog.Info("control socket listening", "path", cfg.SocketPath)
		if err := sockSrv.ListenAndServe(appCtx); err != nil {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		slog.Error("server error", "error", err)
	case err := <-supDone:
		if err != nil {
			slog.Error("supervisor stopped unexpectedly", "error", err)
		}
	}

	appCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	select {
	case <-supDone:
	case <-ctx.Done():
		slog.Warn("supervisor did not stop before shutdown deadline")
	}

	slog.Info("goxlrd stopped")
}

// noopScribbleRenderer is the minimal concrete faders.ScribbleRenderer:
// scribble bitmap rendering is named an out-of-scope, contract-only
// external collaborator, so the daemon sends an all-zero bitmap rather
// than interpreting image or font data itself.
type noopScribbleRenderer struct{}

func (noopScribbleRenderer) Render(imagePath *string, text *string, label *rune, inverted bool) ([1024]byte, error) {
	var bitmap [1024]byte
	return bitmap, nil
}
