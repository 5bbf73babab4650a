package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/username/holiday-planner/internal/planner"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Daemon represents the daemon process: it keeps the planner refreshed
// and serves the HTTP API until interrupted.
type Daemon struct {
	planner    *planner.Planner
	server     *http.Server
	systemTray bool // Show system tray icon (Windows only)
	logger     *zap.Logger
	ctx        context.Context
	cancel     context.CancelFunc
	trayApp    *TrayApp
}

// NewDaemon creates a new daemon instance serving the given handler
func NewDaemon(p *planner.Planner, addr string, handler http.Handler, systemTray bool, logger *zap.Logger) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())

	return &Daemon{
		planner: p,
		server: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
		systemTray: systemTray,
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Start starts the daemon
func (d *Daemon) Start() error {
	// Kick off the initial holiday fetch for the current selection
	d.planner.Start(d.ctx)

	// Initialize system tray if enabled (Windows only)
	if d.systemTray {
		d.logger.Info("Initializing system tray")
		trayApp, err := NewTrayApp(d, d.logger)
		if err != nil {
			d.logger.Warn("Failed to initialize system tray", zap.Error(err))
			// Fall back to non-tray mode
			return d.runServer()
		}
		d.trayApp = trayApp
		// Run tray (blocks until Quit)
		d.trayApp.Run()
		return nil
	}

	d.logger.Info("Running without system tray")
	return d.runServer()
}

// runServer serves HTTP until a signal or Stop arrives
func (d *Daemon) runServer() error {
	errChan := make(chan error, 1)

	go func() {
		d.logger.Info("HTTP server listening", zap.String("addr", d.server.Addr))
		if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		d.cancel()
		return fmt.Errorf("http server failed: %w", err)

	case sig := <-sigChan:
		d.logger.Info("Received signal, shutting down",
			zap.String("signal", sig.String()))

	case <-d.ctx.Done():
		d.logger.Info("Daemon stopped")
	}

	return d.shutdown()
}

// shutdown drains in-flight requests before exiting
func (d *Daemon) shutdown() error {
	d.cancel()
	if d.trayApp != nil {
		d.trayApp.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := d.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	d.logger.Info("Daemon stopped")
	return nil
}

// Stop stops the daemon
func (d *Daemon) Stop() {
	d.cancel()
}

// RefreshNow triggers an immediate holiday refresh (called from tray menu)
func (d *Daemon) RefreshNow() {
	d.logger.Info("Manual refresh triggered from tray")
	d.planner.Start(d.ctx)
}
