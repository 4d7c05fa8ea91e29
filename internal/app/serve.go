package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blackwell-systems/appdex/internal/daemon"
	"github.com/blackwell-systems/appdex/internal/output"
	"github.com/blackwell-systems/appdex/internal/scheduler"
	"github.com/blackwell-systems/appdex/internal/server"
)

const (
	shutdownTimeout  = 5 * time.Second
	stopPollInterval = 100 * time.Millisecond
)

var (
	serveDaemon      bool
	serveDaemonChild bool
	servePIDFile     string
	serveLogFile     string
	serveStop        bool
	serveListen      string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve the launcher API and keep the index fresh",
		Long: `Serve the launcher's HTTP API on a local address and keep the
application index fresh in the background.

While serving, the index is rebuilt at startup when stale, every
APPDEX_REFRESH_INTERVAL and shortly after shortcut directories change.
Only one rebuild runs at a time; refresh requests that arrive during a
rebuild are dropped.

Serve modes:
  • Foreground (default): Run in current terminal with Ctrl+C to stop
  • Daemon: Run as a detached background process
  • Stop: Stop a running daemon

Endpoints:
  GET  /api/apps/search?q=    GET  /api/apps/recent
  POST /api/apps/:id/open     POST /api/apps
  GET  /api/index/status      POST /api/index/refresh
  GET  /api/history           GET  /metrics`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  appdex serve

  # Run as background daemon
  appdex serve --daemon

  # Stop running daemon
  appdex serve --stop

  # Listen on another port
  appdex serve --listen 127.0.0.1:9000`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
)

func init() {
	serveCmd.Flags().BoolVar(&serveDaemon, "daemon", false, "run as background daemon")
	serveCmd.Flags().BoolVar(&serveDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	serveCmd.Flags().StringVar(&servePIDFile, "pid-file", "", "PID file path (default: <data-dir>/serve.pid)")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "log file path (default: <data-dir>/serve.log)")
	serveCmd.Flags().BoolVar(&serveStop, "stop", false, "stop running daemon")
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default: $APPDEX_LISTEN or 127.0.0.1:7419)")

	// Hide the internal daemon-child flag from help
	serveCmd.Flags().MarkHidden("daemon-child")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		servePIDFile = defaultPID
	}

	if serveLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		serveLogFile = defaultLog
	}

	if serveStop {
		return stopServeDaemon()
	}
	if serveDaemon {
		return startServeDaemon()
	}

	e, err := openEnv("")
	if err != nil {
		return err
	}
	defer e.Close()

	if serveDaemonChild {
		// Output is redirected to the log file; only the logger reports.
		defer daemon.RemovePIDFile(servePIDFile)
		return runServer(e, nil)
	}
	return runServeForeground(e)
}

func stopServeDaemon() error {
	running, err := daemon.IsRunning(servePIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}

	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon").WithElapsed()
	spinner.Start()
	if err := daemon.Stop(servePIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}

	// The daemon saves the index while shutting down.
	spinner.UpdateMessage("Waiting for daemon to exit")
	deadline := time.Now().Add(shutdownTimeout + time.Second)
	for time.Now().Before(deadline) {
		if running, err := daemon.IsRunning(servePIDFile); err != nil || !running {
			spinner.StopWithMessage("✓ Daemon stopped")
			return nil
		}
		time.Sleep(stopPollInterval)
	}
	spinner.StopWithMessage("⚠ Daemon signalled but still running")
	return nil
}

// daemonArgs returns the child's command line, carrying the global flags.
func daemonArgs() []string {
	args := []string{"serve", "--daemon-child", "--pid-file", servePIDFile}
	if serveListen != "" {
		args = append(args, "--listen", serveListen)
	}
	if dataDirFlag != "" {
		args = append(args, "--data-dir", dataDirFlag)
	}
	if configFlag != "" {
		args = append(args, "--config", configFlag)
	}
	if logLevelFlag != "" {
		args = append(args, "--log-level", logLevelFlag)
	}
	return args
}

func startServeDaemon() error {
	spinner := output.NewSpinner("Starting daemon").WithElapsed()
	spinner.Start()
	pid, err := daemon.Start(servePIDFile, serveLogFile, daemonArgs()...)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage(fmt.Sprintf("✓ Daemon started (PID %d)", pid))

	fmt.Printf("\nLauncher API daemon started\n")
	fmt.Printf("  PID file: %s\n", servePIDFile)
	fmt.Printf("  Log file: %s\n", serveLogFile)
	fmt.Printf("\nTo stop: appdex serve --stop\n")
	return nil
}

func runServeForeground(e *env) error {
	fmt.Printf("Serving launcher API on %s (press Ctrl+C to stop)...\n", listenAddr(e))
	fmt.Println()

	return runServer(e, func() {
		fmt.Println("\nShutting down...")
	})
}

func listenAddr(e *env) string {
	if serveListen != "" {
		return serveListen
	}
	return e.cfg.Listen
}

// runServer serves until a shutdown signal arrives or the listener fails.
// onSignal, if set, runs when shutdown starts.
func runServer(e *env, onSignal func()) error {
	logger := e.logger.Logger

	srv := server.New(server.Config{
		Addr:        listenAddr(e),
		Development: e.cfg.LogDevelopment,
	}, e.engine, e.history, e.metrics, logger)

	e.scheduler.Start()

	if e.cfg.WatchShortcuts {
		w, err := e.scheduler.WatchShortcuts(e.shortcutDirs(), scheduler.DefaultDebounce)
		if err != nil {
			logger.Warn("shortcut watcher unavailable", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	ctx, stop := daemon.NotifyContext(context.Background())
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	if onSignal != nil {
		onSignal()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return <-errCh
}
