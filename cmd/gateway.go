package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CosmoTheDev/repolens/internal/analysis"
	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/internal/gateway"
	"github.com/spf13/cobra"
)

var (
	servePort   int
	serveHost   string
	serveLogDir string
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"gateway"},
	Short:   "Start the repolens HTTP API",
	Long: `Starts a long-running HTTP server exposing the analysis pipeline
(default: http://127.0.0.1:8000).

Every request fetches the repository afresh; nothing is cached or stored.

Quick API reference:
  GET  /health           liveness check
  POST /analyze          metadata and file tree  (body: {"repo_url":"..."})
  POST /analyze/repo     repository analysis     (body: {"repo_url":"..."})
  POST /analyze/code     single file analysis    (body: {"repo_url":"...","file_path":"..."})`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0,
		"HTTP port to listen on (default 8000, overrides config)")
	serveCmd.Flags().StringVar(&serveHost, "host", "",
		"interface to bind (default 127.0.0.1, overrides config)")
	serveCmd.Flags().StringVar(&serveLogDir, "log-dir", "",
		"directory to also write request logs to (disabled when empty)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		fmt.Println("\nShutting down gracefully...")
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logFilePath, closeLog, err := setupFileLogger(serveLogDir)
	if err != nil {
		return fmt.Errorf("initialising logger: %w", err)
	}
	defer closeLog()

	if servePort > 0 {
		cfg.Gateway.Port = servePort
	}
	if serveHost != "" {
		cfg.Gateway.Host = serveHost
	}

	svc, err := analysis.New(cfg)
	if err != nil {
		return err
	}
	gw := gateway.New(cfg, svc)

	fmt.Printf("repolens gateway starting\n")
	fmt.Printf("  API        : http://%s\n", gw.Addr())
	fmt.Printf("  AI         : %s\n", cfg.AI.Provider)
	fmt.Printf("  Tree source: %s\n", cfg.Repository.Source)
	if logFilePath != "" {
		fmt.Printf("  Logs       : %s\n", logFilePath)
	}
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop gracefully.")
	fmt.Println()

	return gw.Start(ctx)
}

// setupFileLogger sends slog output to stdout and, when logDir is set, to a
// per-run file plus a rolling "gateway.log". It returns the per-run path.
func setupFileLogger(logDir string) (string, func(), error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level, AddSource: verbose}

	if logDir == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, opts)))
		return "", func() {}, nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return "", nil, fmt.Errorf("creating log dir %s: %w", logDir, err)
	}

	ts := time.Now().UTC().Format("20060102-150405")
	runLogPath := filepath.Join(logDir, fmt.Sprintf("gateway-%s.log", ts))
	runFile, err := os.OpenFile(runLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", nil, fmt.Errorf("opening run log file: %w", err)
	}

	latestPath := filepath.Join(logDir, "gateway.log")
	latestFile, err := os.OpenFile(latestPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		_ = runFile.Close()
		return "", nil, fmt.Errorf("opening latest log file: %w", err)
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, runFile, latestFile), opts)
	slog.SetDefault(slog.New(handler))

	cleanup := func() {
		_ = latestFile.Close()
		_ = runFile.Close()
	}
	return runLogPath, cleanup, nil
}
