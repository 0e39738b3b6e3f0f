package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/CosmoTheDev/repolens/internal/config"
	"github.com/CosmoTheDev/repolens/models"
)

// Pipeline is the analysis surface the gateway exposes over HTTP.
type Pipeline interface {
	Analyze(ctx context.Context, rawURL string) (*models.RepoSnapshot, error)
	AnalyzeRepository(ctx context.Context, rawURL string) (*models.AnalysisResult, error)
	AnalyzeCode(ctx context.Context, rawURL, path string) (*models.CodeAnalysisResult, error)
}

// Gateway is the HTTP front end of the analysis pipeline. It holds no
// per-request state; every request runs the pipeline from scratch.
type Gateway struct {
	cfg       *config.Config
	pipeline  Pipeline
	startedAt time.Time
}

// New creates a Gateway. Call Start() to begin serving.
func New(cfg *config.Config, pipeline Pipeline) *Gateway {
	return &Gateway{
		cfg:       cfg,
		pipeline:  pipeline,
		startedAt: time.Now(),
	}
}

// Addr returns the host:port the gateway listens on.
func (gw *Gateway) Addr() string {
	host := gw.cfg.Gateway.Host
	if host == "" {
		host = "127.0.0.1"
	}
	port := gw.cfg.Gateway.Port
	if port == 0 {
		port = config.DefaultGatewayPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Handler returns the fully wrapped HTTP handler.
func (gw *Gateway) Handler() http.Handler {
	return withRequestLogging(withCORS(gw.cfg.Gateway.AllowedOrigins, buildHandler(gw)))
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully,
// giving in-flight analyses up to shutdownGrace to finish.
func (gw *Gateway) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", gw.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", gw.Addr(), err)
	}
	return gw.Serve(ctx, ln)
}

// Serve is Start on an existing listener. Request contexts are not derived
// from ctx; cancelling ctx only stops accepting and drains via Shutdown.
func (gw *Gateway) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           gw.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	slog.Info("gateway: listening", "addr", "http://"+ln.Addr().String())
	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	if err := <-shutdownErr; err != nil {
		slog.Warn("gateway: shutdown did not drain in time", "error", err)
	}
	slog.Info("gateway: stopped", "uptime", time.Since(gw.startedAt).Round(time.Second))
	return nil
}

const shutdownGrace = 5 * time.Second
