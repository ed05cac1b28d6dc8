package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/feedback-widget/internal/client"
	"github.com/rpggio/feedback-widget/internal/config"
	"github.com/rpggio/feedback-widget/internal/domain/activity"
	"github.com/rpggio/feedback-widget/internal/domain/feedback"
	"github.com/rpggio/feedback-widget/internal/mcp"
	"github.com/rpggio/feedback-widget/internal/sqlite"
	"github.com/rpggio/feedback-widget/internal/transport"
	"github.com/rpggio/feedback-widget/internal/widget"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run returns instead of exiting so deferred cleanup, including draining the
// widget host, always happens.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	host := mcp.NewHost(cfg.Client.BaseURL, widget.Options{
		Logger:  logger,
		Clients: clientFactory(cfg.Client, logger),
	}, logger)
	defer host.Close()

	mcpServer := mcp.NewServer(mcp.Config{
		Host:        host,
		ToolTimeout: 2 * cfg.Client.Timeout,
		Logger:      logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return runStdioMode(logger, mcpServer, cfg.Client)
	}
	return runHTTPMode(logger, mcpServer, cfg)
}

func clientFactory(cfg config.ClientConfig, logger *slog.Logger) widget.ClientFactory {
	return func(wc widget.Config) widget.FeedbackClient {
		if cfg.Demo || wc.Demo {
			return client.NewDemoClient()
		}
		return client.NewFeedbackClient(wc.BaseURL,
			client.WithTimeout(cfg.Timeout),
			client.WithLogger(logger),
		)
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.ClientConfig) error {
	logger.Info("starting stdio transport", "base_url", cfg.BaseURL, "demo", cfg.Demo)

	transport := &sdkmcp.StdioTransport{}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, cfg config.Config) error {
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	feedbackRepo := sqlite.NewFeedbackRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	feedbackSvc := feedback.NewService(feedbackRepo, activityRepo, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	router := transport.NewServer(feedbackSvc, activitySvc, logger)

	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
		},
	)
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/*", mcpHandler)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, "feedback-service"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "db", cfg.DB.Path)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return waitForShutdown(logger, httpServer, serveErr)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server, serveErr <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("serve http: %w", err)
		}
		return nil
	case <-stop:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
