// Command atelier serves the portfolio catalog and viewer sessions over MCP
// (stdio or streamable HTTP) and a REST API.
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

	"github.com/ganot/atelier/internal/app"
	"github.com/ganot/atelier/internal/catalog"
	"github.com/ganot/atelier/internal/config"
	"github.com/ganot/atelier/internal/logfile"
	"github.com/ganot/atelier/internal/mcp"
	"github.com/ganot/atelier/internal/sqlite"
	"github.com/ganot/atelier/internal/transport"
)

var version = "dev"

const (
	mcpSessionTimeout = 30 * time.Minute
	shutdownTimeout   = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("atelier stopped", "error", err)
		stop()
		closeLog()
		os.Exit(1)
	}
}

// newLogger writes to the configured log file, or to the stream the
// transport leaves free: stdout carries JSON-RPC in stdio mode.
func newLogger(cfg config.Config) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	if cfg.Transport.Mode == config.TransportStdio {
		out = os.Stderr
	}
	closeLog := func() {}
	if cfg.Log.Path != "" {
		file, err := logfile.Open(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			out = file
			closeLog = func() { _ = file.Close() }
		}
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLogLevel(cfg.Log.Level)})
	return slog.New(handler), closeLog
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	projects, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog %q: %w", cfg.Catalog.Path, err)
	}
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("prepare database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	a, err := app.New(ctx, db, projects, app.Options{MaxTags: cfg.Catalog.MaxTags, Logger: logger})
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	logger.Info("catalog ready", "projects", len(projects), "db", cfg.DB.Path)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: a.Projects,
			Sessions: a.Sessions,
			Activity: a.Activity,
		},
		Resolver:      a.APIKeys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
		Version:       version,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		logger.Info("serving stdio", "auth", false)
		// Run returns once stdin closes or ctx is canceled.
		if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio: %w", err)
		}
		return nil
	}
	return serveHTTP(ctx, cfg, logger, a, mcpServer)
}

func serveHTTP(ctx context.Context, cfg config.Config, logger *slog.Logger, a *app.App, mcpServer *sdkmcp.Server) error {
	routes := transport.Config{
		Projects: a.Projects,
		Sessions: a.Sessions,
		Activity: a.Activity,
		MCP: sdkmcp.NewStreamableHTTPHandler(
			func(*http.Request) *sdkmcp.Server { return mcpServer },
			&sdkmcp.StreamableHTTPOptions{SessionTimeout: mcpSessionTimeout},
		),
		Logger: logger,
	}
	if cfg.Auth.Enabled {
		routes.Auth = transport.AuthMiddleware(a.APIKeys)
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           transport.NewServer(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving http", "addr", server.Addr, "auth", cfg.Auth.Enabled)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func ensureDBDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		return os.MkdirAll(dir, 0o755)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
