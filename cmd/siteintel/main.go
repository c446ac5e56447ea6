// Entry point for the siteintel service: HTTP API behind Basic Auth,
// optional MCP over stdio, SQLite profile store, configurable
// acquisition stack.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/siteintel/browser"
	"github.com/hazyhaar/siteintel/dbopen"
	"github.com/hazyhaar/siteintel/oracle"
	"github.com/hazyhaar/siteintel/profilestore"
	"github.com/hazyhaar/siteintel/siteintel"
)

func main() {
	cfg, err := loadConfig(os.Getenv("CONFIG_FILE"))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	mcpTransport := os.Getenv("MCP_TRANSPORT")

	// Logging. In stdio MCP mode the protocol owns stdout.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logOut := os.Stdout
	if mcpTransport == "stdio" {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Profile store.
	db, err := dbopen.Open(cfg.ProfileDB, dbopen.WithMkdirAll(), dbopen.WithSchema(profilestore.Schema))
	if err != nil {
		slog.Error("profile db", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	store := profilestore.New(db)

	// Oracle.
	if cfg.Oracle.BaseURL == "" {
		slog.Error("ORACLE_BASE_URL is required")
		os.Exit(1)
	}
	oracleClient, err := oracle.NewHTTP(oracle.Config{
		BaseURL: cfg.Oracle.BaseURL,
		Model:   cfg.Oracle.Model,
		APIKey:  cfg.Oracle.APIKey,
	})
	if err != nil {
		slog.Error("oracle client", "error", err)
		os.Exit(1)
	}

	// Rendering capability: reader proxy wins over a local browser.
	var opts []siteintel.ServiceOption
	switch {
	case cfg.ReaderProxyURL != "":
		opts = append(opts, siteintel.WithReaderProxy(cfg.ReaderProxyURL, 30*time.Second))
		slog.Info("renderer: reader proxy", "url", cfg.ReaderProxyURL)
	case cfg.Browser.Enabled:
		b := browser.New(browser.Config{RemoteURL: cfg.Browser.Remote, Logger: logger})
		defer b.Close()
		opts = append(opts, siteintel.WithRenderer(b))
		slog.Info("renderer: headless browser", "remote", cfg.Browser.Remote)
	}

	svcCfg := &siteintel.Config{
		MaxPages:          cfg.Scrape.MaxPages,
		PerPageCharBudget: cfg.Scrape.PerPageCharBudget,
		TotalCharBudget:   cfg.Scrape.TotalCharBudget,
		ScrapeDeadline:    time.Duration(cfg.Scrape.DeadlineSeconds) * time.Second,
	}
	svc := siteintel.New(store, oracleClient, svcCfg, logger, opts...)

	// MCP over stdio replaces the HTTP surface entirely.
	if mcpTransport == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "siteintel",
			Version: "1.0.0",
		}, nil)
		svc.RegisterMCP(mcpSrv)
		slog.Info("mcp: serving on stdio")
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("mcp", "error", err)
			os.Exit(1)
		}
		return
	}

	// Router.
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Group(func(r chi.Router) {
		r.Use(basicAuth(cfg.Auth.User, cfg.Auth.PasswordHash))
		svc.RegisterRoutes(r)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}
