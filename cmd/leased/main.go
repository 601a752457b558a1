package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/leasebook/leasebook/internal/config"
	"github.com/leasebook/leasebook/internal/fx"
	httpapi "github.com/leasebook/leasebook/internal/httpapi/v1"
	"github.com/leasebook/leasebook/internal/journal"
	"github.com/leasebook/leasebook/internal/service/posting"
	"github.com/leasebook/leasebook/internal/storage/memory"
	pgstore "github.com/leasebook/leasebook/internal/storage/postgres"
	sqlitestore "github.com/leasebook/leasebook/internal/storage/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := buildLogger(cfg)
	slog.SetDefault(logger)

	chart := journal.DefaultChart()
	if cfg.AccountsFile != "" {
		loaded, err := journal.LoadChart(cfg.AccountsFile)
		if err != nil {
			logger.Error("failed to load accounts file", "path", cfg.AccountsFile, "err", err)
			os.Exit(1)
		}
		chart = loaded
		logger.Info("chart of accounts loaded", "path", cfg.AccountsFile)
	}

	rates := fx.NewTable(cfg.BaseCurrency, nil)
	postings := posting.New(journal.NewRegistry(chart), rates, logger)

	var (
		handler http.Handler
		closeFn func()
	)

	switch {
	case cfg.DatabaseURL != "":
		pg, err := pgstore.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "err", err)
			os.Exit(1)
		}
		closeFn = pg.Close
		handler = httpapi.New(pg, pg, postings, pg, logger, cfg.APIToken).Handler()
		logger.Info("storage backend: postgres")
	case cfg.SQLitePath != "":
		db, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			logger.Error("failed to open sqlite store", "path", cfg.SQLitePath, "err", err)
			os.Exit(1)
		}
		closeFn = func() { _ = db.Close() }
		handler = httpapi.New(db, db, postings, db, logger, cfg.APIToken).Handler()
		logger.Info("storage backend: sqlite", "path", cfg.SQLitePath)
	default:
		store := memory.New()
		handler = httpapi.New(store, store, postings, nil, logger, cfg.APIToken).Handler()
		logger.Info("storage backend: memory")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("lease service listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("server shutdown error", "err", err)
		}
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}
	if closeFn != nil {
		closeFn()
	}
}

// parseLogLevel maps env values to slog.Leveler
func parseLogLevel(s string) slog.Leveler {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func buildLogger(cfg config.Config) *slog.Logger {
	level := parseLogLevel(cfg.LogLevel)
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	}
	// default to JSON
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
