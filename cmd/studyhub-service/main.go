package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/internal/catalog"
	"studyhub/internal/config"
	"studyhub/internal/httpapi"
	"studyhub/internal/logging"
	"studyhub/internal/study"
	"studyhub/internal/theme"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	addr := flag.String("addr", cfg.HTTPAddr, "HTTP listen address")
	dbDriver := flag.String("db-driver", cfg.DBDriver, "sqlite driver: sqlite3 (cgo) or sqlite (pure Go)")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	catalogPath := flag.String("catalog", cfg.CatalogPath, "YAML test catalog (defaults to the built-in one)")
	flag.Parse()

	logger := logging.New(os.Stderr, cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := loadCatalog(*catalogPath)
	if err != nil {
		return err
	}

	store, err := catalog.NewSQLiteStore(catalog.Driver(*dbDriver), *dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Seed(ctx, source); err != nil {
		return err
	}

	themes, err := theme.NewSQLiteStore(ctx, store.DB())
	if err != nil {
		return err
	}

	topics, err := study.Default()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr: *addr,
		Handler: httpapi.NewRouter(httpapi.Options{
			Catalog:     store,
			Topics:      topics,
			Theme:       theme.NewService(themes),
			Logger:      logger,
			SessionTTL:  cfg.SessionTTL,
			CORSOrigins: cfg.CORSOrigins,
			LogBodies:   cfg.LogBodies,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.LogError(err, "shutdown failed")
		}
	}()

	logger.Info("studyhub-service listening",
		"addr", *addr,
		"db_driver", *dbDriver,
		"db", *dbPath,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("studyhub-service stopped")
	return nil
}

func loadCatalog(path string) (*catalog.Static, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
