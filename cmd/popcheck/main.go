package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"popcheck/frontend/catalog"
	"popcheck/frontend/checklist"
	"popcheck/frontend/history"
	"popcheck/frontend/submission"
	"popcheck/infrastructure/config"
	httpserver "popcheck/infrastructure/http"
	"popcheck/infrastructure/kv"
	"popcheck/infrastructure/sqlite"
)

func main() {
	configPath := pflag.String("config", getenv("POPCHECK_CONFIG", ""), "path to the YAML config file")
	addr := pflag.String("addr", "", "listen address, overrides config")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.SQLitePath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	store := checklist.NewStore(kv.NewSQLiteStore(db))
	if err := store.Load(context.Background()); err != nil {
		log.Fatalf("load check state: %v", err)
	}

	client := &http.Client{Timeout: time.Duration(cfg.FetchTimeout) * time.Second}
	catalogSvc := catalog.NewService(client, cfg.SourceURLs())
	if err := catalogSvc.LoadAll(context.Background()); err != nil {
		// The service still starts; reload can be retried once the
		// sheets come back.
		log.Printf("initial catalog load failed: %v", err)
	}

	dispatcher := submission.NewDispatcher(client, cfg.ReportURL)
	historyClient := history.NewClient(client, cfg.HistoryURL)

	server := httpserver.NewServer(cfg.Addr, db, catalogSvc, store, dispatcher, historyClient, cfg.Branches)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("popcheck listening on %s", cfg.Addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
