package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/krishimitra/krishirag/internal/api"
	"github.com/krishimitra/krishirag/internal/config"
	"github.com/krishimitra/krishirag/internal/extractor"
	"github.com/krishimitra/krishirag/internal/indexer"
	"github.com/krishimitra/krishirag/internal/pipeline"
	"github.com/krishimitra/krishirag/internal/scheduler"
	"github.com/krishimitra/krishirag/internal/store"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Fatalf("Failed to create data dir: %v", err)
	}

	logFile, err := os.OpenFile(filepath.Join(cfg.DataDir, "server.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer logFile.Close()

	logger := log.New(io.MultiWriter(os.Stdout, logFile), "", log.LstdFlags)

	logger.Println("Opening store...")
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	fetcher := indexer.NewFetcher(cfg.FetchTimeout(), cfg.Fetch.Retries)
	chunker := extractor.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap)

	p := pipeline.New(st,
		indexer.NewWebsiteIndexer(fetcher, logger),
		indexer.NewPDFProcessor(fetcher, logger),
		chunker, logger)

	sched, err := scheduler.New(p, st, scheduler.Config{
		DataDir:         cfg.DataDir,
		FullWeekday:     cfg.Scheduler.Weekday(),
		FullHour:        cfg.Scheduler.FullHour,
		IncrementalHour: cfg.Scheduler.IncrementalHour,
		MaintenanceDay:  cfg.Scheduler.MaintenanceDay,
		MaintenanceHour: cfg.Scheduler.MaintenanceHour,
		RetentionDays:   cfg.Scheduler.RetentionDays,
	}, logger)
	if err != nil {
		logger.Fatalf("Failed to create scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sched.Start(ctx)

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.NewServer(p, sched, logger).Router(),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("Shutting down gracefully...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Printf("Shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server error: %v", err)
	}

	logger.Println("Server stopped")
}
