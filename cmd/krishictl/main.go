package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/krishimitra/krishirag/internal/config"
	"github.com/krishimitra/krishirag/internal/extractor"
	"github.com/krishimitra/krishirag/internal/indexer"
	"github.com/krishimitra/krishirag/internal/pipeline"
	"github.com/krishimitra/krishirag/internal/scheduler"
	"github.com/krishimitra/krishirag/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "reindex":
		runReindex(os.Args[2:])
	case "search":
		runSearch(os.Args[2:])
	case "stats":
		runStats(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: krishictl <command> [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  reindex [-type full|incremental|maintenance]  run a reindex job")
	fmt.Println("  search <query> [-state name]                  query the local store")
	fmt.Println("  stats                                         show corpus counts")
}

type env struct {
	cfg      config.Config
	store    *store.Store
	pipeline *pipeline.Pipeline
	logger   *log.Logger
}

func setup(configPath string, verbose bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	out := io.Discard
	if verbose {
		out = os.Stderr
	}
	logger := log.New(out, "", log.LstdFlags)

	fetcher := indexer.NewFetcher(cfg.FetchTimeout(), cfg.Fetch.Retries)
	p := pipeline.New(st,
		indexer.NewWebsiteIndexer(fetcher, logger),
		indexer.NewPDFProcessor(fetcher, logger),
		extractor.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.Overlap), logger)

	return &env{cfg: cfg, store: st, pipeline: p, logger: logger}, nil
}

func runReindex(args []string) {
	flags := flag.NewFlagSet("reindex", flag.ExitOnError)
	kind := flags.String("type", "full", "job type: full, incremental or maintenance")
	configPath := flags.String("config", "config.yaml", "path to config file")
	flags.Parse(args)

	e, err := setup(*configPath, true)
	if err != nil {
		fail("setup failed: %v", err)
	}
	defer e.store.Close()

	sched, err := scheduler.New(e.pipeline, e.store, scheduler.Config{DataDir: e.cfg.DataDir}, e.logger)
	if err != nil {
		fail("scheduler setup failed: %v", err)
	}

	color.Cyan("Running %s reindex...", *kind)
	if err := sched.ForceReindex(context.Background(), scheduler.JobKind(*kind)); err != nil {
		fail("reindex failed: %v", err)
	}

	_, state := sched.Status()
	color.Green("Reindex complete")
	for key, value := range state.LastStats {
		fmt.Printf("  %s: %d\n", key, value)
	}
}

func runSearch(args []string) {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	state := flags.String("state", "", "restrict to one state")
	configPath := flags.String("config", "config.yaml", "path to config file")
	flags.Parse(args)

	if flags.NArg() == 0 {
		fail("search requires a query")
	}
	query := strings.Join(flags.Args(), " ")

	e, err := setup(*configPath, false)
	if err != nil {
		fail("setup failed: %v", err)
	}
	defer e.store.Close()

	resp := e.pipeline.ProcessQuery(query, pipeline.QueryContext{State: *state})
	if resp.Error != "" {
		fail("%s", resp.Error)
	}

	if !resp.Success {
		color.Yellow("No matching schemes found")
		for _, tip := range resp.Suggestions {
			fmt.Printf("  - %s\n", tip)
		}
		return
	}

	color.Green("Found %d schemes (confidence %.2f)", resp.TotalFound, resp.Confidence)
	for _, scheme := range resp.Schemes {
		fmt.Println()
		color.New(color.Bold).Printf("%s", scheme.Name)
		fmt.Printf("  [%s, %.2f]\n", scheme.DataSource, scheme.RelevanceScore)
		if scheme.State != "" {
			fmt.Printf("  State:    %s\n", scheme.State)
		}
		if scheme.SubsidyAmount != "" {
			fmt.Printf("  Subsidy:  %s\n", scheme.SubsidyAmount)
		}
		if len(scheme.Eligibility) > 0 {
			fmt.Printf("  Eligible: %s\n", strings.Join(scheme.Eligibility, "; "))
		}
		if len(scheme.ApplicationLinks) > 0 {
			fmt.Printf("  Apply:    %s\n", scheme.ApplicationLinks[0])
		}
	}
}

func runStats(args []string) {
	flags := flag.NewFlagSet("stats", flag.ExitOnError)
	configPath := flags.String("config", "config.yaml", "path to config file")
	flags.Parse(args)

	e, err := setup(*configPath, false)
	if err != nil {
		fail("setup failed: %v", err)
	}
	defer e.store.Close()

	stats, err := e.pipeline.SystemStats()
	if err != nil {
		fail("failed to read stats: %v", err)
	}

	color.Cyan("Corpus statistics")
	fmt.Printf("  documents: %d\n", stats.TotalDocuments)
	fmt.Printf("  schemes:   %d\n", stats.TotalSchemes)
}

func fail(format string, args ...any) {
	color.Red(format, args...)
	os.Exit(1)
}
