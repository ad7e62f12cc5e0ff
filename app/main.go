package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/api"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/cfg"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/database"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/enrich"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/logging"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/pipeline"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/scheduler"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/source"
)

func main() {
	c, err := cfg.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if c == nil {
		// Help was shown, exit gracefully
		return
	}

	logging.Init(c.Debug)

	slog.Info("Starting Bengaluru Pulse", "version", c.Version)

	db, err := database.NewConnection(c.DBPath)
	if err != nil {
		slog.Error("Failed to connect to database", "path", c.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrationVersion, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", c.DBPath, "migration_version", migrationVersion, "dirty", dirty)

	taxonomy, err := enrich.LoadTaxonomy(c.DataDir)
	if err != nil {
		slog.Error("Failed to load taxonomy", "error", err)
		os.Exit(1)
	}

	gazetteer, err := enrich.LoadGazetteer(c.DataDir)
	if err != nil {
		slog.Error("Failed to load gazetteer", "error", err)
		os.Exit(1)
	}

	enricher := enrich.NewEnricher(taxonomy, gazetteer)
	slog.Info("Reference data loaded", "categories", len(taxonomy.Categories), "locations", len(gazetteer.Locations))

	configs, err := source.LoadConfigs(c.SourcesDir)
	if err != nil {
		slog.Error("Failed to load source configurations", "dir", c.SourcesDir, "error", err)
		os.Exit(1)
	}

	sources, err := source.NewAll(configs, source.Options{
		UserAgent:          c.UserAgent,
		RedditClientID:     c.RedditClientID,
		RedditClientSecret: c.RedditClientSecret,
		RedditUserAgent:    c.RedditUserAgent,
	})
	if err != nil {
		slog.Error("Failed to build sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources configured", "count", len(sources))

	eventRepo := database.NewEventRepository(db)
	runner := pipeline.NewRunner(sources, event.NewNormalizer(), enricher, eventRepo)

	if !c.Serve {
		runOnce(runner)
		return
	}

	serve(c, runner, eventRepo)
}

// runOnce performs a single scrape run and prints per-source insert counts.
// Fetch failures are contained per source; only a store failure is fatal.
func runOnce(runner *pipeline.Runner) {
	report, err := runner.Run(context.Background())
	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}

	for _, src := range report.Sources {
		fmt.Printf("%s: %d inserted, %d duplicates, %d malformed\n",
			src.Source, src.Inserted, src.Duplicates, src.Malformed)
	}
	fmt.Printf("total: %d inserted, %d duplicates, %d malformed\n",
		report.TotalInserted, report.TotalDuplicates, report.TotalMalformed)
}

func serve(c *cfg.Cfg, runner *pipeline.Runner, eventRepo database.EventRepository) {
	handler := api.NewHandler(eventRepo)

	sched := scheduler.NewScheduler(runner, time.Duration(c.Interval)*time.Second, handler.SetLastReport)
	sched.Start()

	httpServer := &http.Server{
		Addr:         ":" + c.Port,
		Handler:      api.NewServer(handler),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", c.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	sched.Stop()

	slog.Info("Shutdown complete")
}
