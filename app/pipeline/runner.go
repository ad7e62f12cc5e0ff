package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/database"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/enrich"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/event"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/metrics"
	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/source"
)

// Runner executes one scrape run: fetch every source concurrently,
// normalize and enrich each record, and store the results. A failing
// source only skips its own branch; a failing store aborts the run.
type Runner struct {
	sources    []source.Source
	normalizer *event.Normalizer
	enricher   *enrich.Enricher
	eventRepo  database.EventRepository
}

func NewRunner(sources []source.Source, normalizer *event.Normalizer, enricher *enrich.Enricher, eventRepo database.EventRepository) *Runner {
	return &Runner{
		sources:    sources,
		normalizer: normalizer,
		enricher:   enricher,
		eventRepo:  eventRepo,
	}
}

func (r *Runner) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	// One clock read per run so every stored event shares the timestamp
	scrapedAt := start.UTC()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	results := make([]SourceReport, len(r.sources))
	storeErrs := make(chan error, len(r.sources))

	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src source.Source) {
			defer wg.Done()
			results[i] = r.processSource(runCtx, cancel, src, scrapedAt, storeErrs)
		}(i, src)
	}

	wg.Wait()
	close(storeErrs)

	var storeErr error
	for err := range storeErrs {
		if storeErr == nil {
			storeErr = err
		}
	}
	if storeErr != nil {
		return nil, fmt.Errorf("run aborted: %w", storeErr)
	}

	report := &Report{
		StartedAt: scrapedAt,
		Sources:   make([]SourceReport, 0, len(results)),
	}
	for _, sourceReport := range results {
		report.addSource(sourceReport)
	}
	report.DurationSeconds = time.Since(start).Seconds()
	metrics.RunDuration.Observe(report.DurationSeconds)

	slog.Info("Run completed",
		"duration", time.Since(start),
		"sources", len(r.sources),
		"fetched", report.TotalFetched,
		"inserted", report.TotalInserted,
		"duplicates", report.TotalDuplicates,
		"malformed", report.TotalMalformed)

	return report, nil
}

func (r *Runner) processSource(ctx context.Context, cancel context.CancelFunc, src source.Source, scrapedAt time.Time, storeErrs chan<- error) SourceReport {
	report := SourceReport{Source: src.Name(), Status: StatusCompleted}

	records, err := src.Fetch(ctx)
	if err != nil {
		slog.Warn("Source fetch failed, skipping", "source", src.Name(), "error", err)
		metrics.SourceFailures.WithLabelValues(src.Name()).Inc()
		report.Status = StatusSkipped
		report.Error = err.Error()
		return report
	}

	report.Fetched = len(records)

	for _, record := range records {
		select {
		case <-ctx.Done():
			report.Status = StatusSkipped
			report.Error = ctx.Err().Error()
			return report
		default:
		}

		ev, err := r.normalizer.Run(record, scrapedAt)
		if err != nil {
			slog.Debug("Record rejected", "source", src.Name(), "error", err)
			report.Malformed++
			metrics.RecordsProcessed.WithLabelValues(src.Name(), "malformed").Inc()
			continue
		}
		report.Normalized++

		ev.Analysis = r.enricher.Run(ev.ContentRaw)
		r.mergeFlair(&ev, record.Flair)

		inserted, err := r.eventRepo.InsertEvent(ev)
		if err != nil {
			slog.Error("Failed to store event, aborting run", "source", src.Name(), "event_id", ev.EventID, "error", err)
			report.Status = StatusSkipped
			report.Error = err.Error()
			storeErrs <- err
			cancel()
			return report
		}

		if inserted {
			report.Inserted++
			metrics.RecordsProcessed.WithLabelValues(src.Name(), "inserted").Inc()
		} else {
			report.Duplicates++
			metrics.RecordsProcessed.WithLabelValues(src.Name(), "duplicate").Inc()
		}
	}

	slog.Info("Source completed",
		"source", src.Name(),
		"fetched", report.Fetched,
		"inserted", report.Inserted,
		"duplicates", report.Duplicates,
		"malformed", report.Malformed)

	return report
}

// mergeFlair folds a source-supplied tag into the categories, but only
// when it resolves to a known taxonomy category.
func (r *Runner) mergeFlair(ev *event.Event, flair string) {
	if flair == "" {
		return
	}

	canonical, ok := r.enricher.CanonicalCategory(flair)
	if !ok {
		return
	}

	for _, category := range ev.Analysis.Categories {
		if category == canonical {
			return
		}
	}
	ev.Analysis.Categories = append(ev.Analysis.Categories, canonical)
}
