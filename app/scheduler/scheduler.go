package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/magnetbrains-bit/bengaluru-data-scrape/app/pipeline"
)

// Runner executes a single ingestion pass over all configured sources.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Report, error)
}

var _ Runner = (*pipeline.Runner)(nil)

type Scheduler struct {
	runner   Runner
	interval time.Duration
	onReport func(*pipeline.Report)
	running  atomic.Bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewScheduler creates a scheduler that triggers an ingestion run immediately
// on Start and then once per interval. onReport is invoked after each
// successful run and may be nil.
func NewScheduler(runner Runner, interval time.Duration, onReport func(*pipeline.Report)) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   runner,
		interval: interval,
		onReport: onReport,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.launchRun()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.launchRun()
			}
		}
	}()
}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) launchRun() {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("Previous run still in progress, skipping scheduled run")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		report, err := s.runner.Run(s.ctx)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			slog.Error("Scheduled run failed", "error", err)
			return
		}

		if s.onReport != nil {
			s.onReport(report)
		}
	}()
}
