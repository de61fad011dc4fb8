package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/logger"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

// Scheduler evicts outdated cache data on start and then every interval.
type Scheduler struct {
	cleaner  service.CleanerService
	interval time.Duration
	trigger  chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	mu         sync.Mutex
	cancelFunc context.CancelFunc // cancels the running pass
	lastReport service.CleanReport
	lastRun    time.Time
}

func New(cleaner service.CleanerService, interval time.Duration) *Scheduler {
	return &Scheduler{
		cleaner:  cleaner,
		interval: interval,
		trigger:  make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "action", "clean", "resource", "cache", "result", "ok", "interval_ms", s.interval.Milliseconds())
}

// Stop cancels a running pass and waits for the loop to exit. Safe to call twice.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.cancelFunc != nil {
			s.cancelFunc()
		}
		s.mu.Unlock()

		close(s.stopCh)
		s.wg.Wait()
		logger.Info("scheduler stopped", "module", "scheduler", "action", "clean", "resource", "cache", "result", "ok")
	})
}

// Trigger requests an extra pass without waiting for it. Requests made while
// one is already pending are merged.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// LastRun returns the time and report of the most recent completed pass.
func (s *Scheduler) LastRun() (time.Time, service.CleanReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastReport
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.clean()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.clean()
		case <-s.trigger:
			s.clean()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) clean() {
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	report, err := s.cleaner.CleanOutdatedData(ctx)
	if err != nil {
		if ctx.Err() != nil {
			logger.Warn("scheduled clean cancelled", "module", "scheduler", "action", "clean", "resource", "cache", "result", "cancelled")
			return
		}
		logger.Error("scheduled clean failed", "module", "scheduler", "action", "clean", "resource", "cache", "result", "failed", "error", err)
		return
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastReport = report
	s.mu.Unlock()
}
