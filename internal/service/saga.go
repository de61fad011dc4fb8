package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/RSSNext/Folo-sub005/internal/logger"
)

// SagaStep is one independently fallible part of a multi-table change.
type SagaStep struct {
	Name string
	Run  func(ctx context.Context) error
}

// SagaReport lists which steps failed. Steps are not compensated; every table
// can be rebuilt from the remote API, so a failed step is retried by running
// the saga again.
type SagaReport struct {
	Steps  int
	Failed map[string]error
}

// OK reports whether every step succeeded.
func (r SagaReport) OK() bool {
	return len(r.Failed) == 0
}

// FailedSteps returns the failed step names in sorted order.
func (r SagaReport) FailedSteps() []string {
	names := make([]string, 0, len(r.Failed))
	for name := range r.Failed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Err joins the step errors, or returns nil.
func (r SagaReport) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Failed))
	for _, name := range r.FailedSteps() {
		errs = append(errs, fmt.Errorf("%s: %w", name, r.Failed[name]))
	}
	return errors.Join(errs...)
}

// RunSaga runs all steps concurrently. A failing step never stops its siblings.
func RunSaga(ctx context.Context, saga string, steps []SagaStep) SagaReport {
	report := SagaReport{Steps: len(steps), Failed: make(map[string]error)}
	var mu sync.Mutex
	var g errgroup.Group

	for _, step := range steps {
		step := step
		g.Go(func() error {
			if err := step.Run(ctx); err != nil {
				mu.Lock()
				report.Failed[step.Name] = err
				mu.Unlock()
				logger.Warn("saga step failed", "module", "service", "action", saga, "resource", step.Name, "result", "failed", "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return report
}
