package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RSSNext/Folo-sub005/internal/logger"
)

// Component is one entity type taking part in hydration and reset.
type Component struct {
	Name string
	Hydratable
	Resetable
}

// Bootstrap loads persisted rows into the stores at start and clears them on logout.
type Bootstrap struct {
	components []Component
}

func NewBootstrap(components ...Component) *Bootstrap {
	return &Bootstrap{components: components}
}

// Hydrate runs every component's hydration in parallel. Stores tolerate
// dangling references, so there is no ordering between entity types.
func (b *Bootstrap) Hydrate(ctx context.Context) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, c := range b.components {
		c := c
		if c.Hydratable == nil {
			continue
		}
		g.Go(func() error {
			if err := c.Hydrate(gctx); err != nil {
				return fmt.Errorf("%s: %w", c.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("hydration failed", "module", "bootstrap", "action", "hydrate", "resource", "store", "result", "failed", "error", err)
		return err
	}
	logger.Info("stores hydrated", "module", "bootstrap", "action", "hydrate", "resource", "store", "result", "ok", "components", len(b.components), "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// Reset clears every component one after another, stopping at the first error.
func (b *Bootstrap) Reset(ctx context.Context) error {
	for _, c := range b.components {
		if c.Resetable == nil {
			continue
		}
		if err := c.Reset(ctx); err != nil {
			logger.Error("reset failed", "module", "bootstrap", "action", "reset", "resource", c.Name, "result", "failed", "error", err)
			return fmt.Errorf("reset %s: %w", c.Name, err)
		}
	}
	logger.Info("local data reset", "module", "bootstrap", "action", "reset", "resource", "store", "result", "ok", "components", len(b.components))
	return nil
}

// ResetFunc adapts a plain function to Resetable.
type ResetFunc func(ctx context.Context) error

func (f ResetFunc) Reset(ctx context.Context) error { return f(ctx) }

// Entity builds a Component from a sync service.
func Entity(name string, svc interface {
	Hydratable
	Resetable
}) Component {
	return Component{Name: name, Hydratable: svc, Resetable: svc}
}
