package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/RSSNext/Folo-sub005/internal/logger"
)

// Mutation describes one entity action.
//
// With Wait set, Remote runs first and Commit writes the server-confirmed
// result locally; nothing is written when Remote fails.
//
// Without Wait, Apply writes the local change first, then Remote runs. On
// failure the state captured by Snapshot is restored when RollbackOnFail is
// set, otherwise the optimistic state stays. Commit, if set, reconciles the
// local state with the remote result after success.
type Mutation[R any] struct {
	Action         string
	Resource       string
	Wait           bool
	RollbackOnFail bool

	Snapshot func() Restore
	Apply    func(ctx context.Context) error
	Remote   func(ctx context.Context) (R, error)
	Commit   func(ctx context.Context, result R) error
}

// Restore puts captured local state back in place.
type Restore func(ctx context.Context) error

// RunMutation executes m and returns once both the local and remote halves have
// settled. Cancelling ctx does not abort a mutation already in flight.
func RunMutation[R any](ctx context.Context, m Mutation[R]) (R, error) {
	ctx = context.WithoutCancel(ctx)
	opID := uuid.NewString()
	var zero R

	if m.Wait {
		result, err := m.Remote(ctx)
		if err != nil {
			logger.Warn("remote mutation failed", "module", "service", "action", m.Action, "resource", m.Resource, "result", "failed", "op_id", opID, "error", err)
			return zero, &MutationError{Action: m.Action, Resource: m.Resource, Err: err}
		}
		if m.Commit != nil {
			if err := m.Commit(ctx, result); err != nil {
				return zero, fmt.Errorf("commit %s %s: %w", m.Action, m.Resource, err)
			}
		}
		logger.Debug("mutation committed", "module", "service", "action", m.Action, "resource", m.Resource, "result", "ok", "op_id", opID)
		return result, nil
	}

	var restore Restore
	if m.RollbackOnFail && m.Snapshot != nil {
		restore = m.Snapshot()
	}

	if m.Apply != nil {
		if err := m.Apply(ctx); err != nil {
			if restore != nil {
				if rerr := restore(ctx); rerr != nil {
					err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
				}
			}
			return zero, fmt.Errorf("apply %s %s: %w", m.Action, m.Resource, err)
		}
	}
	logger.Debug("optimistic update applied", "module", "service", "action", m.Action, "resource", m.Resource, "result", "ok", "op_id", opID)

	result, err := m.Remote(ctx)
	if err != nil {
		mutErr := &MutationError{Action: m.Action, Resource: m.Resource, Err: err}
		if restore == nil {
			logger.Warn("remote mutation failed, keeping local state", "module", "service", "action", m.Action, "resource", m.Resource, "result", "failed", "op_id", opID, "error", err)
			return zero, mutErr
		}
		if rerr := restore(ctx); rerr != nil {
			logger.Error("rollback failed", "module", "service", "action", m.Action, "resource", m.Resource, "result", "failed", "op_id", opID, "error", rerr)
			return zero, errors.Join(mutErr, fmt.Errorf("rollback: %w", rerr))
		}
		mutErr.RolledBack = true
		logger.Warn("remote mutation failed, rolled back", "module", "service", "action", m.Action, "resource", m.Resource, "result", "rolled_back", "op_id", opID, "error", err)
		return zero, mutErr
	}

	if m.Commit != nil {
		if err := m.Commit(ctx, result); err != nil {
			return zero, fmt.Errorf("commit %s %s: %w", m.Action, m.Resource, err)
		}
	}
	logger.Debug("mutation confirmed", "module", "service", "action", m.Action, "resource", m.Resource, "result", "ok", "op_id", opID)
	return result, nil
}

// remoteOnly adapts an error-only remote call to the Mutation signature.
func remoteOnly(call func(ctx context.Context) error) func(ctx context.Context) (struct{}, error) {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, call(ctx)
	}
}

// restoreAll runs every restore in reverse order.
func restoreAll(restores ...Restore) Restore {
	return func(ctx context.Context) error {
		var errs []error
		for i := len(restores) - 1; i >= 0; i-- {
			if restores[i] == nil {
				continue
			}
			if err := restores[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
