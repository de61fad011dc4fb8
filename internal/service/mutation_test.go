package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/RSSNext/Folo-sub005/internal/service"
)

type recorder struct {
	calls []string
	value string
}

func (r *recorder) mutation(wait, rollback bool, remoteErr error) service.Mutation[string] {
	return service.Mutation[string]{
		Action:         "rename",
		Resource:       "thing",
		Wait:           wait,
		RollbackOnFail: rollback,
		Snapshot: func() service.Restore {
			r.calls = append(r.calls, "snapshot")
			prev := r.value
			return func(context.Context) error {
				r.calls = append(r.calls, "restore")
				r.value = prev
				return nil
			}
		},
		Apply: func(context.Context) error {
			r.calls = append(r.calls, "apply")
			r.value = "optimistic"
			return nil
		},
		Remote: func(context.Context) (string, error) {
			r.calls = append(r.calls, "remote")
			if remoteErr != nil {
				return "", remoteErr
			}
			return "confirmed", nil
		},
		Commit: func(_ context.Context, result string) error {
			r.calls = append(r.calls, "commit")
			r.value = result
			return nil
		},
	}
}

func TestRunMutation_WaitCommitsAfterRemote(t *testing.T) {
	r := &recorder{value: "initial"}
	got, err := service.RunMutation(context.Background(), r.mutation(true, false, nil))
	require.NoError(t, err)
	require.Equal(t, "confirmed", got)
	require.Equal(t, []string{"remote", "commit"}, r.calls)
	require.Equal(t, "confirmed", r.value)
}

func TestRunMutation_WaitFailureWritesNothing(t *testing.T) {
	r := &recorder{value: "initial"}
	_, err := service.RunMutation(context.Background(), r.mutation(true, true, errors.New("503")))
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.Equal(t, []string{"remote"}, r.calls)
	require.Equal(t, "initial", r.value)

	var mutErr *service.MutationError
	require.ErrorAs(t, err, &mutErr)
	require.False(t, mutErr.RolledBack)
}

func TestRunMutation_OptimisticRollsBack(t *testing.T) {
	r := &recorder{value: "initial"}
	_, err := service.RunMutation(context.Background(), r.mutation(false, true, errors.New("validation failed")))
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.Equal(t, []string{"snapshot", "apply", "remote", "restore"}, r.calls)
	require.Equal(t, "initial", r.value)

	var mutErr *service.MutationError
	require.ErrorAs(t, err, &mutErr)
	require.True(t, mutErr.RolledBack)
	require.Equal(t, "rename", mutErr.Action)
	require.ErrorContains(t, err, "validation failed")
}

func TestRunMutation_OptimisticKeepsStateWithoutRollback(t *testing.T) {
	r := &recorder{value: "initial"}
	_, err := service.RunMutation(context.Background(), r.mutation(false, false, errors.New("offline")))
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.Equal(t, []string{"apply", "remote"}, r.calls)
	require.Equal(t, "optimistic", r.value)
}

func TestRunMutation_OptimisticSuccessCommits(t *testing.T) {
	r := &recorder{value: "initial"}
	got, err := service.RunMutation(context.Background(), r.mutation(false, true, nil))
	require.NoError(t, err)
	require.Equal(t, "confirmed", got)
	require.Equal(t, []string{"snapshot", "apply", "remote", "commit"}, r.calls)
}

func TestRunMutation_RollbackFailureIsJoined(t *testing.T) {
	m := service.Mutation[struct{}]{
		Action:         "star",
		Resource:       "entry",
		RollbackOnFail: true,
		Snapshot: func() service.Restore {
			return func(context.Context) error { return errors.New("disk full") }
		},
		Apply: func(context.Context) error { return nil },
		Remote: func(context.Context) (struct{}, error) {
			return struct{}{}, errors.New("timeout")
		},
	}

	_, err := service.RunMutation(context.Background(), m)
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.ErrorContains(t, err, "disk full")

	var mutErr *service.MutationError
	require.ErrorAs(t, err, &mutErr)
	require.False(t, mutErr.RolledBack)
}

func TestRunMutation_IgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var remoteCtxErr, commitCtxErr error
	_, err := service.RunMutation(ctx, service.Mutation[int]{
		Action:   "claim",
		Resource: "feed",
		Wait:     true,
		Remote: func(ctx context.Context) (int, error) {
			remoteCtxErr = ctx.Err()
			return 1, nil
		},
		Commit: func(ctx context.Context, _ int) error {
			commitCtxErr = ctx.Err()
			return nil
		},
	})
	require.NoError(t, err)
	require.NoError(t, remoteCtxErr)
	require.NoError(t, commitCtxErr)
}

func TestRunSaga_FailuresAreIsolated(t *testing.T) {
	ran := make(chan string, 3)
	report := service.RunSaga(context.Background(), "test", []service.SagaStep{
		{Name: "entries", Run: func(context.Context) error { ran <- "entries"; return errors.New("locked") }},
		{Name: "feeds", Run: func(context.Context) error { ran <- "feeds"; return nil }},
		{Name: "inboxes", Run: func(context.Context) error { ran <- "inboxes"; return errors.New("io") }},
	})
	close(ran)

	var names []string
	for name := range ran {
		names = append(names, name)
	}
	require.ElementsMatch(t, []string{"entries", "feeds", "inboxes"}, names)
	require.False(t, report.OK())
	require.Equal(t, 3, report.Steps)
	require.Equal(t, []string{"entries", "inboxes"}, report.FailedSteps())
	require.ErrorContains(t, report.Err(), "entries: locked")
	require.ErrorContains(t, report.Err(), "inboxes: io")
}
