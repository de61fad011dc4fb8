package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository/testutil"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

func TestSubscriptionService_SubscribeWaitsForServer(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	req := remote.SubscribeRequest{URL: "https://example.com/feed.xml", View: model.ViewArticles}

	e.api.EXPECT().Subscribe(gomock.Any(), req).DoAndReturn(
		func(context.Context, remote.SubscribeRequest) (remote.SubscriptionBundle, error) {
			require.Zero(t, e.subscriptions.Store().Len(), "nothing is written before the server confirms")
			return remote.SubscriptionBundle{
				Subscriptions: []model.Subscription{{ID: "s1", FeedID: strPtr("f1"), View: model.ViewArticles}},
				Feeds:         []model.Feed{testutil.Feed("f1")},
			}, nil
		})

	sub, err := e.subscriptions.Subscribe(ctx, "a", req)
	require.NoError(t, err)
	require.Equal(t, "a", sub.UserID)
	require.Equal(t, model.SubscriptionFeed, sub.Type)

	_, ok := e.feeds.Get("f1")
	require.True(t, ok)
	require.Equal(t, []string{"feed:f1"}, e.visitIDs(t))
}

func TestSubscriptionService_SubscribeFailureLeavesNoState(t *testing.T) {
	e := newEngine(t)
	before := e.state(t)

	e.api.EXPECT().Subscribe(gomock.Any(), gomock.Any()).Return(remote.SubscriptionBundle{}, errors.New("feed unreachable"))

	_, err := e.subscriptions.Subscribe(context.Background(), "a", remote.SubscribeRequest{FeedID: "f1"})
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.Equal(t, before, e.state(t))

	_, err = e.subscriptions.Subscribe(context.Background(), "a", remote.SubscribeRequest{FeedID: "f1", ListID: "l1"})
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestSubscriptionService_UnsubscribeRollback(t *testing.T) {
	e := newEngine(t)
	seedReading(t, e)
	before := e.state(t)

	e.api.EXPECT().Unsubscribe(gomock.Any(), "s1").DoAndReturn(func(context.Context, string) error {
		_, ok := e.subscriptions.Get("s1")
		require.False(t, ok)
		require.Zero(t, e.unread.Count("s1"))
		return errors.New("502 bad gateway")
	})

	err := e.subscriptions.Unsubscribe(context.Background(), "s1")
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.Equal(t, before, e.state(t))
}

func TestSubscriptionService_UnsubscribeRemovesUnread(t *testing.T) {
	e := newEngine(t)
	seedReading(t, e)

	e.api.EXPECT().Unsubscribe(gomock.Any(), "s2").Return(nil)

	require.NoError(t, e.subscriptions.Unsubscribe(context.Background(), "s2"))
	require.Len(t, e.subscriptions.SubscriptionsByUser("a"), 1)
	require.Equal(t, 3, e.subscriptions.TotalUnread("a"))

	rows, err := e.repos.unread.GetAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []model.Unread{{SubscriptionID: "s1", Count: 3}}, rows)
}

func TestSubscriptionService_RenameAndCategory(t *testing.T) {
	e := newEngine(t)
	seedReading(t, e)
	ctx := context.Background()

	e.api.EXPECT().UpdateSubscription(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sub model.Subscription) error {
			require.Equal(t, "Go news", *sub.Title)
			return nil
		})
	require.NoError(t, e.subscriptions.Rename(ctx, "s1", "  Go news "))

	before := e.state(t)
	e.api.EXPECT().UpdateSubscription(gomock.Any(), gomock.Any()).Return(errors.New("forbidden"))
	require.ErrorIs(t, e.subscriptions.SetCategory(ctx, "s1", "Tech"), service.ErrRemoteMutation)
	require.Equal(t, before, e.state(t))

	require.ErrorIs(t, e.subscriptions.Rename(ctx, "missing", "x"), service.ErrNotFound)
}

func TestSubscriptionService_FetchAllDropsStaleSubscriptions(t *testing.T) {
	e := newEngine(t)
	seedReading(t, e)
	ctx := context.Background()

	e.api.EXPECT().ListSubscriptions(gomock.Any()).Return(remote.SubscriptionBundle{
		Subscriptions: []model.Subscription{
			testutil.FeedSubscription("s1", "a", "f1"),
			{ID: "s3", UserID: "a", ListID: strPtr("l1")},
		},
		Feeds: []model.Feed{testutil.Feed("f1")},
		Lists: []model.List{{ID: "l1", UserID: "b", Title: "Shared", FeedIDs: []string{"f1"}}},
	}, nil)

	subs, err := e.subscriptions.FetchAll(ctx, "a")
	require.NoError(t, err)
	require.Len(t, subs, 2)

	require.ElementsMatch(t, []string{"s1", "s3"}, keys(e.subscriptions.Store().GetState()))
	require.Zero(t, e.unread.Count("s2"))
	_, ok := e.lists.Get("l1")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"feed:f1", "list:l1"}, e.visitIDs(t))
}
