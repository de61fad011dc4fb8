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
	"github.com/RSSNext/Folo-sub005/internal/snowflake"
)

func TestListService_CreateReconcilesPlaceholder(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	e.api.EXPECT().CreateList(gomock.Any(), remote.CreateListRequest{Title: "Go", View: model.ViewArticles}).DoAndReturn(
		func(context.Context, remote.CreateListRequest) (model.List, error) {
			lists := e.lists.ListsByUser("a")
			require.Len(t, lists, 1)
			require.True(t, snowflake.IsNonce(lists[0].ID))
			return model.List{ID: "l-server", UserID: "a", Title: "Go", FeedIDs: []string{}}, nil
		})

	created, err := e.lists.Create(ctx, "a", service.CreateListInput{Title: " Go "})
	require.NoError(t, err)
	require.Equal(t, "l-server", created.ID)

	lists := e.lists.ListsByUser("a")
	require.Len(t, lists, 1)
	require.Equal(t, "l-server", lists[0].ID)

	rows, err := e.repos.lists.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, []string{"list:l-server"}, e.visitIDs(t))
}

func TestListService_CreateFailureRemovesPlaceholder(t *testing.T) {
	e := newEngine(t)
	before := e.state(t)

	e.api.EXPECT().CreateList(gomock.Any(), gomock.Any()).Return(model.List{}, errors.New("quota exceeded"))

	_, err := e.lists.Create(context.Background(), "a", service.CreateListInput{Title: "Go", View: model.ViewPictures})
	require.ErrorIs(t, err, service.ErrRemoteMutation)
	require.Equal(t, before, e.state(t))

	_, err = e.lists.Create(context.Background(), "a", service.CreateListInput{Title: " "})
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestListService_FeedMembershipRollback(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	require.NoError(t, e.lists.UpsertMany(ctx, []model.List{{ID: "l1", UserID: "a", Title: "Go", FeedIDs: []string{"f1"}}}))

	e.api.EXPECT().UpdateList(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, l model.List) error {
		require.Equal(t, []string{"f1", "f2"}, l.FeedIDs)
		return nil
	})
	require.NoError(t, e.lists.AddFeeds(ctx, "l1", []string{"f1", "f2"}))

	before := e.state(t)
	e.api.EXPECT().UpdateList(gomock.Any(), gomock.Any()).Return(errors.New("conflict"))
	require.ErrorIs(t, e.lists.RemoveFeeds(ctx, "l1", []string{"f1"}), service.ErrRemoteMutation)
	require.Equal(t, before, e.state(t))

	e.api.EXPECT().UpdateList(gomock.Any(), gomock.Any()).Return(nil)
	require.NoError(t, e.lists.Rename(ctx, "l1", "Golang"))
	got, _ := e.lists.Get("l1")
	require.Equal(t, "Golang", got.Title)
}

func TestListService_DeleteForgetsVisits(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	require.NoError(t, e.lists.UpsertMany(ctx, []model.List{{ID: "l1", UserID: "a", Title: "Go"}}))
	require.NoError(t, e.visits.RecordVisits(ctx, model.CleanerRef{Type: model.CleanerList, ID: "l1"}))

	e.api.EXPECT().DeleteList(gomock.Any(), "l1").Return(errors.New("timeout"))
	require.ErrorIs(t, e.lists.Delete(ctx, "l1"), service.ErrRemoteMutation)
	_, ok := e.lists.Get("l1")
	require.True(t, ok)
	require.Equal(t, []string{"list:l1"}, e.visitIDs(t))

	e.api.EXPECT().DeleteList(gomock.Any(), "l1").Return(nil)
	require.NoError(t, e.lists.Delete(ctx, "l1"))
	_, ok = e.lists.Get("l1")
	require.False(t, ok)
	require.Empty(t, e.visitIDs(t))
}

func TestListService_FetchStoresFeeds(t *testing.T) {
	e := newEngine(t)
	e.api.EXPECT().GetList(gomock.Any(), "l1").Return(remote.ListBundle{
		List:  model.List{ID: "l1", UserID: "b", Title: "Curated", FeedIDs: []string{"f1"}},
		Feeds: []model.Feed{testutil.Feed("f1")},
	}, nil)

	list, err := e.lists.Fetch(context.Background(), "l1")
	require.NoError(t, err)
	require.Equal(t, "Curated", list.Title)
	_, ok := e.feeds.Get("f1")
	require.True(t, ok)
	require.ElementsMatch(t, []string{"list:l1", "feed:f1"}, e.visitIDs(t))
}
