package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository/testutil"
	"github.com/RSSNext/Folo-sub005/internal/service"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

func TestInboxService_Lifecycle(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	e.api.EXPECT().CreateInbox(gomock.Any(), remote.CreateInboxRequest{Handle: "news", Title: "News"}).
		Return(model.Inbox{ID: "news", Title: strPtr("News")}, nil)
	inbox, err := e.inboxes.Create(ctx, " news ", "News")
	require.NoError(t, err)
	require.Equal(t, "news", inbox.ID)
	require.Equal(t, []string{"inbox:news"}, e.visitIDs(t))

	before := e.state(t)
	e.api.EXPECT().UpdateInbox(gomock.Any(), gomock.Any()).Return(errors.New("nope"))
	require.ErrorIs(t, e.inboxes.Rename(ctx, "news", "Letters"), service.ErrRemoteMutation)
	require.Equal(t, before, e.state(t))

	e.api.EXPECT().DeleteInbox(gomock.Any(), "news").Return(nil)
	require.NoError(t, e.inboxes.Delete(ctx, "news"))
	require.Empty(t, e.inboxes.GetAll())
	require.Empty(t, e.visitIDs(t))
}

func TestInboxService_FetchAll(t *testing.T) {
	e := newEngine(t)
	e.api.EXPECT().ListInboxes(gomock.Any()).Return([]model.Inbox{{ID: "a"}, {ID: "b"}}, nil)

	inboxes, err := e.inboxes.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, inboxes, 2)
	require.ElementsMatch(t, []string{"inbox:a", "inbox:b"}, e.visitIDs(t))
}

func TestUnreadService_FetchAllReplaces(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	require.NoError(t, e.unread.UpsertMany(ctx, []model.Unread{{SubscriptionID: "gone", Count: 9}, {SubscriptionID: "s1", Count: 1}}))

	e.api.EXPECT().ListUnread(gomock.Any()).Return([]model.Unread{{SubscriptionID: "s1", Count: 4}, {SubscriptionID: "s2", Count: -2}}, nil)
	require.NoError(t, e.unread.FetchAll(ctx))

	rows, err := e.repos.unread.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Unread{{SubscriptionID: "s1", Count: 4}, {SubscriptionID: "s2", Count: 0}}, rows)
	require.Equal(t, 4, e.unread.Total([]string{"s1", "s2", "gone"}))
}

func TestUnreadService_AdjustClampsAtZero(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	require.NoError(t, e.unread.UpsertMany(ctx, []model.Unread{{SubscriptionID: "s1", Count: 1}}))

	require.NoError(t, e.unread.Adjust(ctx, map[string]int{"s1": -5, "s2": 3}))
	require.Equal(t, 0, e.unread.Count("s1"))
	require.Equal(t, 3, e.unread.Count("s2"))
}

func TestTranslationService_FetchAndGet(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()
	require.NoError(t, e.entries.UpsertMany(ctx, []model.Entry{testutil.Entry("e1", "f1")}))

	e.api.EXPECT().GetTranslation(gomock.Any(), "e1", "fr").Return(model.Translation{
		Title:     strPtr("Bonjour"),
		Content:   strPtr(`<p onclick="x()">Salut</p>`),
		CreatedAt: time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	got, err := e.translations.Fetch(ctx, "e1", "fr")
	require.NoError(t, err)
	require.Equal(t, "e1", got.EntryID)
	require.Equal(t, "<p>Salut</p>", *got.Content)

	cached, ok := e.translations.Get("e1", "fr")
	require.True(t, ok)
	require.Equal(t, got, cached)

	_, err = e.translations.Fetch(ctx, "e1", "")
	require.ErrorIs(t, err, service.ErrInvalid)
}

func TestTranslationService_FetchRequiresCachedEntry(t *testing.T) {
	e := newEngine(t)
	ctx := context.Background()

	_, err := e.translations.Fetch(ctx, "missing", "fr")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, ok := e.translations.Get("missing", "fr")
	require.False(t, ok)
	rows, err := e.repos.translations.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestSelectors_NotifyOnUnreadChange(t *testing.T) {
	e := newEngine(t)
	seedReading(t, e)
	ctx := context.Background()

	var totals []int
	unsubscribe := store.Subscribe(e.unread.Store().Store, func(state map[string]model.Unread) int {
		return state["s1"].Count
	}, nil, func(v int) { totals = append(totals, v) })
	defer unsubscribe()

	e.api.EXPECT().MarkEntriesRead(gomock.Any(), gomock.Any(), true).Return(nil)
	require.NoError(t, e.entries.MarkRead(ctx, []string{"e1"}, true))
	require.NoError(t, e.unread.UpsertMany(ctx, []model.Unread{{SubscriptionID: "s2", Count: 10}}))

	require.Equal(t, []int{2}, totals)
}
