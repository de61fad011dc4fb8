package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote/mock"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/repository/testutil"
	"github.com/RSSNext/Folo-sub005/internal/service"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type repos struct {
	feeds         repository.FeedRepository
	subscriptions repository.SubscriptionRepository
	unread        repository.UnreadRepository
	lists         repository.ListRepository
	inboxes       repository.InboxRepository
	entries       repository.EntryRepository
	translations  repository.TranslationRepository
	cleaner       repository.CleanerRepository
}

type engine struct {
	db    *sql.DB
	api   *mock.MockAPI
	clock *fakeClock
	repos repos

	visits        service.VisitRecorder
	unread        service.UnreadService
	translations  service.TranslationService
	entries       service.EntryService
	feeds         service.FeedService
	inboxes       service.InboxService
	lists         service.ListService
	subscriptions service.SubscriptionService
	cleaner       service.CleanerService
	bootstrap     *service.Bootstrap
}

func newEngine(t *testing.T) *engine {
	t.Helper()
	ctrl := gomock.NewController(t)
	db := testutil.NewTestDB(t)

	e := &engine{
		db:    db,
		api:   mock.NewMockAPI(ctrl),
		clock: &fakeClock{now: time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)},
		repos: repos{
			feeds:         repository.NewFeedRepository(db),
			subscriptions: repository.NewSubscriptionRepository(db),
			unread:        repository.NewUnreadRepository(db),
			lists:         repository.NewListRepository(db),
			inboxes:       repository.NewInboxRepository(db),
			entries:       repository.NewEntryRepository(db),
			translations:  repository.NewTranslationRepository(db),
			cleaner:       repository.NewCleanerRepository(db),
		},
	}

	subscriptionStore := store.NewCollection[model.Subscription]()
	e.visits = service.NewVisitRecorder(e.repos.cleaner, e.clock.Now)
	e.unread = service.NewUnreadService(e.repos.unread, store.NewCollection[model.Unread](), e.api)
	e.translations = service.NewTranslationService(e.repos.translations, e.repos.entries, store.NewCollection[model.Translation](), e.api)
	e.entries = service.NewEntryService(e.repos.entries, store.NewCollection[model.Entry](), e.api, e.unread, subscriptionStore, e.translations, e.visits)
	e.feeds = service.NewFeedService(e.repos.feeds, store.NewCollection[model.Feed](), e.api, e.entries, e.visits)
	e.inboxes = service.NewInboxService(e.repos.inboxes, store.NewCollection[model.Inbox](), e.api, e.visits)
	e.lists = service.NewListService(e.repos.lists, store.NewCollection[model.List](), e.api, e.feeds, e.visits)
	e.subscriptions = service.NewSubscriptionService(e.repos.subscriptions, subscriptionStore, e.api, e.feeds, e.lists, e.inboxes, e.unread, e.visits)
	e.cleaner = service.NewCleanerService(service.CleanerDeps{
		Records:       e.repos.cleaner,
		Subscriptions: e.repos.subscriptions,
		Visits:        e.visits,
		Feeds:         e.feeds,
		Entries:       e.entries,
		Lists:         e.lists,
		Inboxes:       e.inboxes,
		Unread:        e.unread,
		Subscribed:    e.subscriptions,
		Retention:     service.DefaultRetention,
		Now:           e.clock.Now,
	})
	e.bootstrap = service.NewBootstrap(
		service.Entity("feeds", e.feeds),
		service.Entity("subscriptions", e.subscriptions),
		service.Entity("unread", e.unread),
		service.Entity("lists", e.lists),
		service.Entity("inboxes", e.inboxes),
		service.Entity("entries", e.entries),
		service.Entity("translations", e.translations),
		service.Component{Name: "cleaner", Resetable: service.ResetFunc(e.cleaner.Clear)},
	)
	return e
}

// localState captures both halves of the cache for equality checks.
type localState struct {
	Feeds         []model.Feed
	Subscriptions []model.Subscription
	Unread        []model.Unread
	Lists         []model.List
	Inboxes       []model.Inbox
	Entries       []model.Entry

	FeedStore         map[string]model.Feed
	SubscriptionStore map[string]model.Subscription
	UnreadStore       map[string]model.Unread
	ListStore         map[string]model.List
	InboxStore        map[string]model.Inbox
	EntryStore        map[string]model.Entry
}

func (e *engine) state(t *testing.T) localState {
	t.Helper()
	ctx := context.Background()
	var s localState
	var err error
	s.Feeds, err = e.repos.feeds.GetAll(ctx)
	require.NoError(t, err)
	s.Subscriptions, err = e.repos.subscriptions.GetAll(ctx)
	require.NoError(t, err)
	s.Unread, err = e.repos.unread.GetAll(ctx)
	require.NoError(t, err)
	s.Lists, err = e.repos.lists.GetAll(ctx)
	require.NoError(t, err)
	s.Inboxes, err = e.repos.inboxes.GetAll(ctx)
	require.NoError(t, err)
	s.Entries, err = e.repos.entries.GetAll(ctx)
	require.NoError(t, err)

	s.FeedStore = e.feeds.Store().GetState()
	s.SubscriptionStore = e.subscriptions.Store().GetState()
	s.UnreadStore = e.unread.Store().GetState()
	s.ListStore = e.lists.Store().GetState()
	s.InboxStore = e.inboxes.Store().GetState()
	s.EntryStore = e.entries.Store().GetState()
	return s
}

func (e *engine) visitIDs(t *testing.T) []string {
	t.Helper()
	records, err := e.repos.cleaner.GetAll(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, string(r.Type)+":"+r.RefID)
	}
	return ids
}

func strPtr(s string) *string {
	return &s
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
