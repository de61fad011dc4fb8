package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/config"
	"github.com/RSSNext/Folo-sub005/internal/db"
	"github.com/RSSNext/Folo-sub005/internal/handler"
	transport "github.com/RSSNext/Folo-sub005/internal/http"
	"github.com/RSSNext/Folo-sub005/internal/logger"
	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/network"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/scheduler"
	"github.com/RSSNext/Folo-sub005/internal/service"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type options struct {
	api remote.API
	now func() time.Time
}

type Option func(*options)

// WithAPI replaces the HTTP client for the remote API.
func WithAPI(api remote.API) Option {
	return func(o *options) { o.api = api }
}

func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// App wires the local cache engine for one device.
type App struct {
	cfg  config.Config
	conn *sql.DB

	Feeds         service.FeedService
	Entries       service.EntryService
	Subscriptions service.SubscriptionService
	Unread        service.UnreadService
	Lists         service.ListService
	Inboxes       service.InboxService
	Translations  service.TranslationService
	Cleaner       service.CleanerService
	Bootstrap     *service.Bootstrap
	Scheduler     *scheduler.Scheduler
	Router        *echo.Echo

	mu     sync.RWMutex
	userID string
}

func New(cfg config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	api := o.api
	if api == nil {
		factory, err := network.NewClientFactory(cfg.ProxyURL)
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("build http client: %w", err)
		}
		api = remote.NewClient(factory, remote.ClientOptions{
			BaseURL:   cfg.APIBaseURL,
			Token:     cfg.APIToken,
			UserAgent: config.UserAgent,
			Timeout:   cfg.RemoteTimeout(),
			QPS:       cfg.RemoteQPS,
		})
	}

	a := &App{cfg: cfg, conn: conn, userID: cfg.UserID}

	feedRepo := repository.NewFeedRepository(conn)
	subscriptionRepo := repository.NewSubscriptionRepository(conn)
	unreadRepo := repository.NewUnreadRepository(conn)
	listRepo := repository.NewListRepository(conn)
	inboxRepo := repository.NewInboxRepository(conn)
	entryRepo := repository.NewEntryRepository(conn)
	translationRepo := repository.NewTranslationRepository(conn)
	cleanerRepo := repository.NewCleanerRepository(conn)

	subscriptionStore := store.NewCollection[model.Subscription]()
	visits := service.NewVisitRecorder(cleanerRepo, o.now)

	a.Unread = service.NewUnreadService(unreadRepo, store.NewCollection[model.Unread](), api)
	a.Translations = service.NewTranslationService(translationRepo, entryRepo, store.NewCollection[model.Translation](), api)
	a.Entries = service.NewEntryService(entryRepo, store.NewCollection[model.Entry](), api, a.Unread, subscriptionStore, a.Translations, visits)
	a.Feeds = service.NewFeedService(feedRepo, store.NewCollection[model.Feed](), api, a.Entries, visits)
	a.Inboxes = service.NewInboxService(inboxRepo, store.NewCollection[model.Inbox](), api, visits)
	a.Lists = service.NewListService(listRepo, store.NewCollection[model.List](), api, a.Feeds, visits)
	a.Subscriptions = service.NewSubscriptionService(subscriptionRepo, subscriptionStore, api, a.Feeds, a.Lists, a.Inboxes, a.Unread, visits)
	a.Cleaner = service.NewCleanerService(service.CleanerDeps{
		Records:       cleanerRepo,
		Subscriptions: subscriptionRepo,
		Visits:        visits,
		Feeds:         a.Feeds,
		Entries:       a.Entries,
		Lists:         a.Lists,
		Inboxes:       a.Inboxes,
		Unread:        a.Unread,
		Subscribed:    a.Subscriptions,
		Retention:     cfg.Retention(),
		Now:           o.now,
	})
	a.Bootstrap = service.NewBootstrap(
		service.Entity("feeds", a.Feeds),
		service.Entity("subscriptions", a.Subscriptions),
		service.Entity("unread", a.Unread),
		service.Entity("lists", a.Lists),
		service.Entity("inboxes", a.Inboxes),
		service.Entity("entries", a.Entries),
		service.Entity("translations", a.Translations),
		service.Component{Name: "cleaner", Resetable: service.ResetFunc(a.Cleaner.Clear)},
	)
	a.Scheduler = scheduler.New(a.Cleaner, cfg.CleanInterval())
	a.Router = transport.NewRouter(
		handler.NewSessionHandler(a),
		handler.NewFeedHandler(a.Feeds),
		handler.NewEntryHandler(a.Entries, a.Translations),
		handler.NewSubscriptionHandler(a.Subscriptions, a.Unread, a),
		handler.NewListHandler(a.Lists, a),
		handler.NewInboxHandler(a.Inboxes),
		handler.NewCleanerHandler(a.Cleaner, a.Scheduler),
	)

	return a, nil
}

func (a *App) CurrentUser() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.userID
}

// Start loads persisted rows into the stores and starts periodic cleaning.
func (a *App) Start(ctx context.Context) error {
	if err := a.Bootstrap.Hydrate(ctx); err != nil {
		return fmt.Errorf("hydrate: %w", err)
	}
	a.Scheduler.Start()
	return nil
}

// Serve blocks until the bridge API stops. A graceful shutdown returns nil.
func (a *App) Serve() error {
	logger.Info("bridge listening", "module", "app", "action", "serve", "resource", "http", "result", "ok", "addr", a.cfg.Addr)
	if err := a.Router.Start(a.cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("start server: %w", err)
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.Scheduler.Stop()
	return a.Router.Shutdown(ctx)
}

// SwitchUser drops data only the previous users needed, then rehydrates.
func (a *App) SwitchUser(ctx context.Context, userID string) (service.CleanReport, error) {
	report, err := a.Cleaner.CleanRemainingData(ctx, userID)
	if err != nil {
		return service.CleanReport{}, err
	}

	a.mu.Lock()
	previous := a.userID
	a.userID = userID
	a.mu.Unlock()

	if err := a.Bootstrap.Hydrate(ctx); err != nil {
		return report, fmt.Errorf("hydrate: %w", err)
	}
	logger.Info("user switched", "module", "app", "action", "switch_user", "resource", "session", "result", "ok", "previous_user", previous, "user", userID)
	return report, nil
}

// Logout wipes every table, store and visit record.
func (a *App) Logout(ctx context.Context) error {
	if err := a.Bootstrap.Reset(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.userID = ""
	a.mu.Unlock()
	return nil
}

func (a *App) Close() error {
	return a.conn.Close()
}
