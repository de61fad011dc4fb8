package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type SubscriptionService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, subs []model.Subscription) error
	// FetchAll mirrors the server's subscriptions of userID, dropping local ones it no longer has.
	FetchAll(ctx context.Context, userID string) ([]model.Subscription, error)
	Subscribe(ctx context.Context, userID string, req remote.SubscribeRequest) (model.Subscription, error)
	Unsubscribe(ctx context.Context, id string) error
	Rename(ctx context.Context, id, title string) error
	SetCategory(ctx context.Context, id, category string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	Get(id string) (model.Subscription, bool)
	SubscriptionsByUser(userID string) []model.Subscription
	// TotalUnread sums the unread counters of userID's subscriptions.
	TotalUnread(userID string) int
	Store() *store.Collection[model.Subscription]
}

type subscriptionService struct {
	*table[model.Subscription]
	api     remote.API
	feeds   FeedService
	lists   ListService
	inboxes InboxService
	unread  UnreadService
	visits  VisitRecorder
}

func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	coll *store.Collection[model.Subscription],
	api remote.API,
	feeds FeedService,
	lists ListService,
	inboxes InboxService,
	unread UnreadService,
	visits VisitRecorder,
) SubscriptionService {
	return &subscriptionService{
		table:   newTable[model.Subscription]("subscriptions", repo, coll, model.Subscription.Normalized),
		api:     api,
		feeds:   feeds,
		lists:   lists,
		inboxes: inboxes,
		unread:  unread,
		visits:  visits,
	}
}

func (s *subscriptionService) Store() *store.Collection[model.Subscription] {
	return s.coll
}

func (s *subscriptionService) UpsertMany(ctx context.Context, subs []model.Subscription) error {
	for _, sub := range subs {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return s.upsert(ctx, subs...)
}

// storeBundle writes the referenced sources before the subscriptions that point at them.
func (s *subscriptionService) storeBundle(ctx context.Context, userID string, bundle remote.SubscriptionBundle) ([]model.Subscription, error) {
	if err := s.feeds.UpsertMany(ctx, bundle.Feeds); err != nil {
		return nil, err
	}
	if err := s.lists.UpsertMany(ctx, bundle.Lists); err != nil {
		return nil, err
	}
	if err := s.inboxes.UpsertMany(ctx, bundle.Inboxes); err != nil {
		return nil, err
	}

	subs := make([]model.Subscription, 0, len(bundle.Subscriptions))
	for _, sub := range bundle.Subscriptions {
		if sub.UserID == "" {
			sub.UserID = userID
		}
		subs = append(subs, sub)
	}
	if err := s.UpsertMany(ctx, subs); err != nil {
		return nil, err
	}

	var refs []model.CleanerRef
	for _, f := range bundle.Feeds {
		refs = append(refs, model.CleanerRef{Type: model.CleanerFeed, ID: f.ID})
	}
	for _, l := range bundle.Lists {
		refs = append(refs, model.CleanerRef{Type: model.CleanerList, ID: l.ID})
	}
	for _, i := range bundle.Inboxes {
		refs = append(refs, model.CleanerRef{Type: model.CleanerInbox, ID: i.ID})
	}
	touch(ctx, s.visits, refs...)

	stored := make([]model.Subscription, 0, len(subs))
	for _, sub := range subs {
		if v, ok := s.get(sub.ID); ok {
			stored = append(stored, v)
		}
	}
	return stored, nil
}

func (s *subscriptionService) FetchAll(ctx context.Context, userID string) ([]model.Subscription, error) {
	if userID == "" {
		return nil, ErrInvalid
	}
	bundle, err := s.api.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch subscriptions: %w", err)
	}

	remoteIDs := make(map[string]struct{}, len(bundle.Subscriptions))
	for _, sub := range bundle.Subscriptions {
		remoteIDs[sub.ID] = struct{}{}
	}
	var gone []string
	for _, sub := range s.SubscriptionsByUser(userID) {
		if _, ok := remoteIDs[sub.ID]; !ok {
			gone = append(gone, sub.ID)
		}
	}
	if err := s.delete(ctx, gone...); err != nil {
		return nil, err
	}
	if err := s.unread.DeleteByIDs(ctx, gone); err != nil {
		return nil, err
	}

	return s.storeBundle(ctx, userID, bundle)
}

func (s *subscriptionService) Subscribe(ctx context.Context, userID string, req remote.SubscribeRequest) (model.Subscription, error) {
	targets := 0
	for _, v := range []string{req.FeedID + req.URL, req.ListID, req.InboxID} {
		if v != "" {
			targets++
		}
	}
	if userID == "" || targets != 1 || !req.View.Valid() {
		return model.Subscription{}, ErrInvalid
	}

	var created []model.Subscription
	_, err := RunMutation(ctx, Mutation[remote.SubscriptionBundle]{
		Action:   "subscribe",
		Resource: "subscription",
		Wait:     true,
		Remote: func(ctx context.Context) (remote.SubscriptionBundle, error) {
			return s.api.Subscribe(ctx, req)
		},
		Commit: func(ctx context.Context, bundle remote.SubscriptionBundle) error {
			stored, err := s.storeBundle(ctx, userID, bundle)
			created = stored
			return err
		},
	})
	if err != nil {
		return model.Subscription{}, err
	}
	if len(created) == 0 {
		return model.Subscription{}, ErrNotFound
	}
	return created[0], nil
}

// Unsubscribe removes the subscription and its unread counter together.
func (s *subscriptionService) Unsubscribe(ctx context.Context, id string) error {
	if _, ok := s.get(id); !ok {
		return ErrNotFound
	}
	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         "unsubscribe",
		Resource:       "subscription",
		RollbackOnFail: true,
		Snapshot: func() Restore {
			return restoreAll(s.snapshot(id), s.unread.Snapshot(id))
		},
		Apply: func(ctx context.Context) error {
			if err := s.delete(ctx, id); err != nil {
				return err
			}
			return s.unread.DeleteByIDs(ctx, []string{id})
		},
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.Unsubscribe(ctx, id)
		}),
	})
	return err
}

func (s *subscriptionService) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	return s.update(ctx, "rename", id, func(sub model.Subscription) model.Subscription {
		sub.Title = optional(title)
		return sub
	})
}

func (s *subscriptionService) SetCategory(ctx context.Context, id, category string) error {
	category = strings.TrimSpace(category)
	return s.update(ctx, "set_category", id, func(sub model.Subscription) model.Subscription {
		sub.Category = optional(category)
		return sub
	})
}

func (s *subscriptionService) update(ctx context.Context, action, id string, change func(model.Subscription) model.Subscription) error {
	current, ok := s.get(id)
	if !ok {
		return ErrNotFound
	}
	next := change(current)

	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         action,
		Resource:       "subscription",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(id) },
		Apply:          func(ctx context.Context) error { return s.upsert(ctx, next) },
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.UpdateSubscription(ctx, next)
		}),
	})
	return err
}

func (s *subscriptionService) DeleteByIDs(ctx context.Context, ids []string) error {
	return s.delete(ctx, ids...)
}

func (s *subscriptionService) Get(id string) (model.Subscription, bool) {
	return s.get(id)
}

func (s *subscriptionService) SubscriptionsByUser(userID string) []model.Subscription {
	return s.coll.Filter(func(sub model.Subscription) bool { return sub.UserID == userID })
}

func (s *subscriptionService) TotalUnread(userID string) int {
	subs := s.SubscriptionsByUser(userID)
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return s.unread.Total(ids)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
