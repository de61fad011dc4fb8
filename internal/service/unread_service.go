package service

import (
	"context"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type UnreadService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, unread []model.Unread) error
	// FetchAll replaces the local counters with the server's.
	FetchAll(ctx context.Context) error
	// Adjust adds delta to a subscription's counter, clamping at zero.
	Adjust(ctx context.Context, deltas map[string]int) error
	DeleteByIDs(ctx context.Context, subscriptionIDs []string) error
	Count(subscriptionID string) int
	// Total sums the counters of the given subscriptions.
	Total(subscriptionIDs []string) int
	Store() *store.Collection[model.Unread]
	// Snapshot captures counters so an optimistic change can be undone.
	Snapshot(subscriptionIDs ...string) Restore
}

type unreadService struct {
	*table[model.Unread]
	api remote.API
}

func NewUnreadService(repo repository.UnreadRepository, coll *store.Collection[model.Unread], api remote.API) UnreadService {
	return &unreadService{
		table: newTable[model.Unread]("unread", repo, coll, model.Unread.Normalized),
		api:   api,
	}
}

func (s *unreadService) Store() *store.Collection[model.Unread] {
	return s.coll
}

func (s *unreadService) Snapshot(subscriptionIDs ...string) Restore {
	return s.snapshot(subscriptionIDs...)
}

func (s *unreadService) UpsertMany(ctx context.Context, unread []model.Unread) error {
	return s.upsert(ctx, unread...)
}

func (s *unreadService) FetchAll(ctx context.Context) error {
	counts, err := s.api.ListUnread(ctx)
	if err != nil {
		return fmt.Errorf("fetch unread: %w", err)
	}
	keep := make(map[string]struct{}, len(counts))
	for _, u := range counts {
		keep[u.SubscriptionID] = struct{}{}
	}
	var stale []string
	for id := range s.coll.GetState() {
		if _, ok := keep[id]; !ok {
			stale = append(stale, id)
		}
	}
	if err := s.delete(ctx, stale...); err != nil {
		return err
	}
	return s.upsert(ctx, counts...)
}

func (s *unreadService) Adjust(ctx context.Context, deltas map[string]int) error {
	if len(deltas) == 0 {
		return nil
	}
	state := s.coll.GetState()
	next := make([]model.Unread, 0, len(deltas))
	for id, delta := range deltas {
		next = append(next, model.Unread{SubscriptionID: id, Count: state[id].Count + delta})
	}
	return s.upsert(ctx, next...)
}

func (s *unreadService) DeleteByIDs(ctx context.Context, subscriptionIDs []string) error {
	return s.delete(ctx, subscriptionIDs...)
}

func (s *unreadService) Count(subscriptionID string) int {
	u, _ := s.get(subscriptionID)
	return u.Count
}

func (s *unreadService) Total(subscriptionIDs []string) int {
	state := s.coll.GetState()
	total := 0
	for _, id := range subscriptionIDs {
		total += state[id].Count
	}
	return total
}
