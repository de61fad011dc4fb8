package service

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type EntryService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, entries []model.Entry) error
	// Ingest upserts entries received from the server and records a visit for each.
	Ingest(ctx context.Context, entries []model.Entry) ([]model.Entry, error)
	FetchEntries(ctx context.Context, query remote.EntryQuery) ([]model.Entry, error)
	FetchEntry(ctx context.Context, id string) (model.Entry, error)
	MarkRead(ctx context.Context, ids []string, read bool) error
	Star(ctx context.Context, id string, starred bool) error
	MarkAllRead(ctx context.Context, feedIDs []string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	DeleteByFeedIDs(ctx context.Context, feedIDs []string) error
	Get(id string) (model.Entry, bool)
	EntriesByFeed(feedID string) []model.Entry
	EntriesByInbox(handle string) []model.Entry
	Store() *store.Collection[model.Entry]
}

type entryService struct {
	*table[model.Entry]
	entries       repository.EntryRepository
	api           remote.API
	unread        UnreadService
	subscriptions *store.Collection[model.Subscription]
	translations  TranslationService
	visits        VisitRecorder
	fetches       singleflight.Group
}

func NewEntryService(
	repo repository.EntryRepository,
	coll *store.Collection[model.Entry],
	api remote.API,
	unread UnreadService,
	subscriptions *store.Collection[model.Subscription],
	translations TranslationService,
	visits VisitRecorder,
) EntryService {
	return &entryService{
		table:         newTable[model.Entry]("entries", repo, coll, model.Entry.Normalized),
		entries:       repo,
		api:           api,
		unread:        unread,
		subscriptions: subscriptions,
		translations:  translations,
		visits:        visits,
	}
}

func (s *entryService) Store() *store.Collection[model.Entry] {
	return s.coll
}

func (s *entryService) UpsertMany(ctx context.Context, entries []model.Entry) error {
	clean := make([]model.Entry, len(entries))
	for i, e := range entries {
		clean[i] = sanitizeEntry(e)
	}
	return s.upsert(ctx, clean...)
}

func (s *entryService) Ingest(ctx context.Context, entries []model.Entry) ([]model.Entry, error) {
	if err := s.UpsertMany(ctx, entries); err != nil {
		return nil, err
	}
	touch(ctx, s.visits, entryRefs(entries)...)
	out := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if stored, ok := s.get(e.ID); ok {
			out = append(out, stored)
		}
	}
	return out, nil
}

func (s *entryService) FetchEntries(ctx context.Context, query remote.EntryQuery) ([]model.Entry, error) {
	if (query.FeedID == "") == (query.InboxHandle == "") {
		return nil, fmt.Errorf("%w: query needs exactly one of feed or inbox", ErrInvalid)
	}
	entries, err := s.api.ListEntries(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetch entries: %w", err)
	}
	return s.Ingest(ctx, entries)
}

func (s *entryService) FetchEntry(ctx context.Context, id string) (model.Entry, error) {
	v, err, _ := s.fetches.Do(id, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		entry, err := s.api.GetEntry(ctx, id)
		if err != nil {
			return model.Entry{}, fmt.Errorf("fetch entry: %w", err)
		}
		stored, err := s.Ingest(ctx, []model.Entry{entry})
		if err != nil {
			return model.Entry{}, err
		}
		if len(stored) == 0 {
			return model.Entry{}, ErrNotFound
		}
		return stored[0], nil
	})
	if err != nil {
		return model.Entry{}, err
	}
	return v.(model.Entry), nil
}

// MarkRead flips the read flag and moves the unread counter of every
// subscription following the entry's source. Undone if the server refuses.
func (s *entryService) MarkRead(ctx context.Context, ids []string, read bool) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return ErrInvalid
	}

	state := s.coll.GetState()
	var changed []model.Entry
	var changedIDs []string
	deltas := make(map[string]int)
	step := 1
	if read {
		step = -1
	}
	for _, id := range ids {
		e, ok := state[id]
		if !ok || e.Read == read {
			continue
		}
		e.Read = read
		changed = append(changed, e)
		changedIDs = append(changedIDs, id)
		for _, subID := range s.followers(e) {
			deltas[subID] += step
		}
	}
	subIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		subIDs = append(subIDs, id)
	}

	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         "mark_read",
		Resource:       "entry",
		RollbackOnFail: true,
		Snapshot: func() Restore {
			return restoreAll(s.snapshot(changedIDs...), s.unread.Snapshot(subIDs...))
		},
		Apply: func(ctx context.Context) error {
			if err := s.upsert(ctx, changed...); err != nil {
				return err
			}
			return s.unread.Adjust(ctx, deltas)
		},
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.MarkEntriesRead(ctx, ids, read)
		}),
	})
	return err
}

func (s *entryService) Star(ctx context.Context, id string, starred bool) error {
	entry, ok := s.get(id)
	if !ok {
		return ErrNotFound
	}
	entry.Starred = starred

	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         "star",
		Resource:       "entry",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(id) },
		Apply:          func(ctx context.Context) error { return s.upsert(ctx, entry) },
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.StarEntry(ctx, id, starred)
		}),
	})
	return err
}

// MarkAllRead keeps the optimistic state on failure; the next unread refresh corrects it.
func (s *entryService) MarkAllRead(ctx context.Context, feedIDs []string) error {
	feedIDs = uniqueIDs(feedIDs)
	if len(feedIDs) == 0 {
		return ErrInvalid
	}
	feeds := toSet(feedIDs)

	var changed []model.Entry
	for _, e := range s.coll.GetState() {
		if e.FeedID == nil || e.Read {
			continue
		}
		if _, ok := feeds[*e.FeedID]; ok {
			e.Read = true
			changed = append(changed, e)
		}
	}
	var cleared []model.Unread
	for _, sub := range s.subscriptions.GetState() {
		if sub.FeedID == nil {
			continue
		}
		if _, ok := feeds[*sub.FeedID]; ok {
			cleared = append(cleared, model.Unread{SubscriptionID: sub.ID})
		}
	}

	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:   "mark_all_read",
		Resource: "entry",
		Apply: func(ctx context.Context) error {
			if err := s.upsert(ctx, changed...); err != nil {
				return err
			}
			return s.unread.UpsertMany(ctx, cleared)
		},
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.MarkAllRead(ctx, feedIDs)
		}),
	})
	return err
}

func (s *entryService) DeleteByIDs(ctx context.Context, ids []string) error {
	if err := s.delete(ctx, ids...); err != nil {
		return err
	}
	s.translations.ForgetEntries(ids)
	return nil
}

func (s *entryService) DeleteByFeedIDs(ctx context.Context, feedIDs []string) error {
	if len(feedIDs) == 0 {
		return nil
	}
	feeds := toSet(feedIDs)
	var ids []string
	for _, e := range s.coll.GetState() {
		if e.FeedID == nil {
			continue
		}
		if _, ok := feeds[*e.FeedID]; ok {
			ids = append(ids, e.ID)
		}
	}
	if err := s.entries.DeleteByFeedIDs(ctx, feedIDs); err != nil {
		return fmt.Errorf("delete entries by feed: %w", err)
	}
	s.coll.Delete(ids...)
	s.translations.ForgetEntries(ids)
	return nil
}

func (s *entryService) Get(id string) (model.Entry, bool) {
	return s.get(id)
}

func (s *entryService) EntriesByFeed(feedID string) []model.Entry {
	return newestFirst(s.coll.Filter(func(e model.Entry) bool {
		return e.FeedID != nil && *e.FeedID == feedID
	}))
}

func (s *entryService) EntriesByInbox(handle string) []model.Entry {
	return newestFirst(s.coll.Filter(func(e model.Entry) bool {
		return e.InboxHandle != nil && *e.InboxHandle == handle
	}))
}

// followers returns the subscriptions whose unread counter includes e.
func (s *entryService) followers(e model.Entry) []string {
	var ids []string
	for _, sub := range s.subscriptions.GetState() {
		switch {
		case e.FeedID != nil && sub.FeedID != nil && *sub.FeedID == *e.FeedID:
			ids = append(ids, sub.ID)
		case e.InboxHandle != nil && sub.InboxID != nil && *sub.InboxID == *e.InboxHandle:
			ids = append(ids, sub.ID)
		}
	}
	return ids
}

func newestFirst(entries []model.Entry) []model.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PublishedAt.After(entries[j].PublishedAt)
	})
	return entries
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
