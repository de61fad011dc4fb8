package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type FeedService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, feeds []model.Feed) error
	// Fetch loads a feed and its latest entries. Concurrent calls for the
	// same id share one request.
	Fetch(ctx context.Context, id string) (model.Feed, error)
	// Claim marks the feed as owned by the caller once the server accepts.
	Claim(ctx context.Context, id string) (model.Feed, error)
	DeleteByIDs(ctx context.Context, ids []string) error
	Get(id string) (model.Feed, bool)
	GetAll() []model.Feed
	Store() *store.Collection[model.Feed]
}

type feedService struct {
	*table[model.Feed]
	api     remote.API
	entries EntryService
	visits  VisitRecorder
	fetches singleflight.Group
}

func NewFeedService(repo repository.FeedRepository, coll *store.Collection[model.Feed], api remote.API, entries EntryService, visits VisitRecorder) FeedService {
	return &feedService{
		table:   newTable[model.Feed]("feeds", repo, coll, model.Feed.Normalized),
		api:     api,
		entries: entries,
		visits:  visits,
	}
}

func (s *feedService) Store() *store.Collection[model.Feed] {
	return s.coll
}

func (s *feedService) UpsertMany(ctx context.Context, feeds []model.Feed) error {
	return s.upsert(ctx, feeds...)
}

func (s *feedService) Fetch(ctx context.Context, id string) (model.Feed, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return model.Feed{}, ErrInvalid
	}
	v, err, _ := s.fetches.Do(id, func() (interface{}, error) {
		// Shared by every waiter, so one caller cancelling must not fail the rest.
		ctx := context.WithoutCancel(ctx)
		bundle, err := s.api.GetFeed(ctx, id)
		if err != nil {
			return model.Feed{}, fmt.Errorf("fetch feed: %w", err)
		}
		if bundle.Feed.ID == "" {
			return model.Feed{}, ErrNotFound
		}
		if err := s.upsert(ctx, bundle.Feed); err != nil {
			return model.Feed{}, err
		}
		touch(ctx, s.visits, feedRefs(bundle.Feed.ID)...)
		if len(bundle.Entries) > 0 {
			if _, err := s.entries.Ingest(ctx, bundle.Entries); err != nil {
				return model.Feed{}, err
			}
		}
		feed, _ := s.get(bundle.Feed.ID)
		return feed, nil
	})
	if err != nil {
		return model.Feed{}, err
	}
	return v.(model.Feed), nil
}

func (s *feedService) Claim(ctx context.Context, id string) (model.Feed, error) {
	if _, ok := s.get(id); !ok {
		return model.Feed{}, ErrNotFound
	}
	_, err := RunMutation(ctx, Mutation[model.Feed]{
		Action:   "claim",
		Resource: "feed",
		Wait:     true,
		Remote: func(ctx context.Context) (model.Feed, error) {
			return s.api.ClaimFeed(ctx, id)
		},
		// Only the owner changes; the rest of the cached row is kept.
		Commit: func(ctx context.Context, confirmed model.Feed) error {
			current, ok := s.get(id)
			if !ok {
				return ErrNotFound
			}
			if confirmed.OwnerUserID != nil {
				owner := *confirmed.OwnerUserID
				current.OwnerUserID = &owner
			}
			return s.upsert(ctx, current)
		},
	})
	if err != nil {
		return model.Feed{}, err
	}
	feed, _ := s.get(id)
	return feed, nil
}

func (s *feedService) DeleteByIDs(ctx context.Context, ids []string) error {
	return s.delete(ctx, ids...)
}

func (s *feedService) Get(id string) (model.Feed, bool) {
	return s.get(id)
}

func (s *feedService) GetAll() []model.Feed {
	return s.coll.All()
}
