package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/snowflake"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

type CreateListInput struct {
	Title       string
	Description string
	View        model.FeedViewType
	Image       string
	Fee         int
}

type ListService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, lists []model.List) error
	Fetch(ctx context.Context, id string) (model.List, error)
	// Create shows a placeholder under a nonce id until the server assigns the real one.
	Create(ctx context.Context, userID string, input CreateListInput) (model.List, error)
	Rename(ctx context.Context, id, title string) error
	AddFeeds(ctx context.Context, id string, feedIDs []string) error
	RemoveFeeds(ctx context.Context, id string, feedIDs []string) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	Get(id string) (model.List, bool)
	ListsByUser(userID string) []model.List
	Store() *store.Collection[model.List]
}

type listService struct {
	*table[model.List]
	api    remote.API
	feeds  FeedService
	visits VisitRecorder
}

func NewListService(repo repository.ListRepository, coll *store.Collection[model.List], api remote.API, feeds FeedService, visits VisitRecorder) ListService {
	return &listService{
		table:  newTable[model.List]("lists", repo, coll, model.List.Normalized),
		api:    api,
		feeds:  feeds,
		visits: visits,
	}
}

func (s *listService) Store() *store.Collection[model.List] {
	return s.coll
}

func (s *listService) UpsertMany(ctx context.Context, lists []model.List) error {
	return s.upsert(ctx, lists...)
}

func (s *listService) Fetch(ctx context.Context, id string) (model.List, error) {
	bundle, err := s.api.GetList(ctx, id)
	if err != nil {
		return model.List{}, fmt.Errorf("fetch list: %w", err)
	}
	if bundle.List.ID == "" {
		return model.List{}, ErrNotFound
	}
	if err := s.feeds.UpsertMany(ctx, bundle.Feeds); err != nil {
		return model.List{}, err
	}
	if err := s.upsert(ctx, bundle.List); err != nil {
		return model.List{}, err
	}

	refs := []model.CleanerRef{{Type: model.CleanerList, ID: bundle.List.ID}}
	for _, f := range bundle.Feeds {
		refs = append(refs, model.CleanerRef{Type: model.CleanerFeed, ID: f.ID})
	}
	touch(ctx, s.visits, refs...)

	list, _ := s.get(bundle.List.ID)
	return list, nil
}

func (s *listService) Create(ctx context.Context, userID string, input CreateListInput) (model.List, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || userID == "" || !input.View.Valid() || input.Fee < 0 {
		return model.List{}, ErrInvalid
	}

	placeholder := model.List{
		ID:      snowflake.NextNonce(),
		UserID:  userID,
		Title:   title,
		FeedIDs: []string{},
		View:    input.View,
		Fee:     input.Fee,
	}
	if d := strings.TrimSpace(input.Description); d != "" {
		placeholder.Description = &d
	}
	if img := strings.TrimSpace(input.Image); img != "" {
		placeholder.Image = &img
	}

	return RunMutation(ctx, Mutation[model.List]{
		Action:         "create",
		Resource:       "list",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(placeholder.ID) },
		Apply:          func(ctx context.Context) error { return s.upsert(ctx, placeholder) },
		Remote: func(ctx context.Context) (model.List, error) {
			return s.api.CreateList(ctx, remote.CreateListRequest{
				Title:       title,
				Description: strings.TrimSpace(input.Description),
				View:        input.View,
				Image:       strings.TrimSpace(input.Image),
				Fee:         input.Fee,
			})
		},
		Commit: func(ctx context.Context, created model.List) error {
			if err := s.delete(ctx, placeholder.ID); err != nil {
				return err
			}
			if created.UserID == "" {
				created.UserID = userID
			}
			if err := s.upsert(ctx, created); err != nil {
				return err
			}
			touch(ctx, s.visits, model.CleanerRef{Type: model.CleanerList, ID: created.ID})
			return nil
		},
	})
}

func (s *listService) Rename(ctx context.Context, id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrInvalid
	}
	return s.update(ctx, "rename", id, func(l model.List) model.List {
		l.Title = title
		return l
	})
}

func (s *listService) AddFeeds(ctx context.Context, id string, feedIDs []string) error {
	feedIDs = uniqueIDs(feedIDs)
	if len(feedIDs) == 0 {
		return ErrInvalid
	}
	return s.update(ctx, "add_feeds", id, func(l model.List) model.List {
		next := append([]string{}, l.FeedIDs...)
		for _, feedID := range feedIDs {
			if !l.HasFeed(feedID) {
				next = append(next, feedID)
			}
		}
		l.FeedIDs = next
		return l
	})
}

func (s *listService) RemoveFeeds(ctx context.Context, id string, feedIDs []string) error {
	feedIDs = uniqueIDs(feedIDs)
	if len(feedIDs) == 0 {
		return ErrInvalid
	}
	drop := toSet(feedIDs)
	return s.update(ctx, "remove_feeds", id, func(l model.List) model.List {
		next := make([]string, 0, len(l.FeedIDs))
		for _, feedID := range l.FeedIDs {
			if _, ok := drop[feedID]; !ok {
				next = append(next, feedID)
			}
		}
		l.FeedIDs = next
		return l
	})
}

// update applies change optimistically and sends the whole list to the server.
func (s *listService) update(ctx context.Context, action, id string, change func(model.List) model.List) error {
	current, ok := s.get(id)
	if !ok {
		return ErrNotFound
	}
	if snowflake.IsNonce(id) {
		return fmt.Errorf("%w: list %s is not created yet", ErrInvalid, id)
	}
	next := change(current)

	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         action,
		Resource:       "list",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(id) },
		Apply:          func(ctx context.Context) error { return s.upsert(ctx, next) },
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.UpdateList(ctx, next)
		}),
	})
	return err
}

func (s *listService) Delete(ctx context.Context, id string) error {
	if _, ok := s.get(id); !ok {
		return ErrNotFound
	}
	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         "delete",
		Resource:       "list",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(id) },
		Apply:          func(ctx context.Context) error { return s.delete(ctx, id) },
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.DeleteList(ctx, id)
		}),
		Commit: func(ctx context.Context, _ struct{}) error {
			return s.visits.ForgetRefs(ctx, model.CleanerRef{Type: model.CleanerList, ID: id})
		},
	})
	return err
}

func (s *listService) DeleteByIDs(ctx context.Context, ids []string) error {
	return s.delete(ctx, ids...)
}

func (s *listService) Get(id string) (model.List, bool) {
	return s.get(id)
}

func (s *listService) ListsByUser(userID string) []model.List {
	return s.coll.Filter(func(l model.List) bool { return l.UserID == userID })
}
