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

type InboxService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, inboxes []model.Inbox) error
	FetchAll(ctx context.Context) ([]model.Inbox, error)
	Create(ctx context.Context, handle, title string) (model.Inbox, error)
	Rename(ctx context.Context, id, title string) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) error
	Get(id string) (model.Inbox, bool)
	GetAll() []model.Inbox
	Store() *store.Collection[model.Inbox]
}

type inboxService struct {
	*table[model.Inbox]
	api    remote.API
	visits VisitRecorder
}

func NewInboxService(repo repository.InboxRepository, coll *store.Collection[model.Inbox], api remote.API, visits VisitRecorder) InboxService {
	return &inboxService{
		table:  newTable[model.Inbox]("inboxes", repo, coll, nil),
		api:    api,
		visits: visits,
	}
}

func (s *inboxService) Store() *store.Collection[model.Inbox] {
	return s.coll
}

func (s *inboxService) UpsertMany(ctx context.Context, inboxes []model.Inbox) error {
	return s.upsert(ctx, inboxes...)
}

func (s *inboxService) FetchAll(ctx context.Context) ([]model.Inbox, error) {
	inboxes, err := s.api.ListInboxes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch inboxes: %w", err)
	}
	if err := s.upsert(ctx, inboxes...); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(inboxes))
	for _, inbox := range inboxes {
		ids = append(ids, inbox.ID)
	}
	touch(ctx, s.visits, refsOf(model.CleanerInbox, ids)...)
	return inboxes, nil
}

func (s *inboxService) Create(ctx context.Context, handle, title string) (model.Inbox, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return model.Inbox{}, ErrInvalid
	}
	return RunMutation(ctx, Mutation[model.Inbox]{
		Action:   "create",
		Resource: "inbox",
		Wait:     true,
		Remote: func(ctx context.Context) (model.Inbox, error) {
			return s.api.CreateInbox(ctx, remote.CreateInboxRequest{Handle: handle, Title: strings.TrimSpace(title)})
		},
		Commit: func(ctx context.Context, inbox model.Inbox) error {
			if err := s.upsert(ctx, inbox); err != nil {
				return err
			}
			touch(ctx, s.visits, model.CleanerRef{Type: model.CleanerInbox, ID: inbox.ID})
			return nil
		},
	})
}

func (s *inboxService) Rename(ctx context.Context, id, title string) error {
	inbox, ok := s.get(id)
	if !ok {
		return ErrNotFound
	}
	title = strings.TrimSpace(title)
	if title == "" {
		inbox.Title = nil
	} else {
		inbox.Title = &title
	}

	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         "rename",
		Resource:       "inbox",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(id) },
		Apply:          func(ctx context.Context) error { return s.upsert(ctx, inbox) },
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.UpdateInbox(ctx, inbox)
		}),
	})
	return err
}

func (s *inboxService) Delete(ctx context.Context, id string) error {
	if _, ok := s.get(id); !ok {
		return ErrNotFound
	}
	_, err := RunMutation(ctx, Mutation[struct{}]{
		Action:         "delete",
		Resource:       "inbox",
		RollbackOnFail: true,
		Snapshot:       func() Restore { return s.snapshot(id) },
		Apply:          func(ctx context.Context) error { return s.delete(ctx, id) },
		Remote: remoteOnly(func(ctx context.Context) error {
			return s.api.DeleteInbox(ctx, id)
		}),
		Commit: func(ctx context.Context, _ struct{}) error {
			return s.visits.ForgetRefs(ctx, model.CleanerRef{Type: model.CleanerInbox, ID: id})
		},
	})
	return err
}

func (s *inboxService) DeleteByIDs(ctx context.Context, ids []string) error {
	return s.delete(ctx, ids...)
}

func (s *inboxService) Get(id string) (model.Inbox, bool) {
	return s.get(id)
}

func (s *inboxService) GetAll() []model.Inbox {
	return s.coll.All()
}
