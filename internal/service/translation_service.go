package service

import (
	"context"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/store"
)

// TranslationService caches translations. Rows are removed only together
// with their entry.
type TranslationService interface {
	Hydratable
	Resetable
	UpsertMany(ctx context.Context, translations []model.Translation) error
	Fetch(ctx context.Context, entryID, language string) (model.Translation, error)
	Get(entryID, language string) (model.Translation, bool)
	// ForgetEntries drops the cached translations of deleted entries from the store.
	ForgetEntries(entryIDs []string)
	Store() *store.Collection[model.Translation]
}

type translationService struct {
	repo    repository.TranslationRepository
	entries repository.EntryRepository
	coll    *store.Collection[model.Translation]
	api     remote.API
}

func NewTranslationService(repo repository.TranslationRepository, entries repository.EntryRepository, coll *store.Collection[model.Translation], api remote.API) TranslationService {
	return &translationService{repo: repo, entries: entries, coll: coll, api: api}
}

func (s *translationService) Store() *store.Collection[model.Translation] {
	return s.coll
}

func (s *translationService) Hydrate(ctx context.Context) error {
	rows, err := s.repo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("hydrate translations: %w", err)
	}
	s.coll.Replace(rows)
	return nil
}

func (s *translationService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return fmt.Errorf("reset translations: %w", err)
	}
	s.coll.Reset()
	return nil
}

func (s *translationService) UpsertMany(ctx context.Context, translations []model.Translation) error {
	if len(translations) == 0 {
		return nil
	}
	clean := make([]model.Translation, len(translations))
	for i, t := range translations {
		clean[i] = sanitizeTranslation(t.Normalized())
	}
	if err := s.repo.UpsertMany(ctx, clean); err != nil {
		return fmt.Errorf("upsert translations: %w", err)
	}
	s.coll.Upsert(clean...)
	return nil
}

func (s *translationService) Fetch(ctx context.Context, entryID, language string) (model.Translation, error) {
	if entryID == "" || language == "" {
		return model.Translation{}, ErrInvalid
	}
	// Translations reference their entry, so an uncached entry has nowhere to attach one.
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return model.Translation{}, fmt.Errorf("fetch translation: %w", err)
	}
	if entry == nil {
		return model.Translation{}, ErrNotFound
	}
	t, err := s.api.GetTranslation(ctx, entryID, language)
	if err != nil {
		return model.Translation{}, fmt.Errorf("fetch translation: %w", err)
	}
	t.EntryID = entryID
	t.Language = language
	if err := s.UpsertMany(ctx, []model.Translation{t}); err != nil {
		return model.Translation{}, err
	}
	got, _ := s.Get(entryID, language)
	return got, nil
}

func (s *translationService) Get(entryID, language string) (model.Translation, bool) {
	return s.coll.Get(model.TranslationKey(entryID, language))
}

func (s *translationService) ForgetEntries(entryIDs []string) {
	if len(entryIDs) == 0 {
		return
	}
	ids := make(map[string]struct{}, len(entryIDs))
	for _, id := range entryIDs {
		ids[id] = struct{}{}
	}
	s.coll.DeleteWhere(func(t model.Translation) bool {
		_, ok := ids[t.EntryID]
		return ok
	})
}
