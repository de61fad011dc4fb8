package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/logger"
	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/repository"
)

// DefaultRetention is how long an unvisited entity stays cached.
const DefaultRetention = 30 * 24 * time.Hour

// CleanerService bounds the local cache by evicting entities nobody visited
// within the retention window.
type CleanerService interface {
	// Reset marks refs as visited now.
	Reset(ctx context.Context, refs []model.CleanerRef) error
	// CleanOutdatedData evicts everything whose last visit is older than the
	// retention window. Table failures are reported, not returned.
	CleanOutdatedData(ctx context.Context) (CleanReport, error)
	// CleanRemainingData removes data that only other users' subscriptions reference.
	CleanRemainingData(ctx context.Context, currentUserID string) (CleanReport, error)
	CleanRefByID(ctx context.Context, refIDs []string) error
	// Clear truncates every cleaner record.
	Clear(ctx context.Context) error
}

// CleanReport summarizes one cleaning run.
type CleanReport struct {
	Feeds         int
	Entries       int
	Lists         int
	Inboxes       int
	Subscriptions int
	Saga          SagaReport
}

// Deleter removes rows from a repository and its store.
type Deleter interface {
	DeleteByIDs(ctx context.Context, ids []string) error
}

type EntryDeleter interface {
	Deleter
	DeleteByFeedIDs(ctx context.Context, feedIDs []string) error
}

// CleanerDeps are the tables the cleaner cascades into.
type CleanerDeps struct {
	Records       repository.CleanerRepository
	Subscriptions repository.SubscriptionRepository
	Visits        VisitRecorder
	Feeds         Deleter
	Entries       EntryDeleter
	Lists         Deleter
	Inboxes       Deleter
	Unread        Deleter
	Subscribed    Deleter
	Retention     time.Duration
	Now           func() time.Time
}

type cleanerService struct {
	deps CleanerDeps
}

func NewCleanerService(deps CleanerDeps) CleanerService {
	if deps.Retention <= 0 {
		deps.Retention = DefaultRetention
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Visits == nil {
		deps.Visits = NewVisitRecorder(deps.Records, deps.Now)
	}
	return &cleanerService{deps: deps}
}

func (s *cleanerService) Reset(ctx context.Context, refs []model.CleanerRef) error {
	return s.deps.Visits.RecordVisits(ctx, refs...)
}

func (s *cleanerService) CleanRefByID(ctx context.Context, refIDs []string) error {
	return s.deps.Visits.ForgetVisits(ctx, uniqueIDs(refIDs)...)
}

func (s *cleanerService) Clear(ctx context.Context) error {
	if err := s.deps.Records.Reset(ctx); err != nil {
		return fmt.Errorf("reset cleaner: %w", err)
	}
	return nil
}

func (s *cleanerService) CleanOutdatedData(ctx context.Context) (CleanReport, error) {
	expiredTime := s.deps.Now().Add(-s.deps.Retention)
	expired, err := s.deps.Records.ListVisitedBefore(ctx, expiredTime)
	if err != nil {
		return CleanReport{}, fmt.Errorf("list expired visits: %w", err)
	}
	if len(expired) == 0 {
		return CleanReport{}, nil
	}

	var feedIDs, entryIDs, listIDs, inboxIDs []string
	refs := make([]model.CleanerRef, 0, len(expired))
	for _, rec := range expired {
		refs = append(refs, model.CleanerRef{Type: rec.Type, ID: rec.RefID})
		switch rec.Type {
		case model.CleanerFeed:
			feedIDs = append(feedIDs, rec.RefID)
		case model.CleanerEntry:
			entryIDs = append(entryIDs, rec.RefID)
		case model.CleanerList:
			listIDs = append(listIDs, rec.RefID)
		case model.CleanerInbox:
			inboxIDs = append(inboxIDs, rec.RefID)
		}
	}

	steps := []SagaStep{
		{Name: "feeds", Run: func(ctx context.Context) error {
			return s.deps.Feeds.DeleteByIDs(ctx, feedIDs)
		}},
		{Name: "entries", Run: func(ctx context.Context) error {
			return errors.Join(
				s.deps.Entries.DeleteByIDs(ctx, entryIDs),
				s.deps.Entries.DeleteByFeedIDs(ctx, feedIDs),
			)
		}},
		{Name: "cleaner", Run: func(ctx context.Context) error {
			return s.deps.Visits.ForgetRefs(ctx, refs...)
		}},
		{Name: "lists", Run: func(ctx context.Context) error {
			return s.deps.Lists.DeleteByIDs(ctx, listIDs)
		}},
		{Name: "inboxes", Run: func(ctx context.Context) error {
			return s.deps.Inboxes.DeleteByIDs(ctx, inboxIDs)
		}},
		{Name: "unread", Run: func(ctx context.Context) error {
			return s.deleteUnreadOfFeeds(ctx, feedIDs)
		}},
	}

	report := CleanReport{
		Feeds:   len(feedIDs),
		Entries: len(entryIDs),
		Lists:   len(listIDs),
		Inboxes: len(inboxIDs),
		Saga:    RunSaga(ctx, "clean_outdated", steps),
	}
	s.log("clean_outdated", report)
	return report, nil
}

func (s *cleanerService) deleteUnreadOfFeeds(ctx context.Context, feedIDs []string) error {
	if len(feedIDs) == 0 {
		return nil
	}
	subs, err := s.deps.Subscriptions.GetByFeedIDs(ctx, feedIDs)
	if err != nil {
		return fmt.Errorf("find subscriptions of feeds: %w", err)
	}
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return s.deps.Unread.DeleteByIDs(ctx, ids)
}

func (s *cleanerService) CleanRemainingData(ctx context.Context, currentUserID string) (CleanReport, error) {
	if currentUserID == "" {
		return CleanReport{}, ErrInvalid
	}
	subs, err := s.deps.Subscriptions.GetAll(ctx)
	if err != nil {
		return CleanReport{}, fmt.Errorf("list subscriptions: %w", err)
	}

	currentFeeds := make(map[string]struct{})
	otherFeeds := make(map[string]struct{})
	var otherSubs []string
	for _, sub := range subs {
		if sub.UserID == currentUserID {
			if sub.FeedID != nil {
				currentFeeds[*sub.FeedID] = struct{}{}
			}
			continue
		}
		otherSubs = append(otherSubs, sub.ID)
		if sub.FeedID != nil {
			otherFeeds[*sub.FeedID] = struct{}{}
		}
	}

	var exclusive []string
	for id := range otherFeeds {
		if _, shared := currentFeeds[id]; !shared {
			exclusive = append(exclusive, id)
		}
	}
	if len(exclusive) == 0 && len(otherSubs) == 0 {
		return CleanReport{}, nil
	}

	steps := []SagaStep{
		{Name: "feeds", Run: func(ctx context.Context) error {
			return s.deps.Feeds.DeleteByIDs(ctx, exclusive)
		}},
		{Name: "entries", Run: func(ctx context.Context) error {
			return s.deps.Entries.DeleteByFeedIDs(ctx, exclusive)
		}},
		{Name: "unread", Run: func(ctx context.Context) error {
			return s.deps.Unread.DeleteByIDs(ctx, otherSubs)
		}},
		{Name: "subscriptions", Run: func(ctx context.Context) error {
			return s.deps.Subscribed.DeleteByIDs(ctx, otherSubs)
		}},
		{Name: "cleaner", Run: func(ctx context.Context) error {
			return s.deps.Visits.ForgetRefs(ctx, feedRefs(exclusive...)...)
		}},
	}

	report := CleanReport{
		Feeds:         len(exclusive),
		Subscriptions: len(otherSubs),
		Saga:          RunSaga(ctx, "clean_remaining", steps),
	}
	s.log("clean_remaining", report)
	return report, nil
}

func (s *cleanerService) log(action string, report CleanReport) {
	result := "ok"
	if !report.Saga.OK() {
		result = "partial"
	}
	logger.Info("cache cleaned",
		"module", "service",
		"action", action,
		"resource", "cleaner",
		"result", result,
		"feeds", report.Feeds,
		"entries", report.Entries,
		"lists", report.Lists,
		"inboxes", report.Inboxes,
		"subscriptions", report.Subscriptions,
		"failed_steps", report.Saga.FailedSteps(),
	)
}
