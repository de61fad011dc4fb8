package service

import (
	"context"
	"fmt"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/logger"
	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/repository"
)

// VisitRecorder maintains the CleanerRecords that drive eviction.
type VisitRecorder interface {
	// RecordVisits marks every ref as visited now in one batch.
	RecordVisits(ctx context.Context, refs ...model.CleanerRef) error
	// ForgetVisits drops the records of refs that no longer exist.
	ForgetVisits(ctx context.Context, refIDs ...string) error
	// ForgetRefs drops only the records of the given (type, id) pairs.
	ForgetRefs(ctx context.Context, refs ...model.CleanerRef) error
}

type visitRecorder struct {
	records repository.CleanerRepository
	now     func() time.Time
}

func NewVisitRecorder(records repository.CleanerRepository, now func() time.Time) VisitRecorder {
	if now == nil {
		now = time.Now
	}
	return &visitRecorder{records: records, now: now}
}

func (v *visitRecorder) RecordVisits(ctx context.Context, refs ...model.CleanerRef) error {
	if len(refs) == 0 {
		return nil
	}
	visitedAt := v.now()
	batch := make([]model.CleanerRecord, 0, len(refs))
	seen := make(map[model.CleanerRef]struct{}, len(refs))
	for _, ref := range refs {
		if ref.ID == "" {
			continue
		}
		if !ref.Type.Valid() {
			return fmt.Errorf("%w: cleaner type %q", ErrInvalid, ref.Type)
		}
		if _, dup := seen[ref]; dup {
			continue
		}
		seen[ref] = struct{}{}
		batch = append(batch, model.CleanerRecord{RefID: ref.ID, Type: ref.Type, VisitedAt: visitedAt})
	}
	if err := v.records.UpsertMany(ctx, batch); err != nil {
		return fmt.Errorf("record visits: %w", err)
	}
	return nil
}

func (v *visitRecorder) ForgetVisits(ctx context.Context, refIDs ...string) error {
	if len(refIDs) == 0 {
		return nil
	}
	if err := v.records.BulkDelete(ctx, refIDs); err != nil {
		return fmt.Errorf("forget visits: %w", err)
	}
	return nil
}

func (v *visitRecorder) ForgetRefs(ctx context.Context, refs ...model.CleanerRef) error {
	if len(refs) == 0 {
		return nil
	}
	if err := v.records.DeleteRefs(ctx, refs); err != nil {
		return fmt.Errorf("forget visits: %w", err)
	}
	return nil
}

// touch records visits from a fetch path. Failure only costs eviction
// accuracy, so it is logged rather than returned.
func touch(ctx context.Context, visits VisitRecorder, refs ...model.CleanerRef) {
	if visits == nil || len(refs) == 0 {
		return
	}
	if err := visits.RecordVisits(ctx, refs...); err != nil {
		logger.Warn("record visits failed", "module", "service", "action", "touch", "resource", "cleaner", "result", "failed", "count", len(refs), "error", err)
	}
}

func feedRefs(ids ...string) []model.CleanerRef {
	return refsOf(model.CleanerFeed, ids)
}

func entryRefs(entries []model.Entry) []model.CleanerRef {
	refs := make([]model.CleanerRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, model.CleanerRef{Type: model.CleanerEntry, ID: e.ID})
	}
	return refs
}

func refsOf(kind model.CleanerType, ids []string) []model.CleanerRef {
	refs := make([]model.CleanerRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, model.CleanerRef{Type: kind, ID: id})
	}
	return refs
}
