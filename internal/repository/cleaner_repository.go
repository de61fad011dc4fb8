package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

// CleanerRepository persists visit timestamps keyed by (ref_id, type).
type CleanerRepository interface {
	UpsertMany(ctx context.Context, records []model.CleanerRecord) error
	GetAll(ctx context.Context) ([]model.CleanerRecord, error)
	// ListVisitedBefore returns records whose visit is strictly older than cutoff.
	ListVisitedBefore(ctx context.Context, cutoff time.Time) ([]model.CleanerRecord, error)
	BulkDelete(ctx context.Context, refIDs []string) error
	// DeleteRefs removes only the records matching both ref id and type.
	DeleteRefs(ctx context.Context, refs []model.CleanerRef) error
	Reset(ctx context.Context) error
}

type cleanerRepository struct {
	db dbtx
}

func NewCleanerRepository(db dbtx) CleanerRepository {
	return &cleanerRepository{db: db}
}

func (r *cleanerRepository) UpsertMany(ctx context.Context, records []model.CleanerRecord) error {
	if len(records) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, rec := range records {
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO cleaner (ref_id, type, visited_at) VALUES (?, ?, ?)
				 ON CONFLICT(ref_id, type) DO UPDATE SET visited_at = excluded.visited_at`,
				rec.RefID,
				string(rec.Type),
				rec.VisitedAt.UnixMilli(),
			)
			if err != nil {
				return fmt.Errorf("upsert cleaner record %s/%s: %w", rec.Type, rec.RefID, err)
			}
		}
		return nil
	})
}

func (r *cleanerRepository) GetAll(ctx context.Context) ([]model.CleanerRecord, error) {
	return r.query(ctx, `SELECT ref_id, type, visited_at FROM cleaner ORDER BY visited_at, ref_id`)
}

func (r *cleanerRepository) ListVisitedBefore(ctx context.Context, cutoff time.Time) ([]model.CleanerRecord, error) {
	return r.query(
		ctx,
		`SELECT ref_id, type, visited_at FROM cleaner WHERE visited_at < ? ORDER BY visited_at, ref_id`,
		cutoff.UnixMilli(),
	)
}

func (r *cleanerRepository) query(ctx context.Context, query string, args ...interface{}) ([]model.CleanerRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list cleaner records: %w", err)
	}
	defer rows.Close()

	var records []model.CleanerRecord
	for rows.Next() {
		var rec model.CleanerRecord
		var recType string
		var visitedAt int64
		if err := rows.Scan(&rec.RefID, &recType, &visitedAt); err != nil {
			return nil, err
		}
		rec.Type = model.CleanerType(recType)
		rec.VisitedAt = time.UnixMilli(visitedAt).UTC()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cleaner records: %w", err)
	}
	return records, nil
}

// BulkDelete removes every record for the given ref ids, whatever their type.
func (r *cleanerRepository) BulkDelete(ctx context.Context, refIDs []string) error {
	return deleteWhereIn(ctx, r.db, "cleaner", "ref_id", refIDs)
}

func (r *cleanerRepository) DeleteRefs(ctx context.Context, refs []model.CleanerRef) error {
	if len(refs) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, ref := range refs {
			_, err := db.ExecContext(ctx, `DELETE FROM cleaner WHERE ref_id = ? AND type = ?`, ref.ID, string(ref.Type))
			if err != nil {
				return fmt.Errorf("delete cleaner record %s/%s: %w", ref.Type, ref.ID, err)
			}
		}
		return nil
	})
}

func (r *cleanerRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "cleaner")
}
