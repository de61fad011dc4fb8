package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type InboxRepository interface {
	UpsertMany(ctx context.Context, inboxes []model.Inbox) error
	GetAll(ctx context.Context) ([]model.Inbox, error)
	BulkDelete(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
}

type inboxRepository struct {
	db dbtx
}

func NewInboxRepository(db dbtx) InboxRepository {
	return &inboxRepository{db: db}
}

func (r *inboxRepository) UpsertMany(ctx context.Context, inboxes []model.Inbox) error {
	if len(inboxes) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, inbox := range inboxes {
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO inboxes (id, title) VALUES (?, ?)
				 ON CONFLICT(id) DO UPDATE SET title = excluded.title`,
				inbox.ID,
				nullableString(inbox.Title),
			)
			if err != nil {
				return fmt.Errorf("upsert inbox %s: %w", inbox.ID, err)
			}
		}
		return nil
	})
}

func (r *inboxRepository) GetAll(ctx context.Context) ([]model.Inbox, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM inboxes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list inboxes: %w", err)
	}
	defer rows.Close()

	var inboxes []model.Inbox
	for rows.Next() {
		var inbox model.Inbox
		var title sql.NullString
		if err := rows.Scan(&inbox.ID, &title); err != nil {
			return nil, err
		}
		inbox.Title = stringPtr(title)
		inboxes = append(inboxes, inbox)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inboxes: %w", err)
	}
	return inboxes, nil
}

func (r *inboxRepository) BulkDelete(ctx context.Context, ids []string) error {
	return deleteWhereIn(ctx, r.db, "inboxes", "id", ids)
}

func (r *inboxRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "inboxes")
}
