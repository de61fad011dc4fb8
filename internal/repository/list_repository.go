package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type ListRepository interface {
	UpsertMany(ctx context.Context, lists []model.List) error
	GetAll(ctx context.Context) ([]model.List, error)
	BulkDelete(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
}

type listRepository struct {
	db dbtx
}

func NewListRepository(db dbtx) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) UpsertMany(ctx context.Context, lists []model.List) error {
	if len(lists) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, list := range lists {
			feedIDs := list.FeedIDs
			if feedIDs == nil {
				feedIDs = []string{}
			}
			encoded, err := jsonColumn(feedIDs)
			if err != nil {
				return fmt.Errorf("encode list %s feed ids: %w", list.ID, err)
			}
			_, err = db.ExecContext(
				ctx,
				`INSERT INTO lists (id, user_id, title, feed_ids, description, view, image, fee, owner_user_id)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   user_id = excluded.user_id,
				   title = excluded.title,
				   feed_ids = excluded.feed_ids,
				   description = excluded.description,
				   view = excluded.view,
				   image = excluded.image,
				   fee = excluded.fee,
				   owner_user_id = excluded.owner_user_id`,
				list.ID,
				list.UserID,
				list.Title,
				encoded,
				nullableString(list.Description),
				int(list.View),
				nullableString(list.Image),
				list.Fee,
				nullableString(list.OwnerUserID),
			)
			if err != nil {
				return fmt.Errorf("upsert list %s: %w", list.ID, err)
			}
		}
		return nil
	})
}

func (r *listRepository) GetAll(ctx context.Context) ([]model.List, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT id, user_id, title, feed_ids, description, view, image, fee, owner_user_id FROM lists ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		var list model.List
		var feedIDs, description, image, ownerUserID sql.NullString
		var view int
		if err := rows.Scan(&list.ID, &list.UserID, &list.Title, &feedIDs, &description, &view, &image, &list.Fee, &ownerUserID); err != nil {
			return nil, err
		}
		list.FeedIDs = []string{}
		if err := scanJSON(feedIDs, &list.FeedIDs); err != nil {
			return nil, fmt.Errorf("decode list %s feed ids: %w", list.ID, err)
		}
		list.Description = stringPtr(description)
		list.View = model.FeedViewType(view)
		list.Image = stringPtr(image)
		list.OwnerUserID = stringPtr(ownerUserID)
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lists: %w", err)
	}
	return lists, nil
}

func (r *listRepository) BulkDelete(ctx context.Context, ids []string) error {
	return deleteWhereIn(ctx, r.db, "lists", "id", ids)
}

func (r *listRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "lists")
}
