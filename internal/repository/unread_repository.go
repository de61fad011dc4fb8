package repository

import (
	"context"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type UnreadRepository interface {
	UpsertMany(ctx context.Context, unread []model.Unread) error
	GetAll(ctx context.Context) ([]model.Unread, error)
	BulkDelete(ctx context.Context, subscriptionIDs []string) error
	Reset(ctx context.Context) error
}

type unreadRepository struct {
	db dbtx
}

func NewUnreadRepository(db dbtx) UnreadRepository {
	return &unreadRepository{db: db}
}

func (r *unreadRepository) UpsertMany(ctx context.Context, unread []model.Unread) error {
	if len(unread) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, u := range unread {
			u = u.Normalized()
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO unread (subscription_id, count) VALUES (?, ?)
				 ON CONFLICT(subscription_id) DO UPDATE SET count = excluded.count`,
				u.SubscriptionID,
				u.Count,
			)
			if err != nil {
				return fmt.Errorf("upsert unread %s: %w", u.SubscriptionID, err)
			}
		}
		return nil
	})
}

func (r *unreadRepository) GetAll(ctx context.Context) ([]model.Unread, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT subscription_id, count FROM unread ORDER BY subscription_id`)
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}
	defer rows.Close()

	var result []model.Unread
	for rows.Next() {
		var u model.Unread
		if err := rows.Scan(&u.SubscriptionID, &u.Count); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unread: %w", err)
	}
	return result, nil
}

func (r *unreadRepository) BulkDelete(ctx context.Context, subscriptionIDs []string) error {
	return deleteWhereIn(ctx, r.db, "unread", "subscription_id", subscriptionIDs)
}

func (r *unreadRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "unread")
}
