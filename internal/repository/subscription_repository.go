package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type SubscriptionRepository interface {
	UpsertMany(ctx context.Context, subscriptions []model.Subscription) error
	GetAll(ctx context.Context) ([]model.Subscription, error)
	GetByUserID(ctx context.Context, userID string) ([]model.Subscription, error)
	GetByFeedIDs(ctx context.Context, feedIDs []string) ([]model.Subscription, error)
	BulkDelete(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
}

type subscriptionRepository struct {
	db dbtx
}

func NewSubscriptionRepository(db dbtx) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

const subscriptionColumns = `id, feed_id, list_id, inbox_id, user_id, view, is_private, title, category, created_at, type`

func (r *subscriptionRepository) UpsertMany(ctx context.Context, subscriptions []model.Subscription) error {
	if len(subscriptions) == 0 {
		return nil
	}
	for _, sub := range subscriptions {
		if err := sub.Validate(); err != nil {
			return err
		}
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, sub := range subscriptions {
			sub = sub.Normalized()
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO subscriptions (`+subscriptionColumns+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   feed_id = excluded.feed_id,
				   list_id = excluded.list_id,
				   inbox_id = excluded.inbox_id,
				   user_id = excluded.user_id,
				   view = excluded.view,
				   is_private = excluded.is_private,
				   title = excluded.title,
				   category = excluded.category,
				   created_at = excluded.created_at,
				   type = excluded.type`,
				sub.ID,
				nullableString(sub.FeedID),
				nullableString(sub.ListID),
				nullableString(sub.InboxID),
				sub.UserID,
				int(sub.View),
				boolToInt(sub.IsPrivate),
				nullableString(sub.Title),
				nullableString(sub.Category),
				formatTime(sub.CreatedAt),
				string(sub.Type),
			)
			if err != nil {
				return fmt.Errorf("upsert subscription %s: %w", sub.ID, err)
			}
		}
		return nil
	})
}

func (r *subscriptionRepository) GetAll(ctx context.Context) ([]model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return collectSubscriptions(rows)
}

func (r *subscriptionRepository) GetByUserID(ctx context.Context, userID string) ([]model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by user: %w", err)
	}
	return collectSubscriptions(rows)
}

func (r *subscriptionRepository) GetByFeedIDs(ctx context.Context, feedIDs []string) ([]model.Subscription, error) {
	var subs []model.Subscription
	for _, chunk := range chunkIDs(feedIDs) {
		placeholders, args := inClause(chunk)
		rows, err := r.db.QueryContext(ctx, `SELECT `+subscriptionColumns+` FROM subscriptions WHERE feed_id IN (`+placeholders+`) ORDER BY id`, args...)
		if err != nil {
			return nil, fmt.Errorf("list subscriptions by feed: %w", err)
		}
		batch, err := collectSubscriptions(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, batch...)
	}
	return subs, nil
}

func (r *subscriptionRepository) BulkDelete(ctx context.Context, ids []string) error {
	return deleteWhereIn(ctx, r.db, "subscriptions", "id", ids)
}

func (r *subscriptionRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "subscriptions")
}

func collectSubscriptions(rows *sql.Rows) ([]model.Subscription, error) {
	defer rows.Close()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		var feedID, listID, inboxID, title, category sql.NullString
		var view, isPrivate int
		var createdAt, subType string
		if err := rows.Scan(
			&sub.ID,
			&feedID,
			&listID,
			&inboxID,
			&sub.UserID,
			&view,
			&isPrivate,
			&title,
			&category,
			&createdAt,
			&subType,
		); err != nil {
			return nil, err
		}
		sub.FeedID = stringPtr(feedID)
		sub.ListID = stringPtr(listID)
		sub.InboxID = stringPtr(inboxID)
		sub.View = model.FeedViewType(view)
		sub.IsPrivate = isPrivate == 1
		sub.Title = stringPtr(title)
		sub.Category = stringPtr(category)
		sub.Type = model.SubscriptionType(subType)
		t, err := parseTime(createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse subscription created_at: %w", err)
		}
		sub.CreatedAt = t
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subscriptions: %w", err)
	}
	return subs, nil
}
