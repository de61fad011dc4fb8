package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type FeedRepository interface {
	UpsertMany(ctx context.Context, feeds []model.Feed) error
	GetAll(ctx context.Context) ([]model.Feed, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Feed, error)
	BulkDelete(ctx context.Context, ids []string) error
	Reset(ctx context.Context) error
}

type feedRepository struct {
	db dbtx
}

func NewFeedRepository(db dbtx) FeedRepository {
	return &feedRepository{db: db}
}

const feedColumns = `id, title, url, description, image, error_at, site_url, owner_user_id, error_message`

func (r *feedRepository) UpsertMany(ctx context.Context, feeds []model.Feed) error {
	if len(feeds) == 0 {
		return nil
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, feed := range feeds {
			_, err := db.ExecContext(
				ctx,
				`INSERT INTO feeds (`+feedColumns+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   title = excluded.title,
				   url = excluded.url,
				   description = excluded.description,
				   image = excluded.image,
				   error_at = excluded.error_at,
				   site_url = excluded.site_url,
				   owner_user_id = excluded.owner_user_id,
				   error_message = excluded.error_message`,
				feed.ID,
				nullableString(feed.Title),
				feed.URL,
				nullableString(feed.Description),
				nullableString(feed.Image),
				nullableTime(feed.ErrorAt),
				nullableString(feed.SiteURL),
				nullableString(feed.OwnerUserID),
				nullableString(feed.ErrorMessage),
			)
			if err != nil {
				return fmt.Errorf("upsert feed %s: %w", feed.ID, err)
			}
		}
		return nil
	})
}

func (r *feedRepository) GetAll(ctx context.Context) ([]model.Feed, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedColumns+` FROM feeds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	return collectFeeds(rows)
}

func (r *feedRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Feed, error) {
	var feeds []model.Feed
	for _, chunk := range chunkIDs(ids) {
		placeholders, args := inClause(chunk)
		rows, err := r.db.QueryContext(ctx, `SELECT `+feedColumns+` FROM feeds WHERE id IN (`+placeholders+`) ORDER BY id`, args...)
		if err != nil {
			return nil, fmt.Errorf("get feeds: %w", err)
		}
		batch, err := collectFeeds(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, batch...)
	}
	return feeds, nil
}

func (r *feedRepository) BulkDelete(ctx context.Context, ids []string) error {
	return deleteWhereIn(ctx, r.db, "feeds", "id", ids)
}

func (r *feedRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "feeds")
}

func collectFeeds(rows *sql.Rows) ([]model.Feed, error) {
	defer rows.Close()

	var feeds []model.Feed
	for rows.Next() {
		feed, err := scanFeed(rows)
		if err != nil {
			return nil, err
		}
		feeds = append(feeds, feed)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feeds: %w", err)
	}
	return feeds, nil
}

func scanFeed(scanner interface {
	Scan(dest ...interface{}) error
}) (model.Feed, error) {
	var feed model.Feed
	var title, description, image, errorAt, siteURL, ownerUserID, errorMessage sql.NullString
	if err := scanner.Scan(
		&feed.ID,
		&title,
		&feed.URL,
		&description,
		&image,
		&errorAt,
		&siteURL,
		&ownerUserID,
		&errorMessage,
	); err != nil {
		return model.Feed{}, err
	}
	feed.Title = stringPtr(title)
	feed.Description = stringPtr(description)
	feed.Image = stringPtr(image)
	feed.SiteURL = stringPtr(siteURL)
	feed.OwnerUserID = stringPtr(ownerUserID)
	feed.ErrorMessage = stringPtr(errorMessage)
	if errorAt.Valid {
		t, err := parseTime(errorAt.String)
		if err != nil {
			return model.Feed{}, fmt.Errorf("parse feed error_at: %w", err)
		}
		feed.ErrorAt = &t
	}
	return feed, nil
}
