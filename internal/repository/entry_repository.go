package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type EntryRepository interface {
	UpsertMany(ctx context.Context, entries []model.Entry) error
	GetAll(ctx context.Context) ([]model.Entry, error)
	GetByID(ctx context.Context, id string) (*model.Entry, error)
	GetByFeedIDs(ctx context.Context, feedIDs []string) ([]model.Entry, error)
	GetByInboxHandle(ctx context.Context, handle string) ([]model.Entry, error)
	BulkDelete(ctx context.Context, ids []string) error
	DeleteByFeedIDs(ctx context.Context, feedIDs []string) error
	Reset(ctx context.Context) error
}

type entryRepository struct {
	db dbtx
}

func NewEntryRepository(db dbtx) EntryRepository {
	return &entryRepository{db: db}
}

const entryColumns = `id, guid, title, url, content, readability_content, description, author, author_url, author_avatar,
	published_at, inserted_at, media, categories, attachments, extra, feed_id, inbox_handle, read, starred, sources, settings`

func (r *entryRepository) UpsertMany(ctx context.Context, entries []model.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	for _, entry := range entries {
		if err := entry.Validate(); err != nil {
			return err
		}
	}
	return withTx(ctx, r.db, func(db dbtx) error {
		for _, entry := range entries {
			args, err := entryArgs(entry)
			if err != nil {
				return err
			}
			_, err = db.ExecContext(
				ctx,
				`INSERT INTO entries (`+entryColumns+`)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
				 ON CONFLICT(id) DO UPDATE SET
				   guid = excluded.guid,
				   title = excluded.title,
				   url = excluded.url,
				   content = excluded.content,
				   readability_content = excluded.readability_content,
				   description = excluded.description,
				   author = excluded.author,
				   author_url = excluded.author_url,
				   author_avatar = excluded.author_avatar,
				   published_at = excluded.published_at,
				   inserted_at = excluded.inserted_at,
				   media = excluded.media,
				   categories = excluded.categories,
				   attachments = excluded.attachments,
				   extra = excluded.extra,
				   feed_id = excluded.feed_id,
				   inbox_handle = excluded.inbox_handle,
				   read = excluded.read,
				   starred = excluded.starred,
				   sources = excluded.sources,
				   settings = excluded.settings`,
				args...,
			)
			if err != nil {
				return fmt.Errorf("upsert entry %s: %w", entry.ID, err)
			}
		}
		return nil
	})
}

func entryArgs(e model.Entry) ([]interface{}, error) {
	jsonFields := []interface{}{e.Media, e.Categories, e.Attachments, e.Extra, e.Sources, e.Settings}
	encoded := make([]interface{}, len(jsonFields))
	for i, field := range jsonFields {
		v, err := jsonColumn(field)
		if err != nil {
			return nil, fmt.Errorf("encode entry %s: %w", e.ID, err)
		}
		encoded[i] = v
	}
	return []interface{}{
		e.ID,
		e.GUID,
		nullableString(e.Title),
		nullableString(e.URL),
		nullableString(e.Content),
		nullableString(e.ReadabilityContent),
		nullableString(e.Description),
		nullableString(e.Author),
		nullableString(e.AuthorURL),
		nullableString(e.AuthorAvatar),
		formatTime(e.PublishedAt),
		formatTime(e.InsertedAt),
		encoded[0],
		encoded[1],
		encoded[2],
		encoded[3],
		nullableString(e.FeedID),
		nullableString(e.InboxHandle),
		boolToInt(e.Read),
		boolToInt(e.Starred),
		encoded[4],
		encoded[5],
	}, nil
}

func (r *entryRepository) GetAll(ctx context.Context) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY published_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return collectEntries(rows)
}

func (r *entryRepository) GetByID(ctx context.Context, id string) (*model.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	entries, err := collectEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}
	return &entries[0], nil
}

func (r *entryRepository) GetByFeedIDs(ctx context.Context, feedIDs []string) ([]model.Entry, error) {
	var entries []model.Entry
	for _, chunk := range chunkIDs(feedIDs) {
		placeholders, args := inClause(chunk)
		rows, err := r.db.QueryContext(
			ctx,
			`SELECT `+entryColumns+` FROM entries WHERE feed_id IN (`+placeholders+`) ORDER BY published_at DESC, id`,
			args...,
		)
		if err != nil {
			return nil, fmt.Errorf("list entries by feed: %w", err)
		}
		batch, err := collectEntries(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, batch...)
	}
	return entries, nil
}

func (r *entryRepository) GetByInboxHandle(ctx context.Context, handle string) ([]model.Entry, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE inbox_handle = ? ORDER BY published_at DESC, id`,
		handle,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries by inbox: %w", err)
	}
	return collectEntries(rows)
}

func (r *entryRepository) BulkDelete(ctx context.Context, ids []string) error {
	return deleteWhereIn(ctx, r.db, "entries", "id", ids)
}

// DeleteByFeedIDs removes every entry owned by the given feeds.
func (r *entryRepository) DeleteByFeedIDs(ctx context.Context, feedIDs []string) error {
	return deleteWhereIn(ctx, r.db, "entries", "feed_id", feedIDs)
}

func (r *entryRepository) Reset(ctx context.Context) error {
	return truncate(ctx, r.db, "entries")
}

func collectEntries(rows *sql.Rows) ([]model.Entry, error) {
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func scanEntry(rows *sql.Rows) (model.Entry, error) {
	var e model.Entry
	var title, url, content, readability, description, author, authorURL, authorAvatar sql.NullString
	var media, categories, attachments, extra, feedID, inboxHandle, sources, settings sql.NullString
	var publishedAt, insertedAt string
	var readInt, starredInt int

	err := rows.Scan(
		&e.ID, &e.GUID, &title, &url, &content, &readability, &description, &author, &authorURL, &authorAvatar,
		&publishedAt, &insertedAt, &media, &categories, &attachments, &extra, &feedID, &inboxHandle,
		&readInt, &starredInt, &sources, &settings,
	)
	if err != nil {
		return model.Entry{}, err
	}

	e.Title = stringPtr(title)
	e.URL = stringPtr(url)
	e.Content = stringPtr(content)
	e.ReadabilityContent = stringPtr(readability)
	e.Description = stringPtr(description)
	e.Author = stringPtr(author)
	e.AuthorURL = stringPtr(authorURL)
	e.AuthorAvatar = stringPtr(authorAvatar)
	e.FeedID = stringPtr(feedID)
	e.InboxHandle = stringPtr(inboxHandle)
	e.Read = readInt == 1
	e.Starred = starredInt == 1

	if e.PublishedAt, err = parseTime(publishedAt); err != nil {
		return model.Entry{}, fmt.Errorf("parse entry published_at: %w", err)
	}
	if e.InsertedAt, err = parseTime(insertedAt); err != nil {
		return model.Entry{}, fmt.Errorf("parse entry inserted_at: %w", err)
	}

	decoders := []struct {
		raw  sql.NullString
		dest interface{}
	}{
		{media, &e.Media},
		{categories, &e.Categories},
		{attachments, &e.Attachments},
		{extra, &e.Extra},
		{sources, &e.Sources},
		{settings, &e.Settings},
	}
	for _, d := range decoders {
		if err := scanJSON(d.raw, d.dest); err != nil {
			return model.Entry{}, fmt.Errorf("decode entry %s: %w", e.ID, err)
		}
	}

	return e, nil
}
