package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/db"
	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/repository"

	"github.com/stretchr/testify/require"
)

// NewTestDB opens a migrated database in a per-test temp dir.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func StringPtr(s string) *string {
	return &s
}

// Feed returns a minimal valid feed.
func Feed(id string) model.Feed {
	return model.Feed{ID: id, URL: "https://example.com/" + id + ".xml", Title: StringPtr("Feed " + id)}
}

// Entry returns a minimal valid entry owned by feedID.
func Entry(id, feedID string) model.Entry {
	published := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.Entry{
		ID:          id,
		GUID:        "guid-" + id,
		Title:       StringPtr("Entry " + id),
		FeedID:      StringPtr(feedID),
		PublishedAt: published,
		InsertedAt:  published.Add(time.Minute),
	}
}

// FeedSubscription returns a feed subscription for userID.
func FeedSubscription(id, userID, feedID string) model.Subscription {
	return model.Subscription{
		ID:        id,
		FeedID:    StringPtr(feedID),
		UserID:    userID,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Type:      model.SubscriptionFeed,
	}
}

func SeedFeeds(t *testing.T, database *sql.DB, feeds ...model.Feed) {
	t.Helper()
	require.NoError(t, repository.NewFeedRepository(database).UpsertMany(context.Background(), feeds))
}

func SeedEntries(t *testing.T, database *sql.DB, entries ...model.Entry) {
	t.Helper()
	require.NoError(t, repository.NewEntryRepository(database).UpsertMany(context.Background(), entries))
}

func SeedSubscriptions(t *testing.T, database *sql.DB, subs ...model.Subscription) {
	t.Helper()
	require.NoError(t, repository.NewSubscriptionRepository(database).UpsertMany(context.Background(), subs))
}
