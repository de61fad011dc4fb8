package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestEntryRepository_RoundTripsJSONColumns(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	entry := testutil.Entry("e1", "f1")
	entry.Media = []model.Media{{URL: "https://img.example.com/a.png", Type: "photo", Width: 640, Height: 480}}
	entry.Categories = []string{"go", "rss"}
	entry.Attachments = []model.Attachment{{URL: "https://cdn.example.com/a.mp3", MimeType: "audio/mpeg", DurationInSeconds: 60}}
	entry.Extra = map[string]string{"links": "2"}
	entry.Sources = []string{"hn"}
	entry.Settings = &model.EntrySettings{Translation: "en", Readability: true}
	entry.Read = true
	entry.Starred = true

	require.NoError(t, repo.UpsertMany(ctx, []model.Entry{entry}))

	fetched, err := repo.GetByID(ctx, "e1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, entry, *fetched)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestEntryRepository_RejectsEntryWithoutSingleSource(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)

	both := testutil.Entry("e1", "f1")
	both.InboxHandle = testutil.StringPtr("inbox")
	err := repo.UpsertMany(context.Background(), []model.Entry{both})
	require.ErrorIs(t, err, model.ErrInvalidEntity)

	neither := testutil.Entry("e2", "f1")
	neither.FeedID = nil
	err = repo.UpsertMany(context.Background(), []model.Entry{neither})
	require.ErrorIs(t, err, model.ErrInvalidEntity)
}

func TestEntryRepository_DeleteByFeedIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	inboxEntry := testutil.Entry("e4", "")
	inboxEntry.FeedID = nil
	inboxEntry.InboxHandle = testutil.StringPtr("me@inbox")
	testutil.SeedEntries(t, db,
		testutil.Entry("e1", "f1"),
		testutil.Entry("e2", "f1"),
		testutil.Entry("e3", "f2"),
		inboxEntry,
	)

	require.NoError(t, repo.DeleteByFeedIDs(ctx, []string{"f1"}))

	remaining, err := repo.GetAll(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(remaining))
	for _, e := range remaining {
		ids = append(ids, e.ID)
	}
	require.ElementsMatch(t, []string{"e3", "e4"}, ids)

	inbox, err := repo.GetByInboxHandle(ctx, "me@inbox")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
}

func TestEntryRepository_BulkDeleteLargeBatch(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewEntryRepository(db)
	ctx := context.Background()

	var entries []model.Entry
	var ids []string
	for i := 0; i < 1200; i++ {
		id := fmt.Sprintf("e%04d", i)
		entries = append(entries, testutil.Entry(id, "f1"))
		ids = append(ids, id)
	}
	require.NoError(t, repo.UpsertMany(ctx, entries))
	require.NoError(t, repo.BulkDelete(ctx, ids))

	remaining, err := repo.GetByFeedIDs(ctx, []string{"f1"})
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestTranslationRepository_CascadesWithEntry(t *testing.T) {
	db := testutil.NewTestDB(t)
	entries := repository.NewEntryRepository(db)
	translations := repository.NewTranslationRepository(db)
	ctx := context.Background()

	testutil.SeedEntries(t, db, testutil.Entry("e1", "f1"), testutil.Entry("e2", "f1"))
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, translations.UpsertMany(ctx, []model.Translation{
		{EntryID: "e1", Language: "en", Title: testutil.StringPtr("Hello"), CreatedAt: created},
		{EntryID: "e1", Language: "ja", Title: testutil.StringPtr("こんにちは"), CreatedAt: created},
		{EntryID: "e2", Language: "en", Title: testutil.StringPtr("World"), CreatedAt: created},
	}))

	require.NoError(t, entries.BulkDelete(ctx, []string{"e1"}))

	all, err := translations.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "e2", all[0].EntryID)

	got, err := translations.Get(ctx, "e1", "en")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestTranslationRepository_RequiresParentEntry(t *testing.T) {
	db := testutil.NewTestDB(t)
	translations := repository.NewTranslationRepository(db)

	err := translations.UpsertMany(context.Background(), []model.Translation{
		{EntryID: "ghost", Language: "en", CreatedAt: time.Now()},
	})
	require.Error(t, err)
}
