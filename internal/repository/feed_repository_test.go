package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/repository"
	"github.com/RSSNext/Folo-sub005/internal/repository/testutil"

	"github.com/stretchr/testify/require"
)

func TestFeedRepository_UpsertIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	errorAt := time.Date(2024, 3, 1, 8, 30, 0, 123456789, time.UTC)
	feed := testutil.Feed("f1")
	feed.ErrorAt = &errorAt
	feed.ErrorMessage = testutil.StringPtr("timeout")

	require.NoError(t, repo.UpsertMany(ctx, []model.Feed{feed}))
	once, err := repo.GetAll(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.UpsertMany(ctx, []model.Feed{feed}))
	twice, err := repo.GetAll(ctx)
	require.NoError(t, err)

	require.Equal(t, once, twice)
	require.Equal(t, []model.Feed{feed}, twice)
}

func TestFeedRepository_UpsertOverwritesEveryColumn(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	first := testutil.Feed("f1")
	first.Description = testutil.StringPtr("old description")
	first.OwnerUserID = testutil.StringPtr("u1")
	require.NoError(t, repo.UpsertMany(ctx, []model.Feed{first}))

	// Fields absent from the newer record are cleared rather than merged.
	second := model.Feed{ID: "f1", URL: "https://example.com/new.xml"}
	require.NoError(t, repo.UpsertMany(ctx, []model.Feed{second}))

	feeds, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Feed{second}, feeds)
}

func TestFeedRepository_EmptyUpsertIsNoop(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)

	require.NoError(t, repo.UpsertMany(context.Background(), nil))
	feeds, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, feeds)
}

func TestFeedRepository_BulkDeleteIgnoresMissing(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	testutil.SeedFeeds(t, db, testutil.Feed("f1"), testutil.Feed("f2"))

	require.NoError(t, repo.BulkDelete(ctx, []string{"f1", "missing"}))
	require.NoError(t, repo.BulkDelete(ctx, nil))

	feeds, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, feeds, 1)
	require.Equal(t, "f2", feeds[0].ID)

	byID, err := repo.GetByIDs(ctx, []string{"f1", "f2"})
	require.NoError(t, err)
	require.Len(t, byID, 1)
}

func TestFeedRepository_Reset(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewFeedRepository(db)
	ctx := context.Background()

	testutil.SeedFeeds(t, db, testutil.Feed("f1"), testutil.Feed("f2"))
	require.NoError(t, repo.Reset(ctx))

	feeds, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, feeds)
}
