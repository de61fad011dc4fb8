package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RSSNext/Folo-sub005/internal/app"
	"github.com/RSSNext/Folo-sub005/internal/config"
)

const subscriptionsPayload = `{"code":0,"data":{
	"subscriptions":[{"id":"sub-1","feedId":"feed-1","userId":"user-1","view":0,"isPrivate":false,"createdAt":"2024-01-01T00:00:00Z","type":"feed"}],
	"feeds":[{"id":"feed-1","url":"https://example.com/feed.xml","title":"Example"}]
}}`

func testConfig(t *testing.T, baseURL string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.DBPath = filepath.Join(cfg.DataDir, "folo.db")
	cfg.APIBaseURL = baseURL
	cfg.APIToken = "token-1"
	cfg.UserID = "user-1"
	return cfg
}

func TestApp_SyncsThroughRemoteClientAndRehydrates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token-1" || r.Header.Get("User-Agent") != config.UserAgent {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path != "/subscriptions" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(subscriptionsPayload))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	ctx := context.Background()

	first, err := app.New(cfg)
	require.NoError(t, err)
	subs, err := first.Subscriptions.FetchAll(ctx, first.CurrentUser())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.NoError(t, first.Close())

	second, err := app.New(cfg)
	require.NoError(t, err)
	defer second.Close()

	_, ok := second.Feeds.Get("feed-1")
	require.False(t, ok)

	require.NoError(t, second.Start(ctx))
	feed, ok := second.Feeds.Get("feed-1")
	require.True(t, ok)
	require.Equal(t, "Example", *feed.Title)
	require.Len(t, second.Subscriptions.SubscriptionsByUser("user-1"), 1)

	require.Eventually(t, func() bool {
		at, _ := second.Scheduler.LastRun()
		return !at.IsZero()
	}, time.Second, 5*time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	require.NoError(t, second.Shutdown(shutdownCtx))
}

func TestApp_LogoutClearsEverything(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(subscriptionsPayload))
	}))
	defer server.Close()

	ctx := context.Background()
	a, err := app.New(testConfig(t, server.URL))
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Subscriptions.FetchAll(ctx, "user-1")
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx))
	require.Empty(t, a.CurrentUser())
	require.Empty(t, a.Feeds.GetAll())
	require.Empty(t, a.Subscriptions.Store().GetState())

	require.NoError(t, a.Bootstrap.Hydrate(ctx))
	require.Empty(t, a.Feeds.GetAll())
}
