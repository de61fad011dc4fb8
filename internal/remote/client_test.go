package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

type staticFactory struct {
	client *http.Client
}

func (f staticFactory) NewHTTPClient(time.Duration) *http.Client { return f.client }

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(staticFactory{client: srv.Client()}, ClientOptions{
		BaseURL:   srv.URL + "/",
		Token:     "secret",
		UserAgent: "folo-test",
		QPS:       100,
	})
}

func writeData(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(w).Encode(envelope{Code: 0, Data: raw}))
}

func TestClient_GetFeedDecodesEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/feeds", r.URL.Path)
		require.Equal(t, "f1", r.URL.Query().Get("id"))
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "folo-test", r.Header.Get("User-Agent"))

		title := "Go Blog"
		feedID := "f1"
		writeData(t, w, FeedBundle{
			Feed:    model.Feed{ID: "f1", URL: "https://go.dev/blog/feed.atom", Title: &title},
			Entries: []model.Entry{{ID: "e1", GUID: "g1", FeedID: &feedID}},
		})
	})

	bundle, err := client.GetFeed(context.Background(), "f1")
	require.NoError(t, err)
	require.Equal(t, "Go Blog", *bundle.Feed.Title)
	require.Len(t, bundle.Entries, 1)
	require.Equal(t, "f1", *bundle.Entries[0].FeedID)
}

func TestClient_PostsJSONBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/reads", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, []string{"e1", "e2"}, body["entryIds"])
		_, _ = io.WriteString(w, `{"code":0}`)
	})

	require.NoError(t, client.MarkEntriesRead(context.Background(), []string{"e1", "e2"}, false))
}

func TestClient_Non2xxIsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"code":4010,"message":"not the feed owner"}`)
	})

	_, err := client.ClaimFeed(context.Background(), "f1")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	require.Equal(t, 4010, apiErr.Code)
	require.Contains(t, err.Error(), "not the feed owner")
}

func TestClient_NonZeroCodeIsAPIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"code":1001,"message":"list not found"}`)
	})

	err := client.DeleteList(context.Background(), "l1")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 1001, apiErr.Code)
}

func TestClient_TransportFailure(t *testing.T) {
	failing := &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})}
	client := NewClient(staticFactory{client: failing}, ClientOptions{BaseURL: "http://remote.invalid"})

	err := client.StarEntry(context.Background(), "e1", true)
	require.ErrorContains(t, err, "connection refused")
}

func TestClient_SetQPS(t *testing.T) {
	client := NewClient(staticFactory{client: http.DefaultClient}, ClientOptions{})
	require.Equal(t, DefaultQPS, client.QPS())

	client.SetQPS(3)
	require.Equal(t, 3, client.QPS())
}

func TestClient_CancelledContextStopsBeforeSending(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListInboxes(ctx)
	require.Error(t, err)
	require.False(t, called)
}
