// Package remote is the fallible RPC boundary to the server-side API.
package remote

//go:generate mockgen -source=api.go -destination=mock/mock_api.go -package=mock

import (
	"context"
	"fmt"

	"github.com/RSSNext/Folo-sub005/internal/model"
)

// API lists the request/response shapes the engine needs per entity.
type API interface {
	GetFeed(ctx context.Context, id string) (FeedBundle, error)
	ClaimFeed(ctx context.Context, id string) (model.Feed, error)

	ListSubscriptions(ctx context.Context) (SubscriptionBundle, error)
	Subscribe(ctx context.Context, req SubscribeRequest) (SubscriptionBundle, error)
	Unsubscribe(ctx context.Context, subscriptionID string) error
	UpdateSubscription(ctx context.Context, sub model.Subscription) error

	ListUnread(ctx context.Context) ([]model.Unread, error)

	ListEntries(ctx context.Context, query EntryQuery) ([]model.Entry, error)
	GetEntry(ctx context.Context, id string) (model.Entry, error)
	MarkEntriesRead(ctx context.Context, ids []string, read bool) error
	MarkAllRead(ctx context.Context, feedIDs []string) error
	StarEntry(ctx context.Context, id string, starred bool) error

	GetList(ctx context.Context, id string) (ListBundle, error)
	CreateList(ctx context.Context, req CreateListRequest) (model.List, error)
	UpdateList(ctx context.Context, list model.List) error
	DeleteList(ctx context.Context, id string) error

	ListInboxes(ctx context.Context) ([]model.Inbox, error)
	CreateInbox(ctx context.Context, req CreateInboxRequest) (model.Inbox, error)
	UpdateInbox(ctx context.Context, inbox model.Inbox) error
	DeleteInbox(ctx context.Context, id string) error

	GetTranslation(ctx context.Context, entryID, language string) (model.Translation, error)
}

type FeedBundle struct {
	Feed    model.Feed    `json:"feed"`
	Entries []model.Entry `json:"entries,omitempty"`
}

// SubscriptionBundle carries subscriptions together with the sources they reference.
type SubscriptionBundle struct {
	Subscriptions []model.Subscription `json:"subscriptions"`
	Feeds         []model.Feed         `json:"feeds,omitempty"`
	Lists         []model.List         `json:"lists,omitempty"`
	Inboxes       []model.Inbox        `json:"inboxes,omitempty"`
}

type ListBundle struct {
	List  model.List   `json:"list"`
	Feeds []model.Feed `json:"feeds,omitempty"`
}

type SubscribeRequest struct {
	FeedID    string             `json:"feedId,omitempty"`
	URL       string             `json:"url,omitempty"`
	ListID    string             `json:"listId,omitempty"`
	InboxID   string             `json:"inboxId,omitempty"`
	View      model.FeedViewType `json:"view"`
	Category  string             `json:"category,omitempty"`
	Title     string             `json:"title,omitempty"`
	IsPrivate bool               `json:"isPrivate"`
}

// EntryQuery selects entries of one feed or one inbox.
type EntryQuery struct {
	FeedID      string `json:"feedId,omitempty"`
	InboxHandle string `json:"inboxId,omitempty"`
	Limit       int    `json:"limit,omitempty"`
}

type CreateListRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	View        model.FeedViewType `json:"view"`
	Image       string             `json:"image,omitempty"`
	Fee         int                `json:"fee"`
}

type CreateInboxRequest struct {
	Handle string `json:"handle"`
	Title  string `json:"title,omitempty"`
}

// APIError is a non-2xx or non-zero-code response.
type APIError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote api: status %d code %d", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("remote api: status %d code %d: %s", e.StatusCode, e.Code, e.Message)
}
