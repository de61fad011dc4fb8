package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

// UserSource reports the signed-in user the cache currently belongs to.
type UserSource interface {
	CurrentUser() string
}

type SubscriptionHandler struct {
	subscriptions service.SubscriptionService
	unread        service.UnreadService
	users         UserSource
}

type subscribeRequest struct {
	FeedID    string             `json:"feedId"`
	URL       string             `json:"url"`
	ListID    string             `json:"listId"`
	InboxID   string             `json:"inboxId"`
	View      model.FeedViewType `json:"view"`
	Category  string             `json:"category"`
	Title     string             `json:"title"`
	IsPrivate bool               `json:"isPrivate"`
}

type updateSubscriptionRequest struct {
	Title    *string `json:"title"`
	Category *string `json:"category"`
}

type unreadResponse struct {
	Total  int            `json:"total"`
	Counts map[string]int `json:"counts"`
}

func NewSubscriptionHandler(subscriptions service.SubscriptionService, unread service.UnreadService, users UserSource) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, unread: unread, users: users}
}

func (h *SubscriptionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/subscriptions", h.List)
	g.POST("/subscriptions", h.Subscribe)
	g.POST("/subscriptions/sync", h.Sync)
	g.PATCH("/subscriptions/:id", h.Update)
	g.DELETE("/subscriptions/:id", h.Unsubscribe)
	g.GET("/unread", h.Unread)
	g.POST("/unread/sync", h.SyncUnread)
}

// List returns the current user's cached subscriptions.
func (h *SubscriptionHandler) List(c echo.Context) error {
	subs := h.subscriptions.SubscriptionsByUser(h.users.CurrentUser())
	if subs == nil {
		subs = []model.Subscription{}
	}
	return c.JSON(http.StatusOK, subs)
}

// Sync replaces the current user's subscriptions with the server's.
func (h *SubscriptionHandler) Sync(c echo.Context) error {
	subs, err := h.subscriptions.FetchAll(c.Request().Context(), h.users.CurrentUser())
	if err != nil {
		return writeServiceError(c, err)
	}
	if subs == nil {
		subs = []model.Subscription{}
	}
	return c.JSON(http.StatusOK, subs)
}

func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	var req subscribeRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	sub, err := h.subscriptions.Subscribe(c.Request().Context(), h.users.CurrentUser(), remote.SubscribeRequest{
		FeedID:    strings.TrimSpace(req.FeedID),
		URL:       strings.TrimSpace(req.URL),
		ListID:    strings.TrimSpace(req.ListID),
		InboxID:   strings.TrimSpace(req.InboxID),
		View:      req.View,
		Category:  strings.TrimSpace(req.Category),
		Title:     strings.TrimSpace(req.Title),
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, sub)
}

// Update renames and/or recategorizes a subscription.
func (h *SubscriptionHandler) Update(c echo.Context) error {
	var req updateSubscriptionRequest
	if err := c.Bind(&req); err != nil || (req.Title == nil && req.Category == nil) {
		return badRequest(c)
	}
	ctx := c.Request().Context()
	id := c.Param("id")
	if req.Title != nil {
		if err := h.subscriptions.Rename(ctx, id, strings.TrimSpace(*req.Title)); err != nil {
			return writeServiceError(c, err)
		}
	}
	if req.Category != nil {
		if err := h.subscriptions.SetCategory(ctx, id, strings.TrimSpace(*req.Category)); err != nil {
			return writeServiceError(c, err)
		}
	}
	sub, ok := h.subscriptions.Get(id)
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, sub)
}

func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	if err := h.subscriptions.Unsubscribe(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Unread returns per-subscription counters of the current user and their sum.
func (h *SubscriptionHandler) Unread(c echo.Context) error {
	subs := h.subscriptions.SubscriptionsByUser(h.users.CurrentUser())
	counts := make(map[string]int, len(subs))
	for _, sub := range subs {
		counts[sub.ID] = h.unread.Count(sub.ID)
	}
	return c.JSON(http.StatusOK, unreadResponse{
		Total:  h.subscriptions.TotalUnread(h.users.CurrentUser()),
		Counts: counts,
	})
}

func (h *SubscriptionHandler) SyncUnread(c echo.Context) error {
	if err := h.unread.FetchAll(c.Request().Context()); err != nil {
		return writeServiceError(c, err)
	}
	return h.Unread(c)
}
