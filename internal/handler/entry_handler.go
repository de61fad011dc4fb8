package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

type EntryHandler struct {
	entries      service.EntryService
	translations service.TranslationService
}

type fetchEntriesRequest struct {
	FeedID  string `json:"feedId"`
	InboxID string `json:"inboxId"`
	Limit   int    `json:"limit"`
}

type markReadRequest struct {
	IDs  []string `json:"ids"`
	Read *bool    `json:"read"`
}

type starRequest struct {
	Starred bool `json:"starred"`
}

type markAllReadRequest struct {
	FeedIDs []string `json:"feedIds"`
}

func NewEntryHandler(entries service.EntryService, translations service.TranslationService) *EntryHandler {
	return &EntryHandler{entries: entries, translations: translations}
}

func (h *EntryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/entries", h.List)
	g.POST("/entries/fetch", h.Fetch)
	g.POST("/entries/read", h.MarkRead)
	g.POST("/entries/read-all", h.MarkAllRead)
	g.GET("/entries/:id", h.Get)
	g.PUT("/entries/:id/star", h.Star)
	g.GET("/entries/:id/translations/:language", h.Translation)
}

// List reads cached entries of one feed or inbox, newest first.
func (h *EntryHandler) List(c echo.Context) error {
	feedID := strings.TrimSpace(c.QueryParam("feedId"))
	inboxID := strings.TrimSpace(c.QueryParam("inboxId"))

	var entries []model.Entry
	switch {
	case feedID != "" && inboxID == "":
		entries = h.entries.EntriesByFeed(feedID)
	case inboxID != "" && feedID == "":
		entries = h.entries.EntriesByInbox(inboxID)
	default:
		return badRequest(c)
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// Fetch pulls entries from the server into the cache.
func (h *EntryHandler) Fetch(c echo.Context) error {
	var req fetchEntriesRequest
	if err := c.Bind(&req); err != nil || req.Limit < 0 {
		return badRequest(c)
	}
	entries, err := h.entries.FetchEntries(c.Request().Context(), remote.EntryQuery{
		FeedID:      strings.TrimSpace(req.FeedID),
		InboxHandle: strings.TrimSpace(req.InboxID),
		Limit:       req.Limit,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// Get serves a cached entry, falling back to the server on a miss or when refresh=true.
func (h *EntryHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if c.QueryParam("refresh") != "true" {
		if entry, ok := h.entries.Get(id); ok {
			return c.JSON(http.StatusOK, entry)
		}
	}
	entry, err := h.entries.FetchEntry(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *EntryHandler) MarkRead(c echo.Context) error {
	var req markReadRequest
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return badRequest(c)
	}
	read := true
	if req.Read != nil {
		read = *req.Read
	}
	if err := h.entries.MarkRead(c.Request().Context(), req.IDs, read); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EntryHandler) MarkAllRead(c echo.Context) error {
	var req markAllReadRequest
	if err := c.Bind(&req); err != nil || len(req.FeedIDs) == 0 {
		return badRequest(c)
	}
	if err := h.entries.MarkAllRead(c.Request().Context(), req.FeedIDs); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EntryHandler) Star(c echo.Context) error {
	var req starRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	if err := h.entries.Star(c.Request().Context(), c.Param("id"), req.Starred); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Translation serves a cached translation or fetches it.
func (h *EntryHandler) Translation(c echo.Context) error {
	entryID := c.Param("id")
	language := c.Param("language")
	if translation, ok := h.translations.Get(entryID, language); ok {
		return c.JSON(http.StatusOK, translation)
	}
	translation, err := h.translations.Fetch(c.Request().Context(), entryID, language)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, translation)
}
