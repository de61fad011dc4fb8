package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/service"
)

type FeedHandler struct {
	service service.FeedService
}

func NewFeedHandler(service service.FeedService) *FeedHandler {
	return &FeedHandler{service: service}
}

func (h *FeedHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/feeds", h.List)
	g.GET("/feeds/:id", h.Get)
	g.POST("/feeds/:id/claim", h.Claim)
}

// List returns every cached feed.
func (h *FeedHandler) List(c echo.Context) error {
	feeds := h.service.GetAll()
	return c.JSON(http.StatusOK, feeds)
}

// Get serves a cached feed, fetching it with its entries on a miss or when refresh=true.
func (h *FeedHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if c.QueryParam("refresh") != "true" {
		if feed, ok := h.service.Get(id); ok {
			return c.JSON(http.StatusOK, feed)
		}
	}
	feed, err := h.service.Fetch(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, feed)
}

func (h *FeedHandler) Claim(c echo.Context) error {
	feed, err := h.service.Claim(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, feed)
}
