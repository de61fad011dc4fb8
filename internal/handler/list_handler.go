package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

type ListHandler struct {
	service service.ListService
	users   UserSource
}

type createListRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	View        model.FeedViewType `json:"view"`
	Image       string             `json:"image"`
	Fee         int                `json:"fee"`
}

func NewListHandler(service service.ListService, users UserSource) *ListHandler {
	return &ListHandler{service: service, users: users}
}

func (h *ListHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/lists", h.List)
	g.POST("/lists", h.Create)
	g.GET("/lists/:id", h.Get)
	g.PATCH("/lists/:id", h.Rename)
	g.DELETE("/lists/:id", h.Delete)
	g.POST("/lists/:id/feeds", h.AddFeeds)
	g.DELETE("/lists/:id/feeds", h.RemoveFeeds)
}

// List returns the current user's cached lists, placeholders included.
func (h *ListHandler) List(c echo.Context) error {
	lists := h.service.ListsByUser(h.users.CurrentUser())
	if lists == nil {
		lists = []model.List{}
	}
	return c.JSON(http.StatusOK, lists)
}

func (h *ListHandler) Get(c echo.Context) error {
	id := c.Param("id")
	if c.QueryParam("refresh") != "true" {
		if list, ok := h.service.Get(id); ok {
			return c.JSON(http.StatusOK, list)
		}
	}
	list, err := h.service.Fetch(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ListHandler) Create(c echo.Context) error {
	var req createListRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	list, err := h.service.Create(c.Request().Context(), h.users.CurrentUser(), service.CreateListInput{
		Title:       req.Title,
		Description: req.Description,
		View:        req.View,
		Image:       req.Image,
		Fee:         req.Fee,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, list)
}

func (h *ListHandler) Rename(c echo.Context) error {
	title, ok := bindTitle(c)
	if !ok {
		return badRequest(c)
	}
	id := c.Param("id")
	if err := h.service.Rename(c.Request().Context(), id, title); err != nil {
		return writeServiceError(c, err)
	}
	return h.cached(c, id)
}

func (h *ListHandler) AddFeeds(c echo.Context) error {
	feedIDs, ok := bindIDs(c)
	if !ok {
		return badRequest(c)
	}
	id := c.Param("id")
	if err := h.service.AddFeeds(c.Request().Context(), id, feedIDs); err != nil {
		return writeServiceError(c, err)
	}
	return h.cached(c, id)
}

func (h *ListHandler) RemoveFeeds(c echo.Context) error {
	feedIDs, ok := bindIDs(c)
	if !ok {
		return badRequest(c)
	}
	id := c.Param("id")
	if err := h.service.RemoveFeeds(c.Request().Context(), id, feedIDs); err != nil {
		return writeServiceError(c, err)
	}
	return h.cached(c, id)
}

func (h *ListHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ListHandler) cached(c echo.Context, id string) error {
	list, ok := h.service.Get(id)
	if !ok {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, list)
}
