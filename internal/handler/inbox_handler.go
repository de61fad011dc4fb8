package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/service"
)

type InboxHandler struct {
	service service.InboxService
}

type createInboxRequest struct {
	Handle string `json:"handle"`
	Title  string `json:"title"`
}

func NewInboxHandler(service service.InboxService) *InboxHandler {
	return &InboxHandler{service: service}
}

func (h *InboxHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/inboxes", h.List)
	g.POST("/inboxes", h.Create)
	g.POST("/inboxes/sync", h.Sync)
	g.PATCH("/inboxes/:id", h.Rename)
	g.DELETE("/inboxes/:id", h.Delete)
}

func (h *InboxHandler) List(c echo.Context) error {
	inboxes := h.service.GetAll()
	return c.JSON(http.StatusOK, inboxes)
}

func (h *InboxHandler) Sync(c echo.Context) error {
	inboxes, err := h.service.FetchAll(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, inboxes)
}

func (h *InboxHandler) Create(c echo.Context) error {
	var req createInboxRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	inbox, err := h.service.Create(c.Request().Context(), req.Handle, req.Title)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusCreated, inbox)
}

func (h *InboxHandler) Rename(c echo.Context) error {
	title, ok := bindTitle(c)
	if !ok {
		return badRequest(c)
	}
	id := c.Param("id")
	if err := h.service.Rename(c.Request().Context(), id, title); err != nil {
		return writeServiceError(c, err)
	}
	inbox, found := h.service.Get(id)
	if !found {
		return notFound(c)
	}
	return c.JSON(http.StatusOK, inbox)
}

func (h *InboxHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
