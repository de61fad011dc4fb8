package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/service"
)

// Session owns the signed-in user and the lifecycle of the local cache.
type Session interface {
	UserSource
	SwitchUser(ctx context.Context, userID string) (service.CleanReport, error)
	Logout(ctx context.Context) error
}

type SessionHandler struct {
	session Session
}

type sessionResponse struct {
	UserID string `json:"userId"`
}

type switchUserRequest struct {
	UserID string `json:"userId"`
}

func NewSessionHandler(session Session) *SessionHandler {
	return &SessionHandler{session: session}
}

func (h *SessionHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/session", h.Get)
	g.POST("/session/switch", h.Switch)
	g.POST("/session/logout", h.Logout)
}

func (h *SessionHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, sessionResponse{UserID: h.session.CurrentUser()})
}

// Switch drops the previous user's data and rehydrates for the new one.
func (h *SessionHandler) Switch(c echo.Context) error {
	var req switchUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c)
	}
	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		return badRequest(c)
	}
	report, err := h.session.SwitchUser(c.Request().Context(), userID)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toCleanReportResponse(report))
}

// Logout wipes every table, store and visit record.
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.session.Logout(c.Request().Context()); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
