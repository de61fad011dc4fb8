package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/RSSNext/Folo-sub005/internal/handler"
)

// RouteRegistrar mounts a handler's routes on the API group.
type RouteRegistrar interface {
	RegisterRoutes(g *echo.Group)
}

func NewRouter(
	sessionHandler *handler.SessionHandler,
	feedHandler *handler.FeedHandler,
	entryHandler *handler.EntryHandler,
	subscriptionHandler *handler.SubscriptionHandler,
	listHandler *handler.ListHandler,
	inboxHandler *handler.InboxHandler,
	cleanerHandler *handler.CleanerHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestLoggerMiddleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")
	for _, r := range []RouteRegistrar{
		sessionHandler,
		feedHandler,
		entryHandler,
		subscriptionHandler,
		listHandler,
		inboxHandler,
		cleanerHandler,
	} {
		r.RegisterRoutes(api)
	}

	return e
}
