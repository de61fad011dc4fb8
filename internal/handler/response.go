package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/logger"
	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/remote"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

type errorResponse struct {
	Error      string `json:"error"`
	RolledBack *bool  `json:"rolledBack,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

type cleanReportResponse struct {
	Feeds         int      `json:"feeds"`
	Entries       int      `json:"entries"`
	Lists         int      `json:"lists"`
	Inboxes       int      `json:"inboxes"`
	Subscriptions int      `json:"subscriptions"`
	FailedSteps   []string `json:"failedSteps"`
}

func toCleanReportResponse(report service.CleanReport) cleanReportResponse {
	return cleanReportResponse{
		Feeds:         report.Feeds,
		Entries:       report.Entries,
		Lists:         report.Lists,
		Inboxes:       report.Inboxes,
		Subscriptions: report.Subscriptions,
		FailedSteps:   report.Saga.FailedSteps(),
	}
}

func writeServiceError(c echo.Context, err error) error {
	var mutationErr *service.MutationError
	var apiErr *remote.APIError
	switch {
	case errors.As(err, &mutationErr):
		rolledBack := mutationErr.RolledBack
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "remote mutation failed", RolledBack: &rolledBack})
	case errors.Is(err, service.ErrInvalid), errors.Is(err, model.ErrInvalidEntity):
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
	case errors.As(err, &apiErr):
		return c.JSON(http.StatusBadGateway, errorResponse{Error: "remote request failed"})
	default:
		logger.Error("request failed", "module", "handler", "action", "request", "resource", c.Path(), "result", "failed", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func badRequest(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request"})
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: "resource not found"})
}
