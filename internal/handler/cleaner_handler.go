package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/RSSNext/Folo-sub005/internal/model"
	"github.com/RSSNext/Folo-sub005/internal/service"
)

// CleanTrigger schedules background cleaning passes.
type CleanTrigger interface {
	Trigger()
	LastRun() (time.Time, service.CleanReport)
}

type CleanerHandler struct {
	cleaner   service.CleanerService
	scheduler CleanTrigger
}

type visitsRequest struct {
	Refs []model.CleanerRef `json:"refs"`
}

type lastRunResponse struct {
	RanAt  *string             `json:"ranAt"`
	Report cleanReportResponse `json:"report"`
}

func NewCleanerHandler(cleaner service.CleanerService, scheduler CleanTrigger) *CleanerHandler {
	return &CleanerHandler{cleaner: cleaner, scheduler: scheduler}
}

func (h *CleanerHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/cleaner/visits", h.RecordVisits)
	g.DELETE("/cleaner/visits", h.ForgetVisits)
	g.POST("/cleaner/clean", h.Clean)
	g.GET("/cleaner/last-run", h.LastRun)
}

// RecordVisits marks entities as just seen by the UI.
func (h *CleanerHandler) RecordVisits(c echo.Context) error {
	var req visitsRequest
	if err := c.Bind(&req); err != nil || len(req.Refs) == 0 {
		return badRequest(c)
	}
	for _, ref := range req.Refs {
		if ref.ID == "" || !ref.Type.Valid() {
			return badRequest(c)
		}
	}
	if err := h.cleaner.Reset(c.Request().Context(), req.Refs); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CleanerHandler) ForgetVisits(c echo.Context) error {
	ids, ok := bindIDs(c)
	if !ok {
		return badRequest(c)
	}
	if err := h.cleaner.CleanRefByID(c.Request().Context(), ids); err != nil {
		return writeServiceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clean evicts outdated data now, or queues a background pass with async=true.
func (h *CleanerHandler) Clean(c echo.Context) error {
	if c.QueryParam("async") == "true" {
		h.scheduler.Trigger()
		return c.NoContent(http.StatusAccepted)
	}
	report, err := h.cleaner.CleanOutdatedData(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, toCleanReportResponse(report))
}

func (h *CleanerHandler) LastRun(c echo.Context) error {
	ranAt, report := h.scheduler.LastRun()
	resp := lastRunResponse{Report: toCleanReportResponse(report)}
	if !ranAt.IsZero() {
		formatted := ranAt.UTC().Format(time.RFC3339)
		resp.RanAt = &formatted
	}
	return c.JSON(http.StatusOK, resp)
}
