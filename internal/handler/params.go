package handler

import (
	"strings"

	"github.com/labstack/echo/v4"
)

type idsRequest struct {
	IDs []string `json:"ids"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// bindIDs reads a non-empty {"ids": [...]} body.
func bindIDs(c echo.Context) ([]string, bool) {
	var req idsRequest
	if err := c.Bind(&req); err != nil || len(req.IDs) == 0 {
		return nil, false
	}
	return req.IDs, true
}

func bindTitle(c echo.Context) (string, bool) {
	var req titleRequest
	if err := c.Bind(&req); err != nil {
		return "", false
	}
	title := strings.TrimSpace(req.Title)
	return title, title != ""
}
