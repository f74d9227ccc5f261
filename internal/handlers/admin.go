// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ateliercraft/atelier/internal/export"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/labstack/echo/v4"
)

// AdminHandlers contains the read-only admin query surface.
type AdminHandlers struct {
	repo *repository.Repository
}

// NewAdmin creates a new AdminHandlers instance.
func NewAdmin(repo *repository.Repository) *AdminHandlers {
	return &AdminHandlers{repo: repo}
}

// ListSignups returns signups filtered by search/status/limit, newest-first,
// together with the unfiltered total.
func (h *AdminHandlers) ListSignups(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.SignupFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
		Limit:  parseLimit(c.QueryParam("limit")),
	}

	signups, err := h.repo.ListSignups(ctx, filter)
	if err != nil {
		return err
	}
	total, err := h.repo.CountSignups(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"signups": signups,
		"total":   total,
	})
}

// ExportSignups renders the filter-respecting (but uncapped) signup set as
// a CSV attachment.
func (h *AdminHandlers) ExportSignups(c echo.Context) error {
	filter := repository.SignupFilter{
		Search: c.QueryParam("search"),
		Status: c.QueryParam("status"),
	}

	signups, err := h.repo.ListSignups(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	doc := export.Document(export.SignupColumns, export.SignupRows(signups))
	return writeCSV(c, "signups", doc)
}

// ListContactMessages returns contact messages filtered by search/limit.
func (h *AdminHandlers) ListContactMessages(c echo.Context) error {
	ctx := c.Request().Context()

	filter := repository.ContactMessageFilter{
		Search: c.QueryParam("search"),
		Limit:  parseLimit(c.QueryParam("limit")),
	}

	messages, err := h.repo.ListContactMessages(ctx, filter)
	if err != nil {
		return err
	}
	total, err := h.repo.CountContactMessages(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"messages": messages,
		"total":    total,
	})
}

// ExportContactMessages renders contact messages as a CSV attachment.
func (h *AdminHandlers) ExportContactMessages(c echo.Context) error {
	filter := repository.ContactMessageFilter{
		Search: c.QueryParam("search"),
	}

	messages, err := h.repo.ListContactMessages(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	doc := export.Document(export.ContactMessageColumns, export.ContactMessageRows(messages))
	return writeCSV(c, "contact-messages", doc)
}

func writeCSV(c echo.Context, resource, doc string) error {
	filename := export.Filename(resource, time.Now())
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, export.ContentType, []byte(doc))
}

func parseLimit(raw string) int {
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
