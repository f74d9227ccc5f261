// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ateliercraft/atelier/internal/i18n"
	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContactHandlers contains handlers for the public contact form.
type ContactHandlers struct {
	repo *repository.Repository
}

// NewContact creates a new ContactHandlers instance.
func NewContact(repo *repository.Repository) *ContactHandlers {
	return &ContactHandlers{repo: repo}
}

// ContactRequest is the contact form payload.
type ContactRequest struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Message string `form:"message" json:"message"`
}

// Submit stores a contact form submission under a fresh reference.
func (h *ContactHandlers) Submit(c echo.Context) error {
	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	ctx := c.Request().Context()

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"message": i18n.T(ctx, "contact_error_fields"),
		})
	}

	msg := &models.ContactMessage{
		Reference: uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
	}
	if err := h.repo.CreateContactMessage(ctx, msg); err != nil {
		slog.Error("contact_message_store_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": i18n.T(ctx, "newsletter_error_retry"),
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":   i18n.T(ctx, "contact_received"),
		"reference": msg.Reference,
	})
}
