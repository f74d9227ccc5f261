// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ateliercraft/atelier/internal/services/billing"
	"github.com/labstack/echo/v4"
)

// BillingHandlers receives payment provider webhooks.
type BillingHandlers struct {
	svc           *billing.Service
	webhookSecret string
}

// NewBilling creates a new BillingHandlers instance.
func NewBilling(svc *billing.Service, webhookSecret string) *BillingHandlers {
	return &BillingHandlers{svc: svc, webhookSecret: webhookSecret}
}

// Webhook processes one provider event. Redelivered events are acknowledged
// with 200 so the provider stops retrying.
func (h *BillingHandlers) Webhook(c echo.Context) error {
	if h.webhookSecret != "" {
		got := c.Request().Header.Get("X-Webhook-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.webhookSecret)) != 1 {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
	}

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	outcome, err := h.svc.ProcessEvent(c.Request().Context(), payload)
	if err != nil {
		if errors.Is(err, billing.ErrBadEvent) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "malformed event"})
		}
		slog.Error("billing_webhook_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "processing failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": string(outcome)})
}
