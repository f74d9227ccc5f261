// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/ateliercraft/atelier/internal/i18n"
	"github.com/ateliercraft/atelier/internal/services/newsletter"
	"github.com/ateliercraft/atelier/internal/templates"
	"github.com/labstack/echo/v4"
)

// NewsletterHandlers contains handlers for the double opt-in workflow.
type NewsletterHandlers struct {
	svc *newsletter.Service
}

// NewNewsletter creates a new NewsletterHandlers instance.
func NewNewsletter(svc *newsletter.Service) *NewsletterHandlers {
	return &NewsletterHandlers{svc: svc}
}

// SubscribeRequest is the signup form payload.
type SubscribeRequest struct {
	Email      string `form:"email" json:"email"`
	Consent    bool   `form:"consent" json:"consent"`
	SourcePath string `form:"source_path" json:"source_path"`
}

// Subscribe handles a newsletter signup submission.
func (h *NewsletterHandlers) Subscribe(c echo.Context) error {
	var req SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	ctx := c.Request().Context()
	result := h.svc.Subscribe(ctx, req.Email, req.Consent, req.SourcePath)

	switch result.Outcome {
	case newsletter.SubscribeInvalid:
		errs := make(map[string]string, len(result.FieldErrors))
		for field, code := range result.FieldErrors {
			errs[field] = i18n.T(ctx, fieldErrorMessageID(code))
		}
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{"errors": errs})
	case newsletter.SubscribePending:
		return c.JSON(http.StatusOK, map[string]string{"message": i18n.T(ctx, "newsletter_check_inbox")})
	case newsletter.SubscribeAlreadyConfirmed:
		return c.JSON(http.StatusOK, map[string]string{"message": i18n.T(ctx, "newsletter_already_confirmed")})
	case newsletter.SubscribeSendError:
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": i18n.T(ctx, "newsletter_error_send")})
	default:
		// Storage and configuration failures share the generic retry message.
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": i18n.T(ctx, "newsletter_error_retry")})
	}
}

func fieldErrorMessageID(code string) string {
	switch code {
	case newsletter.FieldErrInvalidEmail:
		return "newsletter_error_email"
	case newsletter.FieldErrConsentRequired:
		return "newsletter_error_consent"
	default:
		return "newsletter_error_retry"
	}
}

// Confirm handles the emailed confirmation link. The email query parameter
// is a display hint only; identity resolution goes through the token.
func (h *NewsletterHandlers) Confirm(c echo.Context) error {
	ctx := c.Request().Context()
	result := h.svc.Confirm(ctx, c.QueryParam("token"))

	status := http.StatusOK
	var messageID string
	switch result.Status {
	case newsletter.ConfirmMissingToken:
		status = http.StatusBadRequest
		messageID = "confirm_missing_token"
	case newsletter.ConfirmInvalid:
		status = http.StatusNotFound
		messageID = "confirm_invalid"
	case newsletter.ConfirmAlreadyConfirmed:
		messageID = "confirm_already_confirmed"
	case newsletter.ConfirmConfirmed:
		messageID = "confirm_done"
	default:
		status = http.StatusInternalServerError
		messageID = "confirm_error"
	}

	return Render(c, status, templates.Message(templates.MessageData{
		Title:   "Newsletter",
		Message: i18n.T(ctx, messageID),
	}))
}
