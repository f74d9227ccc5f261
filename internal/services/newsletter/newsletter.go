// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package newsletter implements the double opt-in subscription workflow:
// signup, pending, confirmation email, token confirmation, confirmed.
package newsletter

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
)

// maxSourcePathLen caps the stored provenance string.
const maxSourcePathLen = 255

// emailPattern is intentionally loose: something, an @, something, a dot,
// something. Real validation happens via the confirmation email.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Sender delivers the confirmation email. The send can fail independently
// of the data mutation; the pending row stays either way.
type Sender interface {
	SendConfirmation(ctx context.Context, to, confirmURL, sourcePath string) error
}

// Service holds the subscription state machine and confirmation handler.
type Service struct {
	repo   *repository.Repository
	sender Sender
	site   *config.SiteConfig
}

// NewService creates a new newsletter service.
func NewService(repo *repository.Repository, sender Sender, site *config.SiteConfig) *Service {
	return &Service{repo: repo, sender: sender, site: site}
}

// SubscribeOutcome classifies the result of a subscribe call.
type SubscribeOutcome string

const (
	// SubscribeInvalid means validation failed; FieldErrors holds details.
	SubscribeInvalid SubscribeOutcome = "invalid"
	// SubscribePending means the confirmation email is on its way.
	SubscribePending SubscribeOutcome = "pending"
	// SubscribeAlreadyConfirmed means the address finished opt-in earlier.
	SubscribeAlreadyConfirmed SubscribeOutcome = "already_confirmed"
	// SubscribeStorageError means lookup or upsert failed; retry later.
	SubscribeStorageError SubscribeOutcome = "storage_error"
	// SubscribeSendError means the confirmation email could not be sent.
	// The pending row is left in place so a retry just re-issues a token.
	SubscribeSendError SubscribeOutcome = "send_error"
	// SubscribeConfigError means no base URL for the confirmation link
	// could be resolved. A deployment precondition, not a user error.
	SubscribeConfigError SubscribeOutcome = "config_error"
)

// Field error codes for SubscribeInvalid.
const (
	FieldErrInvalidEmail    = "invalid_email"
	FieldErrConsentRequired = "consent_required"
)

// SubscribeResult is the outcome of one subscribe invocation.
type SubscribeResult struct {
	Outcome     SubscribeOutcome
	FieldErrors map[string]string
}

// Subscribe validates the input and advances the signup state machine.
// On valid input it upserts a pending row keyed by the lower-cased email
// with a fresh token, sends the confirmation email, and records the
// dispatch time best-effort. Re-subscribing a pending address replaces the
// token, which invalidates any previously mailed link. A confirmed address
// is never mutated.
func (s *Service) Subscribe(ctx context.Context, email string, consentGiven bool, sourcePath string) SubscribeResult {
	email = strings.TrimSpace(email)
	if len(sourcePath) > maxSourcePathLen {
		sourcePath = sourcePath[:maxSourcePathLen]
	}

	// Both checks run; errors aggregate instead of short-circuiting.
	fieldErrors := make(map[string]string)
	if email == "" || !emailPattern.MatchString(email) {
		fieldErrors["email"] = FieldErrInvalidEmail
	}
	if !consentGiven {
		fieldErrors["consent"] = FieldErrConsentRequired
	}
	if len(fieldErrors) > 0 {
		return SubscribeResult{Outcome: SubscribeInvalid, FieldErrors: fieldErrors}
	}

	normalized := strings.ToLower(email)

	existing, err := s.repo.GetSignupByEmail(ctx, normalized)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		slog.Error("newsletter_lookup_failed", "error", err)
		return SubscribeResult{Outcome: SubscribeStorageError}
	}
	if existing != nil && existing.IsConfirmed() {
		return SubscribeResult{Outcome: SubscribeAlreadyConfirmed}
	}

	token, err := NewToken()
	if err != nil {
		slog.Error("newsletter_token_failed", "error", err)
		return SubscribeResult{Outcome: SubscribeStorageError}
	}

	signup := &models.Signup{
		Email:             normalized,
		Status:            models.SignupPending,
		Consent:           true,
		ConsentAt:         time.Now(),
		SourcePath:        sourcePath,
		ConfirmationToken: token,
	}
	if err := s.repo.UpsertPendingSignup(ctx, signup); err != nil {
		slog.Error("newsletter_upsert_failed", "error", err, "email", normalized)
		return SubscribeResult{Outcome: SubscribeStorageError}
	}

	confirmURL, err := s.buildConfirmURL(token, email)
	if err != nil {
		slog.Error("newsletter_base_url_unresolved", "error", err)
		return SubscribeResult{Outcome: SubscribeConfigError}
	}

	if err := s.sender.SendConfirmation(ctx, email, confirmURL, sourcePath); err != nil {
		slog.Error("newsletter_send_failed", "error", err, "email", normalized)
		return SubscribeResult{Outcome: SubscribeSendError}
	}

	// Best-effort bookkeeping; the success response stands even if this
	// update fails.
	if err := s.repo.SetSignupTokenSentAt(ctx, normalized, time.Now()); err != nil {
		slog.Warn("newsletter_sent_at_update_failed", "error", err, "email", normalized)
	}

	return SubscribeResult{Outcome: SubscribePending}
}

// buildConfirmURL assembles the confirmation link. The email parameter keeps
// the original casing; it is a display hint only, identity is the token.
func (s *Service) buildConfirmURL(token, email string) (string, error) {
	baseURL, err := s.site.ResolveBaseURL()
	if err != nil {
		return "", err
	}
	return baseURL + "/newsletter/confirm?token=" + url.QueryEscape(token) + "&email=" + url.QueryEscape(email), nil
}

// ConfirmStatus classifies the result of a confirmation attempt.
type ConfirmStatus string

const (
	ConfirmMissingToken     ConfirmStatus = "missing_token"
	ConfirmInvalid          ConfirmStatus = "invalid"
	ConfirmAlreadyConfirmed ConfirmStatus = "already_confirmed"
	ConfirmConfirmed        ConfirmStatus = "confirmed"
	ConfirmError            ConfirmStatus = "error"
)

// ConfirmResult carries the status and, when a row was found, its email.
type ConfirmResult struct {
	Status ConfirmStatus
	Email  string
}

// Confirm resolves the token and transitions a pending signup to confirmed.
// Idempotent for already-confirmed rows; no state is mutated on any
// non-pending case. An empty token never touches storage.
func (s *Service) Confirm(ctx context.Context, token string) ConfirmResult {
	if strings.TrimSpace(token) == "" {
		return ConfirmResult{Status: ConfirmMissingToken}
	}

	signup, err := s.repo.GetSignupByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ConfirmResult{Status: ConfirmInvalid}
		}
		slog.Error("newsletter_confirm_lookup_failed", "error", err)
		return ConfirmResult{Status: ConfirmError}
	}

	if signup.IsConfirmed() {
		return ConfirmResult{Status: ConfirmAlreadyConfirmed, Email: signup.Email}
	}

	if err := s.repo.ConfirmSignup(ctx, signup.ID, time.Now()); err != nil {
		slog.Error("newsletter_confirm_failed", "error", err, "email", signup.Email)
		return ConfirmResult{Status: ConfirmError}
	}

	return ConfirmResult{Status: ConfirmConfirmed, Email: signup.Email}
}
