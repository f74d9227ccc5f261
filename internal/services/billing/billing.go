// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package billing applies payment provider webhook events to the paywall
// state. The provider itself is opaque; only the state transitions its
// events trigger are modeled here.
package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
)

// Event types the provider delivers.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventSubscriptionUpdated  = "subscription.updated"
	EventSubscriptionCanceled = "subscription.canceled"
)

// ErrBadEvent is returned for payloads missing required fields.
var ErrBadEvent = errors.New("malformed billing event")

// Event is the provider webhook payload.
type Event struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	CustomerEmail string `json:"customer_email"`
	Status        string `json:"status"`
}

// Outcome classifies webhook processing.
type Outcome string

const (
	// OutcomeProcessed means the event changed or confirmed paywall state.
	OutcomeProcessed Outcome = "processed"
	// OutcomeDuplicate means the provider redelivered a known event.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeIgnored means the event type carries no paywall semantics.
	OutcomeIgnored Outcome = "ignored"
)

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// ProcessEvent parses a raw webhook payload, deduplicates it by provider
// event ID, and applies the resulting subscription transition. Redelivered
// events are acknowledged without reprocessing.
func (s *Service) ProcessEvent(ctx context.Context, payload []byte) (Outcome, error) {
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadEvent, err)
	}
	if event.ID == "" || event.Type == "" {
		return "", fmt.Errorf("%w: missing id or type", ErrBadEvent)
	}

	record := &models.BillingWebhookEvent{
		ProviderEventID: event.ID,
		EventType:       event.Type,
		Payload:         string(payload),
	}
	inserted, err := s.repo.InsertBillingWebhookEvent(ctx, record)
	if err != nil {
		return "", fmt.Errorf("recording billing event: %w", err)
	}
	if !inserted {
		slog.Info("billing_event_duplicate", "event_id", event.ID, "type", event.Type)
		return OutcomeDuplicate, nil
	}

	status, relevant := subscriptionStatusFor(event)
	if !relevant {
		s.markProcessed(ctx, event.ID, "")
		return OutcomeIgnored, nil
	}

	if event.CustomerEmail == "" {
		s.markProcessed(ctx, event.ID, "missing customer email")
		return "", fmt.Errorf("%w: missing customer email", ErrBadEvent)
	}

	if err := s.repo.SetUserSubscriptionStatus(ctx, event.CustomerEmail, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// The event stays acknowledged; there is no account to update.
			slog.Warn("billing_event_unknown_customer", "event_id", event.ID, "email", event.CustomerEmail)
			s.markProcessed(ctx, event.ID, "no matching user")
			return OutcomeProcessed, nil
		}
		return "", fmt.Errorf("applying billing event: %w", err)
	}

	slog.Info("billing_event_applied",
		"event_id", event.ID,
		"type", event.Type,
		"subscription_status", status,
	)
	s.markProcessed(ctx, event.ID, "")
	return OutcomeProcessed, nil
}

// subscriptionStatusFor maps an event to the resulting paywall state.
func subscriptionStatusFor(event Event) (string, bool) {
	switch event.Type {
	case EventCheckoutCompleted:
		return models.SubscriptionActive, true
	case EventSubscriptionUpdated:
		if event.Status == "active" {
			return models.SubscriptionActive, true
		}
		return models.SubscriptionCanceled, true
	case EventSubscriptionCanceled:
		return models.SubscriptionCanceled, true
	default:
		return "", false
	}
}

// markProcessed records the processing outcome, best-effort.
func (s *Service) markProcessed(ctx context.Context, providerEventID, processingError string) {
	if err := s.repo.MarkBillingEventProcessed(ctx, providerEventID, time.Now(), processingError); err != nil {
		slog.Warn("billing_event_mark_failed", "error", err, "event_id", providerEventID)
	}
}
