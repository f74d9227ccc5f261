// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"time"

	"github.com/ateliercraft/atelier/internal/models"
)

// InsertBillingWebhookEvent records a provider event if it has not been seen
// before. Returns false when the provider event ID already exists, which is
// how redelivered webhooks are deduplicated.
func (r *Repository) InsertBillingWebhookEvent(ctx context.Context, event *models.BillingWebhookEvent) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO billing_webhook_events (provider_event_id, event_type, payload)
		 VALUES (?, ?, ?)
		 ON CONFLICT(provider_event_id) DO NOTHING`,
		event.ProviderEventID, event.EventType, event.Payload)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	event.ID, err = res.LastInsertId()
	return true, err
}

// MarkBillingEventProcessed records the processing outcome for an event.
func (r *Repository) MarkBillingEventProcessed(ctx context.Context, providerEventID string, processedAt time.Time, processingError string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE billing_webhook_events SET processed_at = ?, processing_error = ? WHERE provider_event_id = ?`,
		processedAt, processingError, providerEventID)
	return err
}

// GetBillingWebhookEvent retrieves an event by its provider event ID.
func (r *Repository) GetBillingWebhookEvent(ctx context.Context, providerEventID string) (*models.BillingWebhookEvent, error) {
	var event models.BillingWebhookEvent
	err := r.db.GetContext(ctx, &event,
		`SELECT * FROM billing_webhook_events WHERE provider_event_id = ?`, providerEventID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &event, nil
}
