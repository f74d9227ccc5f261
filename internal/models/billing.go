// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// BillingWebhookEvent stores provider webhook payloads with deduplication
// metadata so event delivery retries stay idempotent.
type BillingWebhookEvent struct { //nolint:govet // fieldalignment: readability over optimization
	ID              int64      `db:"id" json:"id"`
	ProviderEventID string     `db:"provider_event_id" json:"provider_event_id"`
	EventType       string     `db:"event_type" json:"event_type"`
	Payload         string     `db:"payload" json:"payload"`
	ProcessedAt     *time.Time `db:"processed_at" json:"processed_at"`
	ProcessingError string     `db:"processing_error" json:"processing_error"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}
