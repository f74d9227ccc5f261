// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/ateliercraft/atelier/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertBillingWebhookEvent(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	event := &models.BillingWebhookEvent{
		ProviderEventID: "evt_1",
		EventType:       "checkout.completed",
		Payload:         `{"id":"evt_1"}`,
	}
	inserted, err := repo.InsertBillingWebhookEvent(ctx, event)

	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NotZero(t, event.ID)
}

func TestInsertBillingWebhookEvent_Duplicate(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	first := &models.BillingWebhookEvent{ProviderEventID: "evt_1", EventType: "checkout.completed"}
	inserted, err := repo.InsertBillingWebhookEvent(ctx, first)
	require.NoError(t, err)
	require.True(t, inserted)

	redelivered := &models.BillingWebhookEvent{ProviderEventID: "evt_1", EventType: "checkout.completed"}
	inserted, err = repo.InsertBillingWebhookEvent(ctx, redelivered)

	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestMarkBillingEventProcessed(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	event := &models.BillingWebhookEvent{ProviderEventID: "evt_1", EventType: "checkout.completed"}
	_, err := repo.InsertBillingWebhookEvent(ctx, event)
	require.NoError(t, err)

	require.NoError(t, repo.MarkBillingEventProcessed(ctx, "evt_1", time.Now(), "no matching user"))

	stored, err := repo.GetBillingWebhookEvent(ctx, "evt_1")
	require.NoError(t, err)
	require.NotNil(t, stored.ProcessedAt)
	assert.Equal(t, "no matching user", stored.ProcessingError)
}

func TestGetBillingWebhookEvent_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetBillingWebhookEvent(context.Background(), "evt_missing")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
