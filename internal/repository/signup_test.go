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

func pendingSignup(email, token string) *models.Signup {
	return &models.Signup{
		Email:             email,
		Status:            models.SignupPending,
		Consent:           true,
		ConsentAt:         time.Now(),
		SourcePath:        "/articles/intro",
		ConfirmationToken: token,
	}
}

func TestUpsertPendingSignup(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	err := repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1"))
	require.NoError(t, err)

	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.SignupPending, stored.Status)
	assert.True(t, stored.Consent)
	assert.Equal(t, "/articles/intro", stored.SourcePath)
	assert.Equal(t, "token-1", stored.ConfirmationToken)
	assert.Nil(t, stored.TokenSentAt)
	assert.Nil(t, stored.ConfirmedAt)
}

func TestUpsertPendingSignup_ReplacesToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1")))
	require.NoError(t, repo.SetSignupTokenSentAt(ctx, "jane@example.com", time.Now()))

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-2")))

	// Still a single row, carrying the fresh token with reset bookkeeping.
	count, err := repo.CountSignups(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, "token-2", stored.ConfirmationToken)
	assert.Nil(t, stored.TokenSentAt)

	// The replaced token no longer resolves.
	_, err = repo.GetSignupByToken(ctx, "token-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetSignupByToken(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1")))

	stored, err := repo.GetSignupByToken(ctx, "token-1")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", stored.Email)
}

func TestGetSignupByToken_NotFound(t *testing.T) {
	_, repo := testutil.NewTestDB(t)

	_, err := repo.GetSignupByToken(context.Background(), "no-such-token")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestConfirmSignup(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1")))
	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)

	require.NoError(t, repo.ConfirmSignup(ctx, stored.ID, time.Now()))

	confirmed, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.SignupConfirmed, confirmed.Status)
	assert.True(t, confirmed.IsConfirmed())
	require.NotNil(t, confirmed.ConfirmedAt)
	// The token stays on the row after confirmation.
	assert.Equal(t, "token-1", confirmed.ConfirmationToken)
}

func TestSetSignupTokenSentAt(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1")))

	sentAt := time.Now()
	require.NoError(t, repo.SetSignupTokenSentAt(ctx, "jane@example.com", sentAt))

	stored, err := repo.GetSignupByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.TokenSentAt)
}

func TestListSignups_Filters(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1")))
	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("john@other.org", "token-2")))

	confirmed, err := repo.GetSignupByEmail(ctx, "john@other.org")
	require.NoError(t, err)
	require.NoError(t, repo.ConfirmSignup(ctx, confirmed.ID, time.Now()))

	all, err := repo.ListSignups(ctx, repository.SignupFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	bySearch, err := repo.ListSignups(ctx, repository.SignupFilter{Search: "example.com"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "jane@example.com", bySearch[0].Email)

	byStatus, err := repo.ListSignups(ctx, repository.SignupFilter{Status: models.SignupConfirmed})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	assert.Equal(t, "john@other.org", byStatus[0].Email)

	limited, err := repo.ListSignups(ctx, repository.SignupFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListSignups_NewestFirst(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("first@example.com", "token-1")))
	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("second@example.com", "token-2")))

	signups, err := repo.ListSignups(ctx, repository.SignupFilter{})
	require.NoError(t, err)
	require.Len(t, signups, 2)
	assert.Equal(t, "second@example.com", signups[0].Email)
	assert.Equal(t, "first@example.com", signups[1].Email)
}

func TestCountSignups(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	ctx := context.Background()

	count, err := repo.CountSignups(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)

	require.NoError(t, repo.UpsertPendingSignup(ctx, pendingSignup("jane@example.com", "token-1")))

	count, err = repo.CountSignups(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
