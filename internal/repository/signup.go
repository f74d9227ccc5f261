// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"
	"time"

	"github.com/ateliercraft/atelier/internal/models"
)

// SignupFilter narrows ListSignups results. Search matches a substring of
// the email, Status matches exactly, Limit caps the result set (0 = no cap).
type SignupFilter struct { //nolint:govet // fieldalignment: readability over optimization
	Search string
	Status string
	Limit  int
}

// GetSignupByEmail retrieves a signup by its normalized email.
func (r *Repository) GetSignupByEmail(ctx context.Context, email string) (*models.Signup, error) {
	var signup models.Signup
	if err := r.db.GetContext(ctx, &signup, `SELECT * FROM signups WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &signup, nil
}

// GetSignupByToken retrieves a signup by its confirmation token.
func (r *Repository) GetSignupByToken(ctx context.Context, token string) (*models.Signup, error) {
	var signup models.Signup
	if err := r.db.GetContext(ctx, &signup, `SELECT * FROM signups WHERE confirmation_token = ?`, token); err != nil {
		return nil, wrapError(err)
	}
	return &signup, nil
}

// UpsertPendingSignup inserts a pending signup keyed by email, or resets an
// existing row back to pending with the fresh token. The conflict target on
// the unique email column is what prevents duplicate rows under concurrent
// submissions; the replaced token invalidates previously mailed links.
func (r *Repository) UpsertPendingSignup(ctx context.Context, signup *models.Signup) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO signups (email, status, consent, consent_at, source_path, confirmation_token, token_sent_at, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, NULL, NULL)
		ON CONFLICT(email) DO UPDATE SET
			status = excluded.status,
			consent = excluded.consent,
			consent_at = excluded.consent_at,
			source_path = excluded.source_path,
			confirmation_token = excluded.confirmation_token,
			token_sent_at = NULL,
			confirmed_at = NULL,
			updated_at = CURRENT_TIMESTAMP`,
		signup.Email, models.SignupPending, signup.Consent, signup.ConsentAt,
		signup.SourcePath, signup.ConfirmationToken)
	return err
}

// SetSignupTokenSentAt records when the confirmation email went out.
func (r *Repository) SetSignupTokenSentAt(ctx context.Context, email string, sentAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE signups SET token_sent_at = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`,
		sentAt, email)
	return err
}

// ConfirmSignup transitions a signup to confirmed. The token column keeps
// its last value; only status and the confirmation timestamp change.
func (r *Repository) ConfirmSignup(ctx context.Context, id int64, confirmedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE signups SET status = ?, confirmed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		models.SignupConfirmed, confirmedAt, id)
	return err
}

// ListSignups returns signups newest-first, narrowed by the filter.
func (r *Repository) ListSignups(ctx context.Context, filter SignupFilter) ([]models.Signup, error) {
	query := `SELECT * FROM signups`
	var conds []string
	var args []any

	if filter.Search != "" {
		conds = append(conds, `email LIKE ?`)
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var signups []models.Signup
	if err := r.db.SelectContext(ctx, &signups, query, args...); err != nil {
		return nil, err
	}
	return signups, nil
}

// CountSignups returns the total number of signups, unfiltered.
func (r *Repository) CountSignups(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM signups`); err != nil {
		return 0, err
	}
	return count, nil
}
