// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/ateliercraft/atelier/internal/models"
)

// CreateUser creates a new user and fills in its generated ID.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.SubscriptionStatus == "" {
		user.SubscriptionStatus = models.SubscriptionFree
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, is_admin, subscription_status) VALUES (?, ?, ?, ?)`,
		user.Email, user.PasswordHash, user.IsAdmin, user.SubscriptionStatus)
	if err != nil {
		return err
	}
	user.ID, err = res.LastInsertId()
	return err
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE email = ?`, email); err != nil {
		return nil, wrapError(err)
	}
	return &user, nil
}

// CountAdmins returns the number of admin users.
func (r *Repository) CountAdmins(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users WHERE is_admin = 1`); err != nil {
		return 0, err
	}
	return count, nil
}

// SetUserAdmin sets or removes admin status for a user.
func (r *Repository) SetUserAdmin(ctx context.Context, id int64, isAdmin bool) error {
	val := int64(0)
	if isAdmin {
		val = 1
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, val, id)
	return err
}

// UpdateUserPassword updates a user's password hash.
func (r *Repository) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, passwordHash, id)
	return err
}

// SetUserSubscriptionStatus updates the paywall state for the user with the
// given email. Missing users are reported via ErrNotFound so webhook
// processing can record the mismatch.
func (r *Repository) SetUserSubscriptionStatus(ctx context.Context, email, status string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET subscription_status = ?, updated_at = CURRENT_TIMESTAMP WHERE email = ?`, status, email)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
