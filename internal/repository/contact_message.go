// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"
	"strings"

	"github.com/ateliercraft/atelier/internal/models"
)

// ContactMessageFilter narrows ListContactMessages results.
type ContactMessageFilter struct {
	Search string
	Limit  int
}

// CreateContactMessage stores a contact form submission.
func (r *Repository) CreateContactMessage(ctx context.Context, msg *models.ContactMessage) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_messages (reference, name, email, message) VALUES (?, ?, ?, ?)`,
		msg.Reference, msg.Name, msg.Email, msg.Message)
	if err != nil {
		return err
	}
	msg.ID, err = res.LastInsertId()
	return err
}

// ListContactMessages returns contact messages newest-first. Search matches
// a substring of the sender email.
func (r *Repository) ListContactMessages(ctx context.Context, filter ContactMessageFilter) ([]models.ContactMessage, error) {
	query := `SELECT * FROM contact_messages`
	var conds []string
	var args []any

	if filter.Search != "" {
		conds = append(conds, `email LIKE ?`)
		args = append(args, "%"+filter.Search+"%")
	}
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var messages []models.ContactMessage
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, err
	}
	return messages, nil
}

// CountContactMessages returns the total number of contact messages.
func (r *Repository) CountContactMessages(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM contact_messages`); err != nil {
		return 0, err
	}
	return count, nil
}
