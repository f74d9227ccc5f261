// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Signup statuses.
const (
	SignupPending   = "pending"
	SignupConfirmed = "confirmed"
)

// Signup is one newsletter subscription keyed by the lower-cased email.
// The confirmation token is stored as sent; confirmation looks the row up
// by token, the email query parameter on the link is a display hint only.
type Signup struct { //nolint:govet // fieldalignment: readability over optimization
	ID                int64      `db:"id" json:"id"`
	Email             string     `db:"email" json:"email"`
	Status            string     `db:"status" json:"status"`
	Consent           bool       `db:"consent" json:"consent"`
	ConsentAt         time.Time  `db:"consent_at" json:"consent_at"`
	SourcePath        string     `db:"source_path" json:"source_path"`
	ConfirmationToken string     `db:"confirmation_token" json:"-"`
	TokenSentAt       *time.Time `db:"token_sent_at" json:"token_sent_at"`
	ConfirmedAt       *time.Time `db:"confirmed_at" json:"confirmed_at"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// IsConfirmed reports whether the double opt-in completed.
func (s *Signup) IsConfirmed() bool {
	return s.Status == SignupConfirmed
}
