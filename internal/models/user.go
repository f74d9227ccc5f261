// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package models

import "time"

// Subscription states for the content paywall.
const (
	SubscriptionFree     = "free"
	SubscriptionActive   = "active"
	SubscriptionCanceled = "canceled"
)

// User is an account holder. IsAdmin is stored as 0/1 in SQLite.
type User struct { //nolint:govet // fieldalignment: readability over optimization
	ID                 int64     `db:"id" json:"id"`
	Email              string    `db:"email" json:"email"`
	PasswordHash       string    `db:"password_hash" json:"-"`
	IsAdmin            int64     `db:"is_admin" json:"is_admin"`
	SubscriptionStatus string    `db:"subscription_status" json:"subscription_status"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// HasActiveSubscription reports whether the user may read premium content.
func (u *User) HasActiveSubscription() bool {
	return u.SubscriptionStatus == SubscriptionActive
}
