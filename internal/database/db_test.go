// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package database_test

import (
	"context"
	"testing"

	"github.com/ateliercraft/atelier/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_InMemory(t *testing.T) {
	db, err := database.Open(":memory:")

	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Ping())
}

func TestOpen_RunsMigrations(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	tables := []string{"users", "signups", "contact_messages", "articles", "courses", "resources", "billing_webhook_events"}
	for _, table := range tables {
		var name string
		err := db.GetContext(context.Background(), &name,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		assert.NoError(t, err, "table %q missing", table)
	}
}

func TestMigrateDownAndReset(t *testing.T) {
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, database.MigrateDown(db.DB))
	require.NoError(t, database.MigrateReset(db.DB))

	var name string
	err = db.GetContext(context.Background(), &name,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'users'`)
	assert.Error(t, err)
}
