// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package export_test

import (
	"strings"
	"testing"
	"time"

	"github.com/ateliercraft/atelier/internal/export"
	"github.com/ateliercraft/atelier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	doc := export.Document(
		[]string{"Email", "Status"},
		[][]string{
			{"jane@example.com", "pending"},
			{"john@example.com", "confirmed"},
		},
	)

	lines := strings.Split(doc, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `"Email","Status"`, lines[0])
	assert.Equal(t, `"jane@example.com","pending"`, lines[1])
	assert.Equal(t, `"john@example.com","confirmed"`, lines[2])

	// No trailing newline.
	assert.False(t, strings.HasSuffix(doc, "\n"))
}

func TestDocument_HeaderOnly(t *testing.T) {
	doc := export.Document([]string{"Email"}, nil)

	assert.Equal(t, `"Email"`, doc)
}

func TestDocument_EscapesQuotesAndKeepsCommas(t *testing.T) {
	doc := export.Document(
		[]string{"Name", "Message"},
		[][]string{{`Jane "JJ" Doe`, "hello, world"}},
	)

	lines := strings.Split(doc, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, `"Jane ""JJ"" Doe","hello, world"`, lines[1])
}

func TestFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	assert.Equal(t, "signups-1700000000000.csv", export.Filename("signups", now))
}

func TestSignupRows(t *testing.T) {
	consentAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sentAt := consentAt.Add(time.Second)

	rows := export.SignupRows([]models.Signup{
		{
			Email:       "jane@example.com",
			Status:      models.SignupPending,
			Consent:     true,
			ConsentAt:   consentAt,
			SourcePath:  "/articles/intro",
			TokenSentAt: &sentAt,
			CreatedAt:   consentAt,
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, []string{
		"jane@example.com",
		"pending",
		"true",
		"2026-03-01T12:00:00Z",
		"/articles/intro",
		"2026-03-01T12:00:01Z",
		"", // never confirmed
		"2026-03-01T12:00:00Z",
	}, rows[0])
}

func TestContactMessageRows(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := export.ContactMessageRows([]models.ContactMessage{
		{
			Reference: "ref-1",
			Name:      "Jane",
			Email:     "jane@example.com",
			Message:   "Multi\nline",
			CreatedAt: createdAt,
		},
	})

	require.Len(t, rows, 1)
	assert.Equal(t, []string{"ref-1", "Jane", "jane@example.com", "Multi\nline", "2026-03-01T12:00:00Z"}, rows[0])
}
