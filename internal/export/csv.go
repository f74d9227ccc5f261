// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package export renders admin result sets as CSV downloads.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ateliercraft/atelier/internal/models"
)

// ContentType is the MIME type for CSV downloads.
const ContentType = "text/csv; charset=utf-8"

// SignupColumns is the fixed header row for signup exports.
var SignupColumns = []string{
	"Email", "Status", "Consent", "Consent At", "Source Path",
	"Token Sent At", "Confirmed At", "Created At",
}

// ContactMessageColumns is the fixed header row for contact message exports.
var ContactMessageColumns = []string{
	"Reference", "Name", "Email", "Message", "Created At",
}

// Document renders a complete CSV document: header first, one line per row,
// newline-joined with no trailing newline. Every field is double-quoted with
// inner quotes doubled, so commas and newlines inside fields survive
// literally.
func Document(header []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, renderLine(header))
	for _, row := range rows {
		lines = append(lines, renderLine(row))
	}
	return strings.Join(lines, "\n")
}

// Filename builds the attachment filename for a resource export.
func Filename(resource string, now time.Time) string {
	return fmt.Sprintf("%s-%d.csv", resource, now.UnixMilli())
}

// SignupRows converts signups to CSV rows in SignupColumns order.
func SignupRows(signups []models.Signup) [][]string {
	rows := make([][]string, 0, len(signups))
	for i := range signups {
		s := &signups[i]
		rows = append(rows, []string{
			s.Email,
			s.Status,
			formatBool(s.Consent),
			formatTime(s.ConsentAt),
			s.SourcePath,
			formatTimePtr(s.TokenSentAt),
			formatTimePtr(s.ConfirmedAt),
			formatTime(s.CreatedAt),
		})
	}
	return rows
}

// ContactMessageRows converts contact messages to CSV rows in
// ContactMessageColumns order.
func ContactMessageRows(messages []models.ContactMessage) [][]string {
	rows := make([][]string, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		rows = append(rows, []string{
			m.Reference,
			m.Name,
			m.Email,
			m.Message,
			formatTime(m.CreatedAt),
		})
	}
	return rows
}

func renderLine(fields []string) string {
	quoted := make([]string, len(fields))
	for i, field := range fields {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTime(*t)
}
