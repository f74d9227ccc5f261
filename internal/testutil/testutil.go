// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package testutil provides test helpers and fixtures.
package testutil

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ateliercraft/atelier/internal/database"
	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"github.com/vinovest/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// NewTestDB creates an in-memory SQLite database for tests.
// Returns both the database connection and the repository for convenience.
func NewTestDB(t *testing.T) (*sqlx.DB, *repository.Repository) {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	repo := repository.New(db)
	return db, repo
}

// NewTestUser creates a test user with the given email and password.
func NewTestUser(t *testing.T, repo *repository.Repository, email, password string) *models.User {
	t.Helper()
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
	}
	require.NoError(t, repo.CreateUser(ctx, user))
	return user
}

// NewTestArticle creates a published test article.
func NewTestArticle(t *testing.T, repo *repository.Repository, slug string, premium bool) *models.Article {
	t.Helper()
	ctx := context.Background()
	publishedAt := time.Now()
	article := &models.Article{
		Slug:        slug,
		Title:       "Title for " + slug,
		Summary:     "Summary for " + slug,
		Body:        "# Heading\n\nBody for " + slug,
		Premium:     premium,
		PublishedAt: &publishedAt,
	}
	require.NoError(t, repo.CreateArticle(ctx, article))
	return article
}

// NewTestSignup creates a pending signup with the given email and token.
func NewTestSignup(t *testing.T, repo *repository.Repository, email, token string) *models.Signup {
	t.Helper()
	ctx := context.Background()
	signup := &models.Signup{
		Email:             email,
		Status:            models.SignupPending,
		Consent:           true,
		ConsentAt:         time.Now(),
		SourcePath:        "/articles/test",
		ConfirmationToken: token,
	}
	require.NoError(t, repo.UpsertPendingSignup(ctx, signup))
	stored, err := repo.GetSignupByEmail(ctx, email)
	require.NoError(t, err)
	return stored
}

// NewEchoContext creates an Echo context for handler tests.
func NewEchoContext(e *echo.Echo, method, path string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return c, rec
}
