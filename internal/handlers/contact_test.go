// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ateliercraft/atelier/internal/handlers"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/ateliercraft/atelier/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSubmit(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	h := handlers.NewContact(repo)

	e := echo.New()
	c, rec := postJSON(e, "/contact",
		`{"name":"Jane","email":"jane@example.com","message":"Hello there"}`)

	err := h.Submit(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message   string `json:"message"`
		Reference string `json:"reference"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Reference)

	messages, err := repo.ListContactMessages(context.Background(), repository.ContactMessageFilter{})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, body.Reference, messages[0].Reference)
	assert.Equal(t, "Hello there", messages[0].Message)
}

func TestContactSubmit_BlankFields(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	h := handlers.NewContact(repo)

	e := echo.New()
	c, rec := postJSON(e, "/contact", `{"name":"  ","email":"","message":"Hi"}`)

	err := h.Submit(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "fill in all fields")

	count, err := repo.CountContactMessages(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestContactSubmit_UniqueReferences(t *testing.T) {
	_, repo := testutil.NewTestDB(t)
	h := handlers.NewContact(repo)

	e := echo.New()
	for range 2 {
		c, rec := postJSON(e, "/contact",
			`{"name":"Jane","email":"jane@example.com","message":"Hello"}`)
		require.NoError(t, h.Submit(c))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	messages, err := repo.ListContactMessages(context.Background(), repository.ContactMessageFilter{})
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.NotEqual(t, messages[0].Reference, messages[1].Reference)
}
