// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/handlers"
	"github.com/ateliercraft/atelier/internal/services/auth"
	"github.com/ateliercraft/atelier/internal/services/session"
	"github.com/ateliercraft/atelier/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(t *testing.T) (*handlers.AuthHandlers, *session.Manager) {
	t.Helper()
	_, repo := testutil.NewTestDB(t)
	svc := auth.NewService(repo)
	sessions, err := session.NewManager(&config.SessionConfig{CookieName: "_session", MaxAge: 3600}, false)
	require.NoError(t, err)
	return handlers.NewAuth(svc, sessions), sessions
}

func TestRegisterHandler(t *testing.T) {
	h, sessions := newAuthHandler(t)

	e := echo.New()
	c, rec := postJSON(e, "/auth/register",
		`{"email":"jane@example.com","password":"correct-horse-battery"}`)

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "_session", cookies[0].Name)

	req := c.Request().Clone(c.Request().Context())
	req.Header.Set("Cookie", cookies[0].String())
	user := sessions.Read(req)
	require.NotNil(t, user)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.False(t, user.IsAdmin)
}

func TestRegisterHandler_WeakPassword(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c, rec := postJSON(e, "/auth/register", `{"email":"jane@example.com","password":"short"}`)

	err := h.Register(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRegisterHandler_Duplicate(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c1, rec1 := postJSON(e, "/auth/register", `{"email":"jane@example.com","password":"correct-horse-battery"}`)
	require.NoError(t, h.Register(c1))
	require.Equal(t, http.StatusOK, rec1.Code)

	c2, rec2 := postJSON(e, "/auth/register", `{"email":"jane@example.com","password":"correct-horse-battery"}`)
	require.NoError(t, h.Register(c2))

	assert.Equal(t, http.StatusConflict, rec2.Code)
}

func TestLoginHandler(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c1, _ := postJSON(e, "/auth/register", `{"email":"jane@example.com","password":"correct-horse-battery"}`)
	require.NoError(t, h.Register(c1))

	c2, rec := postJSON(e, "/auth/login", `{"email":"jane@example.com","password":"correct-horse-battery"}`)
	require.NoError(t, h.Login(c2))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c, rec := postJSON(e, "/auth/login", `{"email":"jane@example.com","password":"wrong-password-here"}`)

	err := h.Login(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogoutHandler(t *testing.T) {
	h, _ := newAuthHandler(t)

	e := echo.New()
	c, rec := postJSON(e, "/auth/logout", "")

	err := h.Logout(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
