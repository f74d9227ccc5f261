// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ateliercraft/atelier/internal/services/auth"
	"github.com/ateliercraft/atelier/internal/services/session"
	"github.com/labstack/echo/v4"
)

// AuthHandlers contains handlers for registration, login, and logout.
type AuthHandlers struct {
	svc      *auth.Service
	sessions *session.Manager
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(svc *auth.Service, sessions *session.Manager) *AuthHandlers {
	return &AuthHandlers{svc: svc, sessions: sessions}
}

// CredentialsRequest is the payload for register and login.
type CredentialsRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Register creates an account and logs the caller in.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.svc.Register(c.Request().Context(), auth.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
	})
	switch {
	case errors.Is(err, auth.ErrInvalidEmail):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "invalid email address"})
	case errors.Is(err, auth.ErrWeakPassword):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"error": "password too short"})
	case errors.Is(err, auth.ErrUserExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": "account already exists"})
	case err != nil:
		slog.Error("register_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "registration failed"})
	}

	cookie, err := h.sessions.Create(session.User{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin != 0})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Login authenticates the caller and sets the session cookie.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	user, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		}
		slog.Error("login_failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "login failed"})
	}

	cookie, err := h.sessions.Create(session.User{ID: user.ID, Email: user.Email, IsAdmin: user.IsAdmin != 0})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to create session"})
	}
	c.SetCookie(cookie)

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Logout clears the session cookie.
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(h.sessions.Clear())
	return c.Redirect(http.StatusSeeOther, "/")
}
