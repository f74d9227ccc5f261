// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package session

import (
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/ateliercraft/atelier/internal/config"
	"github.com/gorilla/securecookie"
)

// User is the authenticated identity stored in the session cookie.
type User struct {
	ID      int64
	Email   string
	IsAdmin bool
}

// Manager creates and reads signed session cookies.
type Manager struct { //nolint:govet // fieldalignment: readability over optimization
	sc         *securecookie.SecureCookie
	cookieName string
	maxAge     int
	secure     bool
}

// NewManager creates a session manager from the configuration. Without a
// configured hash key a random one is generated, which invalidates all
// sessions on restart; fine for development, rejected for production by
// config.Validate.
func NewManager(cfg *config.SessionConfig, secure bool) (*Manager, error) {
	var hashKey []byte
	if cfg.HashKey != "" {
		var err error
		hashKey, err = hex.DecodeString(cfg.HashKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session hash key: %w", err)
		}
	} else {
		hashKey = securecookie.GenerateRandomKey(32)
	}

	var blockKey []byte
	if cfg.BlockKey != "" {
		var err error
		blockKey, err = hex.DecodeString(cfg.BlockKey)
		if err != nil {
			return nil, fmt.Errorf("invalid session block key: %w", err)
		}
	}

	sc := securecookie.New(hashKey, blockKey)
	sc.MaxAge(cfg.MaxAge)

	return &Manager{
		sc:         sc,
		cookieName: cfg.CookieName,
		maxAge:     cfg.MaxAge,
		secure:     secure,
	}, nil
}

// Create encodes a session cookie for the user.
func (m *Manager) Create(user User) (*http.Cookie, error) {
	encoded, err := m.sc.Encode(m.cookieName, user)
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}

	return &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   m.maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Clear returns an expired cookie that removes the session.
func (m *Manager) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// Read decodes the session cookie from the request, returning nil for
// anonymous callers and for invalid or expired cookies.
func (m *Manager) Read(r *http.Request) *User {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return nil
	}

	var user User
	if err := m.sc.Decode(m.cookieName, cookie.Value, &user); err != nil {
		return nil
	}
	return &user
}
