// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrWeakPassword       = errors.New("password does not meet requirements")
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 12

// dummyHash is used for constant-time login to prevent timing attacks
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

type Service struct {
	repo *repository.Repository
}

func NewService(repo *repository.Repository) *Service {
	return &Service{repo: repo}
}

// RegisterParams holds the parameters for user registration
type RegisterParams struct {
	Email    string
	Password string
	IsAdmin  bool
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	if _, err := mail.ParseAddress(params.Email); err != nil {
		return nil, ErrInvalidEmail
	}

	if len(params.Password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	// Check if user already exists
	_, err := s.repo.GetUserByEmail(ctx, params.Email)
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		IsAdmin:      boolToInt64(params.IsAdmin),
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("register_success", "user_id", user.ID, "email", params.Email)

	return user, nil
}

func boolToInt64(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// Login authenticates a user and returns the user if successful
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", email, "reason", "user_not_found")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", email, "reason", "invalid_password")
		return nil, ErrInvalidCredentials
	}

	slog.Info("login_success", "user_id", user.ID, "email", email)
	return user, nil
}

// EnsureAdmin ensures at least one admin exists, creating one if needed
func (s *Service) EnsureAdmin(ctx context.Context, email, password string) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}

	if count > 0 {
		return nil // Admin already exists
	}
	if email == "" || password == "" {
		return nil // Nothing configured to bootstrap from
	}

	_, err = s.Register(ctx, RegisterParams{
		Email:    email,
		Password: password,
		IsAdmin:  true,
	})
	if err != nil && !errors.Is(err, ErrUserExists) {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	// If the account existed already, promote it
	if errors.Is(err, ErrUserExists) {
		existing, getErr := s.repo.GetUserByEmail(ctx, email)
		if getErr != nil {
			return fmt.Errorf("failed to get user: %w", getErr)
		}
		if setErr := s.repo.SetUserAdmin(ctx, existing.ID, true); setErr != nil {
			return fmt.Errorf("failed to set admin: %w", setErr)
		}
	}

	return nil
}
