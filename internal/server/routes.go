// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package server

import (
	"github.com/ateliercraft/atelier/internal/config"
	"github.com/ateliercraft/atelier/internal/handlers"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/ateliercraft/atelier/internal/services/auth"
	"github.com/ateliercraft/atelier/internal/services/billing"
	"github.com/ateliercraft/atelier/internal/services/newsletter"
	"github.com/ateliercraft/atelier/internal/services/session"
	"github.com/labstack/echo/v4"
)

// routeDeps holds everything the routes need.
type routeDeps struct { //nolint:govet // fieldalignment not critical
	cfg        *config.Config
	repo       *repository.Repository
	sessions   *session.Manager
	authSvc    *auth.Service
	newsSvc    *newsletter.Service
	billingSvc *billing.Service
}

func setupRoutes(e *echo.Echo, deps *routeDeps) {
	h := handlers.New(deps.repo)

	// Static files
	e.Static("/static", "static")

	// Public pages
	e.GET("/health", h.Health)
	e.GET("/", h.Home)
	e.GET("/articles", h.Articles)
	e.GET("/articles/:slug", h.Article)
	e.GET("/courses", h.Courses)
	e.GET("/courses/:slug", h.Course)
	e.GET("/resources", h.Resources)

	// Newsletter double opt-in
	nh := handlers.NewNewsletter(deps.newsSvc)
	e.POST("/newsletter/subscribe", nh.Subscribe)
	e.GET("/newsletter/confirm", nh.Confirm)

	// Contact form
	ch := handlers.NewContact(deps.repo)
	e.POST("/contact", ch.Submit)

	// Accounts
	ah := handlers.NewAuth(deps.authSvc, deps.sessions)
	authGroup := e.Group("/auth")
	authGroup.POST("/register", ah.Register)
	authGroup.POST("/login", ah.Login)
	authGroup.POST("/logout", ah.Logout)

	// Payment provider webhooks
	bh := handlers.NewBilling(deps.billingSvc, deps.cfg.Billing.WebhookSecret)
	e.POST("/webhooks/billing", bh.Webhook)

	// Admin query surface, read-only
	adh := handlers.NewAdmin(deps.repo)
	admin := e.Group("/admin", requireAdmin)
	admin.GET("/signups", adh.ListSignups)
	admin.GET("/signups.csv", adh.ExportSignups)
	admin.GET("/contact-messages", adh.ListContactMessages)
	admin.GET("/contact-messages.csv", adh.ExportContactMessages)
}
