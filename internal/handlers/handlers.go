// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/ateliercraft/atelier/internal/auth"
	"github.com/ateliercraft/atelier/internal/i18n"
	"github.com/ateliercraft/atelier/internal/markdown"
	"github.com/ateliercraft/atelier/internal/models"
	"github.com/ateliercraft/atelier/internal/repository"
	"github.com/ateliercraft/atelier/internal/templates"
	"github.com/labstack/echo/v4"
)

// Handlers contains the public content handlers.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Home renders the landing page.
func (h *Handlers) Home(c echo.Context) error {
	ctx := c.Request().Context()

	articles, err := h.repo.ListPublishedArticles(ctx)
	if err != nil {
		return err
	}
	courses, err := h.repo.ListPublishedCourses(ctx)
	if err != nil {
		return err
	}

	return Render(c, http.StatusOK, templates.Home(templates.HomeData{
		Title:      "Welcome",
		CSRFToken:  csrfToken(c),
		SourcePath: c.Request().URL.Path,
		Articles:   articles,
		Courses:    courses,
	}))
}

// Articles renders the article listing.
func (h *Handlers) Articles(c echo.Context) error {
	articles, err := h.repo.ListPublishedArticles(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]templates.ListItem, 0, len(articles))
	for _, a := range articles {
		items = append(items, templates.ListItem{Href: "/articles/" + a.Slug, Title: a.Title, Premium: a.Premium})
	}
	return Render(c, http.StatusOK, templates.List(templates.ListData{Title: "Articles", Items: items}))
}

// Article renders a single article, honoring the paywall for premium pieces.
func (h *Handlers) Article(c echo.Context) error {
	ctx := c.Request().Context()

	article, err := h.repo.GetArticleBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOrErr(c, err)
	}

	return h.renderDetail(c, article.Title, article.Summary, article.Body, article.Premium)
}

// Courses renders the course listing.
func (h *Handlers) Courses(c echo.Context) error {
	courses, err := h.repo.ListPublishedCourses(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]templates.ListItem, 0, len(courses))
	for _, course := range courses {
		items = append(items, templates.ListItem{Href: "/courses/" + course.Slug, Title: course.Title, Premium: course.Premium})
	}
	return Render(c, http.StatusOK, templates.List(templates.ListData{Title: "Courses", Items: items}))
}

// Course renders a single course, honoring the paywall.
func (h *Handlers) Course(c echo.Context) error {
	ctx := c.Request().Context()

	course, err := h.repo.GetCourseBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOrErr(c, err)
	}

	return h.renderDetail(c, course.Title, course.Summary, course.Body, course.Premium)
}

// Resources renders the resources listing.
func (h *Handlers) Resources(c echo.Context) error {
	resources, err := h.repo.ListResources(c.Request().Context())
	if err != nil {
		return err
	}

	items := make([]templates.ListItem, 0, len(resources))
	for _, r := range resources {
		items = append(items, templates.ListItem{Href: r.URL, Title: r.Title})
	}
	return Render(c, http.StatusOK, templates.List(templates.ListData{Title: "Resources", Items: items}))
}

// renderDetail renders a content detail page. Premium bodies are replaced
// by the summary and paywall notice for callers without an active
// subscription.
func (h *Handlers) renderDetail(c echo.Context, title, summary, body string, premium bool) error {
	ctx := c.Request().Context()

	locked := premium && !hasActiveSubscription(auth.GetUser(ctx))
	data := templates.DetailData{
		Title:   title,
		Summary: summary,
		Locked:  locked,
	}
	if locked {
		data.Message = i18n.T(ctx, "paywall_required")
	} else {
		html, err := markdown.Render(body)
		if err != nil {
			return err
		}
		data.Body = html
	}

	return Render(c, http.StatusOK, templates.Detail(data))
}

func hasActiveSubscription(user *models.User) bool {
	return user != nil && user.HasActiveSubscription()
}

// notFoundOrErr maps missing records to a 404 page.
func notFoundOrErr(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	return err
}
