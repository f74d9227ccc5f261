// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package repository

import (
	"context"

	"github.com/ateliercraft/atelier/internal/models"
)

// ===== Articles =====

// CreateArticle stores an article and fills in its generated ID.
func (r *Repository) CreateArticle(ctx context.Context, article *models.Article) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (slug, title, summary, body, premium, published_at) VALUES (?, ?, ?, ?, ?, ?)`,
		article.Slug, article.Title, article.Summary, article.Body, article.Premium, article.PublishedAt)
	if err != nil {
		return err
	}
	article.ID, err = res.LastInsertId()
	return err
}

// ListPublishedArticles returns published articles newest-first.
func (r *Repository) ListPublishedArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	err := r.db.SelectContext(ctx, &articles,
		`SELECT * FROM articles WHERE published_at IS NOT NULL ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// GetArticleBySlug retrieves a published article by slug.
func (r *Repository) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	var article models.Article
	err := r.db.GetContext(ctx, &article,
		`SELECT * FROM articles WHERE slug = ? AND published_at IS NOT NULL`, slug)
	if err != nil {
		return nil, wrapError(err)
	}
	return &article, nil
}

// ===== Courses =====

// CreateCourse stores a course and fills in its generated ID.
func (r *Repository) CreateCourse(ctx context.Context, course *models.Course) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (slug, title, summary, body, premium, published_at) VALUES (?, ?, ?, ?, ?, ?)`,
		course.Slug, course.Title, course.Summary, course.Body, course.Premium, course.PublishedAt)
	if err != nil {
		return err
	}
	course.ID, err = res.LastInsertId()
	return err
}

// ListPublishedCourses returns published courses newest-first.
func (r *Repository) ListPublishedCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := r.db.SelectContext(ctx, &courses,
		`SELECT * FROM courses WHERE published_at IS NOT NULL ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	return courses, nil
}

// GetCourseBySlug retrieves a published course by slug.
func (r *Repository) GetCourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course models.Course
	err := r.db.GetContext(ctx, &course,
		`SELECT * FROM courses WHERE slug = ? AND published_at IS NOT NULL`, slug)
	if err != nil {
		return nil, wrapError(err)
	}
	return &course, nil
}

// ===== Resources =====

// CreateResource stores a resource and fills in its generated ID.
func (r *Repository) CreateResource(ctx context.Context, resource *models.Resource) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO resources (slug, title, summary, url) VALUES (?, ?, ?, ?)`,
		resource.Slug, resource.Title, resource.Summary, resource.URL)
	if err != nil {
		return err
	}
	resource.ID, err = res.LastInsertId()
	return err
}

// ListResources returns resources newest-first.
func (r *Repository) ListResources(ctx context.Context) ([]models.Resource, error) {
	var resources []models.Resource
	err := r.db.SelectContext(ctx, &resources, `SELECT * FROM resources ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return resources, nil
}
