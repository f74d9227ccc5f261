// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

// Package templates holds the server-rendered pages. The visual layer is
// deliberately thin; pages exist so every route renders real HTML.
package templates

import (
	"context"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/ateliercraft/atelier/internal/models"
)

const layoutHTML = `{{define "layout_top"}}<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}} · Atelier</title></head>
<body>
<header><a href="/">Atelier</a></header>
<main>{{end}}
{{define "layout_bottom"}}</main>
</body>
</html>{{end}}

{{define "home"}}{{template "layout_top" .}}
<h1>{{.Title}}</h1>
<section><h2>Latest articles</h2>
<ul>{{range .Articles}}<li><a href="/articles/{{.Slug}}">{{.Title}}</a></li>{{end}}</ul>
</section>
<section><h2>Courses</h2>
<ul>{{range .Courses}}<li><a href="/courses/{{.Slug}}">{{.Title}}</a></li>{{end}}</ul>
</section>
{{template "newsletter_form" .}}
{{template "layout_bottom" .}}{{end}}

{{define "newsletter_form"}}<form method="post" action="/newsletter/subscribe">
<input type="hidden" name="csrf_token" value="{{.CSRFToken}}">
<input type="hidden" name="source_path" value="{{.SourcePath}}">
<input type="email" name="email" placeholder="you@example.com">
<label><input type="checkbox" name="consent" value="true"> I want to receive the newsletter</label>
<button type="submit">Subscribe</button>
</form>{{end}}

{{define "list"}}{{template "layout_top" .}}
<h1>{{.Title}}</h1>
<ul>{{range .Items}}<li><a href="{{.Href}}">{{.Title}}</a> {{if .Premium}}<em>premium</em>{{end}}</li>{{end}}</ul>
{{template "layout_bottom" .}}{{end}}

{{define "detail"}}{{template "layout_top" .}}
<article>
<h1>{{.Title}}</h1>
{{if .Locked}}<p>{{.Summary}}</p><p class="paywall">{{.Message}}</p>{{else}}{{.Body}}{{end}}
</article>
{{template "layout_bottom" .}}{{end}}

{{define "message"}}{{template "layout_top" .}}
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
{{template "layout_bottom" .}}{{end}}`

var pages = template.Must(template.New("pages").Parse(layoutHTML))

func page(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// HomeData feeds the landing page.
type HomeData struct { //nolint:govet // fieldalignment: readability over optimization
	Title      string
	CSRFToken  string
	SourcePath string
	Articles   []models.Article
	Courses    []models.Course
}

// Home renders the landing page with the newsletter signup form.
func Home(data HomeData) templ.Component {
	return page("home", data)
}

// ListItem is one entry on a listing page.
type ListItem struct {
	Href    string
	Title   string
	Premium bool
}

// ListData feeds listing pages.
type ListData struct {
	Title string
	Items []ListItem
}

// List renders a listing page.
func List(data ListData) templ.Component {
	return page("list", data)
}

// DetailData feeds article and course detail pages. Locked pages show the
// summary plus the paywall message instead of the body.
type DetailData struct { //nolint:govet // fieldalignment: readability over optimization
	Title   string
	Summary string
	Body    template.HTML
	Locked  bool
	Message string
}

// Detail renders an article or course detail page.
func Detail(data DetailData) templ.Component {
	return page("detail", data)
}

// MessageData feeds simple notice pages (confirmation results and errors).
type MessageData struct {
	Title   string
	Message string
}

// Message renders a notice page.
func Message(data MessageData) templ.Component {
	return page("message", data)
}
