// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// PressDesk. Routes are grouped into auth, admin API and public API, each
// with its own middleware stack.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"pressdesk/internal/handlers"
	"pressdesk/internal/middleware"
	"pressdesk/internal/models"
	"pressdesk/internal/session"
)

// Deps are the collaborators the routes are wired to.
type Deps struct {
	Sessions *session.Store
	Admin    *handlers.Admin
	Auth     *handlers.Auth
	Public   *handlers.Public
	Health   http.Handler

	// LoginLimiter throttles POST /auth/login. Nil disables throttling.
	LoginLimiter *middleware.RateLimiter

	// CORSOrigins lists the front-end origins allowed to call the API.
	CORSOrigins []string

	// SecureCookies marks CSRF cookies HTTPS-only.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.LoadSession(d.Sessions))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	// Health check, no auth and no CSRF.
	r.Method(http.MethodGet, "/health", d.Health)

	csrf := middleware.NewCSRF(d.SecureCookies)

	r.Route("/auth", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(csrf)

		login := http.Handler(http.HandlerFunc(d.Auth.Login))
		if d.LoginLimiter != nil {
			login = d.LoginLimiter.Middleware(login)
		}
		r.Method(http.MethodPost, "/login", login)
		r.Post("/logout", d.Auth.Logout)
		r.Get("/me", d.Auth.Me)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(csrf)
		r.Use(middleware.RequireAuth)

		editor := middleware.RequireRole(models.RoleEditor)
		admin := middleware.RequireAdmin

		r.Get("/dashboard", d.Admin.Dashboard)
		r.Get("/meta/statuses", d.Admin.MetaStatuses)
		r.Get("/notifications", d.Admin.Notifications)

		r.Get("/settings", d.Admin.SettingsGet)
		r.With(admin).Put("/settings", d.Admin.SettingsUpdate)

		// Authors may add and edit categories; removing and reordering
		// them is editor work.
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Admin.CategoriesList)
			r.Post("/", d.Admin.CategoryCreate)
			r.With(editor).Post("/reorder", d.Admin.CategoriesReorder)
			r.With(editor).Post("/batch-delete", d.Admin.CategoriesBatchDelete)
			r.Get("/{id}", d.Admin.CategoryGet)
			r.Put("/{id}", d.Admin.CategoryUpdate)
			r.With(editor).Delete("/{id}", d.Admin.CategoryDelete)
		})

		// Post ownership is checked by the handlers.
		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Admin.PostsList)
			r.Post("/", d.Admin.PostCreate)
			r.Post("/slug", d.Admin.PostSlug)
			r.Post("/batch-delete", d.Admin.PostsBatchDelete)
			r.Get("/{id}", d.Admin.PostGet)
			r.Put("/{id}", d.Admin.PostUpdate)
			r.Delete("/{id}", d.Admin.PostDelete)
			r.Post("/{id}/status", d.Admin.PostSetStatus)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Use(editor)
			r.Get("/", d.Admin.CustomersList)
			r.Post("/", d.Admin.CustomerCreate)
			r.Post("/batch-delete", d.Admin.CustomersBatchDelete)
			r.Get("/{id}", d.Admin.CustomerGet)
			r.Put("/{id}", d.Admin.CustomerUpdate)
			r.Delete("/{id}", d.Admin.CustomerDelete)
			r.Post("/{id}/status", d.Admin.CustomerSetStatus)
		})

		// User management, admin only.
		r.Route("/users", func(r chi.Router) {
			r.Use(admin)
			r.Get("/", d.Admin.UsersList)
			r.Post("/", d.Admin.UserCreate)
			r.Post("/batch-delete", d.Admin.UsersBatchDelete)
			r.Get("/{id}", d.Admin.UserGet)
			r.Put("/{id}", d.Admin.UserUpdate)
			r.Delete("/{id}", d.Admin.UserDelete)
		})
	})

	// Public read API for the blog.
	r.Route("/api", func(r chi.Router) {
		r.Get("/posts", d.Public.PostsList)
		r.Get("/posts/{slug}", d.Public.PostBySlug)
		r.Get("/categories", d.Public.Categories)
	})

	return r
}

// writeJSONError answers router-level errors in the API error envelope.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":{"message":"` + message + `"}}`))
}
