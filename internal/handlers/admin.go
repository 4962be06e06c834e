// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers of the PressDesk API.
// Handlers are grouped by concern (admin, auth, public) and receive
// their dependencies through the handler struct. Every response body is
// JSON; errors use the {"error":{"message","fields"}} envelope.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"pressdesk/internal/cache"
	"pressdesk/internal/listquery"
	"pressdesk/internal/middleware"
	"pressdesk/internal/notify"
	"pressdesk/internal/session"
	"pressdesk/internal/store"
)

// Stores bundles the data layer used by the handlers.
type Stores struct {
	Categories *store.CategoryStore
	Posts      *store.PostStore
	Users      *store.UserStore
	Customers  *store.CustomerStore
	Settings   *store.SiteSettingStore
	Stats      *store.StatsStore

	// Sessions ends the sessions of users whose role or access changes.
	// Nil skips revocation.
	Sessions *session.Store
}

// PageSizes bounds list page sizes. Zero values keep the schema defaults.
type PageSizes struct {
	Default int
	Max     int
}

// schemas holds the list schemas with the configured page sizes applied.
type schemas struct {
	categories listquery.Schema
	posts      listquery.Schema
	public     listquery.Schema
	users      listquery.Schema
	customers  listquery.Schema
}

func newSchemas(p PageSizes) schemas {
	return schemas{
		categories: store.CategoryList.WithPageSizes(p.Default, p.Max),
		posts:      store.PostList.WithPageSizes(p.Default, p.Max),
		public:     store.PublicPostList.WithPageSizes(p.Default, p.Max),
		users:      store.UserList.WithPageSizes(p.Default, p.Max),
		customers:  store.CustomerList.WithPageSizes(p.Default, p.Max),
	}
}

// Admin groups all admin API handlers and their dependencies.
type Admin struct {
	stores  Stores
	cache   *cache.Cache
	sink    notify.Sink
	feed    *notify.FeedSink
	schemas schemas
}

// NewAdmin creates the admin handler group. cache may be nil (no
// response caching); feed may be nil, in which case the notifications
// endpoint always returns an empty list.
func NewAdmin(stores Stores, c *cache.Cache, sink notify.Sink, feed *notify.FeedSink, pages PageSizes) *Admin {
	if sink == nil {
		sink = notify.Discard{}
	}
	return &Admin{
		stores:  stores,
		cache:   c,
		sink:    sink,
		feed:    feed,
		schemas: newSchemas(pages),
	}
}

// notify is fire-and-forget: a failing sink is logged and otherwise ignored.
func (a *Admin) notify(ctx context.Context, sess *session.Data, kind notify.Kind, title, message string) {
	if sess == nil {
		return
	}
	if err := a.sink.Notify(context.WithoutCancel(ctx), sess.UserID, kind, title, message); err != nil {
		slog.Warn("notify failed", "error", err, "title", title)
	}
}

// fail reports a mutation error to the caller's feed and answers with the
// mapped error response.
func (a *Admin) fail(w http.ResponseWriter, r *http.Request, action, title string, err error) {
	a.notify(r.Context(), middleware.SessionFromCtx(r.Context()), notify.KindError, title, userMessage(err))
	respondError(w, r, action, err)
}

// succeed records a success notice for the caller.
func (a *Admin) succeed(r *http.Request, title, message string) {
	a.notify(r.Context(), middleware.SessionFromCtx(r.Context()), notify.KindSuccess, title, message)
}

// revokeSessions signs the given users out everywhere. The user change is
// already committed, so a failure is logged and reported to the caller's
// feed instead of failing the request.
func (a *Admin) revokeSessions(r *http.Request, ids ...uuid.UUID) {
	if a.stores.Sessions == nil {
		return
	}
	ctx := context.WithoutCancel(r.Context())
	for _, id := range ids {
		if _, err := a.stores.Sessions.DestroyUser(ctx, id); err != nil {
			slog.Error("revoke sessions failed", "error", err, "user_id", id)
			a.notify(ctx, middleware.SessionFromCtx(r.Context()), notify.KindError,
				"Sign-out failed", "The user may stay signed in until the session expires.")
		}
	}
}

// invalidateCategories drops cached category responses. Public post pages
// embed category ids, so they go too.
func (a *Admin) invalidateCategories(ctx context.Context) {
	a.cache.InvalidatePrefix(ctx, cache.PrefixCategories)
	a.cache.InvalidatePrefix(ctx, cache.PrefixPublicPosts)
}

// invalidatePosts drops cached public post responses.
func (a *Admin) invalidatePosts(ctx context.Context) {
	a.cache.InvalidatePrefix(ctx, cache.PrefixPublicPosts)
}
