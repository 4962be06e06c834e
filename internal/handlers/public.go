// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pressdesk/internal/cache"
	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
	"pressdesk/internal/store"
	"pressdesk/internal/tree"
)

// Public groups the read-only blog API. Responses go through the Valkey
// response cache; a cache outage only costs a database query.
type Public struct {
	posts      *store.PostStore
	categories *store.CategoryStore
	cache      *cache.Cache
	schema     listquery.Schema
}

// NewPublic creates the public handler group. c may be nil.
func NewPublic(posts *store.PostStore, categories *store.CategoryStore, c *cache.Cache, pages PageSizes) *Public {
	return &Public{
		posts:      posts,
		categories: categories,
		cache:      c,
		schema:     store.PublicPostList.WithPageSizes(pages.Default, pages.Max),
	}
}

// PostsList returns one page of published posts.
func (p *Public) PostsList(w http.ResponseWriter, r *http.Request) {
	state, ok := parseList(w, r, &p.schema)
	if !ok {
		return
	}

	key := cache.PublicListKey(state.Encode().Encode())
	page, err := cache.Fetch(r.Context(), p.cache, key, func(ctx context.Context) (listquery.Page[models.Post], error) {
		_, page, err := loadPage(ctx, state, p.posts.ListPublished)
		return page, err
	})
	if err != nil {
		respondError(w, r, "list published posts", err)
		return
	}
	// The page may have been clamped past the end.
	if page.Page != state.Page {
		state = state.SetPage(page.Page)
	}
	writeJSON(w, http.StatusOK, newListResponse(state, page))
}

// PostBySlug returns a published post and counts the view.
func (p *Public) PostBySlug(w http.ResponseWriter, r *http.Request) {
	postSlug := chi.URLParam(r, "slug")

	post, err := cache.Fetch(r.Context(), p.cache, cache.PublicPostKey(postSlug), func(ctx context.Context) (*models.Post, error) {
		post, err := p.posts.FindPublishedBySlug(ctx, postSlug)
		if err == nil && post == nil {
			return nil, errNotFound
		}
		return post, err
	})
	if err != nil {
		respondError(w, r, "get published post", err)
		return
	}

	if err := p.posts.IncrementViews(r.Context(), post.ID); err != nil {
		slog.Warn("increment views failed", "error", err, "post_id", post.ID)
	}
	writeJSON(w, http.StatusOK, post)
}

// Categories returns the category tree.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	trees, err := cache.Fetch(r.Context(), p.cache, cache.CategoryTreeKey, func(ctx context.Context) ([]*tree.Tree, error) {
		trees, err := p.categories.Tree(ctx)
		if err == nil && trees == nil {
			trees = []*tree.Tree{}
		}
		return trees, err
	})
	if err != nil {
		respondError(w, r, "public category tree", err)
		return
	}
	writeJSON(w, http.StatusOK, trees)
}
