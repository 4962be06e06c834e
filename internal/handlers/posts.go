// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"pressdesk/internal/middleware"
	"pressdesk/internal/models"
	"pressdesk/internal/session"
	"pressdesk/internal/slug"
)

// postInput is the body of post create and update requests. An empty
// slug is derived from the title.
type postInput struct {
	Title           string            `json:"title"`
	Slug            string            `json:"slug"`
	Content         string            `json:"content"`
	Excerpt         *string           `json:"excerpt"`
	CoverImage      *string           `json:"cover_image"`
	Status          models.PostStatus `json:"status"`
	MetaTitle       *string           `json:"meta_title"`
	MetaDescription *string           `json:"meta_description"`
	Keywords        *string           `json:"keywords"`
	Featured        bool              `json:"featured"`
	ScheduledAt     *time.Time        `json:"scheduled_at"`
	CategoryID      *uuid.UUID        `json:"category_id"`
}

func (in *postInput) apply(p *models.Post) {
	p.Title = in.Title
	p.Slug = strings.TrimSpace(in.Slug)
	p.Content = in.Content
	p.Excerpt = trimmed(in.Excerpt)
	p.CoverImage = trimmed(in.CoverImage)
	p.Status = in.Status
	p.MetaTitle = trimmed(in.MetaTitle)
	p.MetaDescription = trimmed(in.MetaDescription)
	p.Keywords = trimmed(in.Keywords)
	p.Featured = in.Featured
	p.ScheduledAt = in.ScheduledAt
	p.CategoryID = in.CategoryID
}

// authorizePosts lets editors and admins touch any post; authors only
// their own. Ids that do not exist are left for the store to report.
func (a *Admin) authorizePosts(ctx context.Context, sess *session.Data, ids ...uuid.UUID) error {
	if sess == nil {
		return errForbidden
	}
	if sess.Role.AtLeast(models.RoleEditor) {
		return nil
	}
	authors, err := a.stores.Posts.AuthorsOf(ctx, ids)
	if err != nil {
		return err
	}
	for _, author := range authors {
		if author != sess.UserID {
			return errForbidden
		}
	}
	return nil
}

// PostsList serves the posts table.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	serveList(w, r, "list posts", &a.schemas.posts, a.stores.Posts.List)
}

// PostGet returns one post.
func (a *Admin) PostGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	p, err := a.stores.Posts.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, r, "get post", err)
		return
	}
	if p == nil {
		respondError(w, r, "get post", errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PostCreate adds a post authored by the caller.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	var in postInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validatePost(&in); err != nil {
		respondError(w, r, "create post", err)
		return
	}
	if in.Slug == "" && slug.Generate(in.Title) == "" {
		respondError(w, r, "create post", fieldErrors{"slug": "could not be derived from the title, enter one"})
		return
	}

	p := &models.Post{AuthorID: sess.UserID}
	in.apply(p)

	created, err := a.stores.Posts.Create(r.Context(), p)
	if err != nil {
		a.fail(w, r, "create post", "Create failed", err)
		return
	}

	a.invalidatePosts(r.Context())
	a.succeed(r, "Post created", created.Title)
	writeJSON(w, http.StatusCreated, created)
}

// PostUpdate replaces a post's editable fields. The author never changes.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	sess := middleware.SessionFromCtx(ctx)

	var in postInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validatePost(&in); err != nil {
		respondError(w, r, "update post", err)
		return
	}

	existing, err := a.stores.Posts.FindByID(ctx, id)
	if err != nil {
		respondError(w, r, "update post", err)
		return
	}
	if existing == nil {
		respondError(w, r, "update post", errNotFound)
		return
	}
	if err := a.authorizePosts(ctx, sess, id); err != nil {
		a.fail(w, r, "update post", "Update failed", err)
		return
	}
	in.apply(existing)

	updated, err := a.stores.Posts.Update(ctx, existing)
	if err != nil {
		a.fail(w, r, "update post", "Update failed", err)
		return
	}

	a.invalidatePosts(ctx)
	a.succeed(r, "Post updated", updated.Title)
	writeJSON(w, http.StatusOK, updated)
}

// statusRequest is the body of the status endpoints.
type statusRequest struct {
	Status string `json:"status"`
}

// PostSetStatus moves a post to another status. Publishing for the first
// time stamps published_at.
func (a *Admin) PostSetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := models.PostStatus(req.Status)
	if !status.Valid() {
		respondError(w, r, "set post status", fieldErrors{"status": "is not a known status"})
		return
	}

	existing, err := a.stores.Posts.FindByID(ctx, id)
	if err != nil {
		respondError(w, r, "set post status", err)
		return
	}
	if existing == nil {
		respondError(w, r, "set post status", errNotFound)
		return
	}
	if status == models.PostStatusScheduled && existing.ScheduledAt == nil {
		respondError(w, r, "set post status", fieldErrors{"scheduled_at": "set a publish time before scheduling"})
		return
	}
	if err := a.authorizePosts(ctx, middleware.SessionFromCtx(ctx), id); err != nil {
		a.fail(w, r, "set post status", "Status change failed", err)
		return
	}

	updated, err := a.stores.Posts.SetStatus(ctx, id, status)
	if err != nil {
		a.fail(w, r, "set post status", "Status change failed", err)
		return
	}

	a.invalidatePosts(ctx)
	a.succeed(r, "Post status changed", fmt.Sprintf("%s is now %s", updated.Title, updated.Status))
	writeJSON(w, http.StatusOK, updated)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := a.authorizePosts(ctx, middleware.SessionFromCtx(ctx), id); err != nil {
		a.fail(w, r, "delete post", "Delete failed", err)
		return
	}
	if err := a.stores.Posts.Delete(ctx, id); err != nil {
		a.fail(w, r, "delete post", "Delete failed", err)
		return
	}

	a.invalidatePosts(ctx)
	a.succeed(r, "Post deleted", "")
	w.WriteHeader(http.StatusNoContent)
}

// PostsBatchDelete removes the selected posts. Authors may only include
// their own posts; one foreign post rejects the whole batch.
func (a *Admin) PostsBatchDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := a.authorizePosts(ctx, middleware.SessionFromCtx(ctx), ids...); err != nil {
		a.fail(w, r, "batch delete posts", "Delete failed", err)
		return
	}
	n, err := a.stores.Posts.BatchDelete(ctx, ids)
	if err != nil {
		a.fail(w, r, "batch delete posts", "Delete failed", err)
		return
	}

	a.invalidatePosts(ctx)
	a.succeed(r, "Posts deleted", fmt.Sprintf("%d deleted", n))
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// slugRequest carries the editor state for a slug preview. PreviousTitle
// and Slug are what the form held before the title changed.
type slugRequest struct {
	Title         string     `json:"title"`
	PreviousTitle string     `json:"previous_title"`
	Slug          string     `json:"slug"`
	ID            *uuid.UUID `json:"id"`
}

type slugResponse struct {
	Slug      string `json:"slug"`
	Following bool   `json:"following"`
	Valid     bool   `json:"valid"`
	Available bool   `json:"available"`
}

// PostSlug previews the slug for a title change. The slug follows the
// title while it still equals the slug derived from the previous title;
// once the user has edited it by hand it is kept as typed.
func (a *Admin) PostSlug(w http.ResponseWriter, r *http.Request) {
	var req slugRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	t := slug.NewTracker(req.PreviousTitle, strings.TrimSpace(req.Slug))
	t.SetTitle(req.Title)

	resp := slugResponse{Slug: t.Slug(), Following: t.Following(), Valid: slug.Valid(t.Slug())}
	if resp.Valid {
		existing, err := a.stores.Posts.FindBySlug(r.Context(), resp.Slug)
		if err != nil {
			respondError(w, r, "preview slug", err)
			return
		}
		resp.Available = existing == nil || (req.ID != nil && existing.ID == *req.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}
