// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"pressdesk/internal/models"
	"pressdesk/internal/slug"
	"pressdesk/internal/tree"
)

// categoryInput is the body of category create and update requests.
type categoryInput struct {
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description *string    `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
}

// apply copies the input onto c, deriving the slug when it is empty.
func (in *categoryInput) apply(c *models.Category) error {
	c.Name = strings.TrimSpace(in.Name)
	c.Slug = strings.TrimSpace(in.Slug)
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
		if c.Slug == "" {
			return fieldErrors{"slug": "could not be derived from the name, enter one"}
		}
	}
	c.Description = trimmed(in.Description)
	c.ParentID = in.ParentID
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	}
	return nil
}

// trimmed returns nil for nil or blank strings and a trimmed copy otherwise.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// rowsResponse is the body of GET /categories?view=rows.
type rowsResponse struct {
	Rows     []tree.Row `json:"rows"`
	Expanded []string   `json:"expanded"`
	Total    int        `json:"total"`
}

// CategoriesList serves the category screen. The view parameter picks
// the shape:
//
//	list     paginated, filterable table (default)
//	tree     nested trees
//	options  flattened parent picker; exclude=<id> drops a subtree
//	rows     visible table rows; expand=all or expand=<id>,<id>
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	switch view := r.URL.Query().Get("view"); view {
	case "", "list":
		serveList(w, r, "list categories", &a.schemas.categories, a.stores.Categories.List)

	case "tree":
		trees, err := a.stores.Categories.Tree(ctx)
		if err != nil {
			respondError(w, r, "category tree", err)
			return
		}
		if trees == nil {
			trees = []*tree.Tree{}
		}
		writeJSON(w, http.StatusOK, trees)

	case "options":
		exclude := uuid.Nil
		if raw := r.URL.Query().Get("exclude"); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				respondError(w, r, "category options", fieldErrors{"exclude": "must be a category id"})
				return
			}
			exclude = id
		}
		opts, err := a.stores.Categories.Options(ctx, exclude)
		if err != nil {
			respondError(w, r, "category options", err)
			return
		}
		if opts == nil {
			opts = []tree.Option{}
		}
		writeJSON(w, http.StatusOK, opts)

	case "rows":
		expansion, expanded, err := parseExpansion(r.URL.Query().Get("expand"))
		if err != nil {
			respondError(w, r, "category rows", err)
			return
		}
		trees, err := a.stores.Categories.Tree(ctx)
		if err != nil {
			respondError(w, r, "category rows", err)
			return
		}
		rows := tree.Rows(trees, expansion)
		if rows == nil {
			rows = []tree.Row{}
		}
		writeJSON(w, http.StatusOK, rowsResponse{Rows: rows, Expanded: expanded, Total: tree.Count(trees)})

	default:
		respondError(w, r, "list categories", fieldErrors{"view": fmt.Sprintf("unknown view %q", view)})
	}
}

// parseExpansion reads the expand parameter: empty collapses everything,
// "all" expands everything, otherwise a comma separated list of ids.
func parseExpansion(raw string) (tree.Expansion, []string, error) {
	raw = strings.TrimSpace(raw)
	switch raw {
	case "":
		return tree.ExpandOnly(), []string{}, nil
	case "all":
		return tree.ExpandAll, []string{"all"}, nil
	}
	var ids []uuid.UUID
	var names []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := uuid.Parse(part)
		if err != nil {
			return nil, nil, fieldErrors{"expand": "must be all or a list of category ids"}
		}
		ids = append(ids, id)
		names = append(names, id.String())
	}
	return tree.ExpandOnly(ids...), names, nil
}

// CategoryGet returns one category.
func (a *Admin) CategoryGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	c, err := a.stores.Categories.FindByID(r.Context(), id)
	if err != nil {
		respondError(w, r, "get category", err)
		return
	}
	if c == nil {
		respondError(w, r, "get category", errNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryCreate adds a category. Without sort_order it goes after its
// siblings.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in categoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateCategory(&in); err != nil {
		respondError(w, r, "create category", err)
		return
	}

	c := &models.Category{SortOrder: -1}
	if err := in.apply(c); err != nil {
		respondError(w, r, "create category", err)
		return
	}

	created, err := a.stores.Categories.Create(r.Context(), c)
	if err != nil {
		a.fail(w, r, "create category", "Create failed", err)
		return
	}

	a.invalidateCategories(r.Context())
	a.succeed(r, "Category created", created.Name)
	writeJSON(w, http.StatusCreated, created)
}

// CategoryUpdate replaces a category's fields. Omitting sort_order keeps
// the current position.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	var in categoryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if err := validateCategory(&in); err != nil {
		respondError(w, r, "update category", err)
		return
	}

	ctx := r.Context()
	existing, err := a.stores.Categories.FindByID(ctx, id)
	if err != nil {
		respondError(w, r, "update category", err)
		return
	}
	if existing == nil {
		respondError(w, r, "update category", errNotFound)
		return
	}
	if err := in.apply(existing); err != nil {
		respondError(w, r, "update category", err)
		return
	}

	updated, err := a.stores.Categories.Update(ctx, existing)
	if err != nil {
		a.fail(w, r, "update category", "Update failed", err)
		return
	}

	a.invalidateCategories(ctx)
	a.succeed(r, "Category updated", updated.Name)
	writeJSON(w, http.StatusOK, updated)
}

// CategoryDelete removes a category using the configured delete policy.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}
	if err := a.stores.Categories.Delete(r.Context(), id); err != nil {
		a.fail(w, r, "delete category", "Delete failed", err)
		return
	}

	a.invalidateCategories(r.Context())
	a.succeed(r, "Category deleted", "")
	w.WriteHeader(http.StatusNoContent)
}

// CategoriesBatchDelete removes the selected categories in one transaction.
func (a *Admin) CategoriesBatchDelete(w http.ResponseWriter, r *http.Request) {
	ids, ok := decodeIDs(w, r)
	if !ok {
		return
	}
	n, err := a.stores.Categories.BatchDelete(r.Context(), ids)
	if err != nil {
		a.fail(w, r, "batch delete categories", "Delete failed", err)
		return
	}

	a.invalidateCategories(r.Context())
	a.succeed(r, "Categories deleted", fmt.Sprintf("%d deleted", n))
	writeJSON(w, http.StatusOK, countResponse{Count: n})
}

// reorderRequest is the body of POST /categories/reorder.
type reorderRequest struct {
	Moves []tree.Move `json:"moves"`
}

// CategoriesReorder applies drag-and-drop moves atomically.
func (a *Admin) CategoriesReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	fe := fieldErrors{}
	if len(req.Moves) == 0 {
		fe.add("moves", "is required")
	}
	if len(req.Moves) > maxBatch {
		fe.add("moves", "too many")
	}
	for i, m := range req.Moves {
		if m.Order < 0 {
			fe.add(fmt.Sprintf("moves[%d].order", i), "must not be negative")
		}
	}
	if err := fe.err(); err != nil {
		respondError(w, r, "reorder categories", err)
		return
	}

	if err := a.stores.Categories.Reorder(r.Context(), req.Moves); err != nil {
		a.fail(w, r, "reorder categories", "Reorder failed", err)
		return
	}

	a.invalidateCategories(r.Context())
	a.succeed(r, "Categories reordered", "")
	writeJSON(w, http.StatusOK, countResponse{Count: len(req.Moves)})
}
