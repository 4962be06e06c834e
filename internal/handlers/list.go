// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"pressdesk/internal/listquery"
)

// listResponse is the body of every list endpoint: one page of items,
// the validated state that produced it, and for each sortable column the
// query string that toggles its sort plus the glyph to show.
type listResponse[T any] struct {
	listquery.Page[T]
	State     listquery.State           `json:"query"`
	SortLinks map[string]string         `json:"sort_links"`
	SortIcons map[string]listquery.Icon `json:"sort_icons"`
}

func newListResponse[T any](state listquery.State, page listquery.Page[T]) listResponse[T] {
	resp := listResponse[T]{
		Page:      page,
		State:     state,
		SortLinks: map[string]string{},
		SortIcons: map[string]listquery.Icon{},
	}
	for _, col := range state.Schema().Sorts {
		resp.SortLinks[col] = "?" + state.SetSort(col).Encode().Encode()
		resp.SortIcons[col] = state.SortIcon(col)
	}
	return resp
}

// parseList validates the request query string against schema.
func parseList(w http.ResponseWriter, r *http.Request, schema *listquery.Schema) (listquery.State, bool) {
	state, err := listquery.Parse(schema, r.URL.Query())
	if err != nil {
		respondError(w, r, "parse list query", err)
		return state, false
	}
	return state, true
}

// loadPage fetches the page the state addresses. A page past the end is
// clamped to the last page and fetched again.
func loadPage[T any](ctx context.Context, state listquery.State, fetch listquery.Fetcher[T]) (listquery.State, listquery.Page[T], error) {
	page, err := fetch(ctx, state.Query())
	if err != nil {
		return state, page, err
	}
	if page.TotalPages > 0 && state.Page > page.TotalPages {
		state = state.SetPage(listquery.ClampPage(state.Page, page.TotalPages))
		page, err = fetch(ctx, state.Query())
	}
	return state, page, err
}

// serveList runs the whole list flow for a screen.
func serveList[T any](w http.ResponseWriter, r *http.Request, action string, schema *listquery.Schema, fetch listquery.Fetcher[T]) {
	state, ok := parseList(w, r, schema)
	if !ok {
		return
	}
	state, page, err := loadPage(r.Context(), state, fetch)
	if err != nil {
		respondError(w, r, action, err)
		return
	}
	writeJSON(w, http.StatusOK, newListResponse(state, page))
}
