// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressdesk/internal/listquery"
	"pressdesk/internal/store"
)

func TestNewListResponse(t *testing.T) {
	schema := store.CategoryList
	state, err := listquery.Parse(&schema, url.Values{"sort": {"name"}, "page": {"2"}})
	require.NoError(t, err)

	resp := newListResponse(state, listquery.Page[string]{Items: []string{"a"}, Total: 1, Page: 2})

	assert.Len(t, resp.SortLinks, len(schema.Sorts))
	assert.Equal(t, listquery.IconAsc, resp.SortIcons["name"])
	assert.Equal(t, listquery.IconUnsorted, resp.SortIcons["slug"])

	// Clicking the active column flips the order and returns to page 1.
	link, err := url.ParseQuery(resp.SortLinks["name"][1:])
	require.NoError(t, err)
	assert.Equal(t, "desc", link.Get("order"))
	assert.Empty(t, link.Get("page"))

	link, err = url.ParseQuery(resp.SortLinks["slug"][1:])
	require.NoError(t, err)
	assert.Equal(t, "slug", link.Get("sort"))
	assert.Empty(t, link.Get("order"), "ascending is the default order")
}

func TestLoadPageClampsPastEnd(t *testing.T) {
	schema := store.PostList.WithPageSizes(10, 50)
	state, err := listquery.Parse(&schema, url.Values{"page": {"9"}})
	require.NoError(t, err)

	var offsets []int
	fetch := func(_ context.Context, q listquery.Query) (listquery.Page[int], error) {
		offsets = append(offsets, q.Offset)
		return listquery.NewPage([]int{1}, 25, q), nil
	}

	got, page, err := loadPage(context.Background(), state, fetch)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Page)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, []int{80, 20}, offsets)
}

func TestLoadPageEmptyKeepsPage(t *testing.T) {
	schema := store.PostList
	state, err := listquery.Parse(&schema, url.Values{"page": {"4"}})
	require.NoError(t, err)

	calls := 0
	fetch := func(_ context.Context, q listquery.Query) (listquery.Page[int], error) {
		calls++
		return listquery.NewPage[int](nil, 0, q), nil
	}

	got, page, err := loadPage(context.Background(), state, fetch)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 4, got.Page)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
}

func TestServeList(t *testing.T) {
	schema := store.CustomerList

	t.Run("invalid query", func(t *testing.T) {
		fetch := func(context.Context, listquery.Query) (listquery.Page[int], error) {
			t.Fatal("fetch must not run for an invalid query")
			return listquery.Page[int]{}, nil
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/customers?status=VIP&page=0", nil)
		serveList(rec, req, "list customers", &schema, fetch)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		fields := decodeBody[errorPayload](t, rec).Error.Fields
		assert.Contains(t, fields, "status")
		assert.Contains(t, fields, "page")
	})

	t.Run("fetch error", func(t *testing.T) {
		fetch := func(context.Context, listquery.Query) (listquery.Page[int], error) {
			return listquery.Page[int]{}, errors.New("db down")
		}
		rec := httptest.NewRecorder()
		serveList(rec, httptest.NewRequest(http.MethodGet, "/customers", nil), "list customers", &schema, fetch)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("page", func(t *testing.T) {
		var got listquery.Query
		fetch := func(_ context.Context, q listquery.Query) (listquery.Page[int], error) {
			got = q
			return listquery.NewPage([]int{7, 8}, 2, q), nil
		}
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/customers?status=ACTIVE&search=acme", nil)
		serveList(rec, req, "list customers", &schema, fetch)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "acme", got.Search)
		v, ok := got.Filter("status")
		assert.True(t, ok)
		assert.Equal(t, "ACTIVE", v)

		body := decodeBody[map[string]any](t, rec)
		assert.EqualValues(t, 2, body["total"])
		assert.EqualValues(t, 1, body["total_pages"])
		assert.Contains(t, body, "items")
		assert.Contains(t, body, "query")
		assert.Contains(t, body, "sort_links")
		assert.Contains(t, body, "sort_icons")
	})
}

func TestParseExpansion(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	expand, names, err := parseExpansion("")
	require.NoError(t, err)
	assert.False(t, expand(a))
	assert.Empty(t, names)

	expand, names, err = parseExpansion("all")
	require.NoError(t, err)
	assert.True(t, expand(a))
	assert.Equal(t, []string{"all"}, names)

	expand, names, err = parseExpansion(a.String() + ", ,")
	require.NoError(t, err)
	assert.True(t, expand(a))
	assert.False(t, expand(b))
	assert.Equal(t, []string{a.String()}, names)

	_, _, err = parseExpansion("all," + b.String() + ",x")
	assert.Contains(t, fieldsOf(err), "expand")
}
