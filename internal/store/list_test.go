// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressdesk/internal/listquery"
)

func TestListMappingsCoverSchemas(t *testing.T) {
	pairs := []struct {
		name    string
		schema  listquery.Schema
		mapping listMapping
	}{
		{"categories", CategoryList, categoryListMapping},
		{"posts", PostList, postListMapping},
		{"public posts", PublicPostList, postListMapping},
		{"users", UserList, userListMapping},
		{"customers", CustomerList, customerListMapping},
	}
	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			for _, f := range p.schema.Fields {
				assert.Contains(t, p.mapping.columns, f.Name, "filter %s has no column", f.Name)
			}
			for _, s := range p.schema.Sorts {
				assert.Contains(t, p.mapping.columns, s, "sort %s has no column", s)
			}
			assert.Contains(t, p.schema.Sorts, p.schema.DefaultSort)
		})
	}
}

func TestListMappingWhere(t *testing.T) {
	catID := uuid.New()
	state, err := listquery.Parse(&PostList, url.Values{
		"search":      {"50%_off"},
		"status":      {"published"},
		"category_id": {catID.String()},
		"featured":    {"false"},
	})
	require.NoError(t, err)

	var a args
	where, err := postListMapping.where(state.Query(), &a, publishedCondition)
	require.NoError(t, err)

	assert.Equal(t,
		" WHERE "+publishedCondition+
			" AND (title ILIKE $1 OR slug ILIKE $1 OR excerpt ILIKE $1 OR keywords ILIKE $1)"+
			" AND status = $2 AND category_id = $3 AND featured = $4",
		where)
	assert.Equal(t, args{`%50\%\_off%`, "PUBLISHED", catID, false}, a)
}

func TestListMappingWhereEmpty(t *testing.T) {
	var a args
	where, err := userListMapping.where(listquery.New(&UserList).Query(), &a)
	require.NoError(t, err)
	assert.Empty(t, where)
	assert.Empty(t, a)
}

func TestListMappingRejectsUnknownNames(t *testing.T) {
	var a args
	_, err := userListMapping.where(listquery.Query{
		Filters: []listquery.Filter{{Field: "password_hash", Op: listquery.OpEq, Value: "x"}},
	}, &a)
	assert.Error(t, err)

	_, err = userListMapping.orderBy(listquery.Query{SortBy: "password_hash"})
	assert.Error(t, err)
}

func TestListMappingOrderBy(t *testing.T) {
	state := listquery.New(&CategoryList).SetSort("post_count").SetSort("post_count")
	order, err := categoryListMapping.orderBy(state.Query())
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY COUNT(p.id) DESC, c.name, c.id", order)

	order, err = postListMapping.orderBy(listquery.New(&PostList).Query())
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY created_at DESC, id", order)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `a\_b`, escapeLike("a_b"))
	assert.Equal(t, `c:\\tmp`, escapeLike(`c:\tmp`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
