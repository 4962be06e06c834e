// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
	"pressdesk/internal/tree"
)

// createCategory inserts a category and schedules its removal.
func createCategory(t *testing.T, db *sql.DB, s *CategoryStore, name string, parent *uuid.UUID, order int) *models.Category {
	t.Helper()
	c, err := s.Create(context.Background(), &models.Category{
		Name: name, Slug: unique("cat-" + name), ParentID: parent, SortOrder: order,
	})
	require.NoError(t, err)
	t.Cleanup(func() { cleanCategories(t, db, c.ID) })
	return c
}

func TestCategoryStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)
	ctx := context.Background()

	root := createCategory(t, db, s, "root", nil, 0)
	assert.NotEqual(t, uuid.Nil, root.ID)
	assert.True(t, root.IsRoot())

	found, err := s.FindByID(ctx, root.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, root.Slug, found.Slug)

	bySlug, err := s.FindBySlug(ctx, root.Slug)
	require.NoError(t, err)
	require.NotNil(t, bySlug)
	assert.Equal(t, root.ID, bySlug.ID)

	missing, err := s.FindByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCategoryStoreCreateAppends(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)

	parent := createCategory(t, db, s, "parent", nil, 0)
	first := createCategory(t, db, s, "first", &parent.ID, -1)
	second := createCategory(t, db, s, "second", &parent.ID, -1)

	assert.Equal(t, 0, first.SortOrder)
	assert.Equal(t, 1, second.SortOrder)

	next, err := s.NextSortOrder(context.Background(), &parent.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestCategoryStoreDuplicateSlug(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)

	c := createCategory(t, db, s, "dupe", nil, 0)
	_, err := s.Create(context.Background(), &models.Category{Name: "Other", Slug: c.Slug})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestCategoryStoreCreateUnknownParent(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)

	missing := uuid.New()
	_, err := s.Create(context.Background(), &models.Category{Name: "Lost", Slug: unique("lost"), ParentID: &missing})
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestCategoryStoreUpdateRejectsCycle(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)
	ctx := context.Background()

	a := createCategory(t, db, s, "a", nil, 0)
	b := createCategory(t, db, s, "b", &a.ID, 0)
	c := createCategory(t, db, s, "c", &b.ID, 0)

	a.ParentID = &c.ID
	_, err := s.Update(ctx, a)
	assert.ErrorIs(t, err, ErrCategoryCycle)

	a.ParentID = &a.ID
	_, err = s.Update(ctx, a)
	assert.ErrorIs(t, err, ErrCategoryCycle)

	c.ParentID = nil
	c.Name = "c moved"
	updated, err := s.Update(ctx, c)
	require.NoError(t, err)
	assert.Nil(t, updated.ParentID)
	assert.Equal(t, "c moved", updated.Name)
}

func TestCategoryStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)

	_, err := s.Update(context.Background(), &models.Category{ID: uuid.New(), Name: "x", Slug: unique("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryStoreTreeAndOptions(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)
	ctx := context.Background()

	tech := createCategory(t, db, s, "Tech", nil, 0)
	ai := createCategory(t, db, s, "AI", &tech.ID, 0)

	trees, err := s.Tree(ctx)
	require.NoError(t, err)
	node := tree.Find(trees, ai.ID)
	require.NotNil(t, node)
	assert.Equal(t, 1, node.Depth)

	opts, err := s.Options(ctx, uuid.Nil)
	require.NoError(t, err)
	var label string
	for _, o := range opts {
		if o.ID == ai.ID {
			label = o.Label
		}
	}
	assert.Equal(t, "— AI", label)

	opts, err = s.Options(ctx, tech.ID)
	require.NoError(t, err)
	for _, o := range opts {
		assert.NotEqual(t, ai.ID, o.ID, "excluded subtree must not be offered")
		assert.NotEqual(t, tech.ID, o.ID)
	}
}

func TestCategoryStoreListFilters(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)

	parent := createCategory(t, db, s, "listparent", nil, 0)
	createCategory(t, db, s, "kid1", &parent.ID, 0)
	createCategory(t, db, s, "kid2", &parent.ID, 1)

	state := listquery.New(&CategoryList).SetFilter("parent_id", parent.ID.String()).SetPageSize(1)
	page, err := s.List(context.Background(), state.Query())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 0, page.Items[0].SortOrder)
}

func TestCategoryStoreReorder(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)
	ctx := context.Background()

	a := createCategory(t, db, s, "ra", nil, 0)
	b := createCategory(t, db, s, "rb", nil, 1)

	require.NoError(t, s.Reorder(ctx, []tree.Move{{ID: b.ID, ParentID: &a.ID, Order: 3}}))
	moved, err := s.FindByID(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, a.ID, *moved.ParentID)
	assert.Equal(t, 3, moved.SortOrder)

	err = s.Reorder(ctx, []tree.Move{{ID: a.ID, ParentID: &b.ID}})
	assert.ErrorIs(t, err, tree.ErrCycle)

	err = s.Reorder(ctx, []tree.Move{{ID: uuid.New()}})
	assert.ErrorIs(t, err, tree.ErrUnknown)
}

func TestCategoryStoreDeleteReparents(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)
	ctx := context.Background()

	top := createCategory(t, db, s, "top", nil, 0)
	mid := createCategory(t, db, s, "mid", &top.ID, 0)
	leaf := createCategory(t, db, s, "leaf", &mid.ID, 0)

	require.NoError(t, s.Delete(ctx, mid.ID))

	gone, err := s.FindByID(ctx, mid.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	moved, err := s.FindByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, moved.ParentID)
	assert.Equal(t, top.ID, *moved.ParentID)

	assert.ErrorIs(t, s.Delete(ctx, mid.ID), ErrNotFound)
}

func TestCategoryStoreDeleteBlocked(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteBlock)
	ctx := context.Background()

	parent := createCategory(t, db, s, "blocked", nil, 0)
	child := createCategory(t, db, s, "blockedkid", &parent.ID, 0)

	assert.ErrorIs(t, s.Delete(ctx, parent.ID), ErrCategoryHasChildren)

	n, err := s.BatchDelete(ctx, []uuid.UUID{parent.ID, child.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCategoryStoreDeleteClearsPosts(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db, tree.DeleteReparent)
	posts := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	c := createCategory(t, db, s, "withposts", nil, 0)
	p, err := posts.Create(ctx, &models.Post{Title: "In category", Slug: unique("in-category"), CategoryID: &c.ID, AuthorID: author.ID})
	require.NoError(t, err)

	all, err := s.All(ctx)
	require.NoError(t, err)
	for _, x := range all {
		if x.ID == c.ID {
			assert.Equal(t, 1, x.PostCount)
		}
	}

	require.NoError(t, s.Delete(ctx, c.ID))
	after, err := posts.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Nil(t, after.CategoryID)
}
