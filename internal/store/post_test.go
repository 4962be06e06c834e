// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
)

func TestPreparePost(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	excerpt := "<b>Short</b> &amp; sweet"
	p := &models.Post{
		Title:   "  Hello, World! 2024 ",
		Content: `<p>hello</p><script>alert(1)</script><p onclick="x()">` + strings.Repeat("word ", 250) + `</p>`,
		Excerpt: &excerpt,
		Status:  models.PostStatusPublished,
	}

	preparePost(p, now)

	assert.Equal(t, "Hello, World! 2024", p.Title)
	assert.Equal(t, "hello-world-2024", p.Slug)
	assert.NotContains(t, p.Content, "<script")
	assert.NotContains(t, p.Content, "onclick")
	assert.Equal(t, "Short &amp; sweet", *p.Excerpt)
	assert.Equal(t, 2, p.ReadingTime)
	require.NotNil(t, p.PublishedAt)
	assert.True(t, p.PublishedAt.Equal(now))
}

func TestPreparePostKeepsManualSlugAndDraft(t *testing.T) {
	p := &models.Post{Title: "Title", Slug: "custom-slug"}
	preparePost(p, time.Now())

	assert.Equal(t, "custom-slug", p.Slug)
	assert.Equal(t, models.PostStatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, 0, p.ReadingTime)
}

func TestPostStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	p, err := s.Create(ctx, &models.Post{
		Title: "Store post", Slug: unique("store-post"), Content: "<p>one two three</p>", AuthorID: author.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusDraft, p.Status)
	assert.Nil(t, p.PublishedAt)
	assert.Equal(t, 1, p.ReadingTime)

	found, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.Slug, found.Slug)

	found.Title = "Store post edited"
	found.Status = models.PostStatusPublished
	updated, err := s.Update(ctx, found)
	require.NoError(t, err)
	assert.Equal(t, "Store post edited", updated.Title)
	require.NotNil(t, updated.PublishedAt)
	firstPublish := *updated.PublishedAt

	// Unpublish and republish keeps the original date.
	_, err = s.SetStatus(ctx, p.ID, models.PostStatusDraft)
	require.NoError(t, err)
	again, err := s.SetStatus(ctx, p.ID, models.PostStatusPublished)
	require.NoError(t, err)
	require.NotNil(t, again.PublishedAt)
	assert.True(t, again.PublishedAt.Equal(firstPublish))

	require.NoError(t, s.IncrementViews(ctx, p.ID))
	require.NoError(t, s.IncrementViews(ctx, p.ID))
	viewed, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), viewed.ViewCount)

	require.NoError(t, s.Delete(ctx, p.ID))
	assert.ErrorIs(t, s.Delete(ctx, p.ID), ErrNotFound)
	assert.ErrorIs(t, s.IncrementViews(ctx, p.ID), ErrNotFound)
}

func TestPostStoreDuplicateSlug(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	slug := unique("dupe-post")
	_, err := s.Create(ctx, &models.Post{Title: "A", Slug: slug, AuthorID: author.ID})
	require.NoError(t, err)
	_, err = s.Create(ctx, &models.Post{Title: "B", Slug: slug, AuthorID: author.ID})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestPostStorePublishedQueries(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	draft, err := s.Create(ctx, &models.Post{Title: "Hidden", Slug: unique("hidden"), AuthorID: author.ID})
	require.NoError(t, err)
	live, err := s.Create(ctx, &models.Post{Title: "Live", Slug: unique("live"), Status: models.PostStatusPublished, AuthorID: author.ID})
	require.NoError(t, err)

	got, err := s.FindPublishedBySlug(ctx, draft.Slug)
	require.NoError(t, err)
	assert.Nil(t, got, "drafts are not public")

	got, err = s.FindPublishedBySlug(ctx, live.Slug)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, live.ID, got.ID)

	state := listquery.New(&PublicPostList).SetSearch(live.Slug)
	page, err := s.ListPublished(ctx, state.Query())
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, live.ID, page.Items[0].ID)
}

func TestPostStoreListByAuthorAndStatus(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	for i, st := range []models.PostStatus{models.PostStatusDraft, models.PostStatusDraft, models.PostStatusArchived} {
		_, err := s.Create(ctx, &models.Post{Title: "Mine", Slug: unique("mine-" + string(rune('a'+i))), Status: st, AuthorID: author.ID})
		require.NoError(t, err)
	}

	state := listquery.New(&PostList).
		SetFilter("author_id", author.ID.String()).
		SetFilter("status", "draft")
	page, err := s.List(ctx, state.Query())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)
	for _, p := range page.Items {
		assert.Equal(t, author.ID, p.AuthorID)
		assert.Equal(t, models.PostStatusDraft, p.Status)
	}
}

func TestPostStorePublishDue(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	due := time.Now().Add(-time.Minute)
	p, err := s.Create(ctx, &models.Post{
		Title: "Scheduled", Slug: unique("scheduled"), Status: models.PostStatusScheduled,
		ScheduledAt: &due, AuthorID: author.ID,
	})
	require.NoError(t, err)

	n, err := s.PublishDue(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)

	got, err := s.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PostStatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.WithinDuration(t, due, *got.PublishedAt, time.Second)
}

func TestPostStoreBatchDeleteAndAuthors(t *testing.T) {
	db := testDB(t)
	s := NewPostStore(db)
	ctx := context.Background()
	author := testAuthor(t, db)

	var ids []uuid.UUID
	for i := 0; i < 3; i++ {
		p, err := s.Create(ctx, &models.Post{Title: "Batch", Slug: unique("batch"), AuthorID: author.ID})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	owners, err := s.AuthorsOf(ctx, append(ids, uuid.New()))
	require.NoError(t, err)
	assert.Len(t, owners, 3)
	assert.Equal(t, author.ID, owners[ids[0]])

	n, err := s.BatchDelete(ctx, append(ids, uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
