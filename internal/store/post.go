// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
	"pressdesk/internal/sanitize"
	"pressdesk/internal/slug"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db, now: time.Now}
}

const postColumns = `id, title, slug, content, excerpt, cover_image, status,
	meta_title, meta_description, keywords, featured,
	published_at, scheduled_at, view_count, reading_time,
	category_id, author_id, created_at, updated_at`

var postListMapping = listMapping{
	name:  "posts",
	query: `SELECT ` + postColumns + ` FROM posts`,
	count: `SELECT COUNT(*) FROM posts`,
	columns: map[string]string{
		"status":       "status",
		"category_id":  "category_id",
		"author_id":    "author_id",
		"featured":     "featured",
		"title":        "title",
		"created_at":   "created_at",
		"updated_at":   "updated_at",
		"published_at": "published_at",
		"view_count":   "view_count",
	},
	search:   []string{"title", "slug", "excerpt", "keywords"},
	tiebreak: "id",
}

const publishedCondition = `status = 'PUBLISHED' AND published_at <= NOW()`

func scanPost(scanner rowScanner) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.CoverImage, &p.Status,
		&p.MetaTitle, &p.MetaDescription, &p.Keywords, &p.Featured,
		&p.PublishedAt, &p.ScheduledAt, &p.ViewCount, &p.ReadingTime,
		&p.CategoryID, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPostValue(scanner rowScanner) (models.Post, error) {
	p, err := scanPost(scanner)
	if err != nil {
		return models.Post{}, err
	}
	return *p, nil
}

// preparePost normalises a post before it is written: the body is
// sanitized, the slug derived when empty, the reading time recomputed and
// the first publish stamped.
func preparePost(p *models.Post, now time.Time) {
	p.Title = strings.TrimSpace(p.Title)
	p.Content = sanitize.HTML(p.Content)
	if p.Excerpt != nil {
		e := sanitize.Text(*p.Excerpt)
		p.Excerpt = &e
	}
	if strings.TrimSpace(p.Slug) == "" {
		p.Slug = slug.Generate(p.Title)
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	p.ReadingTime = sanitize.ReadingMinutes(p.Content)
	p.StampPublished(now)
}

// List returns one page of posts for the admin table.
func (s *PostStore) List(ctx context.Context, q listquery.Query) (listquery.Page[models.Post], error) {
	return runList(ctx, s.db, postListMapping, q, scanPostValue)
}

// ListPublished returns one page of posts visible on the blog.
func (s *PostStore) ListPublished(ctx context.Context, q listquery.Query) (listquery.Page[models.Post], error) {
	return runList(ctx, s.db, postListMapping, q, scanPostValue, publishedCondition)
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a post by slug in any status. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug = $1`, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by its slug. Used by the
// public blog API.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND `+publishedCondition, slug))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published post: %w", err)
	}
	return p, nil
}

// Create inserts a new post and returns it with the generated ID.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	preparePost(p, s.now())

	result, err := scanPost(s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, content, excerpt, cover_image, status,
		                   meta_title, meta_description, keywords, featured,
		                   published_at, scheduled_at, reading_time, category_id, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage, p.Status,
		p.MetaTitle, p.MetaDescription, p.Keywords, p.Featured,
		p.PublishedAt, p.ScheduledAt, p.ReadingTime, p.CategoryID, p.AuthorID,
	))
	if err != nil {
		return nil, fmt.Errorf("create post: %w", mapWriteError(err, ErrSlugTaken))
	}
	return result, nil
}

// Update modifies an existing post. An existing published_at is never
// replaced, so the first publish date survives unpublish and republish.
func (s *PostStore) Update(ctx context.Context, p *models.Post) (*models.Post, error) {
	preparePost(p, s.now())

	result, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, content = $3, excerpt = $4, cover_image = $5,
			status = $6, meta_title = $7, meta_description = $8, keywords = $9,
			featured = $10, published_at = COALESCE(published_at, $11),
			scheduled_at = $12, reading_time = $13, category_id = $14,
			updated_at = NOW()
		WHERE id = $15
		RETURNING `+postColumns,
		p.Title, p.Slug, p.Content, p.Excerpt, p.CoverImage,
		p.Status, p.MetaTitle, p.MetaDescription, p.Keywords,
		p.Featured, p.PublishedAt,
		p.ScheduledAt, p.ReadingTime, p.CategoryID,
		p.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", mapWriteError(err, ErrSlugTaken))
	}
	return result, nil
}

// SetStatus changes only the status of a post, stamping published_at on
// the first publish.
func (s *PostStore) SetStatus(ctx context.Context, id uuid.UUID, status models.PostStatus) (*models.Post, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("set post status: unknown status %q", status)
	}
	result, err := scanPost(s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			status = $1,
			published_at = CASE WHEN $1 = 'PUBLISHED' AND published_at IS NULL THEN $2 ELSE published_at END,
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+postColumns,
		status, s.now(), id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set post status: %w", err)
	}
	return result, nil
}

// PublishDue publishes every scheduled post whose time has come and
// returns how many changed.
func (s *PostStore) PublishDue(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			status = 'PUBLISHED',
			published_at = COALESCE(published_at, scheduled_at),
			updated_at = NOW()
		WHERE status = 'SCHEDULED' AND scheduled_at IS NOT NULL AND scheduled_at <= $1
	`, s.now())
	if err != nil {
		return 0, fmt.Errorf("publish scheduled posts: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// IncrementViews adds one to a post's view counter.
func (s *PostStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return affected(res)
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return affected(res)
}

// BatchDelete removes the given posts and returns how many existed.
func (s *PostStore) BatchDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ANY($1::uuid[])`, idStrings(ids))
	if err != nil {
		return 0, fmt.Errorf("batch delete posts: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// AuthorsOf returns the author of each given post. Posts that do not
// exist are absent from the map.
func (s *PostStore) AuthorsOf(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]uuid.UUID, error) {
	out := make(map[uuid.UUID]uuid.UUID, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, author_id FROM posts WHERE id = ANY($1::uuid[])`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("post authors: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var id, author uuid.UUID
		if err := rows.Scan(&id, &author); err != nil {
			return nil, fmt.Errorf("scan post author: %w", err)
		}
		out[id] = author
	}
	return out, rows.Err()
}
