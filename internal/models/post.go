// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post. Any transition
// between statuses is allowed; the admin triggers each one explicitly.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusScheduled PostStatus = "SCHEDULED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// PostStatuses lists every status in display order.
var PostStatuses = []PostStatus{
	PostStatusDraft, PostStatusPublished, PostStatusScheduled, PostStatusArchived,
}

// Valid reports whether s is one of the known post statuses.
func (s PostStatus) Valid() bool {
	for _, v := range PostStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Post is a blog article. Content is rich HTML produced by the editor and
// sanitized before it reaches the store.
type Post struct {
	ID              uuid.UUID  `json:"id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	Excerpt         *string    `json:"excerpt,omitempty"`
	CoverImage      *string    `json:"cover_image,omitempty"`
	Status          PostStatus `json:"status"`
	MetaTitle       *string    `json:"meta_title,omitempty"`
	MetaDescription *string    `json:"meta_description,omitempty"`
	Keywords        *string    `json:"keywords,omitempty"`
	Featured        bool       `json:"featured"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	ViewCount       int64      `json:"view_count"`
	ReadingTime     int        `json:"reading_time"`
	CategoryID      *uuid.UUID `json:"category_id,omitempty"`
	AuthorID        uuid.UUID  `json:"author_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// StampPublished sets PublishedAt to now the first time the post enters
// the published status. An existing timestamp is never overwritten.
func (p *Post) StampPublished(now time.Time) {
	if p.Status == PostStatusPublished && p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
}
