// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package notify delivers short user-facing notices about admin actions
// ("Category deleted", "3 posts removed"). Handlers call a Sink after every
// mutation; the dashboard drains the per-user feed to show toasts.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Kind classifies a notice for display.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

const (
	// DefaultFeedCap is the number of notices kept per user.
	DefaultFeedCap = 50

	// DefaultFeedTTL is how long an idle feed survives in Valkey.
	DefaultFeedTTL = 24 * time.Hour

	feedPrefix = "notify:"
)

// Notice is one entry of a user's feed.
type Notice struct {
	Kind      Kind      `json:"kind"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink receives notices addressed to a user.
type Sink interface {
	Notify(ctx context.Context, userID uuid.UUID, kind Kind, title, message string) error
}

// LogSink writes notices to the structured log.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Notify(ctx context.Context, userID uuid.UUID, kind Kind, title, message string) error {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelInfo
	if kind == KindError {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "notice", "user_id", userID, "kind", kind, "title", title, "message", message)
	return nil
}

// FeedSink stores notices in a capped Valkey list per user, newest first.
type FeedSink struct {
	client *redis.Client
	limit  int64
	ttl    time.Duration
	now    func() time.Time
}

// NewFeedSink creates a feed sink keeping at most limit notices per user.
// Non-positive limit or ttl use the defaults.
func NewFeedSink(client *redis.Client, limit int, ttl time.Duration) *FeedSink {
	if limit <= 0 {
		limit = DefaultFeedCap
	}
	if ttl <= 0 {
		ttl = DefaultFeedTTL
	}
	return &FeedSink{client: client, limit: int64(limit), ttl: ttl, now: time.Now}
}

func feedKey(userID uuid.UUID) string {
	return feedPrefix + userID.String()
}

func (s *FeedSink) Notify(ctx context.Context, userID uuid.UUID, kind Kind, title, message string) error {
	payload, err := json.Marshal(Notice{Kind: kind, Title: title, Message: message, CreatedAt: s.now()})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	key := feedKey(userID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, s.limit-1)
	pipe.Expire(ctx, key, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push notice: %w", err)
	}
	return nil
}

// List returns the user's notices, newest first, without removing them.
func (s *FeedSink) List(ctx context.Context, userID uuid.UUID) ([]Notice, error) {
	raw, err := s.client.LRange(ctx, feedKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list notices: %w", err)
	}
	return decode(raw), nil
}

// Drain returns the user's notices, newest first, and clears the feed.
func (s *FeedSink) Drain(ctx context.Context, userID uuid.UUID) ([]Notice, error) {
	key := feedKey(userID)
	pipe := s.client.TxPipeline()
	rng := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("drain notices: %w", err)
	}
	return decode(rng.Val()), nil
}

// decode skips entries that fail to parse.
func decode(raw []string) []Notice {
	out := make([]Notice, 0, len(raw))
	for _, r := range raw {
		var n Notice
		if err := json.Unmarshal([]byte(r), &n); err != nil {
			slog.Warn("skip malformed notice", "error", err)
			continue
		}
		out = append(out, n)
	}
	return out
}

// Multi fans a notice out to several sinks. Every sink is tried; the
// errors are joined.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, userID uuid.UUID, kind Kind, title, message string) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, userID, kind, title, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every notice.
type Discard struct{}

func (Discard) Notify(context.Context, uuid.UUID, Kind, string, string) error { return nil }
