// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Counts is the dashboard summary.
type Counts struct {
	Categories        int            `json:"categories"`
	Posts             int            `json:"posts"`
	PostsByStatus     map[string]int `json:"posts_by_status"`
	Users             int            `json:"users"`
	Customers         int            `json:"customers"`
	CustomersByStatus map[string]int `json:"customers_by_status"`
}

// StatsStore computes dashboard counters.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore returns a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Counts returns row counts for every entity, with posts and customers
// broken down by status.
func (s *StatsStore) Counts(ctx context.Context) (*Counts, error) {
	c := &Counts{}
	err := s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM categories),
		       (SELECT COUNT(*) FROM users)
	`).Scan(&c.Categories, &c.Users)
	if err != nil {
		return nil, fmt.Errorf("count entities: %w", err)
	}

	if c.PostsByStatus, c.Posts, err = s.grouped(ctx, `SELECT status, COUNT(*) FROM posts GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if c.CustomersByStatus, c.Customers, err = s.grouped(ctx, `SELECT status, COUNT(*) FROM customers GROUP BY status`); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	return c, nil
}

func (s *StatsStore) grouped(ctx context.Context, query string) (map[string]int, int, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := map[string]int{}
	total := 0
	for rows.Next() {
		var k string
		var n int
		if err := rows.Scan(&k, &n); err != nil {
			return nil, 0, err
		}
		out[k] = n
		total += n
	}
	return out, total, rows.Err()
}
