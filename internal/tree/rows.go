// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import "github.com/google/uuid"

// Row is one visible line of the category management table.
type Row struct {
	ID          uuid.UUID  `json:"id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Depth       int        `json:"depth"`
	SortOrder   int        `json:"sort_order"`
	PostCount   int        `json:"post_count"`
	HasChildren bool       `json:"has_children"`
	Expanded    bool       `json:"expanded"`
}

// Expansion decides whether a node shows its children.
type Expansion func(id uuid.UUID) bool

// ExpandAll shows every node's children.
func ExpandAll(uuid.UUID) bool { return true }

// ExpandOnly expands exactly the given IDs.
func ExpandOnly(ids ...uuid.UUID) Expansion {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return func(id uuid.UUID) bool {
		_, ok := set[id]
		return ok
	}
}

// Rows renders the trees into table rows. A node's own row is always
// emitted; its children follow only if the node is expanded.
func Rows(trees []*Tree, expanded Expansion) []Row {
	if expanded == nil {
		expanded = ExpandOnly()
	}
	var out []Row
	Walk(trees, func(t *Tree) bool {
		open := len(t.Children) > 0 && expanded(t.ID)
		out = append(out, Row{
			ID:          t.ID,
			ParentID:    t.ParentID,
			Name:        t.Name,
			Slug:        t.Slug,
			Depth:       t.Depth,
			SortOrder:   t.SortOrder,
			PostCount:   t.PostCount,
			HasChildren: len(t.Children) > 0,
			Expanded:    open,
		})
		return open
	})
	return out
}
