// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package tree projects the flat categories table into a nested tree and
// back into indented select options. The table stays the system of record;
// every function here is a pure read-side view over a slice of categories.
package tree

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"pressdesk/internal/models"
)

// IndentMarker prefixes option labels once per level of depth.
const IndentMarker = "—"

// Tree is a category with its ordered children attached.
type Tree struct {
	models.Category
	Depth    int     `json:"depth"`
	Children []*Tree `json:"children,omitempty"`
}

// Option is one entry of a "choose a parent" dropdown.
type Option struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
	Depth int       `json:"depth"`
}

// Build groups categories by parent and returns the root nodes with their
// descendants attached, siblings sorted by SortOrder, then CreatedAt, then ID.
//
// A category whose parent is missing from the list is treated as a root.
// Parent chains that loop are cut where the walk would revisit a node, so
// every ID appears exactly once in the result.
func Build(cats []models.Category) []*Tree {
	idx := make(map[uuid.UUID]int, len(cats))
	for i, c := range cats {
		if _, dup := idx[c.ID]; !dup {
			idx[c.ID] = i
		}
	}

	children := make(map[uuid.UUID][]int)
	var roots []int
	for i, c := range cats {
		if idx[c.ID] != i {
			continue
		}
		if isRoot(c, idx) {
			roots = append(roots, i)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], i)
	}

	less := func(a, b int) int { return compareSiblings(&cats[a], &cats[b]) }
	slices.SortStableFunc(roots, less)
	for k := range children {
		slices.SortStableFunc(children[k], less)
	}

	visited := make(map[uuid.UUID]bool, len(idx))
	var attach func(i, depth int) *Tree
	attach = func(i, depth int) *Tree {
		c := cats[i]
		visited[c.ID] = true
		node := &Tree{Category: c, Depth: depth}
		for _, ci := range children[c.ID] {
			if visited[cats[ci].ID] {
				continue
			}
			node.Children = append(node.Children, attach(ci, depth+1))
		}
		return node
	}

	result := make([]*Tree, 0, len(roots))
	for _, i := range roots {
		result = append(result, attach(i, 0))
	}

	// Whatever is left is a loop unreachable from any root, or hangs off
	// one. Lift the lowest-sorting member of each loop to the root level;
	// the nodes hanging off it follow as descendants.
	if len(visited) < len(idx) {
		var loops []int
		for id, i := range idx {
			if !visited[id] && onLoop(cats, idx, id) {
				loops = append(loops, i)
			}
		}
		slices.SortStableFunc(loops, less)
		for _, i := range loops {
			if !visited[cats[i].ID] {
				result = append(result, attach(i, 0))
			}
		}
	}
	return result
}

// onLoop reports whether following parents from id leads back to id. It
// is only called for nodes off every root path, whose parents all exist.
func onLoop(cats []models.Category, idx map[uuid.UUID]int, id uuid.UUID) bool {
	seen := make(map[uuid.UUID]bool)
	for cur := id; !seen[cur]; {
		seen[cur] = true
		p := cats[idx[cur]].ParentID
		if p == nil {
			return false
		}
		if *p == id {
			return true
		}
		if _, ok := idx[*p]; !ok {
			return false
		}
		cur = *p
	}
	return false
}

func isRoot(c models.Category, idx map[uuid.UUID]int) bool {
	if c.ParentID == nil || *c.ParentID == c.ID {
		return true
	}
	_, ok := idx[*c.ParentID]
	return !ok
}

func compareSiblings(a, b *models.Category) int {
	if n := cmp.Compare(a.SortOrder, b.SortOrder); n != 0 {
		return n
	}
	if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
		return n
	}
	return strings.Compare(a.ID.String(), b.ID.String())
}

// Flatten walks the trees depth-first and returns one option per node.
func Flatten(trees []*Tree) []Option {
	return FlattenExcept(trees, uuid.Nil)
}

// FlattenExcept is Flatten without the subtree rooted at exclude. The edit
// form uses it so a category cannot be moved under itself.
func FlattenExcept(trees []*Tree, exclude uuid.UUID) []Option {
	var out []Option
	Walk(trees, func(t *Tree) bool {
		if exclude != uuid.Nil && t.ID == exclude {
			return false
		}
		out = append(out, Option{ID: t.ID, Label: Label(t.Name, t.Depth), Depth: t.Depth})
		return true
	})
	return out
}

// Label renders a category name indented for the given depth.
func Label(name string, depth int) string {
	if depth <= 0 {
		return name
	}
	return strings.Repeat(IndentMarker, depth) + " " + name
}

// Walk visits nodes depth-first in sibling order. Returning false from fn
// skips the node's children.
func Walk(trees []*Tree, fn func(*Tree) bool) {
	for _, t := range trees {
		if fn(t) {
			Walk(t.Children, fn)
		}
	}
}

// Find returns the node with the given ID, or nil.
func Find(trees []*Tree, id uuid.UUID) *Tree {
	var found *Tree
	Walk(trees, func(t *Tree) bool {
		if found != nil {
			return false
		}
		if t.ID == id {
			found = t
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the trees.
func Count(trees []*Tree) int {
	n := 0
	Walk(trees, func(*Tree) bool { n++; return true })
	return n
}
