// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package tree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"pressdesk/internal/models"
)

var (
	// ErrCycle is returned when a parent assignment would make a category
	// its own ancestor.
	ErrCycle = errors.New("category cannot be its own ancestor")

	// ErrHasChildren is returned by the block delete policy.
	ErrHasChildren = errors.New("category has child categories")

	// ErrUnknown is returned when a referenced category is not in the list.
	ErrUnknown = errors.New("category not found")
)

// parents maps each category ID to its parent ID (nil for roots).
func parents(cats []models.Category) map[uuid.UUID]*uuid.UUID {
	m := make(map[uuid.UUID]*uuid.UUID, len(cats))
	for _, c := range cats {
		if _, ok := m[c.ID]; !ok {
			m[c.ID] = c.ParentID
		}
	}
	return m
}

// Ancestors returns the parent chain of id, nearest first. The walk stops
// at a root, a missing parent, or the first repeated node.
func Ancestors(cats []models.Category, id uuid.UUID) []uuid.UUID {
	return ancestors(parents(cats), id)
}

func ancestors(pm map[uuid.UUID]*uuid.UUID, id uuid.UUID) []uuid.UUID {
	var chain []uuid.UUID
	seen := map[uuid.UUID]bool{id: true}
	p := pm[id]
	for p != nil {
		if seen[*p] {
			break
		}
		if _, ok := pm[*p]; !ok {
			break
		}
		seen[*p] = true
		chain = append(chain, *p)
		p = pm[*p]
	}
	return chain
}

// WouldCycle reports whether giving id the parent newParent would make id
// its own ancestor.
func WouldCycle(cats []models.Category, id uuid.UUID, newParent *uuid.UUID) bool {
	if newParent == nil {
		return false
	}
	if *newParent == id {
		return true
	}
	pm := parents(cats)
	return slices.Contains(ancestors(pm, *newParent), id)
}

// Move assigns a category a new parent and sibling position.
type Move struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

// CheckMoves applies the moves to a copy of the hierarchy and verifies the
// result has no unknown references and no cycles.
func CheckMoves(cats []models.Category, moves []Move) error {
	pm := parents(cats)
	for _, m := range moves {
		if _, ok := pm[m.ID]; !ok {
			return fmt.Errorf("move %s: %w", m.ID, ErrUnknown)
		}
		if m.ParentID != nil {
			if _, ok := pm[*m.ParentID]; !ok {
				return fmt.Errorf("move %s under %s: %w", m.ID, *m.ParentID, ErrUnknown)
			}
		}
		pm[m.ID] = m.ParentID
	}
	for id := range pm {
		if chainLoops(pm, id) {
			return fmt.Errorf("move %s: %w", id, ErrCycle)
		}
	}
	return nil
}

// chainLoops reports whether following parents from id ever returns to id.
func chainLoops(pm map[uuid.UUID]*uuid.UUID, id uuid.UUID) bool {
	seen := map[uuid.UUID]bool{}
	cur := pm[id]
	for cur != nil {
		if *cur == id {
			return true
		}
		if seen[*cur] {
			return false
		}
		seen[*cur] = true
		cur = pm[*cur]
	}
	return false
}

// DeletePolicy decides what happens to the children of a deleted category.
// Posts in a deleted category always lose their category reference.
type DeletePolicy string

const (
	// DeleteReparent moves children up to the deleted category's parent.
	DeleteReparent DeletePolicy = "reparent"
	// DeleteBlock refuses to delete a category that has children.
	DeleteBlock DeletePolicy = "block"
)

// ParsePolicy validates a policy name. An empty name means DeleteReparent.
func ParsePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "", DeleteReparent:
		return DeleteReparent, nil
	case DeleteBlock:
		return DeleteBlock, nil
	}
	return "", fmt.Errorf("unknown category delete policy %q", s)
}

// DeletePlan lists the parent updates to apply before removing Target.
type DeletePlan struct {
	Target uuid.UUID
	Moves  []Move
}

// PlanDelete computes how to delete id under the given policy. With
// DeleteReparent the children keep their relative order and are appended
// after the deleted category's existing siblings.
func PlanDelete(cats []models.Category, id uuid.UUID, policy DeletePolicy) (*DeletePlan, error) {
	var target *models.Category
	var kids []models.Category
	for i := range cats {
		c := &cats[i]
		if c.ID == id && target == nil {
			target = c
		}
		if c.ParentID != nil && *c.ParentID == id && c.ID != id {
			kids = append(kids, *c)
		}
	}
	if target == nil {
		return nil, ErrUnknown
	}

	plan := &DeletePlan{Target: id}
	if len(kids) == 0 {
		return plan, nil
	}
	if policy == DeleteBlock {
		return nil, ErrHasChildren
	}

	slices.SortStableFunc(kids, func(a, b models.Category) int { return compareSiblings(&a, &b) })

	next := 0
	for _, c := range cats {
		if c.ID == id || !sameParent(c.ParentID, target.ParentID) {
			continue
		}
		if c.SortOrder >= next {
			next = c.SortOrder + 1
		}
	}
	for i, k := range kids {
		plan.Moves = append(plan.Moves, Move{ID: k.ID, ParentID: target.ParentID, Order: next + i})
	}
	return plan, nil
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
