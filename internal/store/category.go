// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"pressdesk/internal/listquery"
	"pressdesk/internal/models"
	"pressdesk/internal/tree"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db     *sql.DB
	policy tree.DeletePolicy
}

// NewCategoryStore returns a new CategoryStore. policy decides what Delete
// does with child categories; an empty policy means tree.DeleteReparent.
func NewCategoryStore(db *sql.DB, policy tree.DeletePolicy) *CategoryStore {
	if policy == "" {
		policy = tree.DeleteReparent
	}
	return &CategoryStore{db: db, policy: policy}
}

// Policy returns the delete policy the store applies.
func (s *CategoryStore) Policy() tree.DeletePolicy { return s.policy }

const categoryColumns = `id, name, slug, description, parent_id, sort_order, created_at, updated_at`

const categoryWithCount = `
	SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.sort_order,
	       c.created_at, c.updated_at,
	       COUNT(p.id) AS post_count
	FROM categories c
	LEFT JOIN posts p ON p.category_id = c.id`

var categoryListMapping = listMapping{
	name:    "categories",
	query:   categoryWithCount,
	count:   `SELECT COUNT(*) FROM categories c`,
	groupBy: ` GROUP BY c.id`,
	columns: map[string]string{
		"parent_id":  "c.parent_id",
		"root":       "(c.parent_id IS NULL)",
		"name":       "c.name",
		"slug":       "c.slug",
		"sort_order": "c.sort_order",
		"created_at": "c.created_at",
		"post_count": "COUNT(p.id)",
	},
	search:   []string{"c.name", "c.slug", "c.description"},
	tiebreak: "c.name, c.id",
}

// scanCategory scans a row into a Category struct.
func scanCategory(scanner rowScanner) (*models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCategoryWithCount(scanner rowScanner) (models.Category, error) {
	var c models.Category
	err := scanner.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
		&c.PostCount,
	)
	return c, err
}

// All returns every category with its post count, in no particular
// hierarchy order. Use Tree for the nested view.
func (s *CategoryStore) All(ctx context.Context) ([]models.Category, error) {
	return allCategories(ctx, s.db)
}

func allCategories(ctx context.Context, q querier) ([]models.Category, error) {
	rows, err := q.QueryContext(ctx, categoryWithCount+`
		GROUP BY c.id
		ORDER BY c.sort_order, c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var items []models.Category
	for rows.Next() {
		c, err := scanCategoryWithCount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// List returns one page of categories for the flat admin table.
func (s *CategoryStore) List(ctx context.Context, q listquery.Query) (listquery.Page[models.Category], error) {
	return runList(ctx, s.db, categoryListMapping, q, scanCategoryWithCount)
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree(ctx context.Context) ([]*tree.Tree, error) {
	flat, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return tree.Build(flat), nil
}

// Options returns the indented parent picker. The subtree rooted at
// exclude is left out; pass uuid.Nil to include everything.
func (s *CategoryStore) Options(ctx context.Context, exclude uuid.UUID) ([]tree.Option, error) {
	trees, err := s.Tree(ctx)
	if err != nil {
		return nil, err
	}
	return tree.FlattenExcept(trees, exclude), nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it. A negative SortOrder
// appends the category after its siblings.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.SortOrder < 0 {
		next, err := s.NextSortOrder(ctx, c.ParentID)
		if err != nil {
			return nil, err
		}
		c.SortOrder = next
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", mapWriteError(err, ErrSlugTaken))
	}
	return result, nil
}

// Update modifies an existing category. Moving a category under itself or
// one of its descendants fails with ErrCategoryCycle.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockCategories(ctx, tx); err != nil {
		return nil, err
	}
	cats, err := allCategories(ctx, tx)
	if err != nil {
		return nil, err
	}
	if !slices.ContainsFunc(cats, func(x models.Category) bool { return x.ID == c.ID }) {
		return nil, ErrNotFound
	}
	if c.ParentID != nil && !slices.ContainsFunc(cats, func(x models.Category) bool { return x.ID == *c.ParentID }) {
		return nil, fmt.Errorf("update category: %w", ErrInvalidReference)
	}
	if tree.WouldCycle(cats, c.ID, c.ParentID) {
		return nil, fmt.Errorf("update category: %w", ErrCategoryCycle)
	}

	row := tx.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.ID,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", mapWriteError(err, ErrSlugTaken))
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category update: %w", err)
	}
	return result, nil
}

// lockCategories serializes hierarchy changes so two concurrent moves
// cannot each pass the cycle check and together form a loop.
func lockCategories(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, `LOCK TABLE categories IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		return fmt.Errorf("lock categories: %w", err)
	}
	return nil
}

// Delete removes a category, applying the store's delete policy to its
// children. Posts in the category keep existing with no category.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.BatchDelete(ctx, []uuid.UUID{id})
	if errors.Is(err, tree.ErrUnknown) {
		return ErrNotFound
	}
	return err
}

// BatchDelete removes several categories in one transaction and returns
// how many were deleted. Unknown ids are skipped. Deeper categories go
// first, so selecting a parent together with all its children works
// under the block policy too.
func (s *CategoryStore) BatchDelete(ctx context.Context, ids []uuid.UUID) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockCategories(ctx, tx); err != nil {
		return 0, err
	}
	cats, err := allCategories(ctx, tx)
	if err != nil {
		return 0, err
	}

	depth := make(map[uuid.UUID]int, len(ids))
	var targets []uuid.UUID
	for _, id := range ids {
		if _, dup := depth[id]; dup {
			continue
		}
		if !slices.ContainsFunc(cats, func(c models.Category) bool { return c.ID == id }) {
			continue
		}
		depth[id] = len(tree.Ancestors(cats, id))
		targets = append(targets, id)
	}
	if len(ids) == 1 && len(targets) == 0 {
		return 0, tree.ErrUnknown
	}
	slices.SortStableFunc(targets, func(a, b uuid.UUID) int { return cmp.Compare(depth[b], depth[a]) })

	now := time.Now()
	for _, id := range targets {
		plan, err := tree.PlanDelete(cats, id, s.policy)
		if err != nil {
			return 0, fmt.Errorf("delete category %s: %w", id, err)
		}
		if err := applyMoves(ctx, tx, plan.Moves, now); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
			return 0, fmt.Errorf("delete category %s: %w", id, err)
		}
		cats = withoutCategory(cats, plan)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit category delete: %w", err)
	}
	return len(targets), nil
}

// withoutCategory returns cats after plan has been applied.
func withoutCategory(cats []models.Category, plan *tree.DeletePlan) []models.Category {
	moved := make(map[uuid.UUID]tree.Move, len(plan.Moves))
	for _, m := range plan.Moves {
		moved[m.ID] = m
	}
	out := cats[:0:0]
	for _, c := range cats {
		if c.ID == plan.Target {
			continue
		}
		if m, ok := moved[c.ID]; ok {
			c.ParentID, c.SortOrder = m.ParentID, m.Order
		}
		out = append(out, c)
	}
	return out
}

func applyMoves(ctx context.Context, tx *sql.Tx, moves []tree.Move, now time.Time) error {
	if len(moves) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	for _, m := range moves {
		if _, err := stmt.ExecContext(ctx, m.ParentID, m.Order, now, m.ID); err != nil {
			return fmt.Errorf("reorder category %s: %w", m.ID, err)
		}
	}
	return nil
}

// Reorder updates sort_order and parent_id for multiple categories in a
// transaction. The whole batch is rejected if any id is unknown or the
// result would contain a cycle.
func (s *CategoryStore) Reorder(ctx context.Context, moves []tree.Move) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := lockCategories(ctx, tx); err != nil {
		return err
	}
	cats, err := allCategories(ctx, tx)
	if err != nil {
		return err
	}
	if err := tree.CheckMoves(cats, moves); err != nil {
		return err
	}
	if err := applyMoves(ctx, tx, moves, time.Now()); err != nil {
		return err
	}
	return tx.Commit()
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
