// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"pressdesk/internal/listquery"
)

const defaultLimit = 20

// listMapping maps the filter and sort names of a list screen onto SQL for
// one table.
type listMapping struct {
	name     string
	query    string            // SELECT ... FROM ... (joins allowed)
	count    string            // SELECT COUNT(*) FROM ...
	groupBy  string            // optional, placed between WHERE and ORDER BY
	columns  map[string]string // filter/sort name -> SQL expression
	search   []string          // expressions matched with ILIKE
	tiebreak string            // appended to every ORDER BY
}

// args collects positional parameters.
type args []any

func (a *args) add(v any) string {
	*a = append(*a, v)
	return "$" + strconv.Itoa(len(*a))
}

// escapeLike escapes LIKE wildcards so search terms match literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// where builds the WHERE clause for q plus any fixed conditions.
func (ls listMapping) where(q listquery.Query, a *args, fixed ...string) (string, error) {
	conds := append([]string(nil), fixed...)

	if s := strings.TrimSpace(q.Search); s != "" && len(ls.search) > 0 {
		p := a.add("%" + escapeLike(s) + "%")
		parts := make([]string, len(ls.search))
		for i, col := range ls.search {
			parts[i] = col + " ILIKE " + p
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}

	for _, f := range q.Filters {
		col, ok := ls.columns[f.Field]
		if !ok {
			return "", fmt.Errorf("%s: unknown filter %q", ls.name, f.Field)
		}
		if f.Op != listquery.OpEq {
			return "", fmt.Errorf("%s: unsupported filter op %q", ls.name, f.Op)
		}
		conds = append(conds, col+" = "+a.add(f.Value))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), nil
}

// orderBy builds the ORDER BY clause. The tiebreak keeps pages stable when
// the sort column has duplicates.
func (ls listMapping) orderBy(q listquery.Query) (string, error) {
	col, ok := ls.columns[q.SortBy]
	if !ok {
		return "", fmt.Errorf("%s: unknown sort %q", ls.name, q.SortBy)
	}
	dir := "ASC"
	if q.SortOrder == listquery.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", " + ls.tiebreak, nil
}

// runList counts and fetches one page for q.
func runList[T any](ctx context.Context, db querier, ls listMapping, q listquery.Query, scan func(rowScanner) (T, error), fixed ...string) (listquery.Page[T], error) {
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var a args
	where, err := ls.where(q, &a, fixed...)
	if err != nil {
		return listquery.Page[T]{}, err
	}
	order, err := ls.orderBy(q)
	if err != nil {
		return listquery.Page[T]{}, err
	}

	var total int
	if err := db.QueryRowContext(ctx, ls.count+where, a...).Scan(&total); err != nil {
		return listquery.Page[T]{}, fmt.Errorf("count %s: %w", ls.name, err)
	}

	limit, offset := a.add(q.Limit), a.add(q.Offset)
	rows, err := db.QueryContext(ctx, ls.query+where+ls.groupBy+order+" LIMIT "+limit+" OFFSET "+offset, a...)
	if err != nil {
		return listquery.Page[T]{}, fmt.Errorf("list %s: %w", ls.name, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return listquery.Page[T]{}, fmt.Errorf("scan %s: %w", ls.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return listquery.Page[T]{}, fmt.Errorf("list %s: %w", ls.name, err)
	}
	return listquery.NewPage(items, total, q), nil
}
